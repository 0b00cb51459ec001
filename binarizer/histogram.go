// Package binarizer converts luminance images to black and white module
// matrices.
package binarizer

import (
	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// GlobalHistogram thresholds the whole image at one black point chosen from
// a luminance histogram of its central region. It suits rendered symbols
// with flat, even lighting.
type GlobalHistogram struct {
	source qrstyle.LuminanceSource
}

// NewGlobalHistogram returns a GlobalHistogram over source.
func NewGlobalHistogram(source qrstyle.LuminanceSource) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// LuminanceSource returns the underlying source.
func (g *GlobalHistogram) LuminanceSource() qrstyle.LuminanceSource {
	return g.source
}

// BlackMatrix returns the binarized matrix.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width, height := g.source.Width(), g.source.Height()
	if width < 1 || height < 1 {
		return nil, qrstyle.ErrNotFound
	}

	// sample four rows across the middle three fifths
	var buckets [luminanceBuckets]int
	row := make([]byte, width)
	for i := 1; i < 5; i++ {
		row = g.source.Row(height*i/5, row)
		for x := width / 5; x < width*4/5; x++ {
			buckets[row[x]>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(buckets[:])
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	lum := g.source.Matrix()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if int(lum[y*width+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

// estimateBlackPoint finds the two tallest separated peaks of the histogram
// and returns the deepest valley between them.
func estimateBlackPoint(buckets []int) (int, error) {
	n := len(buckets)
	first, firstSize, maxCount := 0, 0, 0
	for x, c := range buckets {
		if c > firstSize {
			first, firstSize = x, c
		}
		maxCount = max(maxCount, c)
	}

	second, secondScore := 0, 0
	for x, c := range buckets {
		d := x - first
		if score := c * d * d; score > secondScore {
			second, secondScore = x, score
		}
	}
	if first > second {
		first, second = second, first
	}
	if second-first <= n/16 {
		return 0, qrstyle.ErrNotFound
	}

	valley, valleyScore := second-1, -1
	for x := second - 1; x > first; x-- {
		d := x - first
		if score := d * d * (second - x) * (maxCount - buckets[x]); score > valleyScore {
			valley, valleyScore = x, score
		}
	}
	return valley << luminanceShift, nil
}
