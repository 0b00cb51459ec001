package binarizer

import (
	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds each 8x8 block against the average black point of its
// 5x5 block neighborhood. Photographed logos with gradients binarize better
// this way. Images smaller than 40 pixels fall back to GlobalHistogram.
type Hybrid struct {
	source qrstyle.LuminanceSource
}

// NewHybrid returns a Hybrid over source.
func NewHybrid(source qrstyle.LuminanceSource) *Hybrid {
	return &Hybrid{source: source}
}

// LuminanceSource returns the underlying source.
func (h *Hybrid) LuminanceSource() qrstyle.LuminanceSource {
	return h.source
}

// BlackMatrix returns the binarized matrix.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	width, height := h.source.Width(), h.source.Height()
	if width < minimumDimension || height < minimumDimension {
		return NewGlobalHistogram(h.source).BlackMatrix()
	}
	lum := h.source.Matrix()
	subWidth := (width + blockSize - 1) >> blockSizePower
	subHeight := (height + blockSize - 1) >> blockSizePower
	points := blackPoints(lum, subWidth, subHeight, width, height)

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	for by := 0; by < subHeight; by++ {
		yoff := min(by<<blockSizePower, height-blockSize)
		top := clampBlock(by, subHeight-3)
		for bx := 0; bx < subWidth; bx++ {
			xoff := min(bx<<blockSizePower, width-blockSize)
			left := clampBlock(bx, subWidth-3)
			sum := 0
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					sum += points[top+dy][left+dx]
				}
			}
			threshold := sum / 25
			for y := 0; y < blockSize; y++ {
				for x := 0; x < blockSize; x++ {
					if int(lum[(yoff+y)*width+xoff+x]) <= threshold {
						matrix.Set(xoff+x, yoff+y)
					}
				}
			}
		}
	}
	return matrix, nil
}

func clampBlock(v, hi int) int {
	return max(2, min(v, hi))
}

// blackPoints returns the black point of every block. Flat blocks borrow
// from their already computed neighbors so uniform areas stay light.
func blackPoints(lum []byte, subWidth, subHeight, width, height int) [][]int {
	points := make([][]int, subHeight)
	for by := range points {
		points[by] = make([]int, subWidth)
		yoff := min(by<<blockSizePower, height-blockSize)
		for bx := 0; bx < subWidth; bx++ {
			xoff := min(bx<<blockSizePower, width-blockSize)
			sum, lo, hi := 0, 0xFF, 0
			for y := 0; y < blockSize; y++ {
				for x := 0; x < blockSize; x++ {
					p := int(lum[(yoff+y)*width+xoff+x])
					sum += p
					lo, hi = min(lo, p), max(hi, p)
				}
			}
			avg := sum >> (2 * blockSizePower)
			if hi-lo <= minDynamicRange {
				avg = lo / 2
				if by > 0 && bx > 0 {
					neighbors := (points[by-1][bx] + 2*points[by][bx-1] + points[by-1][bx-1]) / 4
					if lo < neighbors {
						avg = neighbors
					}
				}
			}
			points[by][bx] = avg
		}
	}
	return points
}
