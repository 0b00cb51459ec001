// Package qrcode reads rendered QR symbols back from images.
package qrcode

import (
	"image"
	"math"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/binarizer"
	"github.com/ericlevine/qrstyle/bitutil"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
	"github.com/ericlevine/qrstyle/qrcode/detector"
)

// Reader decodes symbols from flat images such as exported artifacts or
// images pasted in as logos. By default it reads only "pure" symbols:
// upright, unskewed and alone on a light border. It does not correct for
// camera perspective.
type Reader struct {
	// Hybrid selects local thresholding instead of a global histogram.
	Hybrid bool

	// Detect falls back to locating the symbol by its finder patterns when
	// the pure read fails. This finds rotated symbols and symbols set among
	// other artwork.
	Detect bool
}

// DecodeImage binarizes img and decodes the symbol it contains.
func (r Reader) DecodeImage(img image.Image) (*decoder.Result, error) {
	return r.Decode(qrstyle.NewImageLuminanceSource(img))
}

// Decode binarizes src and decodes the symbol it contains.
func (r Reader) Decode(src qrstyle.LuminanceSource) (*decoder.Result, error) {
	var b qrstyle.Binarizer = binarizer.NewGlobalHistogram(src)
	if r.Hybrid {
		b = binarizer.NewHybrid(src)
	}
	matrix, err := b.BlackMatrix()
	if err != nil {
		return nil, err
	}
	res, err := decodePure(matrix)
	if err == nil || !r.Detect {
		return res, err
	}
	found, err := detector.New(matrix).Detect()
	if err != nil {
		return nil, err
	}
	return decoder.Decode(found.Bits)
}

func decodePure(matrix *bitutil.BitMatrix) (*decoder.Result, error) {
	bits, err := extractPureBits(matrix)
	if err != nil {
		return nil, err
	}
	return decoder.Decode(bits)
}

// extractPureBits samples the module grid between the outermost dark pixels.
func extractPureBits(image *bitutil.BitMatrix) (*bitutil.BitMatrix, error) {
	leftTop := image.TopLeftOnBit()
	rightBottom := image.BottomRightOnBit()
	if leftTop == nil || rightBottom == nil {
		return nil, qrstyle.ErrNotFound
	}

	moduleSize, err := moduleSizePure(leftTop, image)
	if err != nil {
		return nil, err
	}

	top, bottom := leftTop[1], rightBottom[1]
	left, right := leftTop[0], rightBottom[0]
	if left >= right || top >= bottom {
		return nil, qrstyle.ErrNotFound
	}
	if bottom-top != right-left {
		right = left + (bottom - top)
		if right >= image.Width() {
			return nil, qrstyle.ErrNotFound
		}
	}

	dim := int(math.Round(float64(right-left+1) / moduleSize))
	if dim <= 0 || dim != int(math.Round(float64(bottom-top+1)/moduleSize)) {
		return nil, qrstyle.ErrNotFound
	}

	// sample module centers
	nudge := int(moduleSize / 2)
	top += nudge
	left += nudge
	if over := left + int(float64(dim-1)*moduleSize) - right; over > 0 {
		if over > nudge {
			return nil, qrstyle.ErrNotFound
		}
		left -= over
	}
	if over := top + int(float64(dim-1)*moduleSize) - bottom; over > 0 {
		if over > nudge {
			return nil, qrstyle.ErrNotFound
		}
		top -= over
	}

	bits := bitutil.NewBitMatrix(dim)
	for y := 0; y < dim; y++ {
		sy := top + int(float64(y)*moduleSize)
		for x := 0; x < dim; x++ {
			if image.Get(left+int(float64(x)*moduleSize), sy) {
				bits.Set(x, y)
			}
		}
	}
	return bits, nil
}

// moduleSizePure walks the diagonal of the top-left finder pattern, which
// crosses five color transitions over seven modules.
func moduleSizePure(leftTop []int, image *bitutil.BitMatrix) (float64, error) {
	x, y := leftTop[0], leftTop[1]
	inBlack := true
	transitions := 0
	for x < image.Width() && y < image.Height() {
		if inBlack != image.Get(x, y) {
			transitions++
			if transitions == 5 {
				break
			}
			inBlack = !inBlack
		}
		x++
		y++
	}
	if x == image.Width() || y == image.Height() {
		return 0, qrstyle.ErrNotFound
	}
	return float64(x-leftTop[0]) / 7, nil
}
