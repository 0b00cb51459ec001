package transform

import (
	"fmt"
	"math"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
)

// SampleGrid reads a dimension×dimension module grid from image. p maps
// module space onto pixels, and each module is read at its center.
// Centers up to one pixel outside the image are clamped to the edge.
func SampleGrid(image *bitutil.BitMatrix, dimension int, p Perspective) (*bitutil.BitMatrix, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: grid dimension %d", qrstyle.ErrNotFound, dimension)
	}
	w, h := image.Width(), image.Height()
	bits := bitutil.NewBitMatrix(dimension)
	for y := 0; y < dimension; y++ {
		for x := 0; x < dimension; x++ {
			pt := p.Apply(Point{float64(x) + 0.5, float64(y) + 0.5})
			ix, ok := nudge(pt.X, w)
			if !ok {
				return nil, fmt.Errorf("%w: module (%d,%d) maps outside the image", qrstyle.ErrNotFound, x, y)
			}
			iy, ok := nudge(pt.Y, h)
			if !ok {
				return nil, fmt.Errorf("%w: module (%d,%d) maps outside the image", qrstyle.ErrNotFound, x, y)
			}
			if image.Get(ix, iy) {
				bits.Set(x, y)
			}
		}
	}
	return bits, nil
}

func nudge(v float64, size int) (int, bool) {
	i := int(math.Floor(v))
	switch {
	case i == -1:
		return 0, true
	case i == size:
		return size - 1, true
	case i < -1 || i > size:
		return 0, false
	}
	return i, true
}
