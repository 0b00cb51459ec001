package qrstyle

import (
	"image"
	"image/color"
)

// ImageLuminanceSource is a LuminanceSource over a Go image.Image. Pixels are
// composited onto white before conversion, so transparent areas read as light.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource converts img to greyscale luminance values using
// (306*R + 601*G + 117*B + 0x200) >> 10 on 8-bit components.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				luminances[y*w+x] = 0xFF
				continue
			}
			// premultiplied over white
			white := 0xFFFF - a
			r8 := (r + white) >> 8
			g8 := (g + white) >> 8
			b8 := (b + white) >> 8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}

	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if row == nil || len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := y * s.width
	copy(row, s.luminances[offset:offset+s.width])
	return row
}

// Matrix returns the entire luminance matrix.
func (s *ImageLuminanceSource) Matrix() []byte {
	result := make([]byte, len(s.luminances))
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int {
	return s.height
}

// Crop returns the luminances inside r, clipped to the source bounds.
func (s *ImageLuminanceSource) Crop(r image.Rectangle) *ImageLuminanceSource {
	r = r.Intersect(image.Rect(0, 0, s.width, s.height))
	w, h := r.Dx(), r.Dy()
	lum := make([]byte, w*h)
	for y := 0; y < h; y++ {
		src := (r.Min.Y+y)*s.width + r.Min.X
		copy(lum[y*w:], s.luminances[src:src+w])
	}
	return &ImageLuminanceSource{luminances: lum, width: w, height: h}
}

// BitMatrixToImage converts a module matrix to a grayscale image with each
// module drawn as a scale×scale block and a light border of margin modules.
func BitMatrixToImage(matrix interface {
	Width() int
	Height() int
	Get(x, y int) bool
}, scale, margin int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	w := (matrix.Width() + 2*margin) * scale
	h := (matrix.Height() + 2*margin) * scale
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	for y := 0; y < matrix.Height(); y++ {
		for x := 0; x < matrix.Width(); x++ {
			if !matrix.Get(x, y) {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray((x+margin)*scale+dx, (y+margin)*scale+dy, color.Gray{Y: 0})
				}
			}
		}
	}
	return img
}
