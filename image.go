package qrstyle

import (
	"image"
	"image/draw"
)

// Image is a non-premultiplied RGBA pixel buffer. Rows are 4*Width bytes.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage allocates a transparent image.
func NewImage(width, height int) Image {
	return Image{Width: width, Height: height, Pix: make([]byte, 4*width*height)}
}

// ImageOf copies any image.Image into an Image.
func ImageOf(src image.Image) Image {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok {
		// draw.Draw round-trips through premultiplied color and loses
		// precision for translucent pixels.
		m := NewImage(b.Dx(), b.Dy())
		for y := 0; y < m.Height; y++ {
			copy(m.Pix[4*m.Width*y:4*m.Width*(y+1)], n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return m
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return Image{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// Empty reports whether the image has no pixels.
func (m Image) Empty() bool {
	return m.Width <= 0 || m.Height <= 0
}

// Valid reports whether the pixel buffer matches the dimensions.
func (m Image) Valid() bool {
	return !m.Empty() && len(m.Pix) == 4*m.Width*m.Height
}

// NRGBA returns an image.NRGBA sharing the pixel buffer.
func (m Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{Pix: m.Pix, Stride: 4 * m.Width, Rect: image.Rect(0, 0, m.Width, m.Height)}
}

// Aspect returns width / height.
func (m Image) Aspect() float64 {
	if m.Height == 0 {
		return 1
	}
	return float64(m.Width) / float64(m.Height)
}

// Clone returns a deep copy.
func (m Image) Clone() Image {
	pix := make([]byte, len(m.Pix))
	copy(pix, m.Pix)
	return Image{Width: m.Width, Height: m.Height, Pix: pix}
}
