package logo

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"github.com/ericlevine/qrstyle"
)

// Rotate turns img clockwise by quarterTurns × 90°. Negative values turn
// counterclockwise.
func Rotate(img qrstyle.Image, quarterTurns int) qrstyle.Image {
	switch ((quarterTurns % 4) + 4) % 4 {
	case 1:
		return rotated(img, 90)
	case 2:
		return qrstyle.ImageOf(transform.FlipV(transform.FlipH(img.NRGBA())))
	case 3:
		return rotated(img, -90)
	}
	return img.Clone()
}

func rotated(img qrstyle.Image, angle float64) qrstyle.Image {
	out := transform.Rotate(img.NRGBA(), angle, &transform.RotationOptions{ResizeBounds: true})
	if b := out.Bounds(); b.Dx() != img.Height || b.Dy() != img.Width {
		// Trim rounding slack from the resized bounds.
		return Resize(qrstyle.ImageOf(out), img.Height, img.Width)
	}
	return qrstyle.ImageOf(out)
}

// Resize scales img to w×h with Catmull-Rom resampling.
func Resize(img qrstyle.Image, w, h int) qrstyle.Image {
	if w == img.Width && h == img.Height {
		return img.Clone()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img.NRGBA(), image.Rect(0, 0, img.Width, img.Height), draw.Src, nil)
	return qrstyle.ImageOf(dst)
}

// Outline frames img with a stroke of width pixels in c that follows the
// edge of its opaque area. The result is 2×width larger on each axis.
func Outline(img qrstyle.Image, width int, c qrstyle.Color) qrstyle.Image {
	if width <= 0 {
		return img.Clone()
	}
	w, h := img.Width+2*width, img.Height+2*width
	inner := image.Rect(width, width, width+img.Width, width+img.Height)

	// Inverted alpha, padded so the stroke fits: the edge filter responds
	// on the bright side of an edge, which is outside the shape.
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	src := img.NRGBA()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			mask.Pix[(y+width)*mask.Stride+x+width] = 0xff - src.Pix[src.PixOffset(x, y)+3]
		}
	}
	edges := effect.EdgeDetection(mask, float64(width))

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	tint := c.NRGBA()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e := edges.Pix[edges.PixOffset(x, y)]
			if e == 0 {
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = tint.R, tint.G, tint.B
			out.Pix[i+3] = uint8(uint16(e) * uint16(tint.A) / 255)
		}
	}
	draw.Draw(out, inner, src, image.Point{}, draw.Over)
	return qrstyle.ImageOf(out)
}
