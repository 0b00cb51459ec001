package export

import (
	"bytes"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/ericlevine/qrstyle/scene"
)

func encodePNG(sc *scene.Scene, size Dimensions) ([]byte, error) {
	dc := gg.NewContext(size.Width, size.Height)
	s, dx, dy := fit(sc, size)
	dc.Translate(dx, dy)
	dc.Scale(s, s)

	for _, p := range sc.Primitives {
		tracePath(dc, p.Path)
		if p.Fill != nil {
			if p.Rule == scene.EvenOdd {
				dc.SetFillRule(gg.FillRuleEvenOdd)
			} else {
				dc.SetFillRule(gg.FillRuleWinding)
			}
			dc.SetRGBA(p.Fill.R, p.Fill.G, p.Fill.B, p.Alpha())
			dc.FillPreserve()
		}
		if p.Stroke != nil && p.Stroke.Width > 0 {
			c := p.Stroke.Color
			dc.SetRGBA(c.R, c.G, c.B, c.A)
			// Line widths are not transformed by the context matrix.
			dc.SetLineWidth(p.Stroke.Width * s)
			dc.StrokePreserve()
		}
		dc.ClearPath()
	}

	if l := sc.Logo; l != nil && l.Image.Valid() {
		x0 := int(math.Round(dx + l.Bounds.Min.X*s))
		y0 := int(math.Round(dy + l.Bounds.Min.Y*s))
		x1 := int(math.Round(dx + l.Bounds.Max.X*s))
		y1 := int(math.Round(dy + l.Bounds.Max.Y*s))
		if x1 > x0 && y1 > y0 {
			scaled := image.NewNRGBA(image.Rect(0, 0, x1-x0, y1-y0))
			src := l.Image.NRGBA()
			draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
			dc.Identity()
			dc.DrawImage(scaled, x0, y0)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tracePath(dc *gg.Context, path scene.Path) {
	for _, seg := range path.Segments {
		pts := seg.Pts
		switch seg.Op {
		case scene.OpMove:
			dc.MoveTo(pts[0].X, pts[0].Y)
		case scene.OpLine:
			dc.LineTo(pts[0].X, pts[0].Y)
		case scene.OpQuad:
			dc.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
		case scene.OpCubic:
			dc.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case scene.OpClose:
			dc.ClosePath()
		}
	}
}
