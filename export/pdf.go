package export

import (
	"bytes"
	"image/png"
	"math"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ericlevine/qrstyle/scene"
)

// documentDate is stamped on every PDF so identical scenes produce identical
// bytes.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const logoImageName = "logo"

func encodePDF(sc *scene.Scene, size Dimensions) ([]byte, error) {
	w, h := float64(size.Width), float64(size.Height)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	s, dx, dy := fit(sc, size)
	tx := func(p scene.Point) (float64, float64) {
		return dx + p.X*s, dy + p.Y*s
	}

	for _, p := range sc.Primitives {
		if p.Path.Empty() {
			continue
		}
		fill := p.Fill != nil && p.Alpha() > 0
		stroke := p.Stroke != nil && p.Stroke.Width > 0
		if !fill && !stroke {
			continue
		}
		for _, seg := range p.Path.Segments {
			switch seg.Op {
			case scene.OpMove:
				pdf.MoveTo(tx(seg.Pts[0]))
			case scene.OpLine:
				pdf.LineTo(tx(seg.Pts[0]))
			case scene.OpQuad:
				cx, cy := tx(seg.Pts[0])
				x, y := tx(seg.Pts[1])
				pdf.CurveTo(cx, cy, x, y)
			case scene.OpCubic:
				c0x, c0y := tx(seg.Pts[0])
				c1x, c1y := tx(seg.Pts[1])
				x, y := tx(seg.Pts[2])
				pdf.CurveBezierCubicTo(c0x, c0y, c1x, c1y, x, y)
			case scene.OpClose:
				pdf.ClosePath()
			}
		}

		style := ""
		if fill {
			r, g, b := rgb255(p.Fill.R), rgb255(p.Fill.G), rgb255(p.Fill.B)
			pdf.SetFillColor(r, g, b)
			pdf.SetAlpha(p.Alpha(), "Normal")
			style = "F"
		}
		if stroke {
			c := p.Stroke.Color
			pdf.SetDrawColor(rgb255(c.R), rgb255(c.G), rgb255(c.B))
			pdf.SetLineWidth(p.Stroke.Width * s)
			if !fill {
				pdf.SetAlpha(c.A, "Normal")
			}
			style += "D"
		}
		if fill && p.Rule == scene.EvenOdd {
			style += "*"
		}
		pdf.DrawPath(style)
	}
	pdf.SetAlpha(1, "Normal")

	if l := sc.Logo; l != nil && l.Image.Valid() {
		var img bytes.Buffer
		if err := png.Encode(&img, l.Image.NRGBA()); err != nil {
			return nil, err
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(logoImageName, opts, &img)
		x, y := tx(l.Bounds.Min)
		pdf.ImageOptions(logoImageName, x, y, l.Bounds.Dx()*s, l.Bounds.Dy()*s, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rgb255(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
