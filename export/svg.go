package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"math"
	"strconv"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/scene"
)

func encodeSVG(sc *scene.Scene, size Dimensions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %s %s">`+"\n",
		size.Width, size.Height, num(sc.Width), num(sc.Height))

	for _, p := range sc.Primitives {
		if p.Path.Empty() {
			continue
		}
		buf.WriteString(`<path d="`)
		pathData(&buf, p.Path)
		buf.WriteByte('"')
		if p.Fill != nil {
			fmt.Fprintf(&buf, ` fill="%s"`, p.Fill.Hex())
			if a := p.Alpha(); a < 1 {
				fmt.Fprintf(&buf, ` fill-opacity="%s"`, num(a))
			}
			if p.Rule == scene.EvenOdd {
				buf.WriteString(` fill-rule="evenodd"`)
			}
		} else {
			buf.WriteString(` fill="none"`)
		}
		if s := p.Stroke; s != nil && s.Width > 0 {
			fmt.Fprintf(&buf, ` stroke="%s" stroke-width="%s"`, s.Color.Hex(), num(s.Width))
			if s.Color.A < 1 {
				fmt.Fprintf(&buf, ` stroke-opacity="%s"`, num(s.Color.A))
			}
		}
		buf.WriteString("/>\n")
	}

	if l := sc.Logo; l != nil && l.Image.Valid() {
		href, err := dataURL(l.Image)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" href="%s"/>`+"\n",
			num(l.Bounds.Min.X), num(l.Bounds.Min.Y), num(l.Bounds.Dx()), num(l.Bounds.Dy()), href)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func pathData(buf *bytes.Buffer, path scene.Path) {
	for i, seg := range path.Segments {
		if i > 0 {
			buf.WriteByte(' ')
		}
		pts := seg.Pts
		switch seg.Op {
		case scene.OpMove:
			fmt.Fprintf(buf, "M%s %s", num(pts[0].X), num(pts[0].Y))
		case scene.OpLine:
			fmt.Fprintf(buf, "L%s %s", num(pts[0].X), num(pts[0].Y))
		case scene.OpQuad:
			fmt.Fprintf(buf, "Q%s %s %s %s", num(pts[0].X), num(pts[0].Y), num(pts[1].X), num(pts[1].Y))
		case scene.OpCubic:
			fmt.Fprintf(buf, "C%s %s %s %s %s %s",
				num(pts[0].X), num(pts[0].Y), num(pts[1].X), num(pts[1].Y), num(pts[2].X), num(pts[2].Y))
		case scene.OpClose:
			buf.WriteByte('Z')
		}
	}
}

// num formats v with at most three decimals.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dataURL(img qrstyle.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.NRGBA()); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
