// Package logo loads overlay images and composites them onto rendered
// symbols without breaking scannability.
package logo

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ericlevine/qrstyle"
)

// SVGRasterSize is the longer side, in pixels, that SVG logos are
// rasterized to.
const SVGRasterSize = 512

var supportedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// Decode reads a PNG, JPEG, GIF, WebP, BMP, TIFF or SVG image.
func Decode(data []byte) (qrstyle.Image, error) {
	if isSVG(data) {
		return decodeSVG(data)
	}
	kind, err := filetype.Image(data)
	if err != nil || !supportedMIME[kind.MIME.Value] {
		return qrstyle.Image{}, fmt.Errorf("%w: %s", qrstyle.ErrUnsupportedImage, describe(kind.MIME.Value))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return qrstyle.Image{}, fmt.Errorf("%w: %s: %v", qrstyle.ErrUnsupportedImage, kind.MIME.Value, err)
	}
	return qrstyle.ImageOf(img), nil
}

func describe(mime string) string {
	if mime == "" {
		return "unrecognized data"
	}
	return mime
}

// isSVG reports whether data looks like an SVG document. filetype does not
// detect text formats.
func isSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	head = bytes.TrimLeft(head, "\xef\xbb\xbf \t\r\n")
	return (bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<svg")) || bytes.HasPrefix(head, []byte("<!--"))) &&
		bytes.Contains(head, []byte("<svg"))
}

func decodeSVG(data []byte) (qrstyle.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return qrstyle.Image{}, fmt.Errorf("%w: svg: %v", qrstyle.ErrUnsupportedImage, err)
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return qrstyle.Image{}, fmt.Errorf("%w: svg without a viewBox", qrstyle.ErrUnsupportedImage)
	}
	w, h := SVGRasterSize, SVGRasterSize
	if vw >= vh {
		h = max(1, int(math.Round(SVGRasterSize*vh/vw)))
	} else {
		w = max(1, int(math.Round(SVGRasterSize*vw/vh)))
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return qrstyle.ImageOf(img), nil
}
