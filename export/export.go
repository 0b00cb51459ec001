// Package export turns scenes into PNG, SVG and PDF documents.
package export

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/scene"
)

// MaxPixels bounds the area of an export.
const MaxPixels = 64 << 20

// Format is an output document format.
type Format uint8

const (
	PNG Format = iota
	SVG
	PDF
)

var formatNames = [...]string{PNG: "png", SVG: "svg", PDF: "pdf"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", f)
}

// MIME returns the media type of the format.
func (f Format) MIME() string {
	switch f {
	case PNG:
		return "image/png"
	case SVG:
		return "image/svg+xml"
	case PDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for f, name := range formatNames {
		if s == name {
			return Format(f), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", qrstyle.ErrUnsupportedFormat, s)
}

// Dimensions is an output size in pixels (PNG, SVG) or points (PDF).
type Dimensions struct {
	Width, Height int
}

// Square returns n×n dimensions.
func Square(n int) Dimensions {
	return Dimensions{n, n}
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Artifact is an exported document.
type Artifact struct {
	Format Format
	MIME   string
	Data   []byte
}

// Request asks for one export.
type Request struct {
	Format Format
	Size   Dimensions
}

type backend func(sc *scene.Scene, size Dimensions) ([]byte, error)

var backends = map[Format]backend{
	PNG: encodePNG,
	SVG: encodeSVG,
	PDF: encodePDF,
}

// Export draws sc at size. The scene is scaled uniformly and centered.
func Export(sc *scene.Scene, format Format, size Dimensions) (art *Artifact, err error) {
	b, ok := backends[format]
	if !ok {
		return nil, fmt.Errorf("%w: %v", qrstyle.ErrUnsupportedFormat, format)
	}
	if sc == nil || sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("%w: empty scene", qrstyle.ErrInvalidField)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: size %v", qrstyle.ErrRasterizationFailed, size)
	}
	if int64(size.Width)*int64(size.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: size %v exceeds %d pixels", qrstyle.ErrRasterizationFailed, size, MaxPixels)
	}
	defer func() {
		if r := recover(); r != nil {
			art, err = nil, fmt.Errorf("%w: %s: %v", qrstyle.ErrRasterizationFailed, format, r)
		}
	}()
	data, err := b(sc, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", qrstyle.ErrRasterizationFailed, format, err)
	}
	return &Artifact{Format: format, MIME: format.MIME(), Data: data}, nil
}

// ExportAll runs the requests concurrently. Artifacts are returned in request
// order. The first failure cancels the remaining requests.
func ExportAll(ctx context.Context, sc *scene.Scene, reqs []Request) ([]*Artifact, error) {
	out := make([]*Artifact, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			art, err := Export(sc, req.Format, req.Size)
			if err != nil {
				return err
			}
			out[i] = art
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fit returns the uniform scale and offset that center the scene in size.
func fit(sc *scene.Scene, size Dimensions) (s, dx, dy float64) {
	w, h := float64(size.Width), float64(size.Height)
	s = min(w/sc.Width, h/sc.Height)
	return s, (w - sc.Width*s) / 2, (h - sc.Height*s) / 2
}
