package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"regexp"
	"strings"
	"testing"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/qrcode"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
	"github.com/ericlevine/qrstyle/render"
	"github.com/ericlevine/qrstyle/scene"
)

const testPayload = "https://example.com/export"

func testScene(t *testing.T, opts ...render.Option) *scene.Scene {
	t.Helper()
	sym, err := encoder.Generate(testPayload, qrstyle.LevelMedium)
	require.NoError(t, err)
	return render.Render(sym, design.Default(), opts...)
}

func solid(w, h int, c qrstyle.Color) qrstyle.Image {
	img := qrstyle.NewImage(w, h)
	n := c.NRGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = n.R, n.G, n.B, n.A
	}
	return img
}

func dark(img image.Image, x, y int) bool {
	r, g, b, a := img.At(x, y).RGBA()
	return a > 0x8000 && (r+g+b)/3 < 0x8000
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestParseFormat(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{".SVG", SVG},
		{" pdf ", PDF},
	} {
		got, err := ParseFormat(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, qrstyle.ErrUnsupportedFormat)
	assert.Equal(t, "image/svg+xml", SVG.MIME())
	assert.Equal(t, ".pdf", PDF.Ext())
}

func TestExportFormats(t *testing.T) {
	sc := testScene(t)
	for _, tc := range []struct {
		format Format
		magic  string
	}{
		{PNG, "\x89PNG\r\n"},
		{SVG, "<?xml"},
		{PDF, "%PDF-"},
	} {
		t.Run(tc.format.String(), func(t *testing.T) {
			art, err := Export(sc, tc.format, Square(256))
			require.NoError(t, err)
			assert.Equal(t, tc.format, art.Format)
			assert.Equal(t, tc.format.MIME(), art.MIME)
			assert.True(t, bytes.HasPrefix(art.Data, []byte(tc.magic)), "prefix %q", art.Data[:min(16, len(art.Data))])
		})
	}
}

func TestPNGDecodes(t *testing.T) {
	sc := testScene(t, render.WithBorderWidth(0))
	for _, size := range []Dimensions{Square(512), {600, 400}} {
		art, err := Export(sc, PNG, size)
		require.NoError(t, err)
		img := decodePNG(t, art.Data)
		require.Equal(t, image.Rect(0, 0, size.Width, size.Height), img.Bounds())
		res, err := qrcode.Reader{}.DecodeImage(img)
		require.NoError(t, err, "size %v", size)
		assert.Equal(t, testPayload, res.Text)
	}
}

func TestPNGCentered(t *testing.T) {
	sc := testScene(t)
	art, err := Export(sc, PNG, Dimensions{600, 400})
	require.NoError(t, err)
	img := decodePNG(t, art.Data)

	// The 400×400 drawing sits between x=100 and x=500.
	_, _, _, a := img.At(50, 200).RGBA()
	assert.Zero(t, a, "left margin painted")
	_, _, _, a = img.At(550, 200).RGBA()
	assert.Zero(t, a, "right margin painted")
	_, _, _, a = img.At(300, 200).RGBA()
	assert.Equal(t, uint32(0xffff), a)
}

// rasterizeSVG draws an exported SVG at its declared size.
func rasterizeSVG(t *testing.T, data []byte, w, h int) *image.RGBA {
	t.Helper()
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	require.NoError(t, err)
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img
}

func TestSVGMatchesPNG(t *testing.T) {
	cfg := design.Default()
	cfg.EyeShape = design.EyeRoundedRect
	sym, err := encoder.Generate(testPayload, qrstyle.LevelMedium)
	require.NoError(t, err)
	// the border stroke would cover the quiet-zone corner modules
	sc := render.Render(sym, cfg, render.WithBorderWidth(0))

	const size = 512
	pngArt, err := Export(sc, PNG, Square(size))
	require.NoError(t, err)
	svgArt, err := Export(sc, SVG, Square(size))
	require.NoError(t, err)

	raster := decodePNG(t, pngArt.Data)
	vector := rasterizeSVG(t, svgArt.Data, size, size)

	n := sym.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := sc.Cell(x, y).Center()
			px, py := int(c.X), int(c.Y)
			want := sym.Dark(x, y)
			assert.Equal(t, want, dark(raster, px, py), "png module (%d,%d)", x, y)
			assert.Equal(t, want, dark(vector, px, py), "svg module (%d,%d)", x, y)
		}
	}
}

func TestSVGAttributes(t *testing.T) {
	cfg := design.Default()
	cfg.OffPixelAccent = &design.Accent{Shape: design.PixelCircle, Color: qrstyle.RGB(0, 128, 0), Opacity: 1}
	sym, err := encoder.Generate(testPayload, qrstyle.LevelMedium)
	require.NoError(t, err)
	sc := render.Render(sym, cfg)

	art, err := Export(sc, SVG, Dimensions{300, 200})
	require.NoError(t, err)
	doc := string(art.Data)
	assert.Contains(t, doc, `width="300" height="200" viewBox="0 0 512 512"`)
	assert.Contains(t, doc, `fill="#008000" fill-opacity="0.3"`)
	assert.Equal(t, 3, strings.Count(doc, `fill-rule="evenodd"`))
	assert.Contains(t, doc, `fill="none" stroke="#000000"`)
	assert.NotContains(t, doc, "-0 ")
	assert.NotContains(t, doc, "<image")
}

func TestLogoIsExported(t *testing.T) {
	sc := testScene(t).Clone()
	red := qrstyle.RGB(255, 0, 0)
	sc.Logo = &scene.LogoLayer{
		Image:     solid(10, 10, red),
		Bounds:    scene.R(206, 206, 100, 100),
		Clearance: scene.R(200, 200, 112, 112),
	}

	t.Run("png", func(t *testing.T) {
		art, err := Export(sc, PNG, Square(512))
		require.NoError(t, err)
		img := decodePNG(t, art.Data)
		assert.Equal(t, red.NRGBA(), qrstyle.ColorOf(img.At(256, 256)).NRGBA())
	})

	t.Run("svg", func(t *testing.T) {
		art, err := Export(sc, SVG, Square(512))
		require.NoError(t, err)
		m := regexp.MustCompile(`<image x="206" y="206" width="100" height="100" preserveAspectRatio="none" href="data:image/png;base64,([^"]+)"/>`).
			FindSubmatch(art.Data)
		require.NotNil(t, m)
		raw, err := base64.StdEncoding.DecodeString(string(m[1]))
		require.NoError(t, err)
		img := decodePNG(t, raw)
		assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
	})

	t.Run("pdf", func(t *testing.T) {
		art, err := Export(sc, PDF, Square(512))
		require.NoError(t, err)
		assert.True(t, bytes.Contains(art.Data, []byte("/Subtype /Image")))
	})
}

func TestPDFDeterministic(t *testing.T) {
	sc := testScene(t)
	a, err := Export(sc, PDF, Dimensions{400, 300})
	require.NoError(t, err)
	b, err := Export(sc, PDF, Dimensions{400, 300})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a.Data, b.Data), "PDF output differs between runs")
	assert.True(t, bytes.Contains(a.Data, []byte("D:20000101")))
}

func TestExportErrors(t *testing.T) {
	sc := testScene(t)
	for _, tc := range []struct {
		name   string
		sc     *scene.Scene
		format Format
		size   Dimensions
		want   error
	}{
		{"zero size", sc, PNG, Square(0), qrstyle.ErrRasterizationFailed},
		{"negative size", sc, SVG, Dimensions{-1, 10}, qrstyle.ErrRasterizationFailed},
		{"too large", sc, PNG, Square(10000), qrstyle.ErrRasterizationFailed},
		{"unknown format", sc, Format(9), Square(10), qrstyle.ErrUnsupportedFormat},
		{"nil scene", nil, PNG, Square(10), qrstyle.ErrInvalidField},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Export(tc.sc, tc.format, tc.size)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExportAll(t *testing.T) {
	sc := testScene(t)
	reqs := []Request{
		{PDF, Square(200)},
		{PNG, Square(128)},
		{SVG, Square(64)},
	}
	arts, err := ExportAll(context.Background(), sc, reqs)
	require.NoError(t, err)
	require.Len(t, arts, len(reqs))
	for i, req := range reqs {
		assert.Equal(t, req.Format, arts[i].Format)
	}
	img := decodePNG(t, arts[1].Data)
	assert.Equal(t, 128, img.Bounds().Dx())

	reqs = append(reqs, Request{PNG, Square(0)})
	_, err = ExportAll(context.Background(), sc, reqs)
	assert.True(t, errors.Is(err, qrstyle.ErrRasterizationFailed), "err = %v", err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ExportAll(ctx, sc, reqs[:1])
	assert.ErrorIs(t, err, context.Canceled)
}
