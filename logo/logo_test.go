package logo

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
	"github.com/ericlevine/qrstyle/render"
	"github.com/ericlevine/qrstyle/scene"
)

// logoPayload encodes to version 6 at the Max level, the largest version
// without an alignment pattern in the middle.
const logoPayload = "https://example.com/a/fairly/long/path?with=query1"

func testScene(t *testing.T, payload string, level qrstyle.Level) *scene.Scene {
	t.Helper()
	sym, err := encoder.Generate(payload, level)
	require.NoError(t, err)
	return render.Render(sym, design.Default())
}

// badge is a two-tone square with no QR structure.
func badge(w, h int) qrstyle.Image {
	img := qrstyle.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := 4 * (y*w + x)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, uint8(x*255/w), 40, 255
		}
	}
	return img
}

func TestPlaceCenter(t *testing.T) {
	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	require.Equal(t, 6, sc.Symbol.Version)
	before := len(sc.Primitives)

	out, err := Place(sc, badge(64, 64), design.PlaceCenter, 0.2)
	require.NoError(t, err)
	require.NotNil(t, out.Logo)

	c := out.Logo.Bounds.Center()
	assert.InDelta(t, 256, c.X, 1)
	assert.InDelta(t, 256, c.Y, 1)
	assert.InDelta(t, 0.2*512, out.Logo.Bounds.Dx(), 1e-9)
	assert.Nil(t, sc.Logo, "input scene modified")
	assert.Len(t, sc.Primitives, before, "input scene modified")
	assert.Less(t, len(out.Primitives), before)

	for _, p := range out.Primitives {
		if p.Layer == scene.LayerModule || p.Layer == scene.LayerAccent {
			assert.False(t, out.Cell(p.Cell.X, p.Cell.Y).Overlaps(out.Logo.Clearance), "module %v left under the logo", p.Cell)
		}
	}
}

func TestPlacedSymbolStillDecodes(t *testing.T) {
	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	out, err := Place(sc, badge(80, 40), design.PlaceCenter, 0.2)
	require.NoError(t, err)

	sym := sc.Symbol
	for _, dark := range []bool{false, true} {
		bits := sym.BitMatrix()
		for _, p := range out.Logo.Punched {
			x, y := p.X-sym.QuietZone, p.Y-sym.QuietZone
			if dark {
				bits.Set(x, y)
			} else {
				bits.Unset(x, y)
			}
		}
		res, err := decoder.Decode(bits)
		require.NoError(t, err, "punched modules read as dark=%v", dark)
		assert.Equal(t, logoPayload, res.Text)
	}
}

func TestPlaceAspectRatio(t *testing.T) {
	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	out, err := Place(sc, badge(100, 50), design.PlaceCenter, 0.2)
	require.NoError(t, err)
	b := out.Logo.Bounds
	assert.InDelta(t, 2.0, b.Dx()/b.Dy(), 1e-9)
	assert.InDelta(t, 0.2*512, math.Max(b.Dx(), b.Dy()), 1e-9)
}

func TestPlaceBottomTrailing(t *testing.T) {
	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	out, err := Place(sc, badge(64, 64), design.PlaceBottomTrailing, 0.2)
	require.NoError(t, err)

	b := out.Logo.Bounds
	assert.InDelta(t, 0.9*512, b.Max.X, 1e-9)
	assert.InDelta(t, 0.9*512, b.Max.Y, 1e-9)
	sym := sc.Symbol
	for y := 0; y < sym.Size(); y++ {
		for x := 0; x < sym.Size(); x++ {
			reg := sym.Region(x, y)
			if !reg.IsData() && reg != encoder.RegionQuietZone && out.Cell(x, y).Overlaps(out.Logo.Clearance) {
				t.Fatalf("clearance overlaps %s module (%d,%d)", reg, x, y)
			}
		}
	}
}

func TestPlaceErrors(t *testing.T) {
	small := testScene(t, strings.Repeat("abcdefghij", 12), qrstyle.LevelLow)
	require.Equal(t, 6, small.Symbol.Version)
	_, err := Place(small, badge(64, 64), design.PlaceCenter, 0.35)
	assert.ErrorIs(t, err, qrstyle.ErrOcclusionExceedsCorrection)

	big := testScene(t, strings.Repeat("a", 200), qrstyle.LevelLow)
	require.GreaterOrEqual(t, big.Symbol.Version, 7)
	_, err = Place(big, badge(64, 64), design.PlaceCenter, 0.2)
	assert.ErrorIs(t, err, qrstyle.ErrLogoOverlapsPattern)

	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	_, err = Place(sc, qrstyle.Image{}, design.PlaceCenter, 0.2)
	assert.ErrorIs(t, err, qrstyle.ErrUnsupportedImage)
	_, err = Place(sc, badge(8, 8), design.PlaceCenter, 1.5)
	assert.ErrorIs(t, err, qrstyle.ErrInvalidField)

	placed, err := Place(sc, badge(8, 8), design.PlaceCenter, 0)
	require.NoError(t, err)
	_, err = Place(placed, badge(8, 8), design.PlaceCenter, 0)
	assert.ErrorIs(t, err, qrstyle.ErrInvalidField)
}

func TestRejectsQRCodeLogo(t *testing.T) {
	sym, err := encoder.Generate("https://example.com/not-a-logo", qrstyle.LevelMedium)
	require.NoError(t, err)
	code := qrstyle.ImageOf(sym.Image(4))
	assert.True(t, ContainsQRCode(code))

	// A framed code only decodes once the frame is cropped away.
	framed := qrstyle.NewImage(code.Width+12, code.Height+12)
	draw := framed.NRGBA()
	for y := 0; y < framed.Height; y++ {
		for x := 0; x < framed.Width; x++ {
			draw.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	for y := 0; y < code.Height; y++ {
		for x := 0; x < code.Width; x++ {
			draw.Set(x+6, y+6, code.NRGBA().At(x, y))
		}
	}
	assert.True(t, ContainsQRCode(framed))

	assert.False(t, ContainsQRCode(badge(64, 64)))

	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	_, err = Place(sc, code, design.PlaceCenter, 0.2)
	assert.True(t, errors.Is(err, qrstyle.ErrContainsQRCode), "err = %v", err)
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	src := badge(5, 3)
	require.NoError(t, png.Encode(&buf, src.NRGBA()))
	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, src, got)

	svg := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100">
  <rect x="0" y="0" width="100" height="100" fill="#ff0000"/>
</svg>`
	got, err = Decode([]byte(svg))
	require.NoError(t, err)
	assert.Equal(t, SVGRasterSize, got.Width)
	assert.Equal(t, SVGRasterSize/2, got.Height)
	left := got.NRGBA().NRGBAAt(got.Width/4, got.Height/2)
	right := got.NRGBA().NRGBAAt(3*got.Width/4, got.Height/2)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, left)
	assert.Zero(t, right.A)

	for name, data := range map[string][]byte{
		"empty": nil,
		"text":  []byte("hello"),
		"pdf":   []byte("%PDF-1.4\n%âãÏÓ\n"),
	} {
		_, err := Decode(data)
		assert.ErrorIs(t, err, qrstyle.ErrUnsupportedImage, name)
	}
}

func TestRotate(t *testing.T) {
	img := badge(40, 20)
	for turns, want := range map[int]image.Point{0: {40, 20}, 1: {20, 40}, 2: {40, 20}, 3: {20, 40}, -1: {20, 40}, 4: {40, 20}} {
		got := Rotate(img, turns)
		assert.Equal(t, want, image.Pt(got.Width, got.Height), "turns=%d", turns)
		assert.True(t, got.Valid())
	}
	half := Rotate(img, 2)
	// x gradient runs the other way after a half turn.
	assert.Greater(t, half.Pix[1], img.Pix[1])
}

func TestOutline(t *testing.T) {
	img := qrstyle.NewImage(20, 20)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			i := 4 * (y*20 + x)
			img.Pix[i], img.Pix[i+3] = 255, 255
		}
	}
	out := Outline(img, 3, qrstyle.RGB(0, 0, 255))
	require.Equal(t, 26, out.Width)
	require.Equal(t, 26, out.Height)

	at := func(x, y int) color.NRGBA { return out.NRGBA().NRGBAAt(x, y) }
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, at(13, 13), "original drawn on top")
	assert.Zero(t, at(0, 0).A, "corner stays transparent")
	edge := at(7, 13)
	assert.NotZero(t, edge.A, "stroke just outside the shape")
	assert.Equal(t, uint8(255), edge.B)

	assert.Equal(t, img, Outline(img, 0, qrstyle.Black))
}

func TestResize(t *testing.T) {
	got := Resize(badge(10, 10), 30, 15)
	assert.Equal(t, 30, got.Width)
	assert.Equal(t, 15, got.Height)
	assert.Len(t, got.Pix, 4*30*15)
}

func TestRejectsTurnedAndCaptionedQRCodeLogo(t *testing.T) {
	sym, err := encoder.Generate("https://example.com/hidden-code", qrstyle.LevelMedium)
	require.NoError(t, err)
	code := qrstyle.ImageOf(sym.Image(4))

	captioned := qrstyle.NewImage(code.Width+40, code.Height+70)
	dst := captioned.NRGBA()
	for y := 0; y < captioned.Height; y++ {
		for x := 0; x < captioned.Width; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			switch {
			case x >= 20 && x < 20+code.Width && y >= 10 && y < 10+code.Height:
				c = code.NRGBA().NRGBAAt(x-20, y-10)
			case x >= 30 && x < captioned.Width-30 && y >= code.Height+25 && y < code.Height+45:
				c = color.NRGBA{30, 30, 90, 255}
			}
			dst.SetNRGBA(x, y, c)
		}
	}

	tests := []struct {
		name string
		img  qrstyle.Image
	}{
		{"quarter turn", Rotate(code, 1)},
		{"half turn", Rotate(code, 2)},
		{"three quarter turn", Rotate(code, -1)},
		{"captioned", captioned},
		{"captioned half turn", Rotate(captioned, 2)},
	}
	sc := testScene(t, logoPayload, qrstyle.LevelMax)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, ContainsQRCode(tt.img))
			_, err := Place(sc, tt.img, design.PlaceCenter, 0.2)
			assert.ErrorIs(t, err, qrstyle.ErrContainsQRCode)
		})
	}
}
