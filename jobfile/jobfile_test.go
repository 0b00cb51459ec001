package jobfile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/export"
	"github.com/ericlevine/qrstyle/payload"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 60, B: uint8(4 * x), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const wifiJob = `
intent:
  kind: wifi
  ssid: Home
  passphrase: secret1
design:
  foreground: "#1d3557"
  background: "#f1faee"
  pixel_shape: rounded-path
  eye_shape: leaf
  pupil_color: "#e63946"
  eye_colors: ["", "#457b9d"]
  accent:
    shape: circle
    color: "#a8dadc"
    opacity: 0.5
  level: high
  logo:
    path: logo.png
    placement: bottom-trailing
    scale: 0.15
    rotate: 1
    outline:
      width: 2
      color: "#ffffff"
outputs:
  - path: out/wifi.png
    size: 800
  - path: wifi.vector
    format: svg
  - path: wifi.pdf
    width: 300
    height: 200
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "logo.png", pngOf(t, 20, 10))
	job, err := Load(writeFile(t, dir, "job.yaml", []byte(wifiJob)))
	require.NoError(t, err)

	assert.Equal(t, payload.WifiNetwork{SSID: "Home", Passphrase: "secret1", Security: payload.SecurityWPA}, job.Intent)

	cfg := job.Design
	assert.Equal(t, "#1d3557", cfg.Foreground.Hex())
	assert.Equal(t, "#f1faee", cfg.Background.Hex())
	assert.Equal(t, design.PixelRoundedPath, cfg.PixelShape)
	assert.Equal(t, design.EyeLeaf, cfg.EyeShape)
	assert.Equal(t, "#e63946", cfg.PupilColor.Hex())
	assert.Nil(t, cfg.EyeColors[0])
	require.NotNil(t, cfg.EyeColors[1])
	assert.Equal(t, "#457b9d", cfg.EyeColors[1].Hex())
	require.NotNil(t, cfg.OffPixelAccent)
	assert.Equal(t, design.PixelCircle, cfg.OffPixelAccent.Shape)
	assert.Equal(t, qrstyle.LevelHigh, cfg.Level)
	assert.Equal(t, design.PlaceBottomTrailing, cfg.LogoPlacement)
	assert.Equal(t, 0.15, cfg.LogoScale)

	// 20×10 turned upright, then framed by 2 pixels.
	require.NotNil(t, cfg.Logo)
	assert.Equal(t, 14, cfg.Logo.Width)
	assert.Equal(t, 24, cfg.Logo.Height)

	want := []export.Request{
		{Format: export.PNG, Size: export.Square(800)},
		{Format: export.SVG, Size: export.Square(DefaultSize)},
		{Format: export.PDF, Size: export.Dimensions{Width: 300, Height: 200}},
	}
	if diff := cmp.Diff(want, job.Outputs); diff != "" {
		t.Errorf("outputs (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		filepath.Join(dir, "out", "wifi.png"),
		filepath.Join(dir, "wifi.vector"),
		filepath.Join(dir, "wifi.pdf"),
	}, job.Paths)
}

func TestTemplateIsBase(t *testing.T) {
	dir := t.TempDir()
	base := design.Default()
	base.EyeShape = design.EyeSquircle
	base.Foreground = qrstyle.RGB(10, 20, 30)
	blob, err := design.EncodeTemplate(design.NewTemplate("brand", base, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	writeFile(t, dir, "brand.qrt", blob)

	f, err := Parse(strings.NewReader(`
intent: {kind: text, text: hello}
template: brand.qrt
design:
  background: "#eeeeee"
outputs: [{path: a.png}]
`))
	require.NoError(t, err)
	job, err := f.Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, design.EyeSquircle, job.Design.EyeShape)
	assert.Equal(t, "#0a141e", job.Design.Foreground.Hex())
	assert.Equal(t, "#eeeeee", job.Design.Background.Hex())
}

func TestIntents(t *testing.T) {
	for _, tc := range []struct {
		yaml string
		want string
	}{
		{`{kind: text, text: hello}`, "hello"},
		{`{kind: link, url: example.com}`, "https://example.com"},
		{`{kind: wifi, ssid: Cafe}`, "WIFI:T:;S:Cafe;P:;;"},
		{`{kind: wifi, ssid: Lab, passphrase: pw, security: WEP, hidden: true}`, "WIFI:T:WEP;S:Lab;P:pw;H:true;;"},
		{`{kind: phone, number: "+1 555 0100"}`, "tel:+15550100"},
		{`{kind: sms, number: "5550100", body: hi there}`, "sms:5550100?body=hi%20there"},
		{`{kind: email, to: a@example.com, subject: Hi}`, "mailto:a@example.com?subject=Hi"},
		{`{kind: videocall, handle: a@example.com, audio: true}`, "facetime-audio:a@example.com"},
		{`{kind: social, text: hello world}`, "https://twitter.com/intent/tweet?text=hello%20world"},
		{`{kind: social, network: mastodon, instance: mastodon.social, text: hi}`, "https://mastodon.social/share?text=hi"},
		{`{kind: location, lat: 52.5, lon: 13.25}`, "geo:52.5,13.25,1"},
		{`{kind: automation, name: Log Water, clipboard: true}`, "shortcuts://run-shortcut?name=Log%20Water&input=clipboard"},
		{`{kind: crypto, address: bc1qxyz, amount: 0.0015}`, "bitcoin:bc1qxyz?amount=0.0015"},
		{`{kind: event, summary: Launch, start: 2024-05-01T10:00:00Z, end: 2024-05-01T11:30:00Z}`,
			"BEGIN:VEVENT\nSUMMARY:Launch\nLOCATION:\nDTSTART:20240501T100000Z\nDTEND:20240501T113000Z\nEND:VEVENT"},
	} {
		t.Run(tc.yaml, func(t *testing.T) {
			f, err := Parse(strings.NewReader("intent: " + tc.yaml + "\noutputs: [{path: x.png}]\n"))
			require.NoError(t, err)
			intent, err := f.Intent.Build()
			require.NoError(t, err)
			got, err := payload.Encode(intent)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name string
		doc  string
		want error
	}{
		{"empty", "", qrstyle.ErrMissingField},
		{"unknown key", "intent: {kind: text, text: a}\ncolour: red\n", qrstyle.ErrInvalidField},
		{"no kind", "intent: {text: a}\noutputs: [{path: a.png}]\n", qrstyle.ErrMissingField},
		{"bad kind", "intent: {kind: fax}\noutputs: [{path: a.png}]\n", qrstyle.ErrInvalidField},
		{"bad color", "intent: {kind: text, text: a}\ndesign: {foreground: teal}\noutputs: [{path: a.png}]\n", qrstyle.ErrInvalidField},
		{"bad shape", "intent: {kind: text, text: a}\ndesign: {pixel_shape: hexagon}\noutputs: [{path: a.png}]\n", qrstyle.ErrInvalidField},
		{"too many eyes", "intent: {kind: text, text: a}\ndesign: {eye_colors: ['#000', '#000', '#000', '#000']}\noutputs: [{path: a.png}]\n", qrstyle.ErrInvalidField},
		{"no outputs", "intent: {kind: text, text: a}\n", qrstyle.ErrMissingField},
		{"bad format", "intent: {kind: text, text: a}\noutputs: [{path: a.gif}]\n", qrstyle.ErrUnsupportedFormat},
		{"bad amount", "intent: {kind: crypto, address: x, amount: lots}\noutputs: [{path: a.png}]\n", qrstyle.ErrInvalidField},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "job.yaml", []byte(tc.doc)))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnsupportedLogo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "logo.txt", []byte("just text"))
	_, err := Load(writeFile(t, dir, "job.yaml", []byte(
		"intent: {kind: text, text: a}\ndesign: {logo: {path: logo.txt}}\noutputs: [{path: a.png}]\n")))
	assert.ErrorIs(t, err, qrstyle.ErrUnsupportedImage)
}
