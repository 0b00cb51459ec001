package design

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/fxamacker/cbor/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ericlevine/qrstyle"
)

// formatVersion is the envelope version written by Encode. Decode rejects
// any other value.
const formatVersion = 1

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Deterministic options; these never fail validation.
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// The wire types below are the persisted form. CBOR key IDs must never
// change; new fields must be optional.

type envelope struct {
	Version int        `cbor:"1,keyasint"`
	Design  wireConfig `cbor:"2,keyasint"`
}

// wireColor is R, G, B, A.
type wireColor [4]float64

func toWire(c qrstyle.Color) wireColor { return wireColor{c.R, c.G, c.B, c.A} }

func (w wireColor) color() qrstyle.Color { return qrstyle.Color{R: w[0], G: w[1], B: w[2], A: w[3]} }

type wireAccent struct {
	Shape   uint8     `cbor:"1,keyasint"`
	Color   wireColor `cbor:"2,keyasint"`
	Opacity float64   `cbor:"3,keyasint"`
}

type wireImage struct {
	Width  int    `cbor:"1,keyasint"`
	Height int    `cbor:"2,keyasint"`
	Pix    []byte `cbor:"3,keyasint"`
}

type wireConfig struct {
	Foreground wireColor    `cbor:"1,keyasint"`
	Background wireColor    `cbor:"2,keyasint"`
	PixelShape uint8        `cbor:"3,keyasint"`
	EyeShape   uint8        `cbor:"4,keyasint"`
	PupilColor wireColor    `cbor:"5,keyasint"`
	EyeColors  []*wireColor `cbor:"6,keyasint,omitempty"`
	Accent     *wireAccent  `cbor:"7,keyasint,omitempty"`
	Logo       *wireImage   `cbor:"8,keyasint,omitempty"`
	Placement  uint8        `cbor:"9,keyasint"`
	LogoScale  float64      `cbor:"10,keyasint,omitempty"`
	Level      int          `cbor:"11,keyasint"`
}

func wireConfigOf(c Config) wireConfig {
	w := wireConfig{
		Foreground: toWire(c.Foreground),
		Background: toWire(c.Background),
		PixelShape: uint8(c.PixelShape),
		EyeShape:   uint8(c.EyeShape),
		PupilColor: toWire(c.PupilColor),
		Placement:  uint8(c.LogoPlacement),
		LogoScale:  c.LogoScale,
		Level:      int(c.Level),
	}
	if c.EyeColors != [3]*qrstyle.Color{} {
		w.EyeColors = make([]*wireColor, len(c.EyeColors))
		for i, col := range c.EyeColors {
			if col != nil {
				wc := toWire(*col)
				w.EyeColors[i] = &wc
			}
		}
	}
	if a := c.OffPixelAccent; a != nil {
		w.Accent = &wireAccent{Shape: uint8(a.Shape), Color: toWire(a.Color), Opacity: a.Opacity}
	}
	if c.Logo != nil {
		w.Logo = &wireImage{Width: c.Logo.Width, Height: c.Logo.Height, Pix: c.Logo.Pix}
	}
	return w
}

func (w wireConfig) config() (Config, error) {
	c := Config{
		Foreground:    w.Foreground.color(),
		Background:    w.Background.color(),
		PixelShape:    PixelShape(w.PixelShape),
		EyeShape:      EyeShape(w.EyeShape),
		PupilColor:    w.PupilColor.color(),
		LogoPlacement: Placement(w.Placement),
		LogoScale:     w.LogoScale,
		Level:         qrstyle.Level(w.Level),
	}
	switch len(w.EyeColors) {
	case 0:
	case len(c.EyeColors):
		for i, wc := range w.EyeColors {
			if wc != nil {
				col := wc.color()
				c.EyeColors[i] = &col
			}
		}
	default:
		return Config{}, fmt.Errorf("%d eye colors", len(w.EyeColors))
	}
	if a := w.Accent; a != nil {
		c.OffPixelAccent = &Accent{Shape: PixelShape(a.Shape), Color: a.Color.color(), Opacity: a.Opacity}
	}
	if l := w.Logo; l != nil {
		c.Logo = &qrstyle.Image{Width: l.Width, Height: l.Height, Pix: l.Pix}
	}
	return c, nil
}

// Encode serializes cfg, logo included, into a versioned blob.
func Encode(cfg Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return encMode.Marshal(envelope{Version: formatVersion, Design: wireConfigOf(cfg)})
}

// EncodeSplit serializes cfg without its logo and returns the logo
// separately as PNG. The sidecar is nil when cfg has no logo.
func EncodeSplit(cfg Config) (blob, sidecarPNG []byte, err error) {
	if cfg.Logo != nil {
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, cfg.Logo.NRGBA()); err != nil {
			return nil, nil, err
		}
		sidecarPNG = buf.Bytes()
		cfg.Logo = nil
	}
	blob, err = Encode(cfg)
	if err != nil {
		return nil, nil, err
	}
	return blob, sidecarPNG, nil
}

// Decode restores a Config from blob. A non-empty sidecarLogo holds an
// encoded image (PNG, JPEG, GIF, WebP, BMP or TIFF) that replaces any logo
// inside blob. Every failure is qrstyle.ErrCorruptData, and no partial
// result is returned.
func Decode(blob, sidecarLogo []byte) (Config, error) {
	var env envelope
	if err := decMode.Unmarshal(blob, &env); err != nil {
		return Config{}, fmt.Errorf("%w: %v", qrstyle.ErrCorruptData, err)
	}
	if env.Version != formatVersion {
		return Config{}, fmt.Errorf("%w: format version %d", qrstyle.ErrCorruptData, env.Version)
	}
	cfg, err := env.Design.config()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", qrstyle.ErrCorruptData, err)
	}
	if len(sidecarLogo) > 0 {
		img, _, err := image.Decode(bytes.NewReader(sidecarLogo))
		if err != nil {
			return Config{}, fmt.Errorf("%w: logo sidecar: %v", qrstyle.ErrCorruptData, err)
		}
		logo := qrstyle.ImageOf(img)
		cfg.Logo = &logo
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", qrstyle.ErrCorruptData, err)
	}
	return cfg, nil
}
