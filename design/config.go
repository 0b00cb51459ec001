// Package design holds the visual style of a symbol and its persisted form.
package design

import (
	"fmt"
	"strings"

	"github.com/ericlevine/qrstyle"
)

// PixelShape is the geometry of a data module.
type PixelShape uint8

// Pixel shapes. Do NOT reorder; values are persisted.
const (
	PixelSquare PixelShape = iota
	PixelCircle
	PixelRoundedRect
	PixelDiamond
	PixelStar
	PixelSquircle
	PixelRoundedPath
	numPixelShapes
)

var pixelShapeNames = [...]string{
	PixelSquare:      "square",
	PixelCircle:      "circle",
	PixelRoundedRect: "rounded-rect",
	PixelDiamond:     "diamond",
	PixelStar:        "star",
	PixelSquircle:    "squircle",
	PixelRoundedPath: "rounded-path",
}

func (s PixelShape) String() string {
	if s < numPixelShapes {
		return pixelShapeNames[s]
	}
	return fmt.Sprintf("PixelShape(%d)", uint8(s))
}

// Valid reports whether s is a known shape.
func (s PixelShape) Valid() bool { return s < numPixelShapes }

// MarshalText implements encoding.TextMarshaler.
func (s PixelShape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: pixel shape %d", qrstyle.ErrInvalidField, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PixelShape) UnmarshalText(text []byte) error {
	i, err := lookup(pixelShapeNames[:], "pixel shape", string(text))
	if err != nil {
		return err
	}
	*s = PixelShape(i)
	return nil
}

// EyeShape is the geometry of the finder patterns.
type EyeShape uint8

// Eye shapes. Do NOT reorder; values are persisted.
const (
	EyeSquare EyeShape = iota
	EyeCircle
	EyeRoundedRect
	EyeLeaf
	EyeSquircle
	numEyeShapes
)

var eyeShapeNames = [...]string{
	EyeSquare:      "square",
	EyeCircle:      "circle",
	EyeRoundedRect: "rounded-rect",
	EyeLeaf:        "leaf",
	EyeSquircle:    "squircle",
}

func (s EyeShape) String() string {
	if s < numEyeShapes {
		return eyeShapeNames[s]
	}
	return fmt.Sprintf("EyeShape(%d)", uint8(s))
}

// Valid reports whether s is a known shape.
func (s EyeShape) Valid() bool { return s < numEyeShapes }

// MarshalText implements encoding.TextMarshaler.
func (s EyeShape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: eye shape %d", qrstyle.ErrInvalidField, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EyeShape) UnmarshalText(text []byte) error {
	i, err := lookup(eyeShapeNames[:], "eye shape", string(text))
	if err != nil {
		return err
	}
	*s = EyeShape(i)
	return nil
}

// Placement is where a logo sits on the canvas.
type Placement uint8

const (
	PlaceCenter Placement = iota
	PlaceBottomTrailing
	numPlacements
)

var placementNames = [...]string{
	PlaceCenter:         "center",
	PlaceBottomTrailing: "bottom-trailing",
}

func (p Placement) String() string {
	if p < numPlacements {
		return placementNames[p]
	}
	return fmt.Sprintf("Placement(%d)", uint8(p))
}

// Valid reports whether p is a known placement.
func (p Placement) Valid() bool { return p < numPlacements }

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: placement %d", qrstyle.ErrInvalidField, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Placement) UnmarshalText(text []byte) error {
	i, err := lookup(placementNames[:], "placement", string(text))
	if err != nil {
		return err
	}
	*p = Placement(i)
	return nil
}

func lookup(names []string, what, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if s == name || s == strings.ReplaceAll(name, "-", "") {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", qrstyle.ErrInvalidField, what, s)
}

// MaxAccentOpacity caps the effective opacity of off-module accents so a
// scanner never reads them as dark.
const MaxAccentOpacity = 0.3

// DefaultLogoScale is the logo size as a fraction of the canvas.
const DefaultLogoScale = 0.2

// Accent decorates light data modules.
type Accent struct {
	Shape   PixelShape
	Color   qrstyle.Color
	Opacity float64
}

// Config is the complete visual style of a symbol. It is a value type;
// nothing in this module mutates a Config it is given.
type Config struct {
	Foreground qrstyle.Color
	Background qrstyle.Color
	PixelShape PixelShape
	EyeShape   EyeShape
	PupilColor qrstyle.Color

	// EyeColors overrides the outer ring color of the top-left, top-right
	// and bottom-left finder patterns.
	EyeColors [3]*qrstyle.Color

	OffPixelAccent *Accent

	Logo          *qrstyle.Image
	LogoPlacement Placement
	// LogoScale is the logo size as a fraction of the canvas. Zero means
	// DefaultLogoScale.
	LogoScale float64

	Level qrstyle.Level
}

// Default returns black square modules on white at the Medium level.
func Default() Config {
	return Config{
		Foreground: qrstyle.Black,
		Background: qrstyle.White,
		PupilColor: qrstyle.Black,
		Level:      qrstyle.LevelMedium,
	}
}

// EyeColor returns the outer ring color of finder pattern i.
func (c Config) EyeColor(i int) qrstyle.Color {
	if i >= 0 && i < len(c.EyeColors) && c.EyeColors[i] != nil {
		return *c.EyeColors[i]
	}
	return c.Foreground
}

// Scale returns the effective logo scale.
func (c Config) Scale() float64 {
	if c.LogoScale == 0 {
		return DefaultLogoScale
	}
	return c.LogoScale
}

// AccentOpacity returns the accent's opacity capped at MaxAccentOpacity, or
// zero without an accent.
func (c Config) AccentOpacity() float64 {
	if c.OffPixelAccent == nil {
		return 0
	}
	return min(max(c.OffPixelAccent.Opacity*c.OffPixelAccent.Color.A, 0), MaxAccentOpacity)
}

// Validate checks every enum and color.
func (c Config) Validate() error {
	colors := []struct {
		name string
		c    qrstyle.Color
	}{{"foreground", c.Foreground}, {"background", c.Background}, {"pupil", c.PupilColor}}
	for _, col := range colors {
		if !col.c.Valid() {
			return fmt.Errorf("%w: %s color %+v", qrstyle.ErrInvalidField, col.name, col.c)
		}
	}
	for i, col := range c.EyeColors {
		if col != nil && !col.Valid() {
			return fmt.Errorf("%w: eye %d color %+v", qrstyle.ErrInvalidField, i, *col)
		}
	}
	switch {
	case !c.PixelShape.Valid():
		return fmt.Errorf("%w: pixel shape %d", qrstyle.ErrInvalidField, uint8(c.PixelShape))
	case !c.EyeShape.Valid():
		return fmt.Errorf("%w: eye shape %d", qrstyle.ErrInvalidField, uint8(c.EyeShape))
	case !c.LogoPlacement.Valid():
		return fmt.Errorf("%w: placement %d", qrstyle.ErrInvalidField, uint8(c.LogoPlacement))
	case !c.Level.Valid():
		return fmt.Errorf("%w: level %d", qrstyle.ErrInvalidField, int(c.Level))
	case c.LogoScale < 0 || c.LogoScale > 1:
		return fmt.Errorf("%w: logo scale %v", qrstyle.ErrInvalidField, c.LogoScale)
	case c.Logo != nil && !c.Logo.Valid():
		return fmt.Errorf("%w: logo %dx%d with %d bytes", qrstyle.ErrInvalidField, c.Logo.Width, c.Logo.Height, len(c.Logo.Pix))
	}
	if a := c.OffPixelAccent; a != nil {
		if !a.Shape.Valid() || !a.Color.Valid() || a.Opacity < 0 || a.Opacity > 1 {
			return fmt.Errorf("%w: accent %+v", qrstyle.ErrInvalidField, *a)
		}
	}
	return nil
}
