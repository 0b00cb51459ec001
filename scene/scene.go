package scene

import (
	"image"
	"slices"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
)

// FillRule decides which areas of a self-overlapping path are inside.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

// Layer groups primitives by role. Layers are drawn in increasing order.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerAccent
	LayerModule
	LayerEye
	LayerBorder
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerAccent:
		return "accent"
	case LayerModule:
		return "module"
	case LayerEye:
		return "eye"
	case LayerBorder:
		return "border"
	}
	return "unknown"
}

// Stroke outlines a path.
type Stroke struct {
	Color qrstyle.Color
	Width float64
}

// Primitive is one filled and/or stroked path.
type Primitive struct {
	Path Path
	// Fill is painted with alpha Fill.A*Opacity. A nil Fill paints nothing.
	Fill    *qrstyle.Color
	Opacity float64
	Rule    FillRule
	Stroke  *Stroke

	Layer  Layer
	Region encoder.Region
	// Cell is the module (quiet zone included) a module or accent
	// primitive was drawn for, or the top-left module of a finder pattern.
	Cell image.Point
}

// Alpha returns the effective fill alpha.
func (p Primitive) Alpha() float64 {
	if p.Fill == nil {
		return 0
	}
	return p.Fill.A * p.Opacity
}

// LogoLayer is an image composited over the symbol.
type LogoLayer struct {
	Image qrstyle.Image
	// Bounds is where the image is drawn.
	Bounds Rect
	// Clearance is the area with no module primitives.
	Clearance Rect
	// Punched lists the modules removed for the clearance.
	Punched []image.Point
}

// Scene is a rendered symbol. Scenes are built fresh for every render and
// are not modified once returned; transformations return new scenes.
type Scene struct {
	Width, Height float64
	ModuleSize    float64
	// Origin is the canvas position of module (0, 0).
	Origin     Point
	Symbol     *encoder.Symbol
	Background qrstyle.Color
	Primitives []Primitive
	Logo       *LogoLayer
}

// Cell returns the canvas rectangle of module (x, y).
func (s *Scene) Cell(x, y int) Rect {
	return R(s.Origin.X+float64(x)*s.ModuleSize, s.Origin.Y+float64(y)*s.ModuleSize, s.ModuleSize, s.ModuleSize)
}

// Bounds returns the canvas rectangle.
func (s *Scene) Bounds() Rect {
	return R(0, 0, s.Width, s.Height)
}

// Clone returns a copy whose primitive slice may be modified freely. Paths
// and images are shared.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Primitives = slices.Clone(s.Primitives)
	if s.Logo != nil {
		l := *s.Logo
		l.Punched = slices.Clone(s.Logo.Punched)
		c.Logo = &l
	}
	return &c
}

// Filter returns the primitives of the given layers.
func (s *Scene) Filter(layers ...Layer) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if slices.Contains(layers, p.Layer) {
			out = append(out, p)
		}
	}
	return out
}
