// Package render turns an encoded symbol and a design into a scene of
// vector primitives.
package render

import (
	"image"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
	"github.com/ericlevine/qrstyle/scene"
)

// DefaultCanvasSize is the side of the square canvas in scene units.
const DefaultCanvasSize = 512

// Option configures Render.
type Option func(*options)

type options struct {
	canvas       float64
	cornerRadius float64
	borderWidth  float64
}

// WithCanvasSize sets the side of the square canvas.
func WithCanvasSize(size float64) Option {
	return func(o *options) { o.canvas = size }
}

// WithCornerRadius sets the background corner radius as a fraction of the
// canvas side.
func WithCornerRadius(fraction float64) Option {
	return func(o *options) { o.cornerRadius = fraction }
}

// WithBorderWidth sets the border stroke width in modules. Zero disables
// the border.
func WithBorderWidth(modules float64) Option {
	return func(o *options) { o.borderWidth = modules }
}

// Render draws sym in the style of cfg. It reads but never modifies its
// arguments and keeps no state between calls.
//
// Primitives are ordered background, accents on light data modules, dark
// data modules, the remaining function patterns, the finder eyes and
// finally the border.
func Render(sym *encoder.Symbol, cfg design.Config, opts ...Option) *scene.Scene {
	o := options{canvas: DefaultCanvasSize, cornerRadius: 0.04, borderWidth: 0.25}
	for _, opt := range opts {
		opt(&o)
	}
	if o.canvas <= 0 {
		o.canvas = DefaultCanvasSize
	}

	n := sym.Size()
	unit := o.canvas / float64(n)
	sc := &scene.Scene{
		Width:      o.canvas,
		Height:     o.canvas,
		ModuleSize: unit,
		Symbol:     sym,
		Background: cfg.Background,
	}
	r := renderer{sc: sc, sym: sym, cfg: cfg}

	radius := o.canvas * o.cornerRadius
	var bg scene.Path
	bg.RoundedRect(sc.Bounds(), [4]float64{radius, radius, radius, radius})
	r.add(scene.Primitive{Path: bg, Fill: paint(cfg.Background), Layer: scene.LayerBackground})

	if a := cfg.OffPixelAccent; a != nil && cfg.AccentOpacity() > 0 {
		fill := a.Color
		fill.A = 1
		r.modules(func(reg encoder.Region) bool { return reg == encoder.RegionDataOff }, func(x, y int) {
			r.add(scene.Primitive{
				Path:    pixelPath(a.Shape, sc.Cell(x, y), neighbors{}),
				Fill:    &fill,
				Opacity: cfg.AccentOpacity(),
				Layer:   scene.LayerAccent,
				Region:  encoder.RegionDataOff,
				Cell:    image.Pt(x, y),
			})
		})
	}

	r.modules(func(reg encoder.Region) bool { return reg == encoder.RegionDataOn }, r.pixel)
	r.modules(func(reg encoder.Region) bool {
		return reg == encoder.RegionFormatInfo || reg == encoder.RegionVersionInfo
	}, r.pixel)
	r.modules(func(reg encoder.Region) bool {
		return reg == encoder.RegionTiming || reg == encoder.RegionAlignment
	}, func(x, y int) {
		r.add(scene.Primitive{
			Path:   pixelPath(design.PixelSquare, sc.Cell(x, y), neighbors{}),
			Fill:   paint(cfg.Foreground),
			Layer:  scene.LayerModule,
			Region: sym.Region(x, y),
			Cell:   image.Pt(x, y),
		})
	})

	for i, origin := range sym.FinderOrigins() {
		ring, pupil := eyePaths(cfg.EyeShape, sc.Cell(origin.X, origin.Y), i, unit)
		r.add(scene.Primitive{Path: ring, Fill: paint(cfg.EyeColor(i)), Rule: scene.EvenOdd,
			Layer: scene.LayerEye, Region: encoder.RegionFinderOuter, Cell: origin})
		r.add(scene.Primitive{Path: pupil, Fill: paint(cfg.PupilColor),
			Layer: scene.LayerEye, Region: encoder.RegionFinderPupil, Cell: origin})
	}

	if o.borderWidth > 0 {
		w := o.borderWidth * unit
		var border scene.Path
		inner := radius - w/2
		border.RoundedRect(sc.Bounds().Inset(w/2), [4]float64{inner, inner, inner, inner})
		r.add(scene.Primitive{
			Path:   border,
			Stroke: &scene.Stroke{Color: cfg.Foreground, Width: w},
			Layer:  scene.LayerBorder,
		})
	}
	return sc
}

type renderer struct {
	sc  *scene.Scene
	sym *encoder.Symbol
	cfg design.Config
}

func (r *renderer) add(p scene.Primitive) {
	if p.Opacity == 0 {
		p.Opacity = 1
	}
	r.sc.Primitives = append(r.sc.Primitives, p)
}

// modules calls fn for every dark module whose region matches, plus every
// light one when the match is RegionDataOff.
func (r *renderer) modules(match func(encoder.Region) bool, fn func(x, y int)) {
	n := r.sym.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			reg := r.sym.Region(x, y)
			if match(reg) && (r.sym.Dark(x, y) || reg == encoder.RegionDataOff) {
				fn(x, y)
			}
		}
	}
}

func (r *renderer) pixel(x, y int) {
	n := neighbors{
		top:    r.joins(x, y-1),
		right:  r.joins(x+1, y),
		bottom: r.joins(x, y+1),
		left:   r.joins(x-1, y),
	}
	r.add(scene.Primitive{
		Path:   pixelPath(r.cfg.PixelShape, r.sc.Cell(x, y), n),
		Fill:   paint(r.cfg.Foreground),
		Layer:  scene.LayerModule,
		Region: r.sym.Region(x, y),
		Cell:   image.Pt(x, y),
	})
}

// joins reports whether a RoundedPath module at (x, y) would merge with its
// neighbor. Finder patterns are drawn separately and never join.
func (r *renderer) joins(x, y int) bool {
	return r.sym.Dark(x, y) && !r.sym.Region(x, y).IsFinder()
}

func paint(c qrstyle.Color) *qrstyle.Color {
	return &c
}
