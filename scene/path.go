// Package scene describes a rendered symbol as colored vector primitives,
// independent of any output format.
package scene

import "math"

// Op is a path drawing operation.
type Op uint8

const (
	OpMove Op = iota
	OpLine
	OpQuad  // one control point
	OpCubic // two control points
	OpClose
)

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Segment is one path operation. Pts holds the control points followed by
// the end point; unused entries are zero.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the segment's end point.
func (s Segment) End() Point {
	switch s.Op {
	case OpQuad:
		return s.Pts[1]
	case OpCubic:
		return s.Pts[2]
	}
	return s.Pts[0]
}

// Path is a sequence of subpaths.
type Path struct {
	Segments []Segment
}

func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpMove, Pts: [3]Point{{x, y}}})
}

func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, Pts: [3]Point{{x, y}}})
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpQuad, Pts: [3]Point{{cx, cy}, {x, y}}})
}

func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpCubic, Pts: [3]Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
}

// Append adds every subpath of q.
func (p *Path) Append(q Path) {
	p.Segments = append(p.Segments, q.Segments...)
}

// Reverse returns p with every subpath traced in the opposite direction.
// A hole reversed against its outline is cut out under either fill rule.
func (p Path) Reverse() Path {
	var out Path
	for start := 0; start < len(p.Segments); {
		end := start + 1
		for end < len(p.Segments) && p.Segments[end].Op != OpMove {
			end++
		}
		out.Segments = append(out.Segments, reverseSubpath(p.Segments[start:end])...)
		start = end
	}
	return out
}

func reverseSubpath(segs []Segment) []Segment {
	closed := segs[len(segs)-1].Op == OpClose
	if closed {
		segs = segs[:len(segs)-1]
	}
	if len(segs) == 0 {
		return nil
	}
	out := make([]Segment, 0, len(segs)+1)
	out = append(out, Segment{Op: OpMove, Pts: [3]Point{segs[len(segs)-1].End()}})
	for i := len(segs) - 1; i > 0; i-- {
		s, prev := segs[i], segs[i-1].End()
		switch s.Op {
		case OpQuad:
			out = append(out, Segment{Op: OpQuad, Pts: [3]Point{s.Pts[0], prev}})
		case OpCubic:
			out = append(out, Segment{Op: OpCubic, Pts: [3]Point{s.Pts[1], s.Pts[0], prev}})
		default:
			out = append(out, Segment{Op: OpLine, Pts: [3]Point{prev}})
		}
	}
	if closed {
		out = append(out, Segment{Op: OpClose})
	}
	return out
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool { return len(p.Segments) == 0 }

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// Rect adds a closed rectangle.
func (p *Path) Rect(r Rect) {
	p.MoveTo(r.Min.X, r.Min.Y)
	p.LineTo(r.Max.X, r.Min.Y)
	p.LineTo(r.Max.X, r.Max.Y)
	p.LineTo(r.Min.X, r.Max.Y)
	p.Close()
}

// RoundedRect adds a rectangle whose corners are rounded by radii, in the
// order top-left, top-right, bottom-right, bottom-left. Each radius is
// clamped to half the shorter side.
func (p *Path) RoundedRect(r Rect, radii [4]float64) {
	p.roundedRect(r, radii, kappa)
}

// Squircle adds a superellipse-like rounded square filling r.
func (p *Path) Squircle(r Rect) {
	half := math.Min(r.Dx(), r.Dy()) / 2
	p.roundedRect(r, [4]float64{half, half, half, half}, 0.88)
}

func (p *Path) roundedRect(r Rect, radii [4]float64, k float64) {
	limit := math.Min(r.Dx(), r.Dy()) / 2
	for i := range radii {
		radii[i] = math.Max(0, math.Min(radii[i], limit))
	}
	tl, tr, br, bl := radii[0], radii[1], radii[2], radii[3]
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	c := 1 - k

	p.MoveTo(x0+tl, y0)
	p.LineTo(x1-tr, y0)
	if tr > 0 {
		p.CubicTo(x1-tr*c, y0, x1, y0+tr*c, x1, y0+tr)
	}
	p.LineTo(x1, y1-br)
	if br > 0 {
		p.CubicTo(x1, y1-br*c, x1-br*c, y1, x1-br, y1)
	}
	p.LineTo(x0+bl, y1)
	if bl > 0 {
		p.CubicTo(x0+bl*c, y1, x0, y1-bl*c, x0, y1-bl)
	}
	p.LineTo(x0, y0+tl)
	if tl > 0 {
		p.CubicTo(x0, y0+tl*c, x0+tl*c, y0, x0+tl, y0)
	}
	p.Close()
}

// Ellipse adds an ellipse inscribed in r.
func (p *Path) Ellipse(r Rect) {
	c := r.Center()
	rx, ry := r.Dx()/2, r.Dy()/2
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(c.X+rx, c.Y)
	p.CubicTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry)
	p.CubicTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y)
	p.CubicTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry)
	p.CubicTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y)
	p.Close()
}

// Polygon adds a closed polygon.
func (p *Path) Polygon(pts ...Point) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()
}

// Bounds returns the bounding box of every point of the path, control
// points included.
func (p Path) Bounds() Rect {
	b := Rect{Min: Point{math.Inf(1), math.Inf(1)}, Max: Point{math.Inf(-1), math.Inf(-1)}}
	for _, s := range p.Segments {
		n := 1
		switch s.Op {
		case OpClose:
			continue
		case OpQuad:
			n = 2
		case OpCubic:
			n = 3
		}
		for _, pt := range s.Pts[:n] {
			b.Min.X = math.Min(b.Min.X, pt.X)
			b.Min.Y = math.Min(b.Min.Y, pt.Y)
			b.Max.X = math.Max(b.Max.X, pt.X)
			b.Max.Y = math.Max(b.Max.Y, pt.Y)
		}
	}
	if b.Min.X > b.Max.X {
		return Rect{}
	}
	return b
}

// Rect is an axis-aligned rectangle with Min inclusive and Max exclusive.
type Rect struct {
	Min, Max Point
}

// R returns the rectangle at (x, y) with size w×h.
func R(x, y, w, h float64) Rect {
	return Rect{Point{x, y}, Point{x + w, y + h}}
}

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Inset shrinks r by d on every side. Negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Point{r.Min.X + d, r.Min.Y + d}, Point{r.Max.X - d, r.Max.Y - d}}
}

// Overlaps reports whether r and s share interior area.
func (r Rect) Overlaps(s Rect) bool {
	return r.Min.X < s.Max.X && s.Min.X < r.Max.X && r.Min.Y < s.Max.Y && s.Min.Y < r.Max.Y
}

// Contains reports whether s lies within r.
func (r Rect) Contains(s Rect) bool {
	return s.Min.X >= r.Min.X && s.Min.Y >= r.Min.Y && s.Max.X <= r.Max.X && s.Max.Y <= r.Max.Y
}
