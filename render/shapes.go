package render

import (
	"math"

	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/scene"
)

// neighbors records which orthogonal neighbors of a module are drawn dark.
type neighbors struct {
	top, right, bottom, left bool
}

// pixelPath returns the geometry of one module of shape s filling cell.
func pixelPath(s design.PixelShape, cell scene.Rect, n neighbors) scene.Path {
	var p scene.Path
	size := cell.Dx()
	switch s {
	case design.PixelCircle:
		p.Ellipse(cell)
	case design.PixelRoundedRect:
		r := 0.3 * size
		p.RoundedRect(cell, [4]float64{r, r, r, r})
	case design.PixelDiamond:
		c := cell.Center()
		p.Polygon(
			scene.Point{X: c.X, Y: cell.Min.Y},
			scene.Point{X: cell.Max.X, Y: c.Y},
			scene.Point{X: c.X, Y: cell.Max.Y},
			scene.Point{X: cell.Min.X, Y: c.Y},
		)
	case design.PixelStar:
		p.Polygon(star(cell.Center(), size/2, size/4.5, 5)...)
	case design.PixelSquircle:
		p.Squircle(cell)
	case design.PixelRoundedPath:
		r := size / 2
		corner := func(a, b bool) float64 {
			if a || b {
				return 0
			}
			return r
		}
		p.RoundedRect(cell, [4]float64{
			corner(n.top, n.left),
			corner(n.top, n.right),
			corner(n.bottom, n.right),
			corner(n.bottom, n.left),
		})
	default:
		p.Rect(cell)
	}
	return p
}

// star returns the vertices of a star with the first point straight up.
func star(c scene.Point, outer, inner float64, points int) []scene.Point {
	pts := make([]scene.Point, 0, 2*points)
	for i := 0; i < 2*points; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(points)
		pts = append(pts, scene.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return pts
}

// Eye corner indexes into the radii passed to RoundedRect.
const (
	cornerTL = iota
	cornerTR
	cornerBR
	cornerBL
)

// outerCorner is the corner of each finder pattern that points away from
// the symbol.
var outerCorner = [3]int{cornerTL, cornerTR, cornerBL}

// eyeShapePath adds shape s filling r to p. finder selects the leaf
// orientation; unit is the module size.
func eyeShapePath(p *scene.Path, s design.EyeShape, r scene.Rect, finder int, unit float64) {
	modules := r.Dx() / unit
	switch s {
	case design.EyeCircle:
		p.Ellipse(r)
	case design.EyeRoundedRect:
		rad := unit * modules / 4.5
		p.RoundedRect(r, [4]float64{rad, rad, rad, rad})
	case design.EyeLeaf:
		rad := r.Dx() * 0.45
		var radii [4]float64
		sharp := outerCorner[finder]
		for i := range radii {
			// the outward corner and its opposite stay sharp
			if i != sharp && i != (sharp+2)%4 {
				radii[i] = rad
			}
		}
		p.RoundedRect(r, radii)
	case design.EyeSquircle:
		p.Squircle(r)
	default:
		p.Rect(r)
	}
}

// eyePaths returns the 7×7 outer ring and the 3×3 pupil. The ring's 5×5
// hole winds against its outline, so nonzero and even-odd fills both leave
// it open.
func eyePaths(s design.EyeShape, origin scene.Rect, finder int, unit float64) (ring, pupil scene.Path) {
	outer := scene.R(origin.Min.X, origin.Min.Y, 7*unit, 7*unit)
	eyeShapePath(&ring, s, outer, finder, unit)
	var hole scene.Path
	eyeShapePath(&hole, s, outer.Inset(unit), finder, unit)
	ring.Append(hole.Reverse())
	eyeShapePath(&pupil, s, outer.Inset(2*unit), finder, unit)
	return ring, pupil
}
