// Package transform maps module coordinates onto image pixels and samples
// module grids through that mapping.
package transform

// Point is a position in either module or pixel space.
type Point struct {
	X, Y float64
}

// Quad lists four corners clockwise from the top-left.
type Quad [4]Point

// Perspective is a projective mapping of the plane:
//
//	x' = (a11 x + a21 y + a31) / (a13 x + a23 y + a33)
//	y' = (a12 x + a22 y + a32) / (a13 x + a23 y + a33)
type Perspective struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// QuadToQuad returns the mapping that sends each corner of from onto the
// matching corner of to.
func QuadToQuad(from, to Quad) Perspective {
	return SquareToQuad(to).times(QuadToSquare(from))
}

// SquareToQuad maps the unit square onto q.
func SquareToQuad(q Quad) Perspective {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// parallelogram
		return Perspective{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a33: 1,
		}
	}
	dx1, dx2 := x1-x2, x3-x2
	dy1, dy2 := y1-y2, y3-y2
	den := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / den
	a23 := (dx1*dy3 - dx3*dy1) / den
	return Perspective{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

// QuadToSquare maps q onto the unit square.
func QuadToSquare(q Quad) Perspective {
	return SquareToQuad(q).adjoint()
}

// Apply maps a single point.
func (p Perspective) Apply(pt Point) Point {
	den := p.a13*pt.X + p.a23*pt.Y + p.a33
	return Point{
		X: (p.a11*pt.X + p.a21*pt.Y + p.a31) / den,
		Y: (p.a12*pt.X + p.a22*pt.Y + p.a32) / den,
	}
}

// adjoint is the inverse up to scale, which a projective mapping ignores.
func (p Perspective) adjoint() Perspective {
	return Perspective{
		a11: p.a22*p.a33 - p.a23*p.a32,
		a21: p.a23*p.a31 - p.a21*p.a33,
		a31: p.a21*p.a32 - p.a22*p.a31,
		a12: p.a13*p.a32 - p.a12*p.a33,
		a22: p.a11*p.a33 - p.a13*p.a31,
		a32: p.a12*p.a31 - p.a11*p.a32,
		a13: p.a12*p.a23 - p.a13*p.a22,
		a23: p.a13*p.a21 - p.a11*p.a23,
		a33: p.a11*p.a22 - p.a12*p.a21,
	}
}

// times composes p after o.
func (p Perspective) times(o Perspective) Perspective {
	return Perspective{
		a11: p.a11*o.a11 + p.a21*o.a12 + p.a31*o.a13,
		a21: p.a11*o.a21 + p.a21*o.a22 + p.a31*o.a23,
		a31: p.a11*o.a31 + p.a21*o.a32 + p.a31*o.a33,
		a12: p.a12*o.a11 + p.a22*o.a12 + p.a32*o.a13,
		a22: p.a12*o.a21 + p.a22*o.a22 + p.a32*o.a23,
		a32: p.a12*o.a31 + p.a22*o.a32 + p.a32*o.a33,
		a13: p.a13*o.a11 + p.a23*o.a12 + p.a33*o.a13,
		a23: p.a13*o.a21 + p.a23*o.a22 + p.a33*o.a23,
		a33: p.a13*o.a31 + p.a23*o.a32 + p.a33*o.a33,
	}
}
