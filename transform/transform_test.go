package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
)

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestQuadToQuadCorners(t *testing.T) {
	tests := []struct {
		name     string
		from, to Quad
	}{
		{
			name: "scale",
			from: Quad{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
			to:   Quad{{5, 5}, {45, 5}, {45, 45}, {5, 45}},
		},
		{
			name: "quarter turn",
			from: Quad{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
			to:   Quad{{20, 0}, {20, 20}, {0, 20}, {0, 0}},
		},
		{
			name: "perspective",
			from: Quad{{3.5, 3.5}, {17.5, 3.5}, {17.5, 17.5}, {3.5, 17.5}},
			to:   Quad{{10, 12}, {90, 8}, {100, 95}, {4, 80}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := QuadToQuad(tt.from, tt.to)
			for i := range tt.from {
				if got := p.Apply(tt.from[i]); !near(got, tt.to[i]) {
					t.Errorf("corner %d: got %+v, want %+v", i, got, tt.to[i])
				}
			}
		})
	}
}

func TestQuadToSquareInvertsSquareToQuad(t *testing.T) {
	q := Quad{{10, 12}, {90, 8}, {100, 95}, {4, 80}}
	in := Point{0.25, 0.75}
	if got := QuadToSquare(q).Apply(SquareToQuad(q).Apply(in)); !near(got, in) {
		t.Errorf("round trip = %+v, want %+v", got, in)
	}
}

func TestSampleGrid(t *testing.T) {
	// a 3x3 checkerboard drawn at 4 pixels per module, offset by 2 pixels
	image := bitutil.NewBitMatrix(16)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if (x+y)%2 == 0 {
				image.SetRegion(2+4*x, 2+4*y, 4, 4)
			}
		}
	}
	p := QuadToQuad(
		Quad{{0, 0}, {3, 0}, {3, 3}, {0, 3}},
		Quad{{2, 2}, {14, 2}, {14, 14}, {2, 14}},
	)
	bits, err := SampleGrid(image, 3, p)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if want := (x+y)%2 == 0; bits.Get(x, y) != want {
				t.Errorf("module (%d,%d) = %v, want %v", x, y, bits.Get(x, y), want)
			}
		}
	}

	// one pixel of slack is clamped, more is not
	unit := Quad{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	edge := QuadToQuad(unit, Quad{{-2.5, 0}, {5.5, 0}, {5.5, 8}, {-2.5, 8}})
	if _, err := SampleGrid(image, 2, edge); err != nil {
		t.Errorf("clamped sample: %v", err)
	}
	outside := QuadToQuad(unit, Quad{{-40, 0}, {15, 0}, {15, 16}, {-40, 16}})
	if _, err := SampleGrid(image, 2, outside); !errors.Is(err, qrstyle.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := SampleGrid(image, 0, p); !errors.Is(err, qrstyle.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
