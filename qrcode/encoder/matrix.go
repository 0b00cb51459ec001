package encoder

import (
	"github.com/ericlevine/qrstyle/bitutil"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
)

const empty = 0xFF

// grid is the module matrix under construction, without quiet zone.
type grid struct {
	dim      int
	cells    []byte // 0, 1 or empty
	regions  []Region
	codeword []int16 // interleaved codeword index of data modules, -1 otherwise
}

func newGrid(dim int) *grid {
	return &grid{
		dim:      dim,
		cells:    make([]byte, dim*dim),
		regions:  make([]Region, dim*dim),
		codeword: make([]int16, dim*dim),
	}
}

func (g *grid) get(x, y int) byte { return g.cells[y*g.dim+x] }

func (g *grid) set(x, y int, v byte, r Region) {
	i := y*g.dim + x
	g.cells[i] = v
	g.regions[i] = r
	g.codeword[i] = -1
}

// build lays out function patterns and places the masked data bits.
func (g *grid) build(data []byte, v *decoder.Version, level decoder.ErrorCorrectionLevel, mask int) {
	for i := range g.cells {
		g.cells[i] = empty
	}
	g.embedFinders()
	for _, c := range v.AlignmentCenters() {
		g.embedAlignment(c[0], c[1])
	}
	g.embedTiming()
	g.embedFormat(level, mask)
	if v.Number >= 7 {
		g.embedVersion(v.Number)
	}
	g.embedData(data, mask)
}

func (g *grid) embedFinders() {
	for _, o := range [3][2]int{{0, 0}, {g.dim - 7, 0}, {0, g.dim - 7}} {
		for y := 0; y < 7; y++ {
			for x := 0; x < 7; x++ {
				ring := max(abs(x-3), abs(y-3))
				var bit byte
				if ring != 2 {
					bit = 1
				}
				r := RegionFinderOuter
				if ring <= 1 {
					r = RegionFinderPupil
				}
				g.set(o[0]+x, o[1]+y, bit, r)
			}
		}
	}
	// separators: one light module around each finder toward the interior
	for i := 0; i < 8; i++ {
		g.set(i, 7, 0, RegionSeparator)
		g.set(7, i, 0, RegionSeparator)
		g.set(g.dim-1-i, 7, 0, RegionSeparator)
		g.set(g.dim-8, i, 0, RegionSeparator)
		g.set(i, g.dim-8, 0, RegionSeparator)
		g.set(7, g.dim-1-i, 0, RegionSeparator)
	}
}

func (g *grid) embedAlignment(cx, cy int) {
	for y := -2; y <= 2; y++ {
		for x := -2; x <= 2; x++ {
			var bit byte
			if max(abs(x), abs(y)) != 1 {
				bit = 1
			}
			g.set(cx+x, cy+y, bit, RegionAlignment)
		}
	}
}

func (g *grid) embedTiming() {
	for i := 8; i < g.dim-8; i++ {
		bit := byte((i + 1) % 2)
		if g.get(i, 6) == empty {
			g.set(i, 6, bit, RegionTiming)
		}
		if g.get(6, i) == empty {
			g.set(6, i, bit, RegionTiming)
		}
	}
}

// formatCoordinates lists the top-left copy of the format bits, least
// significant bit first.
var formatCoordinates = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

func (g *grid) embedFormat(level decoder.ErrorCorrectionLevel, mask int) {
	word := decoder.FormatBits(level, mask)
	for i := 0; i < 15; i++ {
		bit := byte(word >> uint(i) & 1)
		c := formatCoordinates[i]
		g.set(c[0], c[1], bit, RegionFormatInfo)
		if i < 8 {
			g.set(g.dim-1-i, 8, bit, RegionFormatInfo)
		} else {
			g.set(8, g.dim-7+(i-8), bit, RegionFormatInfo)
		}
	}
	g.set(8, g.dim-8, 1, RegionFormatInfo)
}

func (g *grid) embedVersion(number int) {
	word := decoder.VersionBits(number)
	for i := 0; i < 18; i++ {
		bit := byte(word >> uint(i) & 1)
		a, b := i/3, g.dim-11+i%3
		g.set(a, b, bit, RegionVersionInfo)
		g.set(b, a, bit, RegionVersionInfo)
	}
}

// embedData fills every empty module in the standard two-column zigzag,
// recording which codeword each module came from.
func (g *grid) embedData(data []byte, mask int) {
	total := len(data) * 8
	bitIndex := 0
	up := true
	for col := g.dim - 1; col > 0; col -= 2 {
		if col == 6 {
			col--
		}
		for count := 0; count < g.dim; count++ {
			y := count
			if up {
				y = g.dim - 1 - count
			}
			for dx := 0; dx < 2; dx++ {
				x := col - dx
				if g.get(x, y) != empty {
					continue
				}
				var bit bool
				cw := int16(-1)
				if bitIndex < total {
					bit = data[bitIndex/8]&(0x80>>uint(bitIndex%8)) != 0
					cw = int16(bitIndex / 8)
					bitIndex++
				}
				if decoder.DataMasks[mask](y, x) {
					bit = !bit
				}
				i := y*g.dim + x
				if bit {
					g.cells[i], g.regions[i] = 1, RegionDataOn
				} else {
					g.cells[i], g.regions[i] = 0, RegionDataOff
				}
				g.codeword[i] = cw
			}
		}
		up = !up
	}
}

func (g *grid) bitMatrix() *bitutil.BitMatrix {
	m := bitutil.NewBitMatrix(g.dim)
	for y := 0; y < g.dim; y++ {
		for x := 0; x < g.dim; x++ {
			if g.get(x, y) == 1 {
				m.Set(x, y)
			}
		}
	}
	return m
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
