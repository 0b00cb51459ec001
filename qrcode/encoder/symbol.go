package encoder

import (
	"fmt"
	"image"
	"strings"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
)

// DefaultQuietZone is the light border width, in modules, required by
// ISO/IEC 18004.
const DefaultQuietZone = 4

// Option configures Generate.
type Option func(*options)

type options struct {
	quietZone int
	version   int
	mask      int
}

// WithQuietZone sets the light border width in modules.
func WithQuietZone(modules int) Option {
	return func(o *options) { o.quietZone = modules }
}

// WithVersion forces a symbol version instead of the smallest that fits.
func WithVersion(n int) Option {
	return func(o *options) { o.version = n }
}

// WithMask forces a mask reference 0-7 instead of penalty selection.
func WithMask(mask int) Option {
	return func(o *options) { o.mask = mask }
}

// Symbol is an encoded QR symbol. Coordinates passed to its methods include
// the quiet zone, so (0, 0) is the top-left light border module.
type Symbol struct {
	Payload   string
	Version   int
	Level     qrstyle.Level
	Mode      decoder.Mode
	ECI       bool
	Mask      int
	QuietZone int

	grid    *grid
	blockOf []int
	blocks  []Block
}

// Generate encodes payload at level into the smallest symbol that holds it.
// The result is a pure function of its arguments.
func Generate(payload string, level qrstyle.Level, opts ...Option) (*Symbol, error) {
	o := options{quietZone: DefaultQuietZone, mask: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if !level.Valid() {
		return nil, fmt.Errorf("%w: correction level %d", qrstyle.ErrInvalidField, int(level))
	}
	if o.quietZone < 0 {
		return nil, fmt.Errorf("%w: quiet zone %d", qrstyle.ErrInvalidField, o.quietZone)
	}
	if o.mask >= numMaskPatterns {
		return nil, fmt.Errorf("%w: mask %d", qrstyle.ErrInvalidField, o.mask)
	}

	ecl := decoder.ECLevelOf(level)
	seg := newSegment(payload)

	var v *decoder.Version
	var err error
	if o.version > 0 {
		if v, err = decoder.VersionByNumber(o.version); err != nil {
			return nil, fmt.Errorf("%w: %v", qrstyle.ErrInvalidField, err)
		}
		if !seg.fits(v, ecl) {
			return nil, fmt.Errorf("%w: version %d-%s", qrstyle.ErrPayloadTooLarge, o.version, ecl)
		}
	} else if v, err = seg.chooseVersion(ecl); err != nil {
		return nil, err
	}

	data, blockOf, blocks := interleave(seg.codewords(v, ecl), v, ecl)

	g := newGrid(v.Dimension())
	mask := o.mask
	if mask < 0 {
		mask = chooseMask(g, data, v, ecl)
	}
	g.build(data, v, ecl, mask)

	return &Symbol{
		Payload:   payload,
		Version:   v.Number,
		Level:     level,
		Mode:      seg.mode,
		ECI:       seg.eci,
		Mask:      mask,
		QuietZone: o.quietZone,
		grid:      g,
		blockOf:   blockOf,
		blocks:    blocks,
	}, nil
}

// Fits reports whether payload fits some version at level. An undefined
// level fits nothing.
func Fits(payload string, level qrstyle.Level) bool {
	if !level.Valid() {
		return false
	}
	_, err := newSegment(payload).chooseVersion(decoder.ECLevelOf(level))
	return err == nil
}

// Dimension returns the side length in modules without quiet zone.
func (s *Symbol) Dimension() int { return s.grid.dim }

// Size returns the side length in modules including quiet zone.
func (s *Symbol) Size() int { return s.grid.dim + 2*s.QuietZone }

func (s *Symbol) index(x, y int) (int, bool) {
	x -= s.QuietZone
	y -= s.QuietZone
	if x < 0 || y < 0 || x >= s.grid.dim || y >= s.grid.dim {
		return 0, false
	}
	return y*s.grid.dim + x, true
}

// Dark reports whether module (x, y) is dark.
func (s *Symbol) Dark(x, y int) bool {
	i, ok := s.index(x, y)
	return ok && s.grid.cells[i] == 1
}

// Region returns the structural region of module (x, y).
func (s *Symbol) Region(x, y int) Region {
	if i, ok := s.index(x, y); ok {
		return s.grid.regions[i]
	}
	return RegionQuietZone
}

// Codeword returns the interleaved codeword index stored in module (x, y),
// or -1 for function modules, remainder bits and the quiet zone.
func (s *Symbol) Codeword(x, y int) int {
	if i, ok := s.index(x, y); ok {
		return int(s.grid.codeword[i])
	}
	return -1
}

// FinderIndex returns which finder pattern (0 top-left, 1 top-right,
// 2 bottom-left) contains module (x, y), or -1.
func (s *Symbol) FinderIndex(x, y int) int {
	if !s.Region(x, y).IsFinder() {
		return -1
	}
	x -= s.QuietZone
	y -= s.QuietZone
	switch {
	case x < 7 && y < 7:
		return 0
	case y < 7:
		return 1
	}
	return 2
}

// FinderOrigins returns the top-left module of each finder pattern,
// including quiet zone offset.
func (s *Symbol) FinderOrigins() [3]image.Point {
	q, far := s.QuietZone, s.QuietZone+s.grid.dim-7
	return [3]image.Point{{q, q}, {far, q}, {q, far}}
}

// Blocks returns the Reed-Solomon block layout.
func (s *Symbol) Blocks() []Block {
	return append([]Block(nil), s.blocks...)
}

// Damage returns, per block, how many distinct codewords touch at least one
// of the given modules.
func (s *Symbol) Damage(modules []image.Point) []int {
	seen := make(map[int]bool)
	damage := make([]int, len(s.blocks))
	for _, p := range modules {
		cw := s.Codeword(p.X, p.Y)
		if cw < 0 || seen[cw] {
			continue
		}
		seen[cw] = true
		damage[s.blockOf[cw]]++
	}
	return damage
}

// Tolerates reports whether a reader still recovers the payload when every
// given module is misread. Only data modules are considered; callers must
// keep function patterns intact on their own.
func (s *Symbol) Tolerates(modules []image.Point) bool {
	for i, d := range s.Damage(modules) {
		if d > s.blocks[i].Correctable {
			return false
		}
	}
	return true
}

// BitMatrix returns the modules without quiet zone, dark set.
func (s *Symbol) BitMatrix() *bitutil.BitMatrix {
	return s.grid.bitMatrix()
}

// Image draws the symbol including quiet zone with scale pixels per module.
func (s *Symbol) Image(scale int) *image.Gray {
	return qrstyle.BitMatrixToImage(s.grid.bitMatrix(), scale, s.QuietZone)
}

// String draws dark modules as "##", including quiet zone.
func (s *Symbol) String() string {
	var sb strings.Builder
	n := s.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if s.Dark(x, y) {
				sb.WriteString("##")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
