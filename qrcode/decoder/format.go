package decoder

import (
	"math/bits"

	"github.com/ericlevine/qrstyle/bitutil"
)

const (
	formatPoly  = 0x537
	formatMask  = 0x5412
	versionPoly = 0x1f25
)

// DataMask reports whether module (row i, column j) is flipped by a mask.
type DataMask func(i, j int) bool

// DataMasks holds the eight mask patterns, indexed by mask reference.
var DataMasks = [8]DataMask{
	func(i, j int) bool { return (i+j)%2 == 0 },
	func(i, j int) bool { return i%2 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)%2 == 0 },
	func(i, j int) bool { return (i*j)%2+(i*j)%3 == 0 },
	func(i, j int) bool { return ((i*j)%2+(i*j)%3)%2 == 0 },
	func(i, j int) bool { return ((i+j)%2+(i*j)%3)%2 == 0 },
}

func unmask(m *bitutil.BitMatrix, mask int) {
	f := DataMasks[mask]
	dim := m.Height()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if f(i, j) {
				m.Flip(j, i)
			}
		}
	}
}

// bch appends the BCH remainder of value under poly.
func bch(value, poly int) int {
	msb := bits.Len(uint(poly))
	value <<= uint(msb - 1)
	for bits.Len(uint(value)) >= msb {
		value ^= poly << uint(bits.Len(uint(value))-msb)
	}
	return value
}

// FormatBits returns the masked 15-bit format information word.
func FormatBits(level ErrorCorrectionLevel, mask int) int {
	info := level.Bits()<<3 | mask
	return (info<<10 | bch(info, formatPoly)) ^ formatMask
}

// VersionBits returns the 18-bit version information word.
func VersionBits(version int) int {
	return version<<12 | bch(version, versionPoly)
}

// FormatInformation is the decoded level and mask of a symbol.
type FormatInformation struct {
	ECLevel ErrorCorrectionLevel
	Mask    int
}

// decodeFormatBits returns the format information nearest to either copy,
// within 3 bit errors.
func decodeFormatBits(word1, word2 int) *FormatInformation {
	bestDiff := 32
	var best FormatInformation
	for level := ECLevelL; level <= ECLevelH; level++ {
		for mask := 0; mask < 8; mask++ {
			target := FormatBits(level, mask)
			for _, w := range [2]int{word1, word2} {
				if d := bits.OnesCount(uint(w ^ target)); d < bestDiff {
					bestDiff = d
					best = FormatInformation{ECLevel: level, Mask: mask}
				}
			}
		}
	}
	if bestDiff <= 3 {
		return &best
	}
	return nil
}
