package decoder

import (
	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
)

// matrixParser reads format, version and codewords from a module matrix
// without quiet zone.
type matrixParser struct {
	bits *bitutil.BitMatrix
	dim  int
}

func newMatrixParser(bits *bitutil.BitMatrix) (*matrixParser, error) {
	dim := bits.Height()
	if dim < 21 || dim%4 != 1 || bits.Width() != dim {
		return nil, qrstyle.ErrFormat
	}
	return &matrixParser{bits: bits, dim: dim}, nil
}

func (p *matrixParser) shift(word, x, y int) int {
	word <<= 1
	if p.bits.Get(x, y) {
		word |= 1
	}
	return word
}

func (p *matrixParser) formatInformation() (*FormatInformation, error) {
	// copy around the top-left finder
	w1 := 0
	for x := 0; x < 6; x++ {
		w1 = p.shift(w1, x, 8)
	}
	w1 = p.shift(w1, 7, 8)
	w1 = p.shift(w1, 8, 8)
	w1 = p.shift(w1, 8, 7)
	for y := 5; y >= 0; y-- {
		w1 = p.shift(w1, 8, y)
	}

	// copy split between bottom-left and top-right
	w2 := 0
	for y := p.dim - 1; y >= p.dim-7; y-- {
		w2 = p.shift(w2, 8, y)
	}
	for x := p.dim - 8; x < p.dim; x++ {
		w2 = p.shift(w2, x, 8)
	}

	if fi := decodeFormatBits(w1, w2); fi != nil {
		return fi, nil
	}
	return nil, qrstyle.ErrFormat
}

func (p *matrixParser) version() (*Version, error) {
	provisional := (p.dim - 17) / 4
	if provisional <= 6 {
		return VersionByNumber(provisional)
	}

	// top-right block, 3 wide by 6 tall
	word := 0
	for y := 5; y >= 0; y-- {
		for x := p.dim - 9; x >= p.dim-11; x-- {
			word = p.shift(word, x, y)
		}
	}
	if v := decodeVersionBits(word); v != nil && v.Dimension() == p.dim {
		return v, nil
	}

	// bottom-left block, 6 wide by 3 tall
	word = 0
	for x := 5; x >= 0; x-- {
		for y := p.dim - 9; y >= p.dim-11; y-- {
			word = p.shift(word, x, y)
		}
	}
	if v := decodeVersionBits(word); v != nil && v.Dimension() == p.dim {
		return v, nil
	}
	return nil, qrstyle.ErrFormat
}

// codewords unmasks the matrix in place and reads the interleaved codewords
// in placement order.
func (p *matrixParser) codewords(v *Version, mask int) ([]byte, error) {
	unmask(p.bits, mask)
	function := v.FunctionPattern()

	result := make([]byte, 0, v.TotalCodewords)
	current, n := 0, 0
	up := true
	for col := p.dim - 1; col > 0; col -= 2 {
		if col == 6 {
			col--
		}
		for count := 0; count < p.dim; count++ {
			y := count
			if up {
				y = p.dim - 1 - count
			}
			for dx := 0; dx < 2; dx++ {
				x := col - dx
				if function.Get(x, y) {
					continue
				}
				current <<= 1
				if p.bits.Get(x, y) {
					current |= 1
				}
				n++
				if n == 8 {
					result = append(result, byte(current))
					current, n = 0, 0
				}
			}
		}
		up = !up
	}
	if len(result) != v.TotalCodewords {
		return nil, qrstyle.ErrFormat
	}
	return result, nil
}
