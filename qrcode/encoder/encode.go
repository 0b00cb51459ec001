// Package encoder turns payload strings into QR symbols with every module
// tagged by the structural region it belongs to.
package encoder

import (
	"fmt"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
	"github.com/ericlevine/qrstyle/reedsolomon"
)

var rs = reedsolomon.NewEncoder()

// alphanumericTable maps ASCII values to alphanumeric codes.
var alphanumericTable = [128]int8{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	36, -1, -1, -1, 37, 38, -1, -1, -1, -1, 39, 40, -1, 41, 42, 43,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 44, -1, -1, -1, -1, -1,
	-1, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24,
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
}

func alphanumericCode(c byte) int {
	if c < 128 {
		return int(alphanumericTable[c])
	}
	return -1
}

// ChooseMode returns the densest single mode that can carry content.
func ChooseMode(content string) decoder.Mode {
	if content == "" {
		return decoder.ModeByte
	}
	numeric := true
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c >= '0' && c <= '9' {
			continue
		}
		numeric = false
		if alphanumericCode(c) == -1 {
			return decoder.ModeByte
		}
	}
	if numeric {
		return decoder.ModeNumeric
	}
	return decoder.ModeAlphanumeric
}

func needsECI(content string) bool {
	for i := 0; i < len(content); i++ {
		if content[i] >= 0x80 {
			return true
		}
	}
	return false
}

// segment is the mode header and data bits of a payload, before the
// version-dependent character count is known.
type segment struct {
	mode   decoder.Mode
	eci    bool
	count  int
	header bitutil.Buffer
	data   bitutil.Buffer
}

func newSegment(content string) *segment {
	s := &segment{mode: ChooseMode(content), eci: needsECI(content), count: len(content)}
	if s.eci {
		s.header.AppendBits(uint32(decoder.ModeECI), 4)
		s.header.AppendBits(decoder.ECIUTF8, 8)
	}
	s.header.AppendBits(uint32(s.mode), 4)

	switch s.mode {
	case decoder.ModeNumeric:
		for i := 0; i < len(content); i += 3 {
			chunk := content[i:min(i+3, len(content))]
			v := 0
			for j := 0; j < len(chunk); j++ {
				v = v*10 + int(chunk[j]-'0')
			}
			s.data.AppendBits(uint32(v), [...]int{0, 4, 7, 10}[len(chunk)])
		}
	case decoder.ModeAlphanumeric:
		for i := 0; i < len(content); i += 2 {
			if i+1 < len(content) {
				s.data.AppendBits(uint32(alphanumericCode(content[i])*45+alphanumericCode(content[i+1])), 11)
			} else {
				s.data.AppendBits(uint32(alphanumericCode(content[i])), 6)
			}
		}
	default:
		for i := 0; i < len(content); i++ {
			s.data.AppendBits(uint32(content[i]), 8)
		}
	}
	return s
}

func (s *segment) bitsFor(v *decoder.Version) int {
	return s.header.Len() + s.mode.CharacterCountBits(v) + s.data.Len()
}

func (s *segment) fits(v *decoder.Version, level decoder.ErrorCorrectionLevel) bool {
	countBits := s.mode.CharacterCountBits(v)
	return s.count < 1<<uint(countBits) && s.bitsFor(v) <= v.DataCodewords(level)*8
}

func (s *segment) chooseVersion(level decoder.ErrorCorrectionLevel) (*decoder.Version, error) {
	for n := 1; n <= 40; n++ {
		v, _ := decoder.VersionByNumber(n)
		if s.fits(v, level) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %d data bits at level %s", qrstyle.ErrPayloadTooLarge, s.data.Len(), level)
}

// codewords returns the terminated and padded data codewords for v.
func (s *segment) codewords(v *decoder.Version, level decoder.ErrorCorrectionLevel) []byte {
	var bits bitutil.Buffer
	bits.Append(&s.header)
	bits.AppendBits(uint32(s.count), s.mode.CharacterCountBits(v))
	bits.Append(&s.data)

	capacity := v.DataCodewords(level) * 8
	for i := 0; i < 4 && bits.Len() < capacity; i++ {
		bits.AppendBit(false)
	}
	for bits.Len()%8 != 0 {
		bits.AppendBit(false)
	}
	for i := 0; bits.Len() < capacity; i++ {
		if i%2 == 0 {
			bits.AppendBits(0xEC, 8)
		} else {
			bits.AppendBits(0x11, 8)
		}
	}
	return bits.Bytes()
}

// Block is one Reed-Solomon block of a symbol.
type Block struct {
	Data int // data codewords
	EC   int // error correction codewords

	// Correctable is how many codewords in the block may be wrong while a
	// reader still recovers it.
	Correctable int
}

// interleave splits data into blocks, appends error correction codewords and
// interleaves the result. blockOf maps each interleaved codeword to its block.
func interleave(data []byte, v *decoder.Version, level decoder.ErrorCorrectionLevel) (out []byte, blockOf []int, blocks []Block) {
	ecb := v.ECBlocksForLevel(level)
	protect := v.MisdecodeProtection(level)

	var dataBlocks, ecBlocks [][]byte
	offset := 0
	for _, group := range ecb.Blocks {
		for i := 0; i < group.Count; i++ {
			d := data[offset : offset+group.DataCodewords]
			offset += group.DataCodewords
			dataBlocks = append(dataBlocks, d)
			ecBlocks = append(ecBlocks, rs.Encode(d, ecb.ECCodewordsPerBlock))
			blocks = append(blocks, Block{
				Data:        group.DataCodewords,
				EC:          ecb.ECCodewordsPerBlock,
				Correctable: (ecb.ECCodewordsPerBlock - protect) / 2,
			})
		}
	}

	out = make([]byte, 0, v.TotalCodewords)
	blockOf = make([]int, 0, v.TotalCodewords)
	for _, set := range [2][][]byte{dataBlocks, ecBlocks} {
		longest := len(set[len(set)-1])
		for i := 0; i < longest; i++ {
			for j, blk := range set {
				if i < len(blk) {
					out = append(out, blk[i])
					blockOf = append(blockOf, j)
				}
			}
		}
	}
	return out, blockOf, blocks
}
