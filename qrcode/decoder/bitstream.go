package decoder

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
)

const alphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// segmentReader accumulates decoded text across segments.
type segmentReader struct {
	bs      *bitutil.BitSource
	version *Version
	text    strings.Builder
	eci     encoding.Encoding
	haveECI bool
	fnc1    bool
	modes   []Mode
}

// decodeBitStream turns corrected data codewords into text.
func decodeBitStream(data []byte, version *Version) (string, []Mode, error) {
	r := &segmentReader{bs: bitutil.NewBitSource(data), version: version}
	for {
		if r.bs.Available() < 4 {
			break
		}
		bits, _ := r.bs.ReadBits(4)
		mode, err := modeForBits(bits)
		if err != nil {
			return "", nil, qrstyle.ErrFormat
		}
		if mode == ModeTerminator {
			break
		}
		if err := r.segment(mode); err != nil {
			return "", nil, err
		}
		r.modes = append(r.modes, mode)
	}
	return r.text.String(), r.modes, nil
}

func (r *segmentReader) read(n int) (int, error) {
	v, err := r.bs.ReadBits(n)
	if err != nil {
		return 0, qrstyle.ErrFormat
	}
	return v, nil
}

func (r *segmentReader) segment(mode Mode) error {
	switch mode {
	case ModeFNC1FirstPosition, ModeFNC1SecondPosition:
		r.fnc1 = true
		return nil
	case ModeStructuredAppend:
		_, err := r.read(16)
		return err
	case ModeECI:
		value, err := r.eciValue()
		if err != nil {
			return err
		}
		enc, ok := lookupECI(value)
		if !ok {
			return qrstyle.ErrFormat
		}
		r.eci, r.haveECI = enc, true
		return nil
	}

	count, err := r.read(mode.CharacterCountBits(r.version))
	if err != nil {
		return err
	}
	switch mode {
	case ModeNumeric:
		return r.numeric(count)
	case ModeAlphanumeric:
		return r.alphanumeric(count)
	case ModeByte:
		return r.bytes(count)
	case ModeKanji:
		return r.kanji(count)
	}
	return qrstyle.ErrFormat
}

func (r *segmentReader) eciValue() (int, error) {
	first, err := r.read(8)
	if err != nil {
		return 0, err
	}
	switch {
	case first&0x80 == 0:
		return first, nil
	case first&0xC0 == 0x80:
		next, err := r.read(8)
		return (first&0x3F)<<8 | next, err
	case first&0xE0 == 0xC0:
		next, err := r.read(16)
		return (first&0x1F)<<16 | next, err
	}
	return 0, qrstyle.ErrFormat
}

func (r *segmentReader) numeric(count int) error {
	for count > 0 {
		width, digits := 10, 3
		switch count {
		case 2:
			width, digits = 7, 2
		case 1:
			width, digits = 4, 1
		}
		v, err := r.read(width)
		if err != nil {
			return err
		}
		s := strconv.Itoa(v)
		if len(s) > digits {
			return qrstyle.ErrFormat
		}
		r.text.WriteString(strings.Repeat("0", digits-len(s)) + s)
		count -= digits
	}
	return nil
}

func (r *segmentReader) alphanumeric(count int) error {
	start := r.text.Len()
	for count > 0 {
		width, chars := 11, 2
		if count == 1 {
			width, chars = 6, 1
		}
		v, err := r.read(width)
		if err != nil {
			return err
		}
		pair := [2]int{v / 45, v % 45}
		if chars == 1 {
			pair = [2]int{v, -1}
		}
		for _, c := range pair[:chars] {
			if c >= len(alphanumericChars) {
				return qrstyle.ErrFormat
			}
			r.text.WriteByte(alphanumericChars[c])
		}
		count -= chars
	}
	if r.fnc1 {
		s := r.text.String()
		seg := strings.ReplaceAll(s[start:], "%%", "\x00")
		seg = strings.ReplaceAll(seg, "%", "\x1D")
		seg = strings.ReplaceAll(seg, "\x00", "%")
		r.text.Reset()
		r.text.WriteString(s[:start] + seg)
	}
	return nil
}

func (r *segmentReader) bytes(count int) error {
	if 8*count > r.bs.Available() {
		return qrstyle.ErrFormat
	}
	buf := make([]byte, count)
	for i := range buf {
		v, _ := r.bs.ReadBits(8)
		buf[i] = byte(v)
	}
	r.text.WriteString(decodeBytes(buf, r.eci, r.haveECI))
	return nil
}

func (r *segmentReader) kanji(count int) error {
	if 13*count > r.bs.Available() {
		return qrstyle.ErrFormat
	}
	buf := make([]byte, 0, 2*count)
	for i := 0; i < count; i++ {
		v, _ := r.bs.ReadBits(13)
		assembled := (v/0x0C0)<<8 | v%0x0C0
		if assembled < 0x01F00 {
			assembled += 0x08140
		} else {
			assembled += 0x0C140
		}
		buf = append(buf, byte(assembled>>8), byte(assembled))
	}
	r.text.WriteString(decodeBytes(buf, japanese.ShiftJIS, true))
	return nil
}
