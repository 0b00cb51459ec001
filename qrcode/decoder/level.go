// Package decoder holds the QR code version tables and reads module matrices
// back into their text.
package decoder

import (
	"errors"

	"github.com/ericlevine/qrstyle"
)

var (
	errInvalidVersion = errors.New("qrcode/decoder: invalid version")
	errInvalidMode    = errors.New("qrcode/decoder: invalid mode")
)

// ErrorCorrectionLevel is the QR letter level. The ordinal matches
// qrstyle.Level.
type ErrorCorrectionLevel int

const (
	ECLevelL ErrorCorrectionLevel = iota
	ECLevelM
	ECLevelQ
	ECLevelH
)

// ECLevelOf maps a qrstyle.Level to its QR letter level.
func ECLevelOf(l qrstyle.Level) ErrorCorrectionLevel {
	return ErrorCorrectionLevel(l)
}

// Level returns the matching qrstyle.Level.
func (e ErrorCorrectionLevel) Level() qrstyle.Level {
	return qrstyle.Level(e)
}

// Bits returns the two bits stored in format information.
func (e ErrorCorrectionLevel) Bits() int {
	return [...]int{0x01, 0x00, 0x03, 0x02}[e]
}

func (e ErrorCorrectionLevel) String() string {
	return qrstyle.Level(e).Letter()
}

func ecLevelForBits(bits int) ErrorCorrectionLevel {
	return [...]ErrorCorrectionLevel{ECLevelM, ECLevelL, ECLevelH, ECLevelQ}[bits&0x03]
}

// Mode is a segment encoding mode.
type Mode int

const (
	ModeTerminator         Mode = 0x0
	ModeNumeric            Mode = 0x1
	ModeAlphanumeric       Mode = 0x2
	ModeStructuredAppend   Mode = 0x3
	ModeByte               Mode = 0x4
	ModeFNC1FirstPosition  Mode = 0x5
	ModeECI                Mode = 0x7
	ModeKanji              Mode = 0x8
	ModeFNC1SecondPosition Mode = 0x9
)

func (m Mode) String() string {
	switch m {
	case ModeNumeric:
		return "numeric"
	case ModeAlphanumeric:
		return "alphanumeric"
	case ModeByte:
		return "byte"
	case ModeKanji:
		return "kanji"
	case ModeECI:
		return "eci"
	}
	return "other"
}

func modeForBits(bits int) (Mode, error) {
	switch m := Mode(bits); m {
	case ModeTerminator, ModeNumeric, ModeAlphanumeric, ModeStructuredAppend, ModeByte,
		ModeFNC1FirstPosition, ModeECI, ModeKanji, ModeFNC1SecondPosition:
		return m, nil
	}
	return 0, errInvalidMode
}

// CharacterCountBits returns the width of the character count field for
// mode in version.
func (m Mode) CharacterCountBits(v *Version) int {
	var widths [3]int
	switch m {
	case ModeNumeric:
		widths = [3]int{10, 12, 14}
	case ModeAlphanumeric:
		widths = [3]int{9, 11, 13}
	case ModeByte:
		widths = [3]int{8, 16, 16}
	case ModeKanji:
		widths = [3]int{8, 10, 12}
	default:
		return 0
	}
	switch {
	case v.Number <= 9:
		return widths[0]
	case v.Number <= 26:
		return widths[1]
	}
	return widths[2]
}
