// Package qrstyle holds the value types and errors shared by the payload,
// symbol, rendering and export packages.
package qrstyle

import (
	"fmt"
	"strings"
)

// Level is the error correction level of a symbol.
type Level int

const (
	LevelLow    Level = iota // ~7% recoverable
	LevelMedium              // ~15% recoverable
	LevelHigh                // ~25% recoverable
	LevelMax                 // ~30% recoverable
)

// Levels lists every level from least to most redundant.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh, LevelMax}

// Percent returns the nominal share of codewords that can be restored.
func (l Level) Percent() int {
	switch l {
	case LevelLow:
		return 7
	case LevelMedium:
		return 15
	case LevelHigh:
		return 25
	case LevelMax:
		return 30
	}
	return 0
}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= LevelLow && l <= LevelMax
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelMax:
		return "max"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Letter returns the QR letter for the level (L, M, Q or H), or "?" for an
// undefined level.
func (l Level) Letter() string {
	if !l.Valid() {
		return "?"
	}
	return [...]string{"L", "M", "Q", "H"}[l]
}

// ParseLevel accepts a level name ("low") or its QR letter ("L").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return LevelLow, nil
	case "medium", "m":
		return LevelMedium, nil
	case "high", "q":
		return LevelHigh, nil
	case "max", "h":
		return LevelMax, nil
	}
	return 0, fmt.Errorf("%w: unknown correction level %q", ErrInvalidField, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: correction level %d", ErrInvalidField, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
