// Package contrast estimates whether a design's colors are distinct enough
// to scan reliably.
package contrast

import (
	"fmt"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
)

// Threshold is the ratio below which a color pair is reported.
const Threshold = 2.5

// Luminance returns the relative luminance of c's RGB channels.
func Luminance(c qrstyle.Color) float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Ratio returns the contrast ratio (L_lighter + 0.05) / (L_darker + 0.05),
// from 1 for identical colors to 21 for black on white. Alpha is ignored;
// composite translucent colors first.
func Ratio(fg, bg qrstyle.Color) float64 {
	a, b := Luminance(fg), Luminance(bg)
	if a < b {
		a, b = b, a
	}
	return (a + 0.05) / (b + 0.05)
}

// Warning reports a color pair that may not scan.
type Warning struct {
	// Pair names the checked colors, e.g. "foreground/background".
	Pair  string
	Ratio float64
}

func (w Warning) String() string {
	return fmt.Sprintf("low contrast %s: %.2f:1 (below %.1f:1)", w.Pair, w.Ratio, Threshold)
}

// Check returns a warning for every foreground color of cfg whose contrast
// with the background is below Threshold. Translucent colors are composited
// over the background first. Warnings are advisory.
func Check(cfg design.Config) []Warning {
	bg := cfg.Background.Over(qrstyle.White)
	pairs := []struct {
		name string
		c    qrstyle.Color
	}{
		{"foreground/background", cfg.Foreground},
		{"pupil/background", cfg.PupilColor},
	}
	for i, name := range [...]string{"top-left", "top-right", "bottom-left"} {
		if cfg.EyeColors[i] != nil {
			pairs = append(pairs, struct {
				name string
				c    qrstyle.Color
			}{name + " eye/background", *cfg.EyeColors[i]})
		}
	}
	var warnings []Warning
	for _, p := range pairs {
		if r := Ratio(p.c.Over(bg), bg); r < Threshold {
			warnings = append(warnings, Warning{Pair: p.name, Ratio: r})
		}
	}
	return warnings
}
