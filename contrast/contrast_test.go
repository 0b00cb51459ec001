package contrast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
)

func TestRatioExtremes(t *testing.T) {
	assert.InDelta(t, 1.0, Ratio(qrstyle.White, qrstyle.White), 1e-9)
	assert.InDelta(t, 21.0, Ratio(qrstyle.Black, qrstyle.White), 1e-9)
	assert.InDelta(t, 21.0, Ratio(qrstyle.White, qrstyle.Black), 1e-9)
}

func TestRatioProperties(t *testing.T) {
	colors := []qrstyle.Color{
		qrstyle.Black, qrstyle.White,
		qrstyle.RGB(255, 0, 0), qrstyle.RGB(0, 128, 0), qrstyle.RGB(30, 60, 200),
		qrstyle.RGB(119, 119, 119), qrstyle.RGB(250, 240, 10),
	}
	for _, a := range colors {
		assert.InDelta(t, 1.0, Ratio(a, a), 1e-12, "Ratio(%v, %v)", a, a)
		for _, b := range colors {
			r := Ratio(a, b)
			assert.InDelta(t, r, Ratio(b, a), 1e-12, "asymmetric for %v, %v", a, b)
			assert.True(t, r >= 1 && r <= 21, "Ratio(%v, %v) = %v", a, b, r)
		}
	}
}

func TestKnownRatio(t *testing.T) {
	// #777777 on white is the classic 4.48:1 example.
	r := Ratio(qrstyle.RGB(0x77, 0x77, 0x77), qrstyle.White)
	assert.InDelta(t, 4.48, math.Round(r*100)/100, 0.011)
}

func TestCheck(t *testing.T) {
	assert.Empty(t, Check(design.Default()))

	cfg := design.Default()
	cfg.Foreground = qrstyle.RGB(200, 200, 200)
	pale := qrstyle.RGB(240, 240, 240)
	cfg.EyeColors[2] = &pale
	warnings := Check(cfg)
	require.Len(t, warnings, 2)
	assert.Equal(t, "foreground/background", warnings[0].Pair)
	assert.Equal(t, "bottom-left eye/background", warnings[1].Pair)
	assert.Less(t, warnings[0].Ratio, Threshold)
	assert.Contains(t, warnings[0].String(), "low contrast")
}

func TestCheckCompositesAlpha(t *testing.T) {
	cfg := design.Default()
	cfg.Foreground = qrstyle.Color{A: 0.1}
	warnings := Check(cfg)
	require.Len(t, warnings, 1, "a nearly transparent foreground must be reported")
}
