package encoder

import (
	"math"

	"github.com/ericlevine/qrstyle/qrcode/decoder"
)

const numMaskPatterns = 8

// chooseMask builds the symbol under every mask and keeps the one with the
// lowest penalty. Ties go to the lower mask reference.
func chooseMask(g *grid, data []byte, v *decoder.Version, level decoder.ErrorCorrectionLevel) int {
	best, bestPenalty := 0, math.MaxInt
	for mask := 0; mask < numMaskPatterns; mask++ {
		g.build(data, v, level, mask)
		if p := penalty(g); p < bestPenalty {
			best, bestPenalty = mask, p
		}
	}
	return best
}

func penalty(g *grid) int {
	return penaltyRuns(g, true) + penaltyRuns(g, false) + penaltyBlocks(g) + penaltyFinderLike(g) + penaltyBalance(g)
}

// penaltyRuns scores runs of five or more same-colored modules.
func penaltyRuns(g *grid, horizontal bool) int {
	total := 0
	for i := 0; i < g.dim; i++ {
		run := 0
		prev := byte(empty)
		for j := 0; j < g.dim; j++ {
			var bit byte
			if horizontal {
				bit = g.get(j, i)
			} else {
				bit = g.get(i, j)
			}
			if bit == prev {
				run++
				continue
			}
			if run >= 5 {
				total += 3 + run - 5
			}
			run, prev = 1, bit
		}
		if run >= 5 {
			total += 3 + run - 5
		}
	}
	return total
}

// penaltyBlocks scores every 2x2 block of one color.
func penaltyBlocks(g *grid) int {
	total := 0
	for y := 0; y < g.dim-1; y++ {
		for x := 0; x < g.dim-1; x++ {
			v := g.get(x, y)
			if v == g.get(x+1, y) && v == g.get(x, y+1) && v == g.get(x+1, y+1) {
				total += 3
			}
		}
	}
	return total
}

var finderLike = [7]byte{1, 0, 1, 1, 1, 0, 1}

// penaltyFinderLike scores 1:1:3:1:1 patterns with four light modules on
// either side. Modules past the edge belong to the quiet zone and are light.
func penaltyFinderLike(g *grid) int {
	at := func(x, y int, horizontal bool) byte {
		if horizontal {
			return g.get(x, y)
		}
		return g.get(y, x)
	}
	light := func(y, from, to int, horizontal bool) bool {
		for k := max(from, 0); k < min(to, g.dim); k++ {
			if at(k, y, horizontal) != 0 {
				return false
			}
		}
		return true
	}
	total := 0
	for _, horizontal := range [2]bool{true, false} {
		for y := 0; y < g.dim; y++ {
			for x := 0; x+7 <= g.dim; x++ {
				match := true
				for k, want := range finderLike {
					if at(x+k, y, horizontal) != want {
						match = false
						break
					}
				}
				if match && (light(y, x+7, x+11, horizontal) || light(y, x-4, x, horizontal)) {
					total += 40
				}
			}
		}
	}
	return total
}

// penaltyBalance scores the deviation of the dark share from 50%.
func penaltyBalance(g *grid) int {
	dark := 0
	for _, c := range g.cells {
		if c == 1 {
			dark++
		}
	}
	n := len(g.cells)
	return abs(dark*2-n) * 10 / n * 10
}
