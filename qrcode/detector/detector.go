// Package detector locates a QR symbol in a binary image by its three finder
// patterns, at any rotation and anywhere in the image, and samples its
// module grid.
package detector

import (
	"fmt"
	"math"
	"sort"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/bitutil"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
	"github.com/ericlevine/qrstyle/transform"
)

// maxCandidates bounds the triples considered when choosing finder patterns.
const maxCandidates = 16

// Result is a sampled module grid and the finder centers that located it.
type Result struct {
	Bits       *bitutil.BitMatrix
	TopLeft    transform.Point
	TopRight   transform.Point
	BottomLeft transform.Point
	ModuleSize float64
}

// Detector finds a symbol in a binarized image.
type Detector struct {
	image *bitutil.BitMatrix
}

// New returns a Detector over image, where set bits are dark.
func New(image *bitutil.BitMatrix) *Detector {
	return &Detector{image: image}
}

// Detect finds three finder patterns, orders them, and samples the grid they
// span.
func (d *Detector) Detect() (*Result, error) {
	centers := d.findCandidates()
	best, err := selectBest(centers)
	if err != nil {
		return nil, err
	}
	tl, tr, bl := order(best)

	moduleSize := (tl.moduleSize + tr.moduleSize + bl.moduleSize) / 3
	if moduleSize < 1 {
		return nil, fmt.Errorf("%w: module size %.2f", qrstyle.ErrNotFound, moduleSize)
	}
	dim, err := dimension(tl, tr, bl, moduleSize)
	if err != nil {
		return nil, err
	}

	// Flat artwork has no perspective, so the fourth corner completes the
	// parallelogram.
	far := float64(dim) - 3.5
	from := transform.Quad{{X: 3.5, Y: 3.5}, {X: far, Y: 3.5}, {X: far, Y: far}, {X: 3.5, Y: far}}
	to := transform.Quad{
		tl.point(),
		tr.point(),
		{X: tr.x - tl.x + bl.x, Y: tr.y - tl.y + bl.y},
		bl.point(),
	}
	bits, err := transform.SampleGrid(d.image, dim, transform.QuadToQuad(from, to))
	if err != nil {
		return nil, err
	}
	return &Result{
		Bits:       bits,
		TopLeft:    tl.point(),
		TopRight:   tr.point(),
		BottomLeft: bl.point(),
		ModuleSize: moduleSize,
	}, nil
}

type finderPattern struct {
	x, y       float64
	moduleSize float64
	count      int
}

func (f *finderPattern) point() transform.Point {
	return transform.Point{X: f.x, Y: f.y}
}

func (f *finderPattern) near(moduleSize, x, y float64) bool {
	if math.Abs(y-f.y) > moduleSize || math.Abs(x-f.x) > moduleSize {
		return false
	}
	diff := math.Abs(moduleSize - f.moduleSize)
	return diff <= 1 || diff <= f.moduleSize
}

// merge folds another sighting into the running average.
func (f *finderPattern) merge(moduleSize, x, y float64) {
	n := float64(f.count)
	f.x = (n*f.x + x) / (n + 1)
	f.y = (n*f.y + y) / (n + 1)
	f.moduleSize = (n*f.moduleSize + moduleSize) / (n + 1)
	f.count++
}

// findCandidates scans rows for dark-light-dark-light-dark runs in 1:1:3:1:1
// proportion and keeps those that cross-check vertically and horizontally.
func (d *Detector) findCandidates() []*finderPattern {
	width, height := d.image.Width(), d.image.Height()
	skip := max(1, 3*height/(4*177))

	var centers []*finderPattern
	for y := skip - 1; y < height; y += skip {
		var counts [5]int
		state := 0
		for x := 0; x < width; x++ {
			if d.image.Get(x, y) {
				if state&1 == 1 {
					state++
				}
				counts[state]++
				continue
			}
			if state&1 == 1 {
				counts[state]++
				continue
			}
			if state != 4 {
				state++
				counts[state]++
				continue
			}
			if runsMatch(counts) && d.confirm(counts, x, y, &centers) {
				counts = [5]int{}
				state = 0
				continue
			}
			counts = [5]int{counts[2], counts[3], counts[4], 1, 0}
			state = 3
		}
		if state == 4 && runsMatch(counts) {
			d.confirm(counts, width, y, &centers)
		}
	}
	return centers
}

// confirm cross-checks a horizontal match that ended just before column end.
func (d *Detector) confirm(counts [5]int, end, y int, centers *[]*finderPattern) bool {
	total := counts[0] + counts[1] + counts[2] + counts[3] + counts[4]
	cx := centerFromEnd(counts, end)
	cy := d.crossCheck(int(cx), y, true, counts[2], total)
	if math.IsNaN(cy) {
		return false
	}
	cx = d.crossCheck(int(cx), int(cy), false, counts[2], total)
	if math.IsNaN(cx) {
		return false
	}
	moduleSize := float64(total) / 7
	for _, c := range *centers {
		if c.near(moduleSize, cx, cy) {
			c.merge(moduleSize, cx, cy)
			return true
		}
	}
	*centers = append(*centers, &finderPattern{x: cx, y: cy, moduleSize: moduleSize, count: 1})
	return true
}

// crossCheck counts the five runs through (x, y) along one axis and returns
// the center of the middle run on that axis, or NaN when the runs are not a
// finder pattern of about the same size as the original sighting.
func (d *Detector) crossCheck(x, y int, vertical bool, maxCount, originalTotal int) float64 {
	start, limit := x, d.image.Width()
	dark := func(t int) bool { return d.image.Get(t, y) }
	if vertical {
		start, limit = y, d.image.Height()
		dark = func(t int) bool { return d.image.Get(x, t) }
	}
	if start < 0 || start >= limit {
		return math.NaN()
	}

	var counts [5]int
	t := start
	for t >= 0 && dark(t) {
		counts[2]++
		t--
	}
	if t < 0 {
		return math.NaN()
	}
	for t >= 0 && !dark(t) && counts[1] <= maxCount {
		counts[1]++
		t--
	}
	if t < 0 || counts[1] > maxCount {
		return math.NaN()
	}
	for t >= 0 && dark(t) && counts[0] <= maxCount {
		counts[0]++
		t--
	}
	if counts[0] > maxCount {
		return math.NaN()
	}

	t = start + 1
	for t < limit && dark(t) {
		counts[2]++
		t++
	}
	if t == limit {
		return math.NaN()
	}
	for t < limit && !dark(t) && counts[3] <= maxCount {
		counts[3]++
		t++
	}
	if t == limit || counts[3] > maxCount {
		return math.NaN()
	}
	for t < limit && dark(t) && counts[4] <= maxCount {
		counts[4]++
		t++
	}
	if counts[4] > maxCount {
		return math.NaN()
	}

	total := counts[0] + counts[1] + counts[2] + counts[3] + counts[4]
	if 5*abs(total-originalTotal) >= 2*originalTotal || !runsMatch(counts) {
		return math.NaN()
	}
	return centerFromEnd(counts, t)
}

// runsMatch reports whether the runs are within half a module of 1:1:3:1:1.
func runsMatch(counts [5]int) bool {
	total := 0
	for _, c := range counts {
		if c == 0 {
			return false
		}
		total += c
	}
	if total < 7 {
		return false
	}
	module := float64(total) / 7
	tolerance := module / 2
	return math.Abs(module-float64(counts[0])) < tolerance &&
		math.Abs(module-float64(counts[1])) < tolerance &&
		math.Abs(3*module-float64(counts[2])) < 3*tolerance &&
		math.Abs(module-float64(counts[3])) < tolerance &&
		math.Abs(module-float64(counts[4])) < tolerance
}

func centerFromEnd(counts [5]int, end int) float64 {
	return float64(end-counts[4]-counts[3]) - float64(counts[2])/2
}

// selectBest picks the three candidates of similar size that come closest to
// an isosceles right triangle.
func selectBest(centers []*finderPattern) ([3]*finderPattern, error) {
	var best [3]*finderPattern
	var repeated []*finderPattern
	for _, c := range centers {
		if c.count >= 2 {
			repeated = append(repeated, c)
		}
	}
	if len(repeated) >= 3 {
		centers = repeated
	}
	if len(centers) < 3 {
		return best, fmt.Errorf("%w: %d finder patterns", qrstyle.ErrNotFound, len(centers))
	}
	sort.SliceStable(centers, func(i, j int) bool { return centers[i].count > centers[j].count })
	if len(centers) > maxCandidates {
		centers = centers[:maxCandidates]
	}

	bestScore := math.Inf(1)
	for i := 0; i < len(centers)-2; i++ {
		for j := i + 1; j < len(centers)-1; j++ {
			for k := j + 1; k < len(centers); k++ {
				a, b, c := centers[i], centers[j], centers[k]
				small := min(a.moduleSize, b.moduleSize, c.moduleSize)
				if max(a.moduleSize, b.moduleSize, c.moduleSize) > 1.4*small {
					continue
				}
				sides := []float64{dist2(a, b), dist2(b, c), dist2(a, c)}
				sort.Float64s(sides)
				// the legs of the smallest symbol are 14 modules long
				if sides[0] < 100*small*small {
					continue
				}
				score := (math.Abs(sides[2]-2*sides[1]) + math.Abs(sides[2]-2*sides[0])) / sides[2]
				if score < bestScore {
					bestScore = score
					best = [3]*finderPattern{a, b, c}
				}
			}
		}
	}
	if best[0] == nil {
		return best, fmt.Errorf("%w: no finder patterns form a symbol", qrstyle.ErrNotFound)
	}
	return best, nil
}

// order returns the top-left pattern, at the right angle, then the top-right
// and bottom-left ones. The symbol may be rotated but not mirrored.
func order(p [3]*finderPattern) (tl, tr, bl *finderPattern) {
	d01, d12, d02 := dist2(p[0], p[1]), dist2(p[1], p[2]), dist2(p[0], p[2])
	var a, c *finderPattern
	switch {
	case d12 >= d01 && d12 >= d02:
		tl, a, c = p[0], p[1], p[2]
	case d02 >= d01 && d02 >= d12:
		tl, a, c = p[1], p[0], p[2]
	default:
		tl, a, c = p[2], p[0], p[1]
	}
	// With y pointing down, turning from top-right to bottom-left about the
	// top-left is clockwise.
	if (c.x-tl.x)*(a.y-tl.y)-(c.y-tl.y)*(a.x-tl.x) < 0 {
		a, c = c, a
	}
	return tl, c, a
}

// dimension estimates the side length in modules from the finder spacing and
// snaps it to the nearest valid size.
func dimension(tl, tr, bl *finderPattern, moduleSize float64) (int, error) {
	spacing := (math.Sqrt(dist2(tl, tr)) + math.Sqrt(dist2(tl, bl))) / 2 / moduleSize
	dim := int(math.Round(spacing)) + 7
	switch dim & 3 {
	case 0:
		dim++
	case 2:
		dim--
	case 3:
		return 0, fmt.Errorf("%w: side of %d modules", qrstyle.ErrNotFound, dim)
	}
	if _, err := decoder.VersionForDimension(dim); err != nil {
		return 0, fmt.Errorf("%w: %v", qrstyle.ErrNotFound, err)
	}
	return dim, nil
}

func dist2(a, b *finderPattern) float64 {
	dx, dy := a.x-b.x, a.y-b.y
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
