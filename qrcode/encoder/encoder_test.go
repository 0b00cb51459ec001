package encoder

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/qrcode/decoder"
)

func testRoundTrip(t *testing.T, content string, level qrstyle.Level) *Symbol {
	t.Helper()
	sym, err := Generate(content, level)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	res, err := decoder.Decode(sym.BitMatrix())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if res.Text != content {
		t.Errorf("round-trip mismatch: got %q, want %q", res.Text, content)
	}
	if res.Version != sym.Version || res.Mask != sym.Mask || res.ECLevel.Level() != level {
		t.Errorf("decoded %d/%d/%s, generated %d/%d/%s", res.Version, res.Mask, res.ECLevel, sym.Version, sym.Mask, level)
	}
	return sym
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		mode    decoder.Mode
	}{
		{"numeric", "1234567890", decoder.ModeNumeric},
		{"alphanumeric", "HELLO WORLD", decoder.ModeAlphanumeric},
		{"byte", "Hello, World! This is a test.", decoder.ModeByte},
		{"wifi", "WIFI:T:WPA;S:Home;P:secret1;;", decoder.ModeByte},
		{"utf8", "Grüße aus Köln ☕", decoder.ModeByte},
		{"long", strings.Repeat("https://example.com/path?q=1&", 40), decoder.ModeByte},
	}
	for _, tc := range tests {
		for _, level := range qrstyle.Levels {
			t.Run(tc.name+"/"+level.String(), func(t *testing.T) {
				sym := testRoundTrip(t, tc.content, level)
				if sym.Mode != tc.mode {
					t.Errorf("mode = %s, want %s", sym.Mode, tc.mode)
				}
			})
		}
	}
}

func TestUTF8UsesECI(t *testing.T) {
	sym, err := Generate("café", qrstyle.LevelMedium)
	if err != nil {
		t.Fatal(err)
	}
	if !sym.ECI {
		t.Error("non-ASCII payload generated without ECI header")
	}
	res, err := decoder.Decode(sym.BitMatrix())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]decoder.Mode{decoder.ModeECI, decoder.ModeByte}, res.Modes); diff != "" {
		t.Errorf("segment modes (-want +got):\n%s", diff)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate("https://example.com/deterministic", qrstyle.LevelHigh)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate("https://example.com/deterministic", qrstyle.LevelHigh)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("identical input produced different matrices")
	}
}

func TestHigherLevelNeverShrinks(t *testing.T) {
	for _, payload := range []string{"HELLO", "https://example.com", strings.Repeat("x", 300)} {
		prev := 0
		for _, level := range qrstyle.Levels {
			sym, err := Generate(payload, level)
			if err != nil {
				t.Fatalf("%q at %s: %v", payload, level, err)
			}
			if sym.Size() < prev {
				t.Errorf("%q: side %d at %s is smaller than %d at the previous level", payload, sym.Size(), level, prev)
			}
			prev = sym.Size()
		}
	}
}

func TestHelloSizes(t *testing.T) {
	low, err := Generate("HELLO", qrstyle.LevelLow)
	if err != nil {
		t.Fatal(err)
	}
	max, err := Generate("HELLO", qrstyle.LevelMax)
	if err != nil {
		t.Fatal(err)
	}
	if max.Dimension() < low.Dimension() {
		t.Errorf("Max dimension %d < Low dimension %d", max.Dimension(), low.Dimension())
	}
	if low.Version != 1 || low.Size() != 21+2*DefaultQuietZone {
		t.Errorf("HELLO at Low: version %d size %d", low.Version, low.Size())
	}
}

func TestPayloadTooLarge(t *testing.T) {
	_, err := Generate(strings.Repeat("x", 3000), qrstyle.LevelLow)
	if !errors.Is(err, qrstyle.ErrPayloadTooLarge) {
		t.Fatalf("err = %v, want ErrPayloadTooLarge", err)
	}
	if Fits(strings.Repeat("x", 3000), qrstyle.LevelLow) {
		t.Error("Fits accepted an oversized payload")
	}
	if !Fits(strings.Repeat("x", 2953), qrstyle.LevelLow) {
		t.Error("Fits rejected a payload at version 40-L byte capacity")
	}
	if _, err := Generate("HELLO WORLD HELLO WORLD", qrstyle.LevelMax, WithVersion(1)); !errors.Is(err, qrstyle.ErrPayloadTooLarge) {
		t.Errorf("forced version 1: err = %v, want ErrPayloadTooLarge", err)
	}
}

func TestFinderLikePenaltyAtEdge(t *testing.T) {
	row := func(dim, at int, dark ...int) *grid {
		g := newGrid(dim)
		for k, v := range finderLike {
			g.cells[3*dim+at+k] = v
		}
		for _, x := range dark {
			g.cells[3*dim+x] = 1
		}
		return g
	}
	tests := []struct {
		name string
		g    *grid
		want int
	}{
		{"fills the row", row(7, 0), 40},
		{"quiet zone on the left", row(8, 0, 7), 40},
		{"quiet zone on the right", row(12, 5, 1), 40},
		{"dark on both sides", row(12, 4, 0, 11), 0},
	}
	for _, tt := range tests {
		if got := penaltyFinderLike(tt.g); got != tt.want {
			t.Errorf("%s: penalty = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestFitsRejectsUndefinedLevel(t *testing.T) {
	for _, level := range []qrstyle.Level{-1, 4, 7} {
		if Fits("x", level) {
			t.Errorf("Fits(%q, %v) = true", "x", level)
		}
	}
}

func TestOptions(t *testing.T) {
	sym, err := Generate("OPTIONS", qrstyle.LevelMedium, WithQuietZone(2), WithVersion(5), WithMask(3))
	if err != nil {
		t.Fatal(err)
	}
	if sym.Version != 5 || sym.Mask != 3 || sym.QuietZone != 2 {
		t.Errorf("got version %d mask %d quiet %d", sym.Version, sym.Mask, sym.QuietZone)
	}
	if sym.Size() != 37+4 {
		t.Errorf("Size = %d, want 41", sym.Size())
	}
	if _, err := Generate("X", qrstyle.LevelLow, WithMask(8)); !errors.Is(err, qrstyle.ErrInvalidField) {
		t.Errorf("mask 8: err = %v, want ErrInvalidField", err)
	}
}

func TestRegionCounts(t *testing.T) {
	sym, err := Generate("HELLO", qrstyle.LevelLow)
	if err != nil {
		t.Fatal(err)
	}
	counts := map[Region]int{}
	for y := 0; y < sym.Size(); y++ {
		for x := 0; x < sym.Size(); x++ {
			counts[sym.Region(x, y)]++
		}
	}
	data := counts[RegionDataOn] + counts[RegionDataOff]
	delete(counts, RegionDataOn)
	delete(counts, RegionDataOff)
	want := map[Region]int{
		RegionQuietZone:   29*29 - 21*21,
		RegionFinderOuter: 3 * 40,
		RegionFinderPupil: 3 * 9,
		RegionSeparator:   3 * 15,
		RegionTiming:      10,
		RegionFormatInfo:  31,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("region counts (-want +got):\n%s", diff)
	}
	if data != 26*8 {
		t.Errorf("data modules = %d, want %d", data, 26*8)
	}
}

func TestRegionsAgreeWithDarkness(t *testing.T) {
	sym, err := Generate("https://example.com/regions", qrstyle.LevelMedium, WithVersion(8))
	if err != nil {
		t.Fatal(err)
	}
	counts := map[Region]int{}
	for y := 0; y < sym.Size(); y++ {
		for x := 0; x < sym.Size(); x++ {
			r := sym.Region(x, y)
			counts[r]++
			switch {
			case r == RegionDataOn && !sym.Dark(x, y),
				r == RegionDataOff && sym.Dark(x, y),
				r == RegionFinderPupil && !sym.Dark(x, y),
				r == RegionSeparator && sym.Dark(x, y),
				r == RegionQuietZone && sym.Dark(x, y):
				t.Fatalf("module (%d,%d) region %s dark=%v", x, y, r, sym.Dark(x, y))
			}
		}
	}
	// version 8 has six alignment patterns and two version blocks
	if counts[RegionAlignment] != 6*25 {
		t.Errorf("alignment modules = %d, want 150", counts[RegionAlignment])
	}
	if counts[RegionVersionInfo] != 36 {
		t.Errorf("version modules = %d, want 36", counts[RegionVersionInfo])
	}
	q := sym.QuietZone
	if sym.FinderIndex(q+3, q+3) != 0 || sym.FinderIndex(sym.Size()-q-1, q) != 1 || sym.FinderIndex(q, sym.Size()-q-1) != 2 {
		t.Error("FinderIndex misidentified a corner")
	}
}

func TestDamageAndTolerates(t *testing.T) {
	sym, err := Generate("HELLO", qrstyle.LevelLow)
	if err != nil {
		t.Fatal(err)
	}
	blocks := sym.Blocks()
	if len(blocks) != 1 || blocks[0].EC != 7 || blocks[0].Correctable != 2 {
		t.Fatalf("blocks = %+v, want one block of 7 EC correcting 2", blocks)
	}

	var firstTwo, firstThree []image.Point
	for y := 0; y < sym.Size(); y++ {
		for x := 0; x < sym.Size(); x++ {
			switch sym.Codeword(x, y) {
			case 0, 1:
				firstTwo = append(firstTwo, image.Pt(x, y))
				firstThree = append(firstThree, image.Pt(x, y))
			case 2:
				firstThree = append(firstThree, image.Pt(x, y))
			}
		}
	}
	if got := sym.Damage(firstTwo); got[0] != 2 {
		t.Errorf("Damage = %v, want [2]", got)
	}
	if !sym.Tolerates(firstTwo) {
		t.Error("two damaged codewords should be tolerated")
	}
	if sym.Tolerates(firstThree) {
		t.Error("three damaged codewords should exceed 1-L capacity")
	}
}
