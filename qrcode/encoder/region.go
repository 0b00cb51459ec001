package encoder

// Region classifies a module by the structure it belongs to.
type Region uint8

const (
	RegionQuietZone Region = iota
	RegionDataOff
	RegionDataOn
	RegionFinderOuter // 7x7 ring of a finder pattern, dark and light
	RegionFinderPupil // 3x3 center of a finder pattern
	RegionSeparator
	RegionTiming
	RegionAlignment
	RegionFormatInfo // both format copies plus the fixed dark module
	RegionVersionInfo
)

var regionNames = [...]string{
	RegionQuietZone:   "quiet-zone",
	RegionDataOff:     "data-off",
	RegionDataOn:      "data-on",
	RegionFinderOuter: "finder-outer",
	RegionFinderPupil: "finder-pupil",
	RegionSeparator:   "separator",
	RegionTiming:      "timing",
	RegionAlignment:   "alignment",
	RegionFormatInfo:  "format-info",
	RegionVersionInfo: "version-info",
}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "unknown"
}

// IsData reports whether the module carries payload or error correction bits.
func (r Region) IsData() bool {
	return r == RegionDataOn || r == RegionDataOff
}

// IsFinder reports whether the module is part of a finder pattern.
func (r Region) IsFinder() bool {
	return r == RegionFinderOuter || r == RegionFinderPupil
}

// Structural reports whether a scanner relies on the module's exact geometry
// to locate or sample the symbol.
func (r Region) Structural() bool {
	switch r {
	case RegionFinderOuter, RegionFinderPupil, RegionSeparator, RegionTiming, RegionAlignment:
		return true
	}
	return false
}
