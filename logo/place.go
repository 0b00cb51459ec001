package logo

import (
	"fmt"
	"image"
	"math"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/design"
	"github.com/ericlevine/qrstyle/qrcode"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
	"github.com/ericlevine/qrstyle/scene"
)

const (
	// inset is the BottomTrailing margin as a fraction of the canvas.
	inset = 0.1
	// shrinkStep is how much of the requested size each retry removes.
	shrinkStep = 0.01
	// minModules is the smallest logo side, in modules, worth placing.
	minModules = 2
)

// Place composites img onto sc and returns the new scene; sc is not
// modified. The logo is scale × canvas on its longer side. Modules within
// half a module of the logo are removed.
//
// When the cleared area would touch a finder, separator, timing,
// alignment, format or version module the logo is shrunk in 1% steps,
// keeping its anchor. Place fails with qrstyle.ErrLogoOverlapsPattern when
// no size of at least two modules clears them, and with
// qrstyle.ErrOcclusionExceedsCorrection when the removed data modules
// damage more codewords than some error correction block can recover.
func Place(sc *scene.Scene, img qrstyle.Image, placement design.Placement, scale float64) (*scene.Scene, error) {
	switch {
	case sc == nil || sc.Symbol == nil:
		return nil, fmt.Errorf("%w: scene without symbol", qrstyle.ErrInvalidField)
	case sc.Logo != nil:
		return nil, fmt.Errorf("%w: scene already has a logo", qrstyle.ErrInvalidField)
	case !img.Valid():
		return nil, fmt.Errorf("%w: %dx%d logo", qrstyle.ErrUnsupportedImage, img.Width, img.Height)
	case !placement.Valid():
		return nil, fmt.Errorf("%w: placement %d", qrstyle.ErrInvalidField, uint8(placement))
	}
	if scale == 0 {
		scale = design.DefaultLogoScale
	}
	if math.IsNaN(scale) || scale < 0 || scale > 1 {
		return nil, fmt.Errorf("%w: logo scale %v", qrstyle.ErrInvalidField, scale)
	}
	if ContainsQRCode(img) {
		return nil, qrstyle.ErrContainsQRCode
	}

	w, h := fit(img.Aspect(), scale*math.Min(sc.Width, sc.Height), sc.Width, sc.Height)
	sym := sc.Symbol
	var bounds, clearance scene.Rect
	var punched []image.Point
	for f := 1.0; ; f -= shrinkStep {
		if math.Min(w, h)*f < minModules*sc.ModuleSize {
			return nil, fmt.Errorf("%w: no clear area for a %s logo", qrstyle.ErrLogoOverlapsPattern, placement)
		}
		bounds = anchor(sc, placement, w*f, h*f)
		clearance = bounds.Inset(-sc.ModuleSize / 2)
		var clear bool
		punched, clear = cover(sc, clearance)
		if clear {
			break
		}
	}
	if !sym.Tolerates(punched) {
		return nil, fmt.Errorf("%w: %d modules at level %s damage %v codewords per block",
			qrstyle.ErrOcclusionExceedsCorrection, len(punched), sym.Level, sym.Damage(punched))
	}

	out := sc.Clone()
	removed := make(map[image.Point]bool, len(punched))
	for _, p := range punched {
		removed[p] = true
	}
	kept := out.Primitives[:0]
	for _, p := range out.Primitives {
		if (p.Layer == scene.LayerAccent || p.Layer == scene.LayerModule) && removed[p.Cell] {
			continue
		}
		kept = append(kept, p)
	}
	out.Primitives = kept
	out.Logo = &scene.LogoLayer{Image: img.Clone(), Bounds: bounds, Clearance: clearance, Punched: punched}
	return out, nil
}

// fit returns the largest w×h with the given aspect ratio whose longer side
// is target, bounded by maxW×maxH.
func fit(aspect, target, maxW, maxH float64) (w, h float64) {
	if aspect >= 1 {
		w, h = target, target/aspect
	} else {
		w, h = target*aspect, target
	}
	if w > maxW {
		w, h = maxW, maxW/aspect
	}
	if h > maxH {
		w, h = maxH*aspect, maxH
	}
	return w, h
}

func anchor(sc *scene.Scene, placement design.Placement, w, h float64) scene.Rect {
	if placement == design.PlaceBottomTrailing {
		right, bottom := sc.Width*(1-inset), sc.Height*(1-inset)
		return scene.R(right-w, bottom-h, w, h)
	}
	side := float64(sc.Symbol.Size()) * sc.ModuleSize
	cx, cy := sc.Origin.X+side/2, sc.Origin.Y+side/2
	return scene.R(cx-w/2, cy-h/2, w, h)
}

// cover returns the data modules overlapping r, and whether r is free of
// every other symbol module.
func cover(sc *scene.Scene, r scene.Rect) ([]image.Point, bool) {
	n := sc.Symbol.Size()
	x0 := max(0, int(math.Floor((r.Min.X-sc.Origin.X)/sc.ModuleSize)))
	y0 := max(0, int(math.Floor((r.Min.Y-sc.Origin.Y)/sc.ModuleSize)))
	x1 := min(n-1, int(math.Ceil((r.Max.X-sc.Origin.X)/sc.ModuleSize)))
	y1 := min(n-1, int(math.Ceil((r.Max.Y-sc.Origin.Y)/sc.ModuleSize)))
	var data []image.Point
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !sc.Cell(x, y).Overlaps(r) {
				continue
			}
			switch reg := sc.Symbol.Region(x, y); {
			case reg.IsData():
				data = append(data, image.Pt(x, y))
			case reg != encoder.RegionQuietZone:
				return nil, false
			}
		}
	}
	return data, true
}

// ContainsQRCode reports whether img decodes as a QR symbol. The whole
// image and crops with 3% and 8% margins removed are tried, each with
// global and local thresholding. Each try falls back to a finder-pattern
// search, so rotated codes and codes on a card with other artwork are
// found too.
func ContainsQRCode(img qrstyle.Image) bool {
	if !img.Valid() {
		return false
	}
	src := qrstyle.NewImageLuminanceSource(img.NRGBA())
	for _, margin := range []float64{0, 0.03, 0.08} {
		candidate := src
		if margin > 0 {
			dx, dy := int(float64(img.Width)*margin), int(float64(img.Height)*margin)
			r := image.Rect(dx, dy, img.Width-dx, img.Height-dy)
			if dx == 0 && dy == 0 || r.Empty() {
				continue
			}
			candidate = src.Crop(r)
		}
		for _, hybrid := range []bool{false, true} {
			if _, err := (qrcode.Reader{Hybrid: hybrid, Detect: true}).Decode(candidate); err == nil {
				return true
			}
		}
	}
	return false
}
