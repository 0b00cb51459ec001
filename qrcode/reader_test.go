package qrcode

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ericlevine/qrstyle"
	"github.com/ericlevine/qrstyle/qrcode/encoder"
)

func TestDecodeImage(t *testing.T) {
	for _, hybrid := range []bool{false, true} {
		sym, err := encoder.Generate("https://example.com/reader", qrstyle.LevelMedium)
		if err != nil {
			t.Fatal(err)
		}
		res, err := Reader{Hybrid: hybrid}.DecodeImage(sym.Image(6))
		if err != nil {
			t.Fatalf("hybrid=%v: DecodeImage failed: %v", hybrid, err)
		}
		if res.Text != sym.Payload {
			t.Errorf("hybrid=%v: got %q, want %q", hybrid, res.Text, sym.Payload)
		}
	}
}

func TestDecodeBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	_, err := Reader{}.DecodeImage(img)
	if !errors.Is(err, qrstyle.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDecodeTransparentBackground(t *testing.T) {
	sym, err := encoder.Generate("TRANSPARENT", qrstyle.LevelLow)
	if err != nil {
		t.Fatal(err)
	}
	gray := sym.Image(4)
	img := image.NewNRGBA(gray.Bounds())
	for y := 0; y < gray.Bounds().Dy(); y++ {
		for x := 0; x < gray.Bounds().Dx(); x++ {
			if gray.GrayAt(x, y).Y == 0 {
				img.SetNRGBA(x, y, color.NRGBA{A: 0xFF})
			}
		}
	}
	res, err := Reader{}.DecodeImage(img)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if res.Text != "TRANSPARENT" {
		t.Errorf("got %q", res.Text)
	}
}

func halfTurn(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(b.Dx()-1-x, b.Dy()-1-y, img.GrayAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func TestDetectFallback(t *testing.T) {
	sym, err := encoder.Generate("https://example.com/upside-down", qrstyle.LevelMedium)
	if err != nil {
		t.Fatal(err)
	}
	code := sym.Image(4)

	// the symbol sits in the upper part of a card with a dark band below it
	cb := code.Bounds()
	captioned := image.NewGray(image.Rect(0, 0, cb.Dx(), cb.Dy()+40))
	for i := range captioned.Pix {
		captioned.Pix[i] = 0xFF
	}
	for y := 0; y < cb.Dy(); y++ {
		copy(captioned.Pix[y*captioned.Stride:], code.Pix[y*code.Stride:y*code.Stride+cb.Dx()])
	}
	for y := cb.Dy() + 10; y < cb.Dy()+30; y++ {
		for x := 16; x < cb.Dx()-16; x++ {
			captioned.SetGray(x, y, color.Gray{})
		}
	}

	tests := []struct {
		name string
		img  *image.Gray
	}{
		{"half turn", halfTurn(code)},
		{"captioned", captioned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Reader{}).DecodeImage(tt.img); err == nil {
				t.Error("pure read succeeded without detection")
			}
			res, err := Reader{Detect: true}.DecodeImage(tt.img)
			if err != nil {
				t.Fatalf("DecodeImage: %v", err)
			}
			if res.Text != sym.Payload {
				t.Errorf("got %q, want %q", res.Text, sym.Payload)
			}
		})
	}
}
