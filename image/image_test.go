// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"lightmix/color"
	"lightmix/pixbuf"
)

func testBuffer() *pixbuf.Buffer {
	b := pixbuf.New(4, 3)
	for v := 0; v < 3; v++ {
		for u := 0; u < 4; u++ {
			px := b.Texel(u, v)
			px[0] = uint8(u * 60)
			px[1] = uint8(v * 100)
			px[2] = 7
			px[3] = 0
		}
	}
	return b
}

func sameRGB(t *testing.T, got, want image.Image) {
	t.Helper()
	if got.Bounds().Dx() != want.Bounds().Dx() || got.Bounds().Dy() != want.Bounds().Dy() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	gb, wb := got.Bounds(), want.Bounds()
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			gr, gg, gbl, _ := got.At(gb.Min.X+x, gb.Min.Y+y).RGBA()
			wr, wg, wbl, _ := want.At(wb.Min.X+x, wb.Min.Y+y).RGBA()
			if gr>>8 != wr>>8 || gg>>8 != wg>>8 || gbl>>8 != wbl>>8 {
				t.Fatalf("(%d,%d) = %d,%d,%d, want %d,%d,%d", x, y, gr>>8, gg>>8, gbl>>8, wr>>8, wg>>8, wbl>>8)
			}
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{"TGA", TGA},
		{"webp", WebP},
		{"out/map.PNG", PNG},
		{"map.webp", WebP},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseFormat("map.bmp"); errors.Cause(err) != ErrFormat {
		t.Errorf("ParseFormat(map.bmp) error = %v", err)
	}
}

func TestToNRGBA(t *testing.T) {
	img := ToNRGBA(testBuffer())
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(3, 2); got.R != 180 || got.G != 200 || got.B != 7 || got.A != 255 {
		t.Errorf("NRGBAAt(3, 2) = %v", got)
	}
}

func TestFlat(t *testing.T) {
	img := Flat(color.FromRGB(1, 2, 3), 2, 2)
	if got := img.NRGBAAt(1, 1); got.R != 1 || got.G != 2 || got.B != 3 || got.A != 255 {
		t.Errorf("NRGBAAt(1, 1) = %v", got)
	}
}

func TestPreview(t *testing.T) {
	src := ToNRGBA(testBuffer())
	if got := Preview(src, 1, false); got != src {
		t.Errorf("Preview at scale 1 copied the image")
	}
	big := Preview(src, 3, false)
	if big.Bounds().Dx() != 12 || big.Bounds().Dy() != 9 {
		t.Fatalf("bounds = %v", big.Bounds())
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			if got, want := big.NRGBAAt(x, y), src.NRGBAAt(x/3, y/3); got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	smooth := Preview(src, 2, true)
	if smooth.Bounds().Dx() != 8 {
		t.Errorf("smooth bounds = %v", smooth.Bounds())
	}
}

func TestModulateNeutral(t *testing.T) {
	base := ToNRGBA(testBuffer())
	light := Flat(color.FromRGB(128, 128, 128), 2, 2)
	got := Modulate(base, light, nil)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			g, w := got.NRGBAAt(x, y), base.NRGBAAt(x, y)
			for _, d := range []int{int(g.R) - int(w.R), int(g.G) - int(w.G), int(g.B) - int(w.B)} {
				if d < -1 || d > 1 {
					t.Fatalf("(%d,%d) = %v, want about %v", x, y, g, w)
				}
			}
		}
	}
	black := Modulate(base, light, func(color.Color) color.Color { return color.Black })
	if g := black.NRGBAAt(2, 2); g.R != 0 || g.G != 0 || g.B != 0 {
		t.Errorf("adjusted texel = %v", g)
	}
}

func TestEncodeDecode(t *testing.T) {
	src := ToNRGBA(testBuffer())
	dir := t.TempDir()
	for _, f := range []Format{PNG, TGA} {
		name := filepath.Join(dir, "map."+string(f))
		if err := Write(name, src); err != nil {
			t.Fatalf("Write(%s): %v", f, err)
		}
		img, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%s): %v", f, err)
		}
		sameRGB(t, img, src)
	}
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, WebP, ToNRGBA(testBuffer())); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 12 || string(b[:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("not a webp stream: % x", b[:min(len(b), 12)])
	}
	if err := Encode(&buf, Format("bmp"), nil); errors.Cause(err) != ErrFormat {
		t.Errorf("Encode(bmp) error = %v", err)
	}
}
