// SPDX-License-Identifier: GPL-2.0-or-later

package color

import (
	"testing"
)

func TestClipByte(t *testing.T) {
	tests := []struct {
		in   int32
		want uint8
	}{
		{-300, 0}, {-1, 0}, {0, 0}, {17, 17}, {255, 255}, {256, 255}, {1 << 20, 255},
	}
	for _, tc := range tests {
		if got := ClipByte(tc.in); got != tc.want {
			t.Errorf("ClipByte(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAddRGBSaturates(t *testing.T) {
	px := []byte{250, 5, 100, 42}
	AddRGB(px, 10, -10, 0)
	want := []byte{255, 0, 100, 42}
	for i := range want {
		if px[i] != want[i] {
			t.Errorf("AddRGB = %v, want %v", px, want)
			break
		}
	}
}

func TestSubClipped(t *testing.T) {
	got := SubClipped(FromRGBA(100, 10, 50, 7), FromRGB(20, 30, 50))
	want := FromRGBA(80, 0, 0, 7)
	if got != want {
		t.Errorf("SubClipped = %08x, want %08x", uint32(got), uint32(want))
	}
}

func TestRampEnds(t *testing.T) {
	var rp Ramp
	rp.Reset(FromRGB(200, 100, 3), false)
	px := []byte{0, 0, 0, 9}
	rp.Apply(px, 255)
	if px[0] != 200 || px[1] != 100 || px[2] != 3 || px[3] != 9 {
		t.Errorf("Apply(255) = %v", px)
	}
	px = []byte{0, 0, 0, 0}
	rp.Apply(px, 128)
	if px[0] != 100 || px[1] != 50 || px[2] != 1 {
		t.Errorf("Apply(128) = %v", px)
	}
}

func TestRampDarkIsNegation(t *testing.T) {
	c := FromRGB(177, 91, 13)
	var bright, dark Ramp
	bright.Reset(c, false)
	dark.Reset(c, true)
	for i := int32(0); i < 256; i++ {
		px := []byte{0, 0, 0, 0}
		bright.Apply(px, i)
		dark.Apply(px, i)
		if px[0] != 0 || px[1] != 0 || px[2] != 0 {
			t.Fatalf("intensity %v: bright then dark = %v", i, px)
		}
	}
	px := []byte{255, 255, 255, 0}
	bright.Apply(px, 300)
	dark.Apply(px, 255)
	if px[0] != 255-177 || px[1] != 255-91 || px[2] != 255-13 {
		t.Errorf("dark ramp on white = %v", px)
	}
}

func TestRampApplyIgnoresZero(t *testing.T) {
	var rp Ramp
	rp.Reset(White, false)
	px := []byte{1, 2, 3, 4}
	rp.Apply(px, 0)
	rp.Apply(px, -20)
	if px[0] != 1 || px[1] != 2 || px[2] != 3 || px[3] != 4 {
		t.Errorf("Apply(<=0) changed the texel: %v", px)
	}
}
