// SPDX-License-Identifier: GPL-2.0-or-later

package pixbuf

import (
	"testing"

	"lightmix/color"
)

func TestFill(t *testing.T) {
	b := New(3, 2)
	b.Fill(color.FromRGBA(10, 20, 30, 0))
	for v := 0; v < 2; v++ {
		for u := 0; u < 3; u++ {
			px := b.Texel(u, v)
			if px[0] != 10 || px[1] != 20 || px[2] != 30 || px[3] != 0xFF {
				t.Errorf("Texel(%d,%d) = %v", u, v, px)
			}
		}
	}
}

func TestCopyFrom(t *testing.T) {
	a := New(5, 3)
	for i := range a.Pix {
		a.Pix[i] = byte(i)
	}
	b := New(5, 3)
	b.CopyFrom(a)
	if !b.Equal(a) {
		t.Errorf("CopyFrom did not copy every texel")
	}
	b.Texel(4, 2)[1]++
	if b.Equal(a) {
		t.Errorf("Equal ignores a changed texel")
	}
}

func TestMipOffsets(t *testing.T) {
	got := MipOffsets(8, 4, 10)
	want := []int{0, 32, 40, 42}
	if len(got) != len(want) {
		t.Fatalf("MipOffsets(8, 4, 10) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MipOffsets(8, 4, 10) = %v, want %v", got, want)
		}
	}
	if got := MipOffsets(8, 4, 2); len(got) != 3 || got[2] != 40 {
		t.Errorf("MipOffsets(8, 4, 2) = %v", got)
	}
}

func TestMipChainLevelsAreDisjoint(t *testing.T) {
	m := NewMipChain(16, 8, 3)
	if m.Levels() != 3 {
		t.Fatalf("Levels() = %d", m.Levels())
	}
	for i := 0; i < m.Levels(); i++ {
		m.Level(i).Fill(color.FromRGB(uint8(i+1), 0, 0))
	}
	for i := 0; i < m.Levels(); i++ {
		l := m.Level(i)
		if l.Width != 16>>i || l.Height != 8>>i {
			t.Errorf("Level(%d) is %dx%d", i, l.Width, l.Height)
		}
		if l.Texel(l.Width-1, l.Height-1)[0] != uint8(i+1) {
			t.Errorf("Level(%d) overwritten", i)
		}
	}
	if len(m.Pix) != (128+32+8)*BytesPerTexel {
		t.Errorf("len(Pix) = %d", len(m.Pix))
	}
}

func TestFilterFlatIsUnchanged(t *testing.T) {
	for level := 1; level <= MaxFilter; level++ {
		b := New(6, 6)
		b.Fill(color.FromRGB(77, 130, 3))
		Filter(b, level, 6, 6)
		for v := 0; v < 6; v++ {
			for u := 0; u < 6; u++ {
				if px := b.Texel(u, v); px[0] != 77 || px[1] != 130 || px[2] != 3 {
					t.Fatalf("level %d: Texel(%d,%d) = %v", level, u, v, px)
				}
			}
		}
	}
}

func TestFilterSmoothsAndStaysInside(t *testing.T) {
	b := New(8, 8)
	b.Texel(2, 2)[0] = 255
	b.Texel(6, 6)[0] = 200 // outside the filtered rectangle
	Filter(b, 6, 5, 5)
	if got := b.Texel(2, 2)[0]; got != 64 {
		t.Errorf("center = %d, want 64", got)
	}
	if got := b.Texel(3, 2)[0]; got != 32 {
		t.Errorf("neighbor = %d, want 32", got)
	}
	if got := b.Texel(3, 3)[0]; got != 16 {
		t.Errorf("diagonal = %d, want 16", got)
	}
	if got := b.Texel(6, 6)[0]; got != 200 {
		t.Errorf("texel outside rectangle = %d", got)
	}
	// weaker levels keep more of the center
	c := New(8, 8)
	c.Texel(2, 2)[0] = 255
	Filter(c, 1, 5, 5)
	if c.Texel(2, 2)[0] <= 64 {
		t.Errorf("level 1 center = %d", c.Texel(2, 2)[0])
	}
}

func TestDitherLevel(t *testing.T) {
	tests := []struct{ setting, want int }{
		{-1, 0}, {0, 0}, {1, 1}, {2, 2}, {3, 4}, {4, 5}, {5, 6}, {9, 6},
	}
	for _, tc := range tests {
		if got := DitherLevel(tc.setting); got != tc.want {
			t.Errorf("DitherLevel(%d) = %d, want %d", tc.setting, got, tc.want)
		}
	}
}

func TestDitherPattern(t *testing.T) {
	b := New(4, 4)
	b.Fill(color.Gray)
	g, _, _ := color.Gray.RGB()
	Dither(b, 2, 4, 4)
	seen := map[byte]bool{}
	for v := 0; v < 4; v++ {
		for u := 0; u < 4; u++ {
			px := b.Texel(u, v)
			if px[0] != px[1] || px[1] != px[2] {
				t.Errorf("Texel(%d,%d) = %v, dither must not tint", u, v, px)
			}
			if d := int(px[0]) - int(g); d < -4 || d > 4 {
				t.Errorf("Texel(%d,%d) moved by %d", u, v, d)
			}
			seen[px[0]] = true
		}
	}
	if len(seen) < 2 {
		t.Errorf("dither produced a flat image")
	}
	// the pattern repeats every two texels
	if b.Texel(0, 0)[0] != b.Texel(2, 2)[0] {
		t.Errorf("2×2 pattern does not repeat")
	}
}

func TestDitherNone(t *testing.T) {
	b := New(2, 2)
	b.Fill(color.Gray)
	want := New(2, 2)
	want.Fill(color.Gray)
	Dither(b, 0, 2, 2)
	Dither(b, 3, 2, 2)
	if !b.Equal(want) {
		t.Errorf("Dither level 0 or 3 changed the buffer")
	}
}
