// SPDX-License-Identifier: GPL-2.0-or-later

// Package stencil stores the irregular influence region of a light layer as
// a bit per texel, with every mip level in one allocation.
package stencil

// MipTable returns the bit offset of every mip level of a mask whose first
// level is sizeU×sizeV. Rows start on a byte boundary so the offsets are
// multiples of 8. The last element is the total number of bits.
// Levels continue while both dimensions are at least one texel.
func MipTable(sizeU, sizeV int) []int {
	offsets := []int{0}
	off := 0
	for w, h := sizeU, sizeV; w > 0 && h > 0; w, h = w>>1, h>>1 {
		off += rowBytes(w) * h * 8
		offsets = append(offsets, off)
	}
	return offsets
}

func rowBytes(w int) int {
	return (w + 7) >> 3
}

// Mask is a bit packed stencil. Bit u of a row is bit u&7 of byte u>>3,
// least significant first. A set bit marks an influenced texel.
type Mask struct {
	SizeU, SizeV int
	Bits         []byte
	offsets      []int
}

// NewMask returns an empty mask whose first level is sizeU×sizeV.
func NewMask(sizeU, sizeV int) *Mask {
	t := MipTable(sizeU, sizeV)
	return &Mask{
		SizeU:   sizeU,
		SizeV:   sizeV,
		Bits:    make([]byte, t[len(t)-1]>>3),
		offsets: t,
	}
}

// NewMaskFunc returns a mask whose first level has the texels for which lit
// returns true set. The smaller levels are built from it.
func NewMaskFunc(sizeU, sizeV int, lit func(u, v int) bool) *Mask {
	m := NewMask(sizeU, sizeV)
	for v := 0; v < sizeV; v++ {
		for u := 0; u < sizeU; u++ {
			if lit(u, v) {
				m.Set(0, u, v, true)
			}
		}
	}
	m.Build()
	return m
}

// Levels returns the number of mip levels stored.
func (m *Mask) Levels() int {
	return len(m.offsets) - 1
}

// LevelSize returns the dimensions of a level.
func (m *Mask) LevelSize(level int) (w, h int) {
	return m.SizeU >> level, m.SizeV >> level
}

func (m *Mask) index(level, u, v int) (int, byte) {
	w, h := m.LevelSize(level)
	if u < 0 || u >= w || v < 0 || v >= h {
		panic("stencil: texel out of range")
	}
	bit := m.offsets[level] + v*rowBytes(w)*8 + u
	return bit >> 3, 1 << (bit & 7)
}

// Set marks or clears one texel of a level.
func (m *Mask) Set(level, u, v int, lit bool) {
	i, b := m.index(level, u, v)
	if lit {
		m.Bits[i] |= b
	} else {
		m.Bits[i] &^= b
	}
}

// Get reports whether a texel of a level is set.
func (m *Mask) Get(level, u, v int) bool {
	i, b := m.index(level, u, v)
	return m.Bits[i]&b != 0
}

// Fill sets or clears every texel of every level.
func (m *Mask) Fill(lit bool) {
	var b byte
	if lit {
		b = 0xFF
	}
	for i := range m.Bits {
		m.Bits[i] = b
	}
}

// Build regenerates every level below the first one. A texel is lit when any
// of the 2×2 texels it covers on the level above is lit.
func (m *Mask) Build() {
	for l := 1; l < m.Levels(); l++ {
		w, h := m.LevelSize(l)
		for v := 0; v < h; v++ {
			for u := 0; u < w; u++ {
				lit := m.Get(l-1, 2*u, 2*v) || m.Get(l-1, 2*u+1, 2*v) ||
					m.Get(l-1, 2*u, 2*v+1) || m.Get(l-1, 2*u+1, 2*v+1)
				m.Set(l, u, v, lit)
			}
		}
	}
}

// Walker returns a cursor at the first texel of a level.
func (m *Mask) Walker(level int) Walker {
	w, _ := m.LevelSize(level)
	off := m.offsets[level]
	return Walker{
		bits:     m.Bits,
		stride:   rowBytes(w),
		row:      off >> 3,
		idx:      off >> 3,
		startBit: 1 << (off & 7),
		bit:      1 << (off & 7),
	}
}
