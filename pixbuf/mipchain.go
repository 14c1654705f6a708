// SPDX-License-Identifier: GPL-2.0-or-later

package pixbuf

// MipOffsets returns the texel offset of each of n mip levels of a w×h
// image, largest first, and as last element the total number of texels.
// Levels that would be empty are cut off.
func MipOffsets(w, h, n int) []int {
	offsets := []int{0}
	off := 0
	for i := 0; i < n && w > 0 && h > 0; i++ {
		off += w * h
		offsets = append(offsets, off)
		w >>= 1
		h >>= 1
	}
	return offsets
}

// MipChain keeps all mip levels of an image in one allocation.
type MipChain struct {
	Pix    []byte
	levels []Buffer
}

// NewMipChain allocates up to n levels starting with a w×h one.
func NewMipChain(w, h, n int) *MipChain {
	offsets := MipOffsets(w, h, n)
	m := &MipChain{
		Pix:    make([]byte, offsets[len(offsets)-1]*BytesPerTexel),
		levels: make([]Buffer, len(offsets)-1),
	}
	for i := range m.levels {
		start := offsets[i] * BytesPerTexel
		end := offsets[i+1] * BytesPerTexel
		m.levels[i] = wrap(m.Pix[start:end:end], w>>i, h>>i)
	}
	return m
}

// Levels returns the number of levels held.
func (m *MipChain) Levels() int {
	return len(m.levels)
}

// Level returns level i, 0 being the largest.
func (m *MipChain) Level(i int) *Buffer {
	return &m.levels[i]
}
