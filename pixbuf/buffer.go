// SPDX-License-Identifier: GPL-2.0-or-later

// Package pixbuf holds the RGBA texel buffers lightmaps are mixed into.
package pixbuf

import (
	"lightmix/color"
)

// BytesPerTexel is the size of one RGBA texel.
const BytesPerTexel = 4

// Buffer is a row major RGBA image. Rows are Stride bytes apart, which may
// be more than Width texels when the buffer is a view into a larger canvas.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// New allocates a w×h buffer.
func New(w, h int) *Buffer {
	return &Buffer{
		Pix:    make([]byte, w*h*BytesPerTexel),
		Width:  w,
		Height: h,
		Stride: w * BytesPerTexel,
	}
}

func wrap(pix []byte, w, h int) Buffer {
	return Buffer{
		Pix:    pix,
		Width:  w,
		Height: h,
		Stride: w * BytesPerTexel,
	}
}

// Texel returns the four bytes of texel (u, v).
func (b *Buffer) Texel(u, v int) []byte {
	i := v*b.Stride + u*BytesPerTexel
	return b.Pix[i : i+BytesPerTexel : i+BytesPerTexel]
}

// Row returns the texels of row v.
func (b *Buffer) Row(v int) []byte {
	i := v * b.Stride
	return b.Pix[i : i+b.Width*BytesPerTexel]
}

// Fill sets every texel to the rgb part of c. Alpha is set to opaque.
func (b *Buffer) Fill(c color.Color) {
	r, g, bl := c.RGB()
	for v := 0; v < b.Height; v++ {
		row := b.Row(v)
		for i := 0; i < len(row); i += BytesPerTexel {
			row[i] = r
			row[i+1] = g
			row[i+2] = bl
			row[i+3] = 0xFF
		}
	}
}

// CopyFrom copies the overlapping texels of src.
func (b *Buffer) CopyFrom(src *Buffer) {
	h := min(b.Height, src.Height)
	w := min(b.Width, src.Width) * BytesPerTexel
	for v := 0; v < h; v++ {
		copy(b.Row(v)[:w], src.Row(v)[:w])
	}
}

// Equal reports whether both buffers hold the same texels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	for v := 0; v < b.Height; v++ {
		if string(b.Row(v)) != string(o.Row(v)) {
			return false
		}
	}
	return true
}
