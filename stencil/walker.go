// SPDX-License-Identifier: GPL-2.0-or-later

package stencil

// Walker steps through the bits of one mask level in the order texels are
// composited: left to right, then top to bottom.
type Walker struct {
	bits     []byte
	stride   int // bytes per row
	row      int // byte index of the current row start
	idx      int
	startBit byte
	bit      byte
}

// Next reports whether the current texel is set and moves to the next one.
func (w *Walker) Next() bool {
	lit := w.bits[w.idx]&w.bit != 0
	w.bit <<= 1
	if w.bit == 0 {
		w.idx++
		w.bit = 1
	}
	return lit
}

// NextRow moves to the first texel of the following row, no matter how many
// texels of the current row were visited.
func (w *Walker) NextRow() {
	w.row += w.stride
	w.idx = w.row
	w.bit = w.startBit
}
