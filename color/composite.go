// SPDX-License-Identifier: GPL-2.0-or-later

package color

// ClipByte saturates v into 0-255.
func ClipByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// AddRGB adds signed deltas to the first three channels of the texel px,
// saturating each one. The fourth byte is left alone.
func AddRGB(px []byte, dr, dg, db int32) {
	_ = px[2]
	px[0] = ClipByte(int32(px[0]) + dr)
	px[1] = ClipByte(int32(px[1]) + dg)
	px[2] = ClipByte(int32(px[2]) + db)
}

// SubClipped returns c with the rgb channels of s subtracted, clamped at 0.
// Alpha of c is kept.
func SubClipped(c, s Color) Color {
	r, g, b, a := c.RGBA()
	sr, sg, sb := s.RGB()
	return FromRGBA(
		ClipByte(int32(r)-int32(sr)),
		ClipByte(int32(g)-int32(sg)),
		ClipByte(int32(b)-int32(sb)),
		a)
}

// Ramp caches the per channel deltas of a light color for every intensity
// 0-255. Intensity 255 adds the full color; a dark ramp holds the exact
// negation of the bright one.
type Ramp struct {
	d [256][3]int32
}

// Reset refills the ramp for another color.
func (rp *Ramp) Reset(c Color, dark bool) {
	r, g, b := c.RGB()
	sign := int32(1)
	if dark {
		sign = -1
	}
	for i := range rp.d {
		rp.d[i] = [3]int32{
			sign * (int32(r) * int32(i) / 255),
			sign * (int32(g) * int32(i) / 255),
			sign * (int32(b) * int32(i) / 255),
		}
	}
}

// Apply adds the deltas for intensity (0-255, clamped) to the texel px.
func (rp *Ramp) Apply(px []byte, intensity int32) {
	if intensity <= 0 {
		return
	}
	if intensity > 255 {
		intensity = 255
	}
	d := &rp.d[intensity]
	AddRGB(px, d[0], d[1], d[2])
}
