// SPDX-License-Identifier: GPL-2.0-or-later

// Package color implements packed 8-bit RGBA colors and the saturating
// per-channel arithmetic used to composite lightmaps.
package color

// Color is a packed RGBA color, red in the highest byte.
type Color uint32

const (
	RShift = 24
	GShift = 16
	BShift = 8
	AShift = 0

	RMask Color = 0xFF000000
	GMask Color = 0x00FF0000
	BMask Color = 0x0000FF00
	AMask Color = 0x000000FF
)

const (
	Black Color = 0x00000000
	Gray  Color = 0x7F7F7F00
	White Color = 0xFFFFFF00

	// MidGray is used as ambient for surfaces lit only by dynamic lights.
	MidGray Color = 0x80808000
)

const grayThreshold = 4

func FromRGB(r, g, b uint8) Color {
	return Color(r)<<RShift | Color(g)<<GShift | Color(b)<<BShift
}

func FromRGBA(r, g, b, a uint8) Color {
	return FromRGB(r, g, b) | Color(a)<<AShift
}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> RShift), uint8(c >> GShift), uint8(c >> BShift)
}

func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> RShift), uint8(c >> GShift), uint8(c >> BShift), uint8(c >> AShift)
}

func (c Color) Alpha() uint8 {
	return uint8(c >> AShift)
}

// WithoutAlpha clears the alpha byte.
func (c Color) WithoutAlpha() Color {
	return c &^ AMask
}

func IsBlack(c Color) bool {
	r, g, b := c.RGB()
	return r < grayThreshold && g < grayThreshold && b < grayThreshold
}

// ToHSV converts to hue, saturation and value, all in 0-255.
func ToHSV(c Color) (h, s, v uint8) {
	r, g, b := c.RGB()
	v = max(r, g, b)
	if v <= 1 {
		return 0, 0, v
	}
	d := int32(v) - int32(min(r, g, b))
	if d < 1 {
		return 0, 0, v
	}
	s = uint8(d * 255 / int32(v))
	switch v {
	case r:
		h = uint8(0 + (int32(g)-int32(b))*85/(d*2))
	case g:
		h = uint8(85 + (int32(b)-int32(r))*85/(d*2))
	default:
		h = uint8(170 + (int32(r)-int32(g))*85/(d*2))
	}
	return h, s, v
}

// FromHSV converts hue, saturation and value in 0-255 to an opaque-less color.
func FromHSV(h, s, v uint8) Color {
	if s <= 1 {
		return FromRGB(v, v, v)
	}
	xh := int32(h) * 1536
	hlo := xh & 0xFFFF
	p := (int32(v) * (256 - int32(s))) >> 8
	q := (int32(v) * (256 - ((int32(s) * hlo) >> 16))) >> 8
	t := (int32(v) * (256 - ((int32(s) * (65536 - hlo)) >> 16))) >> 8
	switch xh >> 16 {
	case 0:
		return FromRGB(v, ClipByte(t), ClipByte(p))
	case 1:
		return FromRGB(ClipByte(q), v, ClipByte(p))
	case 2:
		return FromRGB(ClipByte(p), v, ClipByte(t))
	case 3:
		return FromRGB(ClipByte(p), ClipByte(q), v)
	case 4:
		return FromRGB(ClipByte(t), ClipByte(p), v)
	default:
		return FromRGB(v, ClipByte(p), ClipByte(q))
	}
}

// Adjust changes saturation and hue. A saturation of 256 and a hue shift of
// 0 leave the color untouched; the hue shift is in 0-255 units.
func Adjust(c Color, hueShift, saturation int32) Color {
	if hueShift == 0 && saturation == 256 {
		return c
	}
	res := c
	a := c.Alpha()
	if saturation != 256 {
		r, g, b := c.RGB()
		gray := (int32(r)*72 + int32(g)*152 + int32(b)*32) >> 8
		sr := gray + (((int32(r) - gray) * saturation) >> 8)
		sg := gray + (((int32(g) - gray) * saturation) >> 8)
		sb := gray + (((int32(b) - gray) * saturation) >> 8)
		res = FromRGB(ClipByte(sr), ClipByte(sg), ClipByte(sb))
	}
	if hueShift == 0 {
		return res | Color(a)
	}
	h, s, v := ToHSV(res)
	h += uint8(hueShift)
	return FromHSV(h, s, v) | Color(a)
}

// Mul multiplies two colors channel by channel, normalized by 255.
func Mul(c1, c2 Color) Color {
	if c1 == 0xFFFFFFFF {
		return c2
	}
	if c2 == 0xFFFFFFFF {
		return c1
	}
	if c1 == 0 || c2 == 0 {
		return 0
	}
	var res Color
	for _, shift := range [4]uint{RShift, GShift, BShift, AShift} {
		a := uint32(c1>>shift) & 0xFF
		b := uint32(c2>>shift) & 0xFF
		// x*257 turns 0-255 into 0-65535, so the product fits 8.24
		p := ((a | a<<8) * (b | b<<8)) >> 24
		res |= Color(p) << shift
	}
	return res
}

// Add adds two colors channel by channel, clamped to 255.
func Add(c1, c2 Color) Color {
	if c1 == 0 {
		return c2
	}
	if c2 == 0 {
		return c1
	}
	if c1 == 0xFFFFFFFF || c2 == 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	var res Color
	for _, shift := range [4]uint{RShift, GShift, BShift, AShift} {
		a := int32(c1>>shift) & 0xFF
		b := int32(c2>>shift) & 0xFF
		res |= Color(ClipByte(a+b)) << shift
	}
	return res
}
