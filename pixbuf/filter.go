// SPDX-License-Identifier: GPL-2.0-or-later

package pixbuf

import (
	"lightmix/color"
	qmath "lightmix/math"
)

const (
	MaxFilter = 6
	MaxDither = 6
)

// Filter smooths the top left w×h texels of b with a 3×3 kernel
//
//	1 2 1
//	2 C 2
//	1 2 1
//
// where C = 4<<(6-level). Level 6 is the strongest, 0 does nothing.
// Texels outside the rectangle are never read; edges repeat.
func Filter(b *Buffer, level, w, h int) {
	level = qmath.Clamp(0, level, MaxFilter)
	w = min(w, b.Width)
	h = min(h, b.Height)
	if level == 0 || w <= 0 || h <= 0 {
		return
	}
	center := int32(4) << (MaxFilter - level)
	sum := center + 12

	src := New(w, h)
	src.CopyFrom(b)
	at := func(u, v int) []byte {
		return src.Texel(qmath.Clamp(0, u, w-1), qmath.Clamp(0, v, h-1))
	}
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			dst := b.Texel(u, v)
			for c := 0; c < 3; c++ {
				acc := int32(at(u-1, v-1)[c]) + int32(at(u+1, v-1)[c]) +
					int32(at(u-1, v+1)[c]) + int32(at(u+1, v+1)[c])
				acc += 2 * (int32(at(u, v-1)[c]) + int32(at(u, v+1)[c]) +
					int32(at(u-1, v)[c]) + int32(at(u+1, v)[c]))
				acc += center * int32(at(u, v)[c])
				dst[c] = color.ClipByte((acc + sum/2) / sum)
			}
		}
	}
}

var bayer2 = [2][2]int32{
	{0, 2},
	{3, 1},
}

var bayer4 = [4][4]int32{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// DitherLevel maps the 0-5 dithering setting to a Dither level. Level 3 is
// not an ordered pattern and is never selected.
func DitherLevel(setting int) int {
	d := qmath.Clamp(0, setting, 5)
	if d > 2 {
		d++
	}
	return d
}

// ditherAmplitude is the largest offset added or removed at a level.
func ditherAmplitude(level int) int32 {
	switch level {
	case 1, 4:
		return 2
	case 2, 5:
		return 4
	case 6:
		return 8
	}
	return 0
}

// Dither adds an ordered pattern to the top left w×h texels of b to hide
// banding once the map is reduced to fewer bits per channel. Levels 1 and 2
// use a 2×2 matrix, 4 to 6 a 4×4 one.
func Dither(b *Buffer, level, w, h int) {
	level = qmath.Clamp(0, level, MaxDither)
	amp := ditherAmplitude(level)
	w = min(w, b.Width)
	h = min(h, b.Height)
	if amp == 0 || w <= 0 || h <= 0 {
		return
	}
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			var d int32
			if level < 4 {
				d = (bayer2[v&1][u&1]*2 + 1 - 4) * amp / 4
			} else {
				d = (bayer4[v&3][u&3]*2 + 1 - 16) * amp / 16
			}
			color.AddRGB(b.Texel(u, v), d, d, d)
		}
	}
}
