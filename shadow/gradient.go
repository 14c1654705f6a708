// SPDX-License-Identifier: GPL-2.0-or-later

package shadow

import (
	"github.com/chewxy/math32"

	"lightmix/color"
	"lightmix/math/vec"
	"lightmix/pixbuf"
)

// Gradient is a linear color ramp along Dir. Points whose projection on Dir
// is H0 get Color0, those at H1 get Color1. A dark gradient subtracts.
type Gradient struct {
	Dir            vec.Vec3
	H0, H1         float32
	Color0, Color1 color.Color
	Dark           bool
}

const gradientFrac = 6 // bits of fraction in the color interpolation

// lerpChannel interpolates between a and b with t given in 1/64 steps.
func lerpChannel(a, b uint8, t int32) int32 {
	return (int32(a)<<gradientFrac + (int32(b)-int32(a))*t + 1<<(gradientFrac-1)) >> gradientFrac
}

func (g Gradient) rgb(t float32) (r, gr, b int32) {
	r0, g0, b0 := g.Color0.RGB()
	r1, g1, b1 := g.Color1.RGB()
	switch {
	case t <= 0:
		return int32(r0), int32(g0), int32(b0)
	case t >= 1:
		return int32(r1), int32(g1), int32(b1)
	}
	ti := int32(t*(1<<gradientFrac) + 0.5)
	return lerpChannel(r0, r1, ti), lerpChannel(g0, g1, ti), lerpChannel(b0, b1, ti)
}

func (g Gradient) deltas(t float32) (r, gr, b int32) {
	r, gr, b = g.rgb(t)
	if g.Dark {
		return -r, -gr, -b
	}
	return r, gr, b
}

// ColorAt returns the color the gradient adds, or subtracts when dark, at
// parameter t. Parameters outside 0-1 clamp to the end colors.
func (g Gradient) ColorAt(t float32) color.Color {
	r, gr, b := g.rgb(t)
	return color.FromRGB(uint8(r), uint8(gr), uint8(b))
}

// degenerate reports whether H0 and H1 are too close to interpolate.
func (g Gradient) degenerate() bool {
	return math32.Abs(g.H1-g.H0) <= 1e-4
}

// apply blends the gradient into the top left w×h texels of dst, whose texel
// (0, 0) is at origin and steps by stepU and stepV.
func (g Gradient) apply(dst *pixbuf.Buffer, origin, stepU, stepV vec.Vec3, w, h int) {
	if g.degenerate() {
		return
	}
	inv := 1 / (g.H1 - g.H0)
	tRow := (vec.Dot(origin, g.Dir) - g.H0) * inv
	dtdu := vec.Dot(stepU, g.Dir) * inv
	dtdv := vec.Dot(stepV, g.Dir) * inv
	for v := 0; v < h; v++ {
		t := tRow
		row := dst.Row(v)
		for u := 0; u < w; u++ {
			r, gr, b := g.deltas(t)
			i := u * pixbuf.BytesPerTexel
			color.AddRGB(row[i:i+3], r, gr, b)
			t += dtdu
		}
		tRow += dtdv
	}
}
