// SPDX-License-Identifier: GPL-2.0-or-later

// Package lut holds the lookup tables that turn a fixed-point squared
// distance into light intensity without square roots or divisions.
package lut

import (
	"github.com/chewxy/math32"

	"lightmix/fwdiff"
	qmath "lightmix/math"
)

const (
	// DefaultSizeLog2 is the log2 of the number of table slots.
	DefaultSizeLog2 = 13

	// MaxIntensity is the intensity of a fully lit texel.
	MaxIntensity = 255
)

// Default are the tables used by the mixer, built once at startup.
var Default = New(DefaultSizeLog2)

// Tables map a quantized squared distance (relative to the squared falloff)
// to the distance and to its reciprocal.
type Tables struct {
	// Sqrt[i] is 255*sqrt(i/size), the distance relative to the falloff.
	Sqrt []uint8
	// InvSqrt[i] is 256/sqrt(i/size), clamped to 65535.
	InvSqrt []uint16
	shift   uint
	mask    int64
}

// New builds tables with 1<<sizeLog2 slots. sizeLog2 must be in 1..16.
func New(sizeLog2 uint) *Tables {
	if sizeLog2 < 1 || sizeLog2 > 16 {
		panic("lut: table size out of range")
	}
	size := 1 << sizeLog2
	t := &Tables{
		Sqrt:    make([]uint8, size),
		InvSqrt: make([]uint16, size),
		shift:   fwdiff.OneLog2 - sizeLog2,
		mask:    int64(size - 1),
	}
	for i := 0; i < size; i++ {
		r := math32.Sqrt(float32(i) / float32(size))
		t.Sqrt[i] = uint8(min(255, qmath.RoundToInt(r*255)))
		if i == 0 {
			t.InvSqrt[i] = 0xFFFF
			continue
		}
		t.InvSqrt[i] = uint16(min(0xFFFF, qmath.RoundToInt(256/r)))
	}
	return t
}

// Size returns the number of slots.
func (t *Tables) Size() int {
	return len(t.Sqrt)
}

// Bucket quantizes a fixed-point squared distance to a table slot.
// Negative values, left by rounding right at the light, map to slot 0.
func (t *Tables) Bucket(l2 int64) int {
	if l2 <= 0 {
		return 0
	}
	return int((l2 >> t.shift) & t.mask)
}

// Falloff describes how one light's intensity falls with distance.
type Falloff struct {
	hotSpot int32 // distance of the plateau edge, 0-255 of the falloff
	step    int32 // 8.8 intensity gained per unit of 255-distance

	diffStep int32 // step scaled into reciprocal distance space
	max1oL   int32 // reciprocal distance at which diffusion saturates
}

// NewFalloff prepares the falloff law of a light. minDistance is the
// distance between the light and the plane of the surface; it only
// matters for diffusion lighting. falloff must be positive.
func NewFalloff(hotSpot, falloff, minDistance float32) Falloff {
	inv := 1 / falloff
	hs := int32(qmath.Clamp(0, qmath.RoundToInt(255*hotSpot*inv), 255))
	den := 255 - hs
	if den < 1 {
		// hotspot reaches the falloff; everything in range is fully lit
		den = 1
	}
	f := Falloff{
		hotSpot: hs,
		step:    int32(qmath.RoundToInt(65535 / float32(den))),
		max1oL:  1<<31 - 1,
	}
	if minDistance > 0 {
		f.diffStep = int32(qmath.RoundToInt(float32(f.step) * minDistance * inv))
	}
	if f.diffStep != 0 {
		f.max1oL = (256<<8)/f.diffStep + 256
	}
	return f
}

// HotSpot returns the plateau radius in 0-255 units of the falloff.
func (f Falloff) HotSpot() int32 {
	return f.hotSpot
}

// Ambient returns the intensity 0-255 of a texel at fixed-point squared
// distance l2 for lights without diffusion. Out of range texels get 0.
func (t *Tables) Ambient(f Falloff, l2 int64) int32 {
	if l2 >= fwdiff.One {
		return 0
	}
	l := int32(t.Sqrt[t.Bucket(l2)])
	if l <= f.hotSpot {
		return MaxIntensity
	}
	return min(MaxIntensity, max(0, ((255-l)*f.step)>>8))
}

// Diffusion returns the intensity 0-255 of a texel at fixed-point squared
// distance l2 for diffusion lights, where intensity falls with 1/distance
// scaled by the light's distance from the plane.
func (t *Tables) Diffusion(f Falloff, l2 int64) int32 {
	if l2 >= fwdiff.One {
		return 0
	}
	inv := int32(t.InvSqrt[t.Bucket(l2)])
	if inv >= f.max1oL {
		return MaxIntensity
	}
	return min(MaxIntensity, max(0, ((inv-256)*f.diffStep)>>8))
}
