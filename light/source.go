// SPDX-License-Identifier: GPL-2.0-or-later

// Package light holds light sources, the layers they cast onto surfaces and
// the registry that links the two.
package light

import (
	"github.com/google/uuid"

	"lightmix/color"
	"lightmix/math/vec"
)

type Flags uint32

const (
	// Directional lights shine along a direction instead of from a point.
	Directional Flags = 1 << iota
	CastShadows
	// Diffusion makes intensity depend on the angle to the surface.
	Diffusion
	// DarkLight darkens instead of lighting.
	DarkLight
	// SubtractSectorAmbient removes the sector ambient from the light color.
	SubtractSectorAmbient
	// NonPersistent lights are not saved and may change during play.
	NonPersistent
	LensFlareOnly
	// Dynamic lights are mixed every frame into the dynamic buffer.
	Dynamic
)

func (f Flags) Has(o Flags) bool {
	return f&o != 0
}

// Source describes one light.
type Source struct {
	ID       uuid.UUID
	Position vec.Vec3
	// Angles are pitch, yaw and roll in degrees.
	Angles  vec.Vec3
	Color   color.Color
	Ambient color.Color // used by directional lights only
	HotSpot float32     // distance before intensity starts to fall
	FallOff float32     // distance at which intensity reaches zero
	Flags   Flags

	Animation        *Animation
	AmbientAnimation *Animation
}

// NewSource returns a source with a fresh identity.
func NewSource() *Source {
	return &Source{
		ID: uuid.Must(uuid.NewV7()),
	}
}

func scaleColor(c color.Color, s float32) color.Color {
	if s == 1 {
		return c
	}
	r, g, b, a := c.RGBA()
	return color.FromRGBA(
		color.ClipByte(int32(float32(r)*s)),
		color.ClipByte(int32(float32(g)*s)),
		color.ClipByte(int32(float32(b)*s)),
		a)
}

// LightColor returns the color of the light at the current animation frame.
func (s *Source) LightColor() color.Color {
	if s.Animation == nil {
		return s.Color
	}
	return scaleColor(s.Color, s.Animation.Scale())
}

// LightAmbient returns the ambient color at the current animation frame.
func (s *Source) LightAmbient() color.Color {
	if s.AmbientAnimation == nil {
		return s.Ambient
	}
	return scaleColor(s.Ambient, s.AmbientAnimation.Scale())
}

// Direction returns the unit vector the light shines along.
func (s *Source) Direction() vec.Vec3 {
	f, _, _ := vec.AngleVectors(s.Angles)
	return f
}

// IsAnimated reports whether the light color changes over time.
func (s *Source) IsAnimated() bool {
	return s.Animation != nil
}

// Update advances both animations by dt seconds.
func (s *Source) Update(dt float32) {
	if s.Animation != nil {
		s.Animation.Update(dt)
	}
	if s.AmbientAnimation != nil {
		s.AmbientAnimation.Update(dt)
	}
}
