// SPDX-License-Identifier: GPL-2.0-or-later

package shadow

import (
	"github.com/google/uuid"

	"lightmix/color"
	"lightmix/math/vec"
)

type SurfaceFlags uint32

const (
	// NoPlaneDiffusion ignores the angle between light and surface.
	NoPlaneDiffusion SurfaceFlags = 1 << iota
	// DynamicLightsOnly surfaces only receive dynamic and non persistent
	// lights, over a neutral gray.
	DynamicLightsOnly
)

// Plane is a world space plane, Normal·p = Dist for points p on it.
type Plane struct {
	Normal vec.Vec3
	Dist   float32
}

// Distance returns the signed distance of p, positive in front.
func (p Plane) Distance(v vec.Vec3) float32 {
	return vec.Dot(p.Normal, v) - p.Dist
}

// Surface provides the geometry a shadow map is mixed for.
type Surface interface {
	ID() uuid.UUID
	// Plane is the world space plane the surface lies in.
	Plane() Plane
	// WorldPoint maps shadow map coordinates at mip 0 (mex) to world space.
	WorldPoint(u, v float32) vec.Vec3
	SectorAmbient() color.Color
	Flags() SurfaceFlags
	// Gradient returns the gradient blended over the surface, if any.
	Gradient() (Gradient, bool)
}

// PlanarSurface is a flat polygon of an entity. Origin, AxisU and AxisV are
// in entity space; AxisU and AxisV are the world units covered by one mex.
type PlanarSurface struct {
	SurfaceID    uuid.UUID
	Origin       vec.Vec3
	AxisU, AxisV vec.Vec3
	Rotation     vec.Mat3
	Translation  vec.Vec3
	Ambient      color.Color
	SurfaceFlags SurfaceFlags
	Grad         *Gradient
}

// NewPlanarSurface returns an unrotated surface at origin.
func NewPlanarSurface(origin, axisU, axisV vec.Vec3) *PlanarSurface {
	return &PlanarSurface{
		SurfaceID: uuid.Must(uuid.NewV7()),
		Origin:    origin,
		AxisU:     axisU,
		AxisV:     axisV,
		Rotation:  vec.Identity(),
	}
}

func (s *PlanarSurface) ID() uuid.UUID {
	return s.SurfaceID
}

func (s *PlanarSurface) WorldPoint(u, v float32) vec.Vec3 {
	p := vec.Add(s.Origin, vec.Add(s.AxisU.Scale(u), s.AxisV.Scale(v)))
	return vec.Add(s.Rotation.MulVec(p), s.Translation)
}

func (s *PlanarSurface) Plane() Plane {
	n := s.Rotation.MulVec(vec.Cross(s.AxisU, s.AxisV)).Normalize()
	return Plane{
		Normal: n,
		Dist:   vec.Dot(n, s.WorldPoint(0, 0)),
	}
}

func (s *PlanarSurface) SectorAmbient() color.Color {
	return s.Ambient
}

func (s *PlanarSurface) Flags() SurfaceFlags {
	return s.SurfaceFlags
}

func (s *PlanarSurface) Gradient() (Gradient, bool) {
	if s.Grad == nil {
		return Gradient{}, false
	}
	return *s.Grad, true
}
