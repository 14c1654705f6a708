// SPDX-License-Identifier: GPL-2.0-or-later

package shadow

import (
	"log"

	"lightmix/color"
	"lightmix/fwdiff"
	"lightmix/light"
	"lightmix/lut"
	"lightmix/math/vec"
	"lightmix/pixbuf"
	"lightmix/stencil"
)

// mixer mixes one mip level of a shadow map.
type mixer struct {
	sm      *ShadowMap
	st      Settings
	dynamic bool
	refs    []layerRef

	mip, shift       int
	canvasU, canvasV int
	polyU, polyV     int

	dst *pixbuf.Buffer
	src *pixbuf.Buffer // static level copied by dynamic mixes

	// world position of texel (0, 0) and the steps to its neighbors
	origin, stepU, stepV vec.Vec3
	plane                Plane

	ramp color.Ramp
}

func newMixer(sm *ShadowMap, mip int, st Settings, dynamic bool, refs []layerRef) *mixer {
	m := &mixer{
		sm:      sm,
		st:      st,
		dynamic: dynamic,
		refs:    refs,
		mip:     mip,
		shift:   mip - sm.geom.FirstMipLevel,
	}
	m.canvasU, m.canvasV, m.polyU, m.polyV = sm.UsedSize(mip)
	if dynamic {
		m.dst = sm.level(sm.dynamic, mip)
		m.src = sm.Pixels(mip)
	} else {
		m.dst = sm.level(sm.static, mip)
	}

	// texel centers, in mex
	step := float32(int(1) << mip)
	u0 := -sm.geom.OffsetU + step/2
	v0 := -sm.geom.OffsetV + step/2
	s := sm.surface
	m.origin = s.WorldPoint(u0, v0)
	m.stepU = vec.Sub(s.WorldPoint(u0+step, v0), m.origin)
	m.stepV = vec.Sub(s.WorldPoint(u0, v0+step), m.origin)
	m.plane = s.Plane()
	return m
}

// ambientColor is the color a static map starts from: the sector ambient
// and the ambient of every directional light on the surface.
func ambientColor(s Surface, refs []layerRef, st Settings) color.Color {
	if s.Flags()&DynamicLightsOnly != 0 {
		return color.MidGray
	}
	c := st.adjust(s.SectorAmbient())
	for _, r := range refs {
		if !r.light.Flags.Has(light.Directional) {
			continue
		}
		c = color.Add(c, st.adjust(r.light.LightAmbient()))
	}
	return c
}

func (m *mixer) mixStatic(grad Gradient, hasGrad bool) {
	s := m.sm.surface
	m.dst.Fill(ambientColor(s, m.refs, m.st))

	// light gradients go under the lights, dark ones over them
	if hasGrad && !grad.Dark {
		grad.apply(m.dst, m.origin, m.stepU, m.stepV, m.polyU, m.polyV)
	}
	dynamicOnly := s.Flags()&DynamicLightsOnly != 0
	for _, r := range m.refs {
		if skipStatic(r.light, dynamicOnly) {
			continue
		}
		switch {
		case r.layer.Masked():
			m.addLayer(r, true)
		case r.layer.Unmasked():
			m.addLayer(r, false)
		}
	}
	if hasGrad && grad.Dark {
		grad.apply(m.dst, m.origin, m.stepU, m.stepV, m.polyU, m.polyV)
	}

	if l := m.st.filterLevel(); l > 0 {
		pixbuf.Filter(m.dst, l, m.polyU, m.polyV)
	}
	if l := m.st.ditherLevel(); l > 0 {
		pixbuf.Dither(m.dst, l, m.polyU, m.polyV)
	}
}

func (m *mixer) mixDynamic() {
	if c, ok := m.sm.Flat(); ok {
		m.dst.Fill(c)
	} else {
		m.dst.CopyFrom(m.src)
	}
	for _, r := range m.refs {
		if !r.light.Flags.Has(light.Dynamic) {
			continue
		}
		if color.IsBlack(r.light.LightColor().WithoutAlpha()) {
			continue
		}
		m.addLayer(r, false)
	}
}

func (m *mixer) addLayer(r layerRef, masked bool) {
	if r.light.Flags.Has(light.Directional) {
		m.addDirectional(r, masked)
	} else {
		m.addPoint(r, masked)
	}
}

// region is the part of the canvas a layer covers at the current mip.
type region struct {
	minU, minV int
	w, h       int
}

// region scales the layer rectangle to the mip level and clips it to the
// polygon. A layer that shrinks to nothing covers nothing.
func (m *mixer) region(l *light.Layer) (region, bool) {
	r := region{
		minU: l.MinU >> m.shift,
		minV: l.MinV >> m.shift,
		w:    l.SizeU >> m.shift,
		h:    l.SizeV >> m.shift,
	}
	if r.w <= 0 || r.h <= 0 || r.minU < 0 || r.minV < 0 {
		return r, false
	}
	r.w = min(r.w, m.polyU-r.minU)
	r.h = min(r.h, m.polyV-r.minV)
	return r, r.w > 0 && r.h > 0
}

// maskWalker returns the walker over the layer's mask at the current mip,
// or nil when the layer is composited without mask.
func (m *mixer) maskWalker(l *light.Layer, r region, masked bool) (*stencil.Walker, bool) {
	if !masked {
		return nil, true
	}
	if m.shift >= l.Mask.Levels() {
		return nil, false
	}
	if w, h := l.Mask.LevelSize(m.shift); w < r.w || h < r.h {
		log.Printf("Mask of layer %dx%d smaller than its region %dx%d", w, h, r.w, r.h)
		return nil, false
	}
	w := l.Mask.Walker(m.shift)
	return &w, true
}

// subtractAmbient removes the sector ambient and the ambient of directional
// lights from c.
func (m *mixer) subtractAmbient(c color.Color) color.Color {
	c = color.SubClipped(c, m.sm.surface.SectorAmbient())
	for _, r := range m.refs {
		if !r.light.Flags.Has(light.Directional) {
			continue
		}
		a := r.light.Ambient.WithoutAlpha()
		if color.IsBlack(a) {
			continue
		}
		c = color.SubClipped(c, a)
	}
	return c
}

func (m *mixer) addPoint(r layerRef, masked bool) {
	l, ls := r.layer, r.light
	c := ls.LightColor()
	l.LastColor = c

	reg, ok := m.region(l)
	if !ok || ls.FallOff <= 0 {
		return
	}
	mask, ok := m.maskWalker(l, reg, masked)
	if !ok {
		return
	}
	origin := vec.Add(m.origin, vec.Add(
		m.stepU.Scale(float32(reg.minU)),
		m.stepV.Scale(float32(reg.minV))))
	q := fwdiff.New(origin, m.stepU, m.stepV, ls.Position, ls.FallOff)
	if !q.Reaches(reg.w, reg.h) {
		return
	}

	if ls.Flags.Has(light.SubtractSectorAmbient) {
		c = m.subtractAmbient(c)
	}
	c = m.st.adjust(c)
	m.ramp.Reset(c, ls.Flags.Has(light.DarkLight))

	minDist := max(0, m.plane.Distance(ls.Position))
	f := lut.NewFalloff(ls.HotSpot, ls.FallOff, minDist)
	diffusion := ls.Flags.Has(light.Diffusion) && m.sm.surface.Flags()&NoPlaneDiffusion == 0
	// dynamic lights are recomputed every frame and skip the diffusion law
	if !masked && m.dynamic {
		diffusion = false
	}
	m.walkPoint(&q, f, diffusion, reg, mask)
}

func (m *mixer) walkPoint(q *fwdiff.Quadratic, f lut.Falloff, diffusion bool, reg region, mask *stencil.Walker) {
	tables := m.sm.tables
	e := q.Start(reg.w)
	for v := 0; v < reg.h; v++ {
		row := m.dst.Row(reg.minV + v)[reg.minU*pixbuf.BytesPerTexel:]
		for u := 0; u < reg.w; u++ {
			lit := mask == nil || mask.Next()
			if lit && e.InRange() {
				var i int32
				if diffusion {
					i = tables.Diffusion(f, e.Value())
				} else {
					i = tables.Ambient(f, e.Value())
				}
				o := u * pixbuf.BytesPerTexel
				m.ramp.Apply(row[o:o+pixbuf.BytesPerTexel], i)
			}
			e.Next()
		}
		e.NextRow()
		if mask != nil {
			mask.NextRow()
		}
	}
}

func (m *mixer) addDirectional(r layerRef, masked bool) {
	l, ls := r.layer, r.light
	c := ls.LightColor()
	l.LastColor = c

	reg, ok := m.region(l)
	if !ok {
		return
	}
	mask, ok := m.maskWalker(l, reg, masked)
	if !ok {
		return
	}
	intensity := float32(1)
	if m.sm.surface.Flags()&NoPlaneDiffusion == 0 {
		intensity = max(0, -vec.Dot(m.plane.Normal, ls.Direction()))
	}
	ib := uint8(min(1, intensity)*255 + 0.5)
	c = color.Mul(c, color.FromRGB(ib, ib, ib))
	c = m.st.adjust(c)
	m.ramp.Reset(c, ls.Flags.Has(light.DarkLight))

	for v := 0; v < reg.h; v++ {
		row := m.dst.Row(reg.minV + v)[reg.minU*pixbuf.BytesPerTexel:]
		for u := 0; u < reg.w; u++ {
			if mask == nil || mask.Next() {
				o := u * pixbuf.BytesPerTexel
				m.ramp.Apply(row[o:o+pixbuf.BytesPerTexel], lut.MaxIntensity)
			}
		}
		if mask != nil {
			mask.NextRow()
		}
	}
}
