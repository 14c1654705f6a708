// SPDX-License-Identifier: GPL-2.0-or-later

// Package shadow mixes the light layers of a surface into its cached
// lightmap, one mip level at a time, and keeps a separate buffer for
// dynamic lights on top of it.
package shadow

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"lightmix/color"
	"lightmix/light"
	"lightmix/lut"
	"lightmix/pixbuf"
)

var (
	// ErrTooLarge is returned when a canvas exceeds MaxCanvasTexels.
	ErrTooLarge = errors.New("shadow map too large")
	// ErrMipRange is returned for mip levels the shadow map does not have.
	ErrMipRange = errors.New("mip level out of range")
	// ErrNotMixed is returned by MixDynamic before the static map exists.
	ErrNotMixed = errors.New("static shadow map not mixed")
)

// MaxCanvasTexels bounds the size of the largest mip level.
const MaxCanvasTexels = 1 << 24

type Flags uint32

const (
	// AnimatingLights is set when a static light changes over time and the
	// map should be remixed on a schedule.
	AnimatingLights Flags = 1 << iota
	// DynamicBlack is set when every dynamic light is black; the static
	// buffer is to be used in place of the dynamic one.
	DynamicBlack
	// Flat is set when the static map is a single color.
	Flat
)

// Geometry places the shadow map on its surface. Sizes and offsets are in
// mex, the shadow map units at mip 0, except the polygon size, which is in
// texels of the first mip level.
type Geometry struct {
	FirstMipLevel    int
	OffsetU, OffsetV float32
	Width, Height    int
	PolygonSizeU     int
	PolygonSizeV     int
}

// LayerSet gives access to the layers of a surface and their lights.
// *light.Registry implements it.
type LayerSet interface {
	SurfaceLayers(surface uuid.UUID) []light.LayerHandle
	Layer(h light.LayerHandle) (*light.Layer, bool)
	Light(id uuid.UUID) (*light.Source, bool)
}

// ShadowMap is the cached lightmap of one surface.
type ShadowMap struct {
	surface Surface
	layers  LayerSet
	geom    Geometry
	tables  *lut.Tables

	lastMip int
	static  *pixbuf.MipChain
	dynamic *pixbuf.MipChain
	flat    color.Color
	flags   Flags
}

// New prepares a shadow map. No pixels are allocated until the first mix.
func New(s Surface, layers LayerSet, g Geometry) (*ShadowMap, error) {
	w := g.Width >> g.FirstMipLevel
	h := g.Height >> g.FirstMipLevel
	if g.FirstMipLevel < 0 || w <= 0 || h <= 0 {
		return nil, errors.Errorf("empty canvas %dx%d at mip %d", g.Width, g.Height, g.FirstMipLevel)
	}
	last := g.FirstMipLevel
	for g.Width>>(last+1) > 0 && g.Height>>(last+1) > 0 {
		last++
	}
	return &ShadowMap{
		surface: s,
		layers:  layers,
		geom:    g,
		tables:  lut.Default,
		lastMip: last,
	}, nil
}

// MipLevels returns the first and last mip level of the map.
func (sm *ShadowMap) MipLevels() (first, last int) {
	return sm.geom.FirstMipLevel, sm.lastMip
}

func (sm *ShadowMap) Flags() Flags {
	return sm.flags
}

// Flat returns the color of a flat map.
func (sm *ShadowMap) Flat() (color.Color, bool) {
	return sm.flat, sm.flags&Flat != 0
}

func (sm *ShadowMap) level(chain *pixbuf.MipChain, mip int) *pixbuf.Buffer {
	i := mip - sm.geom.FirstMipLevel
	if chain == nil || i < 0 || i >= chain.Levels() {
		return nil
	}
	return chain.Level(i)
}

// Pixels returns the static buffer of a mip level. It is nil for flat maps
// and for maps not mixed yet.
func (sm *ShadowMap) Pixels(mip int) *pixbuf.Buffer {
	return sm.level(sm.static, mip)
}

// DynamicPixels returns the buffer with dynamic lights. When no dynamic
// light is lit it is the static buffer.
func (sm *ShadowMap) DynamicPixels(mip int) *pixbuf.Buffer {
	if sm.flags&DynamicBlack != 0 || sm.dynamic == nil {
		return sm.Pixels(mip)
	}
	return sm.level(sm.dynamic, mip)
}

// UsedSize returns the canvas size and the size of the region covered by
// the polygon at a mip level.
func (sm *ShadowMap) UsedSize(mip int) (canvasU, canvasV, polyU, polyV int) {
	shift := mip - sm.geom.FirstMipLevel
	canvasU = sm.geom.Width >> mip
	canvasV = sm.geom.Height >> mip
	polyU = min(canvasU, sm.geom.PolygonSizeU>>shift+1)
	polyV = min(canvasV, sm.geom.PolygonSizeV>>shift+1)
	return
}

func (sm *ShadowMap) checkRange(from, to int) error {
	if from < sm.geom.FirstMipLevel || to > sm.lastMip || from > to {
		return errors.Wrapf(ErrMipRange, "mix %d-%d of %d-%d", from, to, sm.geom.FirstMipLevel, sm.lastMip)
	}
	return nil
}

func (sm *ShadowMap) allocate() (*pixbuf.MipChain, error) {
	w := sm.geom.Width >> sm.geom.FirstMipLevel
	h := sm.geom.Height >> sm.geom.FirstMipLevel
	if w*h > MaxCanvasTexels {
		return nil, errors.Wrapf(ErrTooLarge, "%dx%d canvas", w, h)
	}
	return pixbuf.NewMipChain(w, h, sm.lastMip-sm.geom.FirstMipLevel+1), nil
}

// layerRef is a layer with its resolved light.
type layerRef struct {
	layer *light.Layer
	light *light.Source
}

// resolve returns the layers of the surface whose light exists. Layers with
// a missing light are logged and left out.
func (sm *ShadowMap) resolve() []layerRef {
	id := sm.surface.ID()
	hs := sm.layers.SurfaceLayers(id)
	refs := make([]layerRef, 0, len(hs))
	for _, h := range hs {
		l, ok := sm.layers.Layer(h)
		if !ok {
			continue
		}
		ls, ok := sm.layers.Light(l.Light)
		if !ok {
			log.Printf("Layer of surface %v references missing light %v", id, l.Light)
			continue
		}
		refs = append(refs, layerRef{layer: l, light: ls})
	}
	return refs
}

// skipStatic reports whether a static mix leaves out the layers of ls.
func skipStatic(ls *light.Source, dynamicOnly bool) bool {
	return (dynamicOnly && !ls.Flags.Has(light.NonPersistent)) || ls.Flags.Has(light.Dynamic)
}

// MixStatic rebuilds the static buffer of mip levels from to to from all
// layers that are not dynamic.
func (sm *ShadowMap) MixStatic(from, to int, st Settings) error {
	if err := sm.checkRange(from, to); err != nil {
		return err
	}
	refs := sm.resolve()
	dynamicOnly := sm.surface.Flags()&DynamicLightsOnly != 0
	grad, hasGrad := sm.surface.Gradient()
	hasGrad = hasGrad && !grad.degenerate()

	sm.flags &^= AnimatingLights
	applicable := hasGrad
	for _, r := range refs {
		if skipStatic(r.light, dynamicOnly) {
			continue
		}
		if r.light.IsAnimated() {
			sm.flags |= AnimatingLights
		}
		if r.layer.Masked() || r.layer.Unmasked() {
			applicable = true
		}
	}

	if !applicable {
		sm.static = nil
		sm.flags |= Flat
		sm.flat = ambientColor(sm.surface, refs, st)
		return nil
	}
	sm.flags &^= Flat
	if sm.static == nil {
		c, err := sm.allocate()
		if err != nil {
			return err
		}
		sm.static = c
	}
	for mip := from; mip <= to; mip++ {
		m := newMixer(sm, mip, st, false, refs)
		m.mixStatic(grad, hasGrad)
	}
	return nil
}

// MixDynamic rebuilds the dynamic buffer of mip levels from to to: the
// static buffer plus every dynamic light that is not black. If all dynamic
// lights are black the map is flagged DynamicBlack and nothing is mixed.
func (sm *ShadowMap) MixDynamic(from, to int, st Settings) error {
	if err := sm.checkRange(from, to); err != nil {
		return err
	}
	refs := sm.resolve()
	sm.flags &^= DynamicBlack
	allBlack := true
	for _, r := range refs {
		if !r.light.Flags.Has(light.Dynamic) {
			continue
		}
		c := r.light.LightColor().WithoutAlpha()
		r.layer.LastColor = c
		if !color.IsBlack(c) {
			allBlack = false
		}
	}
	if allBlack {
		sm.flags |= DynamicBlack
		return nil
	}
	if sm.static == nil && sm.flags&Flat == 0 {
		return ErrNotMixed
	}
	if sm.dynamic == nil {
		c, err := sm.allocate()
		if err != nil {
			return err
		}
		sm.dynamic = c
	}
	for mip := from; mip <= to; mip++ {
		m := newMixer(sm, mip, st, true, refs)
		m.mixDynamic()
	}
	return nil
}
