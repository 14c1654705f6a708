// SPDX-License-Identifier: GPL-2.0-or-later

package light

import (
	"slices"

	"github.com/google/uuid"
)

// LayerHandle refers to a layer stored in a Registry. A handle of a removed
// layer stays invalid even when its slot is reused.
type LayerHandle struct {
	index uint32
	gen   uint32
}

type layerSlot struct {
	layer *Layer
	gen   uint32
	used  bool
}

// Registry owns lights and layers and indexes the layers by light and by
// surface.
type Registry struct {
	lights    map[uuid.UUID]*Source
	slots     []layerSlot
	free      []uint32
	byLight   map[uuid.UUID][]LayerHandle
	bySurface map[uuid.UUID][]LayerHandle
}

func NewRegistry() *Registry {
	return &Registry{
		lights:    make(map[uuid.UUID]*Source),
		byLight:   make(map[uuid.UUID][]LayerHandle),
		bySurface: make(map[uuid.UUID][]LayerHandle),
	}
}

// AddLight stores s, replacing a light with the same ID. A source without
// ID gets a fresh one.
func (r *Registry) AddLight(s *Source) {
	if s.ID == uuid.Nil {
		s.ID = uuid.Must(uuid.NewV7())
	}
	r.lights[s.ID] = s
}

// Light returns the light with the given ID.
func (r *Registry) Light(id uuid.UUID) (*Source, bool) {
	s, ok := r.lights[id]
	return s, ok
}

// Lights returns all lights.
func (r *Registry) Lights() []*Source {
	ls := make([]*Source, 0, len(r.lights))
	for _, s := range r.lights {
		ls = append(ls, s)
	}
	return ls
}

// RemoveLight removes a light together with all its layers.
func (r *Registry) RemoveLight(id uuid.UUID) {
	for _, h := range slices.Clone(r.byLight[id]) {
		r.RemoveLayer(h)
	}
	delete(r.byLight, id)
	delete(r.lights, id)
}

// AddLayer stores a copy of l and returns its handle.
func (r *Registry) AddLayer(l Layer) LayerHandle {
	var h LayerHandle
	if n := len(r.free); n > 0 {
		h.index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		h.index = uint32(len(r.slots))
		r.slots = append(r.slots, layerSlot{})
	}
	s := &r.slots[h.index]
	s.gen++
	s.used = true
	s.layer = &l
	h.gen = s.gen
	r.byLight[l.Light] = append(r.byLight[l.Light], h)
	r.bySurface[l.Surface] = append(r.bySurface[l.Surface], h)
	return h
}

func (r *Registry) slot(h LayerHandle) *layerSlot {
	if int(h.index) >= len(r.slots) {
		return nil
	}
	s := &r.slots[h.index]
	if !s.used || s.gen != h.gen {
		return nil
	}
	return s
}

// Layer returns the layer of a handle. The pointer stays valid until the
// layer is removed.
func (r *Registry) Layer(h LayerHandle) (*Layer, bool) {
	s := r.slot(h)
	if s == nil {
		return nil, false
	}
	return s.layer, true
}

func dropHandle(m map[uuid.UUID][]LayerHandle, id uuid.UUID, h LayerHandle) {
	hs := slices.DeleteFunc(m[id], func(o LayerHandle) bool { return o == h })
	if len(hs) == 0 {
		delete(m, id)
		return
	}
	m[id] = hs
}

// RemoveLayer removes a layer. It returns false for stale handles.
func (r *Registry) RemoveLayer(h LayerHandle) bool {
	s := r.slot(h)
	if s == nil {
		return false
	}
	dropHandle(r.byLight, s.layer.Light, h)
	dropHandle(r.bySurface, s.layer.Surface, h)
	s.used = false
	s.layer = nil
	r.free = append(r.free, h.index)
	return true
}

// LightLayers returns the handles of all layers cast by a light.
func (r *Registry) LightLayers(id uuid.UUID) []LayerHandle {
	return slices.Clone(r.byLight[id])
}

// SurfaceLayers returns the handles of all layers on a surface in the order
// they were added.
func (r *Registry) SurfaceLayers(id uuid.UUID) []LayerHandle {
	return slices.Clone(r.bySurface[id])
}
