// SPDX-License-Identifier: GPL-2.0-or-later

package light

import (
	"github.com/google/uuid"

	"lightmix/color"
	"lightmix/stencil"
)

type LayerFlags uint8

const (
	// Calculated is set once shadow casting has classified the layer.
	Calculated LayerFlags = 1 << iota
	// AllLight means the light reaches the whole region and no mask is kept.
	AllLight
)

// Layer is the contribution of one light to one surface.
// Region coordinates are texels at the first mip level of the surface's
// shadow map.
type Layer struct {
	Light   uuid.UUID
	Surface uuid.UUID

	MinU, MinV   int
	SizeU, SizeV int

	// Mask is nil when the light covers the whole region.
	Mask  *stencil.Mask
	Flags LayerFlags

	// LastColor is the light color used by the latest mix.
	LastColor color.Color
}

// Masked reports whether the layer is composited through its mask.
func (l *Layer) Masked() bool {
	return l.Mask != nil
}

// Unmasked reports whether the layer is composited over its full region.
// A calculated layer without mask that is not all light is in full shadow.
func (l *Layer) Unmasked() bool {
	return l.Mask == nil && (l.Flags&Calculated == 0 || l.Flags&AllLight != 0)
}
