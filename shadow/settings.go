// SPDX-License-Identifier: GPL-2.0-or-later

package shadow

import (
	"lightmix/color"
	qmath "lightmix/math"
	"lightmix/pixbuf"
)

// Settings are the quality and color tunables a mix runs with.
type Settings struct {
	// Filtering is the smoothing strength 0-6.
	Filtering int
	// Dithering is the dithering setting 0-5.
	Dithering int
	// FineQuality keeps lightmaps at 32 bits when TrueColor is supported,
	// which makes dithering unnecessary.
	FineQuality bool
	TrueColor   bool

	// HueShift and Saturation adjust light and ambient colors.
	// Saturation 256 leaves colors unchanged.
	HueShift   int32
	Saturation int32

	// TextureHueShift and TextureSaturation adjust surface textures.
	TextureHueShift   int32
	TextureSaturation int32
}

func DefaultSettings() Settings {
	return Settings{
		Filtering:         1,
		Dithering:         1,
		FineQuality:       true,
		TrueColor:         true,
		Saturation:        256,
		TextureSaturation: 256,
	}
}

func (s Settings) filterLevel() int {
	return qmath.Clamp(0, s.Filtering, pixbuf.MaxFilter)
}

func (s Settings) ditherLevel() int {
	if s.FineQuality && s.TrueColor {
		return 0
	}
	return pixbuf.DitherLevel(s.Dithering)
}

// adjust applies the lightmap hue and saturation to c.
func (s Settings) adjust(c color.Color) color.Color {
	return color.Adjust(c, s.HueShift, s.Saturation)
}

// AdjustTexture applies the texture hue and saturation to c.
func (s Settings) AdjustTexture(c color.Color) color.Color {
	return color.Adjust(c, s.TextureHueShift, s.TextureSaturation)
}
