// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"lightmix/cvar"
	qmath "lightmix/math"
	"lightmix/shadow"
)

var (
	ShadowFiltering   *cvar.Cvar
	ShadowDithering   *cvar.Cvar
	ShadowFineQuality *cvar.Cvar
	ShadowHueShift    *cvar.Cvar
	ShadowSaturation  *cvar.Cvar
	TextureHueShift   *cvar.Cvar
	TextureSaturation *cvar.Cvar
	TrueColor         *cvar.Cvar
)

func init() {
	ShadowFiltering = cvar.MustRegister("shd_iFiltering", "1", cvar.ARCHIVE)
	ShadowDithering = cvar.MustRegister("shd_iDithering", "1", cvar.ARCHIVE)
	ShadowFineQuality = cvar.MustRegister("shd_bFineQuality", "1", cvar.ARCHIVE)
	ShadowHueShift = cvar.MustRegister("shd_iHueShift", "0", cvar.ARCHIVE)
	ShadowSaturation = cvar.MustRegister("shd_iSaturation", "256", cvar.ARCHIVE)
	TextureHueShift = cvar.MustRegister("tex_iHueShift", "0", cvar.ARCHIVE)
	TextureSaturation = cvar.MustRegister("tex_iSaturation", "256", cvar.ARCHIVE)
	TrueColor = cvar.MustRegister("gfx_bTrueColor", "1", cvar.NONE)
}

// ShadowSettings returns the current values as mixer settings.
func ShadowSettings() shadow.Settings {
	return shadow.Settings{
		Filtering:         qmath.Clamp(0, ShadowFiltering.Int(), 6),
		Dithering:         qmath.Clamp(0, ShadowDithering.Int(), 5),
		FineQuality:       ShadowFineQuality.Bool(),
		TrueColor:         TrueColor.Bool(),
		HueShift:          int32(ShadowHueShift.Int()),
		Saturation:        int32(ShadowSaturation.Int()),
		TextureHueShift:   int32(TextureHueShift.Int()),
		TextureSaturation: int32(TextureSaturation.Int()),
	}
}
