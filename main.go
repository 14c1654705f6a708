// SPDX-License-Identifier: GPL-2.0-or-later

// Command lightmix mixes the lightmap of a demo floor and writes it as an
// image.
package main

import (
	"flag"
	stdimage "image"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"lightmix/color"
	"lightmix/conlog"
	"lightmix/cvar"
	"lightmix/cvars"
	"lightmix/image"
	"lightmix/light"
	"lightmix/math/vec"
	"lightmix/shadow"
	"lightmix/stencil"
)

type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(s string) error {
	*a = append(*a, s)
	return nil
}

var (
	out      = flag.String("out", "lightmap.png", "output file, .png, .tga or .webp")
	mip      = flag.Int("mip", 0, "mip level to write")
	scale    = flag.Int("scale", 4, "preview enlargement")
	smooth   = flag.Bool("smooth", false, "bilinear instead of nearest enlargement")
	dynamic  = flag.Bool("dynamic", false, "include dynamic lights")
	atTime   = flag.Float64("time", 0, "animation time in seconds")
	texture  = flag.String("texture", "", "png or tga texture to modulate")
	save     = flag.String("save", "", "write the demo lights to this file")
	listVars = flag.Bool("cvars", false, "list tunables and exit")
	config   = flag.String("config", "", "read tunables from this file first")
	saveCfg  = flag.String("writeconfig", "", "write the archived tunables to this file")
	sets     assignments
)

const floorSize = 128

type scene struct {
	reg   *light.Registry
	floor *shadow.PlanarSurface
}

func (s *scene) addLight(ls *light.Source, l light.Layer) {
	s.reg.AddLight(ls)
	l.Light = ls.ID
	l.Surface = s.floor.ID()
	s.reg.AddLayer(l)
}

func pillarShadow(u, v int) bool {
	return !(u >= 56 && u < 72 && v >= 48 && v < 80)
}

func demoScene() (*scene, error) {
	s := &scene{
		reg:   light.NewRegistry(),
		floor: shadow.NewPlanarSurface(vec.Vec3{}, vec.Vec3{X: 1}, vec.Vec3{Y: 1}),
	}
	s.floor.Ambient = color.FromRGB(12, 12, 16)
	s.floor.Grad = &shadow.Gradient{
		Dir:    vec.Vec3{Y: 1},
		H0:     0,
		H1:     floorSize,
		Color0: color.FromRGB(0, 0, 24),
		Color1: color.FromRGB(24, 12, 0),
	}
	full := light.Layer{SizeU: floorSize, SizeV: floorSize}

	lamp := light.NewSource()
	lamp.Position = vec.Vec3{X: 36, Y: 40, Z: 24}
	lamp.Color = color.FromRGB(255, 220, 170)
	lamp.HotSpot = 16
	lamp.FallOff = 72
	a, err := light.NewAnimation("mmnmmommommnonmmonqnmmo", light.DefaultFPS, "inOutSine")
	if err != nil {
		return nil, err
	}
	lamp.Animation = a
	s.addLight(lamp, full)

	spot := light.NewSource()
	spot.Position = vec.Vec3{X: 100, Y: 64, Z: 32}
	spot.Color = color.FromRGB(90, 120, 255)
	spot.HotSpot = 8
	spot.FallOff = 80
	spot.Flags = light.Diffusion | light.CastShadows
	shadowed := full
	shadowed.Flags = light.Calculated
	shadowed.Mask = stencil.NewMaskFunc(floorSize, floorSize, pillarShadow)
	s.addLight(spot, shadowed)

	sun := light.NewSource()
	sun.Angles = vec.Vec3{X: 50, Y: 30}
	sun.Color = color.FromRGB(60, 60, 50)
	sun.Ambient = color.FromRGB(10, 10, 10)
	sun.Flags = light.Directional
	s.addLight(sun, full)

	torch := light.NewSource()
	torch.Position = vec.Vec3{X: 104, Y: 20, Z: 10}
	torch.Color = color.FromRGB(255, 64, 0)
	torch.HotSpot = 4
	torch.FallOff = 40
	torch.Flags = light.Dynamic | light.NonPersistent
	s.addLight(torch, full)
	return s, nil
}

func advance(reg *light.Registry, t float32) {
	const dt = 1.0 / 60
	for ; t > 0; t -= dt {
		for _, ls := range reg.Lights() {
			ls.Update(min(t, dt))
		}
	}
}

func render(sm *shadow.ShadowMap, m int) stdimage.Image {
	b := sm.Pixels(m)
	if *dynamic {
		b = sm.DynamicPixels(m)
	}
	if b != nil {
		return image.ToNRGBA(b)
	}
	c, _ := sm.Flat()
	w, h, _, _ := sm.UsedSize(m)
	return image.Flat(c, w, h)
}

func loadConfig(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(cvar.ExecConfig(f), name)
}

func writeConfig(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := cvar.WriteArchive(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run() error {
	if *config != "" {
		if err := loadConfig(*config); err != nil {
			return err
		}
	}
	for _, a := range sets {
		if err := cvar.SetAssignment(a); err != nil {
			return err
		}
	}
	if *saveCfg != "" {
		if err := writeConfig(*saveCfg); err != nil {
			return err
		}
	}
	if *listVars {
		cvar.List("")
		return nil
	}
	if _, err := image.ParseFormat(*out); err != nil {
		return err
	}

	s, err := demoScene()
	if err != nil {
		return err
	}
	advance(s.reg, float32(*atTime))
	if *save != "" {
		if err := os.WriteFile(*save, light.MarshalAll(s.reg.Lights()), 0644); err != nil {
			return err
		}
	}

	sm, err := shadow.New(s.floor, s.reg, shadow.Geometry{
		Width:        floorSize,
		Height:       floorSize,
		PolygonSizeU: floorSize,
		PolygonSizeV: floorSize,
	})
	if err != nil {
		return err
	}
	st := cvars.ShadowSettings()
	first, last := sm.MipLevels()
	if err := sm.MixStatic(first, last, st); err != nil {
		return err
	}
	if *dynamic {
		if err := sm.MixDynamic(first, last, st); err != nil {
			return err
		}
	}
	if sm.Flags()&shadow.AnimatingLights != 0 {
		conlog.Printf("lightmap has animating lights\n")
	}

	if *mip < first || *mip > last {
		return errors.Wrapf(shadow.ErrMipRange, "-mip %d", *mip)
	}
	img := render(sm, *mip)
	if *texture != "" {
		base, err := image.Load(*texture)
		if err != nil {
			return err
		}
		img = image.Modulate(base, img, st.AdjustTexture)
	} else {
		img = image.Preview(img, *scale, *smooth)
	}

	if err := image.Write(*out, img); err != nil {
		return err
	}
	conlog.Printf("wrote %s, mip %d of %d-%d\n", *out, *mip, first, last)
	return nil
}

func main() {
	flag.Var(&sets, "set", "set a tunable, name=value (repeatable)")
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
