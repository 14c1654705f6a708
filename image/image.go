// SPDX-License-Identifier: GPL-2.0-or-later

// Package image converts mixed lightmaps to standard images and writes
// them to disk.
package image

import (
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"lightmix/color"
	"lightmix/pixbuf"
)

// Format is an output file format.
type Format string

const (
	PNG  Format = "png"
	TGA  Format = "tga"
	WebP Format = "webp"
)

var ErrFormat = errors.New("unknown image format")

// ParseFormat accepts a format name or a file name with extension.
func ParseFormat(s string) (Format, error) {
	if ext := filepath.Ext(s); ext != "" {
		s = ext[1:]
	}
	switch f := Format(strings.ToLower(s)); f {
	case PNG, TGA, WebP:
		return f, nil
	}
	return "", errors.Wrap(ErrFormat, s)
}

// ToNRGBA copies a lightmap buffer into an opaque image.
func ToNRGBA(b *pixbuf.Buffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for v := 0; v < b.Height; v++ {
		src := b.Row(v)
		dst := img.Pix[v*img.Stride : v*img.Stride+b.Width*4]
		for u := 0; u < b.Width; u++ {
			i := u * 4
			dst[i+0] = src[i+0]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+2]
			dst[i+3] = 255
		}
	}
	return img
}

// Flat returns a w×h image of a single color, used for flat lightmaps.
func Flat(c color.Color, w, h int) *image.NRGBA {
	b := pixbuf.New(w, h)
	b.Fill(c)
	return ToNRGBA(b)
}

// Preview enlarges img by scale so small mip levels stay readable.
// Nearest neighbor keeps texel edges visible; smooth uses bilinear.
func Preview(img image.Image, scale int, smooth bool) *image.NRGBA {
	if scale <= 1 {
		if n, ok := img.(*image.NRGBA); ok {
			return n
		}
		scale = 1
	}
	r := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
	var s draw.Scaler = draw.NearestNeighbor
	if smooth {
		s = draw.BiLinear
	}
	s.Scale(dst, dst.Bounds(), img, r, draw.Src, nil)
	return dst
}

// Modulate multiplies the texture base by the lightmap light, stretched
// over the texture. adjust is applied to every texture color first.
func Modulate(base, light image.Image, adjust func(color.Color) color.Color) *image.NRGBA {
	r := base.Bounds()
	lm := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.BiLinear.Scale(lm, lm.Bounds(), light, light.Bounds(), draw.Src, nil)
	dst := image.NewNRGBA(lm.Bounds())
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			br, bg, bb, _ := base.At(r.Min.X+x, r.Min.Y+y).RGBA()
			c := color.FromRGB(uint8(br>>8), uint8(bg>>8), uint8(bb>>8))
			if adjust != nil {
				c = adjust(c)
			}
			i := lm.PixOffset(x, y)
			l := color.FromRGB(lm.Pix[i], lm.Pix[i+1], lm.Pix[i+2])
			// lightmaps are stored at half brightness, 128 leaves the texture as is
			mr, mg, mb := color.Mul(c, l).RGB()
			dst.Pix[i+0] = color.ClipByte(int32(mr) * 2)
			dst.Pix[i+1] = color.ClipByte(int32(mg) * 2)
			dst.Pix[i+2] = color.ClipByte(int32(mb) * 2)
			dst.Pix[i+3] = 255
		}
	}
	return dst
}

// Encode writes img in format f.
func Encode(w io.Writer, f Format, img image.Image) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case TGA:
		err = tga.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return errors.Wrap(ErrFormat, string(f))
	}
	return errors.Wrapf(err, "encode %s", f)
}

// Write stores img in the file name, in the format its extension names.
func Write(name string, img image.Image) error {
	f, err := ParseFormat(name)
	if err != nil {
		return err
	}
	file, err := os.Create(name)
	if err != nil {
		log.Println(err)
		return err
	}
	if err := Encode(file, f, img); err != nil {
		file.Close()
		log.Println(err)
		return err
	}
	return file.Close()
}

// Load reads a png or tga texture.
func Load(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var img image.Image
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".tga":
		img, err = tga.Decode(f)
	case ".png":
		img, err = png.Decode(f)
	default:
		return nil, errors.Wrap(ErrFormat, ext)
	}
	if err != nil {
		log.Printf("Failed to load %v, %v", name, err)
		return nil, errors.Wrapf(err, "load %s", name)
	}
	log.Printf("Succeeded in loading %v", name)
	return img, nil
}
