package geometry

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Raster is a still normalized to NRGBA at the origin. Alpha records
// whether the source had a used alpha channel, which decides the padding
// background.
type Raster struct {
	*image.NRGBA
	Alpha bool
}

// NewRaster copies img into a fresh Raster.
func NewRaster(img image.Image) Raster {
	return Raster{NRGBA: imaging.Clone(img), Alpha: HasAlpha(img)}
}

func (r Raster) Width() int {
	return r.Rect.Dx()
}

func (r Raster) Height() int {
	return r.Rect.Dy()
}

// HasAlpha reports whether img carries alpha. Paletted images decide by
// palette alone: any translucent entry counts, used or not. Truecolor images
// in an alpha-capable model must also have a translucent pixel, so an RGB
// PNG decoded to *image.RGBA reports false.
func HasAlpha(img image.Image) bool {
	m := img.ColorModel()
	if !modelHasAlpha(m) {
		return false
	}
	if _, ok := m.(color.Palette); ok {
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

// modelHasAlpha treats a palette as alpha-carrying only when one of its
// entries is translucent.
func modelHasAlpha(m color.Model) bool {
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}
	switch m {
	case color.YCbCrModel, color.GrayModel, color.Gray16Model, color.CMYKModel:
		return false
	}
	return true
}
