// Package colors reduces frames to a bounded GIF palette.
package colors

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
)

const MaxPaletteSize = 256

// Quantizer picks at most Size colors per frame with median cut and maps
// every pixel to its nearest palette entry. It never dithers: dither noise
// differs between near-identical frames and shows up as flicker.
type Quantizer struct {
	Size int
	// Background is what translucent pixels are flattened onto. Nil is white.
	Background color.Color
}

// Quantize flattens img onto a white background and reduces it to at most
// size colors.
func Quantize(img image.Image, size int) *image.Paletted {
	return Quantizer{Size: size}.Quantize(img)
}

func (q Quantizer) Quantize(img image.Image) *image.Paletted {
	flat := Flatten(img, q.Background)

	size := q.Size
	if size <= 0 || size > MaxPaletteSize {
		size = MaxPaletteSize
	}

	palette := quantize.MedianCutQuantizer{}.Quantize(make(color.Palette, 0, size), flat)
	if len(palette) == 0 {
		palette = color.Palette{color.White}
	}

	paletted := image.NewPaletted(flat.Rect, palette)
	draw.Draw(paletted, paletted.Rect, flat, image.Point{}, draw.Src)
	return paletted
}

// Flatten composites img over an opaque bg canvas, white when bg is nil.
// The result is a new image at the origin with no translucent pixels.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	if opaque(img) {
		return imaging.Clone(img)
	}
	if bg == nil {
		bg = color.White
	}
	r, g, b, _ := bg.RGBA()
	solid := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}

	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), solid)
	flat := imaging.Overlay(canvas, img, image.Point{}, 1)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xff
	}
	return flat
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
