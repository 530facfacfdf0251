package colors

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noisy(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: alpha})
		}
	}
	return img
}

func distinct(p *image.Paletted) int {
	seen := map[color.Color]struct{}{}
	b := p.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			seen[p.At(x, y)] = struct{}{}
		}
	}
	return len(seen)
}

func TestQuantizeBoundsPalette(t *testing.T) {
	src := noisy(64, 64, 255)

	for _, size := range []int{1, 2, 16, 256} {
		out := Quantize(src, size)
		assert.LessOrEqual(t, len(out.Palette), size, "size %d", size)
		assert.LessOrEqual(t, distinct(out), size, "size %d", size)
		assert.Equal(t, src.Bounds(), out.Bounds())
	}
}

func TestQuantizeClampsSize(t *testing.T) {
	out := Quantizer{Size: 1000}.Quantize(noisy(40, 40, 255))
	assert.LessOrEqual(t, len(out.Palette), MaxPaletteSize)

	out = Quantizer{}.Quantize(noisy(40, 40, 255))
	assert.LessOrEqual(t, len(out.Palette), MaxPaletteSize)
	assert.NotEmpty(t, out.Palette)
}

func TestQuantizeFlattensAlpha(t *testing.T) {
	out := Quantize(noisy(32, 32, 100), 64)

	for i, c := range out.Palette {
		_, _, _, a := c.RGBA()
		assert.Equal(t, uint32(0xffff), a, "palette entry %d", i)
	}
}

func TestQuantizeFewColorsExact(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 255})
	src.SetNRGBA(3, 0, color.NRGBA{R: 255, A: 255})

	out := Quantize(src, 256)
	require.Equal(t, 3, distinct(out))
	for x := 0; x < 4; x++ {
		assert.Equal(t, color.RGBAModel.Convert(src.At(x, 0)), color.RGBAModel.Convert(out.At(x, 0)))
	}
}

func TestQuantizeKeepsSource(t *testing.T) {
	src := noisy(16, 16, 128)
	before := append([]uint8(nil), src.Pix...)

	Quantize(src, 8)
	assert.Equal(t, before, src.Pix)
}

func TestFlatten(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})

	flat := Flatten(src, nil)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, flat.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, flat.NRGBAAt(1, 0))
	assert.True(t, flat.Opaque())

	flat = Flatten(src, color.Black)
	assert.Equal(t, color.NRGBA{A: 255}, flat.NRGBAAt(0, 0))
}

func TestFlattenCopiesOpaque(t *testing.T) {
	src := noisy(4, 4, 255)
	flat := Flatten(src, nil)

	assert.Equal(t, src.Pix, flat.Pix)
	assert.NotSame(t, src, flat)
}
