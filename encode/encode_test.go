package encode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"still-gif/failure"
)

func tinted(w, h int, shade uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: uint8(x * 4), B: uint8(y * 4), A: 255})
		}
	}
	return img
}

func sequence(n, w, h int) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = tinted(w, h, uint8(i*20))
	}
	return frames
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(sequence(7, 32, 24), Options{DurationMs: 150, LoopCount: InfiniteLoop})
	require.NoError(t, err)
	require.True(t, IsGIF(data))

	info, err := Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 7, info.Frames)
	assert.Equal(t, 32, info.Width)
	assert.Equal(t, 24, info.Height)
	assert.Equal(t, InfiniteLoop, info.LoopCount)
	assert.False(t, info.GlobalPalette)
	for i := 0; i < 7; i++ {
		assert.Equal(t, 150, info.DelaysMs[i])
		assert.Equal(t, int(gif.DisposalBackground), info.Disposal[i])
	}
}

func TestEncodeLoopCount(t *testing.T) {
	data, err := Encode(sequence(3, 8, 8), Options{DurationMs: 100, LoopCount: 4})
	require.NoError(t, err)

	info, err := Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 4, info.LoopCount)
}

func TestEncodeSingleFrame(t *testing.T) {
	data, err := Encode(sequence(1, 10, 10), Options{DurationMs: 250})
	require.NoError(t, err)

	info, err := Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Frames)
	// static GIFs have no NETSCAPE block, so the decoder reports play-once
	assert.Equal(t, -1, info.LoopCount)
}

func TestEncodeEmpty(t *testing.T) {
	_, err := Encode(nil, Options{DurationMs: 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, failure.ErrEncoding))
}

func TestEncodeMismatchedFrames(t *testing.T) {
	frames := []image.Image{tinted(10, 10, 0), tinted(10, 11, 0)}

	_, err := Encode(frames, Options{DurationMs: 100})
	require.Error(t, err)
	assert.Equal(t, failure.Encoding, failure.KindOf(err))
	assert.Contains(t, err.Error(), "frame 1 is 10x11")
}

func TestEncodeKeepsPalettedFrames(t *testing.T) {
	palette := color.Palette{color.Black, color.White}
	frame := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
	frame.SetColorIndex(1, 1, 1)

	data, err := Encode([]image.Image{frame, frame}, Options{DurationMs: 50})
	require.NoError(t, err)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint8(1), g.Image[1].ColorIndexAt(1, 1))
	assert.Equal(t, uint8(0), g.Image[1].ColorIndexAt(0, 0))
}

func TestEncodeMovesOffsetFrames(t *testing.T) {
	palette := color.Palette{color.Black, color.White}
	offset := image.NewPaletted(image.Rect(5, 5, 9, 9), palette)
	offset.SetColorIndex(5, 5, 1)

	data, err := Encode([]image.Image{offset}, Options{DurationMs: 50})
	require.NoError(t, err)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), g.Image[0].Bounds())
	assert.Equal(t, uint8(1), g.Image[0].ColorIndexAt(0, 0))
}

func TestEncodeOptimizeSharesPalette(t *testing.T) {
	first := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	second := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.White, color.NRGBA{R: 255, A: 255}})
	second.SetColorIndex(2, 2, 1)

	data, err := Encode([]image.Image{first, second}, Options{DurationMs: 100, Optimize: true})
	require.NoError(t, err)

	info, err := Inspect(data)
	require.NoError(t, err)
	assert.True(t, info.GlobalPalette)
	assert.Equal(t, 2, info.Frames)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	assertSameRGBA(t, color.Black, g.Image[0].At(0, 0))
	assertSameRGBA(t, color.White, g.Image[1].At(0, 0))
	assertSameRGBA(t, color.NRGBA{R: 255, A: 255}, g.Image[1].At(2, 2))

	// source frames are not remapped in place
	assert.Len(t, second.Palette, 2)
}

func TestEncodeOptimizeManyColors(t *testing.T) {
	data, err := Encode(sequence(4, 64, 64), Options{DurationMs: 100, Optimize: true})
	require.NoError(t, err)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, g.Image, 4)
	palette, ok := g.Config.ColorModel.(color.Palette)
	require.True(t, ok)
	assert.LessOrEqual(t, len(palette), 256)
}

func TestDelayCentiseconds(t *testing.T) {
	assert.Equal(t, 25, delayCentiseconds(250))
	assert.Equal(t, 15, delayCentiseconds(150))
	assert.Equal(t, 2, delayCentiseconds(15))
	assert.Equal(t, 1, delayCentiseconds(1))
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("definitely not a gif"))
	assert.True(t, errors.Is(err, failure.ErrDecode))

	_, err = Inspect([]byte("GIF89a;"))
	assert.True(t, errors.Is(err, failure.ErrDecode))
}

func TestIsGIF(t *testing.T) {
	assert.False(t, IsGIF(nil))
	assert.False(t, IsGIF([]byte("GIF8")))
	assert.True(t, IsGIF([]byte("GIF87a\x00;")))
}

func assertSameRGBA(t *testing.T, want, got color.Color) {
	t.Helper()
	assert.Equal(t, color.RGBAModel.Convert(want), color.RGBAModel.Convert(got))
}
