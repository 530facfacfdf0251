// Package encode writes frame sequences as animated GIFs.
package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"github.com/pkg/errors"

	"still-gif/colors"
	"still-gif/failure"
)

// InfiniteLoop is the LoopCount that repeats the animation forever.
const InfiniteLoop = 0

type Options struct {
	DurationMs int
	LoopCount  int
	// Disposal applies to every frame. Zero means gif.DisposalBackground,
	// so each full-size frame replaces the previous one.
	Disposal byte
	// Optimize writes one shared palette as the global color table instead
	// of a local table per frame. Frames are remapped onto it.
	Optimize bool
	// Background is used to flatten translucent frames that still need
	// quantizing. Nil is white.
	Background color.Color
}

// Encode writes frames as one GIF, first frame first. All frames must have
// the same size. Frames that are not *image.Paletted are quantized to 256
// colors.
func Encode(frames []image.Image, opts Options) ([]byte, error) {
	if len(frames) == 0 {
		return nil, failure.Newf(failure.Encoding, "encode", "no frames to encode")
	}

	size := frames[0].Bounds().Size()
	for i, frame := range frames[1:] {
		if s := frame.Bounds().Size(); s != size {
			return nil, failure.Newf(failure.Encoding, "encode",
				"frame %d is %dx%d, want %dx%d", i+1, s.X, s.Y, size.X, size.Y)
		}
	}

	disposal := opts.Disposal
	if disposal == 0 {
		disposal = gif.DisposalBackground
	}
	delay := delayCentiseconds(opts.DurationMs)

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(frames)),
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: opts.LoopCount,
		Config:    image.Config{Width: size.X, Height: size.Y},
	}
	for i, frame := range frames {
		anim.Image[i] = toPaletted(frame, opts.Background)
		anim.Delay[i] = delay
		anim.Disposal[i] = disposal
	}

	if opts.Optimize {
		sharePalette(anim)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, failure.New(failure.Encoding, "encode", errors.Wrap(err, "failed writing gif"))
	}
	return buf.Bytes(), nil
}

// GIF delays are in hundredths of a second; zero is treated as "as fast as
// possible" by most players, so one centisecond is the floor.
func delayCentiseconds(ms int) int {
	cs := (ms + 5) / 10
	if cs < 1 {
		cs = 1
	}
	return cs
}

// toPaletted returns frame as a paletted image at the origin.
func toPaletted(frame image.Image, bg color.Color) *image.Paletted {
	p, ok := frame.(*image.Paletted)
	if !ok {
		return colors.Quantizer{Size: colors.MaxPaletteSize, Background: bg}.Quantize(frame)
	}
	if p.Rect.Min == (image.Point{}) {
		return p
	}
	moved := image.NewPaletted(image.Rect(0, 0, p.Rect.Dx(), p.Rect.Dy()), p.Palette)
	draw.Draw(moved, moved.Rect, p, p.Rect.Min, draw.Src)
	return moved
}
