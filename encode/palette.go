package encode

import (
	"image"
	"image/color"
	"image/gif"

	"github.com/ericpauley/go-quantize/quantize"

	"still-gif/colors"
)

// sharePalette remaps every frame of anim onto one palette and makes it the
// global color table. When the frames use at most 256 colors in total the
// remap is lossless.
func sharePalette(anim *gif.GIF) {
	shared := unionPalette(anim.Image)
	if shared == nil {
		shared = quantize.MedianCutQuantizer{}.Quantize(
			make(color.Palette, 0, colors.MaxPaletteSize),
			montage(anim.Image),
		)
	}

	for i, frame := range anim.Image {
		anim.Image[i] = remap(frame, shared)
	}
	anim.Config.ColorModel = shared
}

// unionPalette collects the colors the frames actually use, in first-seen
// order. It returns nil when there are more than 256.
func unionPalette(frames []*image.Paletted) color.Palette {
	seen := map[color.NRGBA]struct{}{}
	var union color.Palette
	for _, frame := range frames {
		var used [256]bool
		for _, idx := range frame.Pix {
			used[idx] = true
		}
		for idx, ok := range used {
			if !ok || idx >= len(frame.Palette) {
				continue
			}
			c := color.NRGBAModel.Convert(frame.Palette[idx]).(color.NRGBA)
			if _, dup := seen[c]; dup {
				continue
			}
			if len(union) == colors.MaxPaletteSize {
				return nil
			}
			seen[c] = struct{}{}
			union = append(union, c)
		}
	}
	return union
}

// remap returns a copy of frame indexing into palette.
func remap(frame *image.Paletted, palette color.Palette) *image.Paletted {
	lut := make([]uint8, len(frame.Palette))
	for i, c := range frame.Palette {
		lut[i] = uint8(palette.Index(c))
	}

	out := image.NewPaletted(frame.Rect, palette)
	for i, idx := range frame.Pix {
		if int(idx) < len(lut) {
			out.Pix[i] = lut[idx]
		}
	}
	return out
}

// stack presents equally sized frames as one tall image so the quantizer
// sees every pixel of the animation.
type stack struct {
	frames []*image.Paletted
	w, h   int
}

func montage(frames []*image.Paletted) image.Image {
	b := frames[0].Bounds()
	return stack{frames: frames, w: b.Dx(), h: b.Dy()}
}

func (s stack) ColorModel() color.Model { return color.NRGBAModel }

func (s stack) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.w, s.h*len(s.frames))
}

func (s stack) At(x, y int) color.Color {
	frame := s.frames[y/s.h]
	return frame.At(frame.Rect.Min.X+x, frame.Rect.Min.Y+y%s.h)
}
