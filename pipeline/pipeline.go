// Package pipeline turns one still image into an almost-still looping GIF.
package pipeline

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"

	"still-gif/colors"
	"still-gif/encode"
	"still-gif/failure"
	"still-gif/frames"
	"still-gif/geometry"
)

// Result is an encoded animation. Size is len(Data), kept for callers that
// warn about distribution limits.
type Result struct {
	Data   []byte `json:"-"`
	Size   int    `json:"size"`
	Frames int    `json:"frames"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Produce decodes raw, fits it to cfg's ratio and size bound, renders the
// zoom cycle and encodes it. Any failure aborts the whole run with a single
// *failure.Error.
func Produce(raw []byte, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	bg, _ := parseBackground(cfg.Background)
	curve, _ := geometry.CurveByName(cfg.Curve)

	src, err := Decode(raw)
	if err != nil {
		return Result{}, err
	}

	// padding can push the long side past MaxSide, hence the second pass
	src = geometry.DownscaleToMaxSide(src, cfg.MaxSide)
	src = geometry.PadToRatioIfNarrow(src, cfg.TargetRatio, bg)
	src = geometry.DownscaleToMaxSide(src, cfg.MaxSide)

	seq := frames.Synthesize(src, cfg.FrameCount, cfg.ZoomStrengthPct, curve)

	out := make([]image.Image, len(seq))
	q := colors.Quantizer{Size: cfg.PaletteSize, Background: bg}
	for i, frame := range seq {
		if cfg.PaletteSize > 0 {
			out[i] = q.Quantize(frame.NRGBA)
		} else {
			out[i] = frame.NRGBA
		}
	}

	data, err := encode.Encode(out, encode.Options{
		DurationMs: cfg.DurationMs,
		LoopCount:  cfg.LoopCount,
		Optimize:   cfg.Optimize,
		Background: bg,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Data:   data,
		Size:   len(data),
		Frames: len(out),
		Width:  src.Width(),
		Height: src.Height(),
	}, nil
}

// Decode reads a still in any registered format (JPEG, PNG, GIF, BMP, TIFF,
// WebP), applies its EXIF orientation and normalizes it to a Raster.
func Decode(raw []byte) (geometry.Raster, error) {
	if len(raw) == 0 {
		return geometry.Raster{}, failure.Newf(failure.Decode, "decode", "empty input")
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return geometry.Raster{}, failure.New(failure.Decode, "decode", errors.Wrap(err, "unsupported or corrupt image"))
	}
	if b := img.Bounds(); b.Empty() {
		return geometry.Raster{}, failure.Newf(failure.Decode, "decode", "image is %dx%d", b.Dx(), b.Dy())
	}

	return geometry.NewRaster(img), nil
}
