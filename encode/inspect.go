package encode

import (
	"bytes"
	"image/color"
	"image/gif"

	"github.com/pkg/errors"

	"still-gif/failure"
)

// Info describes an encoded GIF.
type Info struct {
	Frames        int   `json:"frames"`
	DelaysMs      []int `json:"delays_ms"`
	Disposal      []int `json:"disposal"`
	LoopCount     int   `json:"loop_count"`
	Width         int   `json:"width"`
	Height        int   `json:"height"`
	GlobalPalette bool  `json:"global_palette"`
}

// Inspect decodes data and reports its frame layout and timing.
func Inspect(data []byte) (Info, error) {
	if !IsGIF(data) {
		return Info{}, failure.Newf(failure.Decode, "inspect", "not a gif")
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Info{}, failure.New(failure.Decode, "inspect", errors.Wrap(err, "failed decoding gif"))
	}

	info := Info{
		Frames:    len(g.Image),
		DelaysMs:  make([]int, len(g.Delay)),
		Disposal:  make([]int, len(g.Disposal)),
		LoopCount: g.LoopCount,
		Width:     g.Config.Width,
		Height:    g.Config.Height,
	}
	if p, ok := g.Config.ColorModel.(color.Palette); ok && len(p) > 0 {
		info.GlobalPalette = true
	}
	for i, d := range g.Delay {
		info.DelaysMs[i] = d * 10
	}
	for i, d := range g.Disposal {
		info.Disposal[i] = int(d)
	}
	return info, nil
}

// IsGIF checks the GIF87a/GIF89a signature and the trailer byte.
func IsGIF(data []byte) bool {
	if len(data) < 6 {
		return false
	}
	return data[0] == 'G' &&
		data[1] == 'I' &&
		data[2] == 'F' &&
		data[3] == '8' &&
		(data[4] == '7' || data[4] == '9') &&
		data[5] == 'a' &&
		data[len(data)-1] == ';'
}
