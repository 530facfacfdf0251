package geometry

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// DownscaleToMaxSide shrinks r so its longer side equals maxSide, keeping
// the aspect ratio. Images already within bound, or maxSide <= 0, are
// returned as is.
func DownscaleToMaxSide(r Raster, maxSide int) Raster {
	w, h := r.Width(), r.Height()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return r
	}

	scale := float64(maxSide) / float64(max(w, h))
	targetW := max(1, int(math.Round(float64(w)*scale)))
	targetH := max(1, int(math.Round(float64(h)*scale)))
	if w >= h {
		targetW = maxSide
	} else {
		targetH = maxSide
	}

	return Raster{
		NRGBA: imaging.Resize(r.NRGBA, targetW, targetH, imaging.Lanczos),
		Alpha: r.Alpha,
	}
}

// PadToRatioIfNarrow widens r with side padding until width/height reaches
// ratio. Rasters at or above ratio, or ratio <= 0, are returned as is. The
// padding is transparent when r has alpha and bg otherwise.
func PadToRatioIfNarrow(r Raster, ratio float64, bg color.Color) Raster {
	w, h := r.Width(), r.Height()
	if ratio <= 0 || h == 0 || float64(w)/float64(h) >= ratio {
		return r
	}

	newW := int(math.Ceil(float64(h) * ratio))
	fill := bg
	if r.Alpha {
		fill = color.Transparent
	} else if fill == nil {
		fill = color.White
	}

	canvas := imaging.New(newW, h, fill)
	left := (newW - w) / 2
	return Raster{
		NRGBA: imaging.Paste(canvas, r.NRGBA, image.Pt(left, 0)),
		Alpha: r.Alpha,
	}
}
