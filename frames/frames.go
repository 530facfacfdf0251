// Package frames turns one still into the frames of a seamless zoom
// in/zoom out loop.
package frames

import (
	"image"

	"github.com/disintegration/imaging"

	"still-gif/geometry"
)

// ZoomFactors gives the scale of every frame in one cycle. Progress runs
// 0..1 across the frames, goes through a triangle so the loop returns to
// where it started, then through curve. The first and last factors are 1.
func ZoomFactors(frameCount int, strengthPct float64, curve geometry.Curve) []float64 {
	if frameCount <= 1 {
		return []float64{1}
	}
	if curve == nil {
		curve = geometry.Ease
	}

	factors := make([]float64, frameCount)
	for i := range factors {
		x := float64(i) / float64(frameCount-1)
		factors[i] = 1 + (strengthPct/100)*curve(geometry.Triangle(x))
	}
	return factors
}

// Synthesize renders the zoom cycle of src. Every frame has src's size.
// frameCount <= 1 yields src alone.
func Synthesize(src geometry.Raster, frameCount int, strengthPct float64, curve geometry.Curve) []geometry.Raster {
	if frameCount <= 1 {
		return []geometry.Raster{src}
	}

	factors := ZoomFactors(frameCount, strengthPct, curve)
	seq := make([]geometry.Raster, len(factors))
	for i, f := range factors {
		seq[i] = geometry.Raster{NRGBA: zoomFrame(src.NRGBA, f), Alpha: src.Alpha}
	}
	return seq
}

// zoomFrame scales img by factor with Lanczos and center-crops it back to
// the original size.
func zoomFrame(img *image.NRGBA, factor float64) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	scaledW, scaledH := int(float64(w)*factor), int(float64(h)*factor)
	if scaledW < w {
		scaledW = w
	}
	if scaledH < h {
		scaledH = h
	}

	scaled := imaging.Resize(img, scaledW, scaledH, imaging.Lanczos)
	left := (scaledW - w) / 2
	top := (scaledH - h) / 2
	return imaging.Crop(scaled, image.Rect(left, top, left+w, top+h))
}
