package geometry

import (
	"math"
	"sort"

	"github.com/fogleman/ease"
)

// Curve maps progress in [0,1] to an eased value in [0,1].
type Curve func(t float64) float64

const DefaultCurve = "sine"

var curves = map[string]Curve{
	"sine":   ease.InOutSine,
	"quad":   ease.InOutQuad,
	"cubic":  ease.InOutCubic,
	"linear": ease.Linear,
}

// Ease is the half-cosine slow-in/slow-out curve, 0.5 - 0.5*cos(pi*t).
func Ease(t float64) float64 {
	return ease.InOutSine(t)
}

// Triangle rises from 0 to 1 at x=0.5 and falls back to 0 at x=1.
// Inputs outside [0,1] are not clamped.
func Triangle(x float64) float64 {
	return 1 - math.Abs(2*x-1)
}

// CurveByName returns the named curve. An empty name is the default curve.
func CurveByName(name string) (Curve, bool) {
	if name == "" {
		name = DefaultCurve
	}
	c, ok := curves[name]
	return c, ok
}

func CurveNames() []string {
	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
