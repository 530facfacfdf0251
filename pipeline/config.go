package pipeline

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"still-gif/colors"
	"still-gif/failure"
	"still-gif/geometry"
)

// Config is one invocation's animation settings. Zero TargetRatio and
// MaxSide disable padding and downscaling; zero PaletteSize keeps as many
// colors as GIF allows; zero LoopCount loops forever.
type Config struct {
	FrameCount      int     `yaml:"frame_count" json:"frame_count"`
	DurationMs      int     `yaml:"duration_ms" json:"duration_ms"`
	ZoomStrengthPct float64 `yaml:"zoom_strength_pct" json:"zoom_strength_pct"`
	TargetRatio     float64 `yaml:"target_ratio" json:"target_ratio"`
	MaxSide         int     `yaml:"max_side" json:"max_side"`
	PaletteSize     int     `yaml:"palette_size" json:"palette_size"`
	LoopCount       int     `yaml:"loop_count" json:"loop_count"`
	Optimize        bool    `yaml:"optimize" json:"optimize"`
	Curve           string  `yaml:"curve" json:"curve"`
	Background      string  `yaml:"background" json:"background"`
}

const (
	DefaultFrameCount      = 15
	DefaultDurationMs      = 250
	DefaultZoomStrengthPct = 0.25
	DefaultBackground      = "#ffffff"

	// PortraitRatio is the 22:23 width:height the portrait preset pads to.
	PortraitRatio = 22.0 / 23.0

	maxLoopCount = math.MaxUint16
)

// DefaultConfig is the "still" preset.
func DefaultConfig() Config {
	return Config{
		FrameCount:      DefaultFrameCount,
		DurationMs:      DefaultDurationMs,
		ZoomStrengthPct: DefaultZoomStrengthPct,
		Curve:           geometry.DefaultCurve,
		Background:      DefaultBackground,
	}
}

var presets = map[string]func() Config{
	"still": DefaultConfig,
	"portrait": func() Config {
		return DefaultConfig().WithZoom(0.18).WithTargetRatio(PortraitRatio)
	},
	"static": func() Config {
		return DefaultConfig().WithFrames(1)
	},
}

func PresetByName(name string) (Config, bool) {
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return Config{}, false
	}
	return fn(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadConfig reads YAML from r over base. Keys missing from the document
// keep base's values.
func LoadConfig(r io.Reader, base Config) (Config, error) {
	cfg := base
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return base, failure.New(failure.Configuration, "config", errors.Wrap(err, "failed parsing yaml"))
	}
	return cfg, nil
}

func (c Config) WithFrames(n int) Config              { c.FrameCount = n; return c }
func (c Config) WithDuration(ms int) Config           { c.DurationMs = ms; return c }
func (c Config) WithZoom(pct float64) Config          { c.ZoomStrengthPct = pct; return c }
func (c Config) WithTargetRatio(ratio float64) Config { c.TargetRatio = ratio; return c }
func (c Config) WithMaxSide(px int) Config            { c.MaxSide = px; return c }
func (c Config) WithPalette(size int) Config          { c.PaletteSize = size; return c }
func (c Config) WithLoop(count int) Config            { c.LoopCount = count; return c }
func (c Config) WithOptimize(on bool) Config          { c.Optimize = on; return c }
func (c Config) WithCurve(name string) Config         { c.Curve = name; return c }
func (c Config) WithBackground(hex string) Config     { c.Background = hex; return c }

// Validate reports every invalid option at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.FrameCount < 1 {
		result = multierror.Append(result, fmt.Errorf("frame count must be at least 1, got %d", c.FrameCount))
	}
	if c.DurationMs <= 0 {
		result = multierror.Append(result, fmt.Errorf("duration must be positive, got %dms", c.DurationMs))
	}
	if c.ZoomStrengthPct < 0 || math.IsNaN(c.ZoomStrengthPct) || math.IsInf(c.ZoomStrengthPct, 0) {
		result = multierror.Append(result, fmt.Errorf("zoom strength must be a non-negative number, got %v", c.ZoomStrengthPct))
	}
	if c.TargetRatio < 0 || math.IsNaN(c.TargetRatio) || math.IsInf(c.TargetRatio, 0) {
		result = multierror.Append(result, fmt.Errorf("target ratio must be positive or 0 to disable, got %v", c.TargetRatio))
	}
	if c.MaxSide < 0 {
		result = multierror.Append(result, fmt.Errorf("max side must be positive or 0 to disable, got %d", c.MaxSide))
	}
	if c.PaletteSize < 0 || c.PaletteSize > colors.MaxPaletteSize {
		result = multierror.Append(result, fmt.Errorf("palette size must be 1-%d or 0 for full color, got %d", colors.MaxPaletteSize, c.PaletteSize))
	}
	if c.LoopCount < 0 || c.LoopCount > maxLoopCount {
		result = multierror.Append(result, fmt.Errorf("loop count must be 0-%d, got %d", maxLoopCount, c.LoopCount))
	}
	if _, ok := geometry.CurveByName(c.Curve); !ok {
		result = multierror.Append(result, fmt.Errorf("unknown curve %q, want one of %s", c.Curve, strings.Join(geometry.CurveNames(), ", ")))
	}
	if _, err := parseBackground(c.Background); err != nil {
		result = multierror.Append(result, err)
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = joinErrors
	return failure.New(failure.Configuration, "config", result)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// parseBackground turns a hex color into an opaque color. Empty is white.
func parseBackground(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("background %q is not a hex color", hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
