package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"still-gif/failure"
	"still-gif/pipeline"
)

// configFromFlags layers the preset, then the YAML file, then any flag the
// user set explicitly.
func configFromFlags(c *cli.Command) (pipeline.Config, error) {
	name := c.String("preset")
	cfg, ok := pipeline.PresetByName(name)
	if !ok {
		return cfg, failure.Newf(failure.Configuration, "preset",
			"unknown preset %q, want one of %s", name, strings.Join(pipeline.PresetNames(), ", "))
	}

	if path := c.String("config"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, failure.New(failure.Configuration, "config", errors.Wrapf(err, "failed opening '%s'", path))
		}
		defer f.Close()
		if cfg, err = pipeline.LoadConfig(f, cfg); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("frames") {
		cfg.FrameCount = int(c.Int("frames"))
	}
	if c.IsSet("duration") {
		cfg.DurationMs = int(c.Int("duration"))
	}
	if c.IsSet("zoom") {
		cfg.ZoomStrengthPct = c.Float("zoom")
	}
	if c.IsSet("ratio") {
		ratio, err := parseRatio(c.String("ratio"))
		if err != nil {
			return cfg, err
		}
		cfg.TargetRatio = ratio
	}
	if c.IsSet("max-side") {
		cfg.MaxSide = int(c.Int("max-side"))
	}
	if c.IsSet("palette") {
		cfg.PaletteSize = int(c.Int("palette"))
	}
	if c.IsSet("loop") {
		cfg.LoopCount = int(c.Int("loop"))
	}
	if c.IsSet("optimize") {
		cfg.Optimize = c.Bool("optimize")
	}
	if c.IsSet("curve") {
		cfg.Curve = c.String("curve")
	}
	if c.IsSet("background") {
		cfg.Background = normalizeHex(c.String("background"))
	}

	return cfg, cfg.Validate()
}

// parseRatio accepts "W:H" or a decimal width/height. Empty, "0" and "off"
// disable padding.
func parseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" || strings.EqualFold(s, "off") {
		return 0, nil
	}

	bad := failure.Newf(failure.Configuration, "ratio", "ratio %q must be W:H or a positive number", s)
	if w, h, ok := strings.Cut(s, ":"); ok {
		width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return 0, bad
		}
		height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if err != nil || height <= 0 || width <= 0 {
			return 0, bad
		}
		return width / height, nil
	}

	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil || ratio < 0 {
		return 0, bad
	}
	return ratio, nil
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return strings.ToLower(s)
}
