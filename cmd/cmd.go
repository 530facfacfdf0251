package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"still-gif/geometry"
	"still-gif/pipeline"
)

// MaxImageSize is the default --warn-size: 5MiB, the usual cap for sending
// a GIF as an image in chat apps.
const MaxImageSize = 5242880

const defaultWorkers = 4

var Cmd = &cli.Command{
	Name:      "still-gif",
	Usage:     "Turn a photo into an almost-still looping GIF",
	ArgsUsage: "<image files or directories>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "dir",
			Usage:   "Process all images in given directories",
			Aliases: []string{"d"},
		},
		&cli.StringFlag{
			Name:    "preset",
			Usage:   "Base settings: " + strings.Join(pipeline.PresetNames(), ", "),
			Aliases: []string{"p"},
			Value:   "still",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file overriding the preset",
			Aliases: []string{"c"},
		},
		&cli.IntFlag{
			Name:  "frames",
			Usage: "Frames in one zoom cycle, 1 for a static GIF (default 15)",
		},
		&cli.IntFlag{
			Name:  "duration",
			Usage: "Milliseconds per frame (default 250)",
		},
		&cli.FloatFlag{
			Name:  "zoom",
			Usage: "Peak zoom in percent of the linear size (default 0.25)",
		},
		&cli.StringFlag{
			Name:  "ratio",
			Usage: "Pad images narrower than W:H (e.g. 22:23 or 0.95), 0 to disable",
		},
		&cli.IntFlag{
			Name:  "max-side",
			Usage: "Longest side in pixels, 0 for no limit",
		},
		&cli.IntFlag{
			Name:  "palette",
			Usage: "Colors per frame (1-256), 0 for as many as GIF allows",
		},
		&cli.IntFlag{
			Name:  "loop",
			Usage: "Loop count, 0 loops forever",
		},
		&cli.BoolFlag{
			Name:  "optimize",
			Usage: "Share one palette across frames for a smaller file",
		},
		&cli.StringFlag{
			Name:  "curve",
			Usage: "Zoom easing: " + strings.Join(geometry.CurveNames(), ", "),
		},
		&cli.StringFlag{
			Name:  "background",
			Usage: "Padding and flatten color as hex (default #ffffff)",
		},
		&cli.StringFlag{
			Name:    "out",
			Usage:   "Output directory, defaults to next to each input",
			Aliases: []string{"o"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "Images processed at once",
			Aliases: []string{"w"},
			Value:   defaultWorkers,
		},
		&cli.IntFlag{
			Name:  "warn-size",
			Usage: "Warn when an output is larger than this many bytes, 0 to disable",
			Value: MaxImageSize,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print a JSON report to stdout",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Debug logging",
			Aliases: []string{"v"},
		},
	},
	Action: action,
}

func action(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		cli.ShowAppHelpAndExit(c, 0)
	}

	setupLogging(c.Bool("verbose"))

	cfg, err := configFromFlags(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("❌ %s", err), 2)
	}
	logrus.WithField("config", fmt.Sprintf("%+v", cfg)).Debug("settings")

	var paths []string
	if c.Bool("dir") {
		paths = flagDirectory(args)
	} else {
		paths = flagFiles(args)
	}
	if len(paths) == 0 {
		return cli.Exit("❌ No images to process", 1)
	}

	opts := runOptions{
		OutDir:   c.String("out"),
		WarnSize: int(c.Int("warn-size")),
		Workers:  int(c.Int("workers")),
	}
	results := processImages(ctx, paths, cfg, opts)

	if c.Bool("json") {
		if err := writeReport(results); err != nil {
			return cli.Exit(fmt.Sprintf("❌ Failed writing report: %s", err), 1)
		}
	}

	var failures *multierror.Error
	for _, r := range results {
		if r.err != nil {
			failures = multierror.Append(failures, fmt.Errorf("%s: %w", r.Input, r.err))
		}
	}
	if failures != nil {
		logrus.Debug(failures.Error())
		return cli.Exit(fmt.Sprintf("❌ %d of %d images failed", len(failures.Errors), len(results)), 1)
	}
	return nil
}

func setupLogging(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
