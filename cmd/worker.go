package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"still-gif/pipeline"
)

type runOptions struct {
	OutDir   string
	WarnSize int
	Workers  int
}

type result struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	pipeline.Result
	Oversize bool   `json:"oversize,omitempty"`
	Error    string `json:"error,omitempty"`

	err error
}

// processImages runs the pipeline over paths with at most opts.Workers
// images in flight. Results keep the order of paths.
func processImages(ctx context.Context, paths []string, cfg pipeline.Config, opts runOptions) []result {
	results := make([]result, len(paths))
	if len(paths) == 0 {
		return results
	}

	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		maxWorkers = defaultWorkers
	}
	if len(paths) < maxWorkers {
		maxWorkers = len(paths)
	}

	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, p := range paths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				results[i] = failed(p, err)
				return
			}
			results[i] = processImage(p, cfg, opts)
		}(i, p)
	}

	wg.Wait()
	return results
}

func processImage(p string, cfg pipeline.Config, opts runOptions) result {
	raw, err := os.ReadFile(p)
	if err != nil {
		logrus.Errorf("❌ Failed opening '%s': %s", p, err)
		return failed(p, err)
	}

	res, err := pipeline.Produce(raw, cfg)
	if err != nil {
		logrus.Errorf("❌ Failed converting '%s': %s", p, err)
		return failed(p, err)
	}

	outPath := outputPath(p, opts.OutDir)
	if err := saveGif(outPath, res.Data); err != nil {
		logrus.Errorf("❌ Failed saving '%s': %s", outPath, err)
		return failed(p, err)
	}

	r := result{Input: p, Output: outPath, Result: res}
	logrus.WithFields(logrus.Fields{
		"frames": res.Frames,
		"size":   fmt.Sprintf("%dx%d", res.Width, res.Height),
		"bytes":  res.Size,
	}).Infof("🟢 Saved '%s'", filepath.Base(outPath))

	if opts.WarnSize > 0 && res.Size > opts.WarnSize {
		r.Oversize = true
		logrus.Warnf("⚠️ '%s' is %s, over the %s limit; try --max-side or --palette",
			filepath.Base(outPath), humanBytes(res.Size), humanBytes(opts.WarnSize))
	}
	return r
}

func failed(p string, err error) result {
	return result{Input: p, Error: err.Error(), err: err}
}

// saveGif writes data to outPath, creating the output directory if needed.
func saveGif(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "failed creating output directory")
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "failed creating output file")
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	if _, err := writer.Write(data); err != nil {
		return errors.Wrap(err, "failed writing gif")
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "failed writing gif")
	}
	return out.Close()
}

func humanBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGT"[exp])
}
