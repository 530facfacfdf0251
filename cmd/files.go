package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const outputSuffix = "_still.gif"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

func isImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func flagDirectory(args []string) []string {
	var paths []string
	for _, arg := range args {
		entries, err := os.ReadDir(arg)
		if err != nil {
			logrus.Errorf("❌ Failed reading '%s': %s", arg, err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !isImage(entry.Name()) {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths
}

func flagFiles(args []string) []string {
	var paths []string
	for _, arg := range args {
		p := filepath.Clean(arg)
		info, err := os.Stat(p)
		if err != nil {
			logrus.Errorf("❌ Failed opening '%s': %s", p, err)
			continue
		}
		if info.IsDir() {
			logrus.Errorf("❌ '%s' is a directory, use -d flag instead", p)
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// outputPath puts "<stem>_still.gif" in outDir, or next to p when outDir
// is empty.
func outputPath(p, outDir string) string {
	dir := filepath.Dir(p)
	if outDir != "" {
		dir = outDir
	}
	base := filepath.Base(p)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+outputSuffix)
}
