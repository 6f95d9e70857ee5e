// Package locate resolves logical dataset names to concrete input files.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/dataprep/pkg/prep/internalerr"
)

// Find returns the path of the file in dir whose name contains both the
// source name and the kind token, case-insensitively. When several files
// match, the shortest name wins; longer names tend to be backups or
// decorated variants.
func Find(dir, source, kind string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", dir, err)
	}

	srcLower := strings.ToLower(source)
	kindLower := strings.ToLower(kind)

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.Contains(name, srcLower) && strings.Contains(name, kindLower) {
			candidates = append(candidates, e.Name())
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no file in %s for source %q and kind %q",
			internalerr.ErrNotFound, dir, source, kind)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})

	return filepath.Join(dir, candidates[0]), nil
}
