package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// collectInputs lists definition files directly under dir: extension match,
// index file skipped, sorted so the processing order never depends on how the
// file system enumerates entries. Subdirectories are not descended into.
func collectInputs(dir, ext, index string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ext {
			continue
		}
		if index != "" && ent.Name() == index {
			continue
		}
		paths = append(paths, filepath.Join(dir, ent.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
