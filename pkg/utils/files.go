package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// WorkflowFiles expands paths into workflow files. Files are kept as given;
// directories are walked for .yml and .yaml files, sorted by path.
func WorkflowFiles(paths ...string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(p); ext == ".yml" || ext == ".yaml" {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not walk %s: %w", path, err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}
