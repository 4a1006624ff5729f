package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"junitmig/internal/core/errors"
)

// Discover expands paths into the sorted list of source files to process.
// Directories are walked recursively; explicit files are kept when their
// extension is supported and no exclude pattern matches.
func (a *App) Discover(paths []string) ([]string, error) {
	_, eng := a.current()

	seen := make(map[string]bool)
	files := make([]string, 0)
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			files = append(files, path)
		}
	}

	for _, root := range uniqueScanRoots(paths) {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "scan path not accessible"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			if !eng.filter.SkipFile(filepath.Dir(root), root) {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && eng.filter.SkipDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if eng.filter.SkipFile(root, path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "walk scan path"), errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}
