package watcher

import (
	"path/filepath"
	"strings"

	"junitmig/internal/shared/util"

	"github.com/gobwas/glob"
)

// Filter decides which directories and source files take part in a scan.
// File patterns use '/' as separator and are tried against both the path
// relative to the scan root and the bare file name.
type Filter struct {
	excludeDirs  map[string]bool
	excludeFiles []glob.Glob
	extensions   map[string]bool
}

func NewFilter(excludeDirs, excludeFiles, extensions []string) (*Filter, error) {
	f := &Filter{
		excludeDirs: make(map[string]bool, len(excludeDirs)),
		extensions:  make(map[string]bool, len(extensions)),
	}
	for _, dir := range excludeDirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			f.excludeDirs[dir] = true
		}
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		f.excludeFiles = append(f.excludeFiles, g)
	}
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized != "" {
			f.extensions[normalized] = true
		}
	}
	return f, nil
}

// SkipDir reports whether a directory should not be descended into.
func (f *Filter) SkipDir(path string) bool {
	return f.excludeDirs[filepath.Base(path)]
}

// SkipFile reports whether path (relative to root when possible) is excluded.
func (f *Filter) SkipFile(root, path string) bool {
	base := filepath.Base(path)
	if len(f.extensions) > 0 && !f.extensions[strings.ToLower(filepath.Ext(base))] {
		return true
	}
	rel := path
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = util.NormalizePatternPath(filepath.ToSlash(rel))
	for _, g := range f.excludeFiles {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	for dir := range f.excludeDirs {
		if containsSegment(rel, dir) {
			return true
		}
	}
	return false
}

func containsSegment(rel, segment string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == segment {
			return true
		}
	}
	return false
}
