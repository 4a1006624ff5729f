package config

import (
	"os"
	"path/filepath"
	"strings"

	"junitmig/internal/core/errors"
)

// projectMarkers identify the root of a Java build.
var projectMarkers = []string{
	DefaultFile,
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"settings.gradle",
	".git",
}

type ResolvedPaths struct {
	ProjectRoot string
	StatePath   string
	SARIFPath   string
	ScanPaths   []string
}

// ResolvePaths anchors the relative paths of cfg at the detected project root.
// Scan paths stay relative to cwd, as given on the command line.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, errors.New(errors.CodeValidationError, "cwd must not be empty")
	}

	candidates := make([]string, 0, len(cfg.Scan.Paths)+1)
	for _, p := range cfg.Scan.Paths {
		candidates = append(candidates, ResolveRelative(cwd, p))
	}
	root, err := DetectProjectRoot(append(candidates, cwd))
	if err != nil {
		return ResolvedPaths{}, err
	}

	resolved := ResolvedPaths{
		ProjectRoot: root,
		StatePath:   ResolveRelative(root, cfg.State.Path),
		ScanPaths:   candidates,
	}
	if strings.TrimSpace(cfg.Output.SARIF) != "" {
		resolved.SARIFPath = ResolveRelative(cwd, cfg.Output.SARIF)
	}
	return resolved, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate until a build marker is found,
// falling back to the working directory.
func DetectProjectRoot(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range projectMarkers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
