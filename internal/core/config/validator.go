package config

import (
	"path"
	"strings"

	"junitmig/internal/core/errors"

	"github.com/gobwas/glob"
)

// Validate checks a fully defaulted configuration.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateScan(cfg); err != nil {
		return err
	}
	if err := validateCatalog(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	return validateObservability(cfg)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return errors.Newf(errors.CodeValidationError, "unsupported config version %d", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	for _, ext := range cfg.Scan.Extensions {
		if !strings.HasPrefix(strings.TrimSpace(ext), ".") {
			return errors.Newf(errors.CodeValidationError, "scan.extensions: %q must start with a dot", ext)
		}
	}
	for _, pattern := range cfg.Scan.ExcludeFiles {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "scan.exclude_files: invalid pattern "+pattern)
		}
	}
	for _, dir := range cfg.Scan.ExcludeDirs {
		if strings.TrimSpace(dir) == "" || path.Base(dir) != dir {
			return errors.Newf(errors.CodeValidationError, "scan.exclude_dirs: %q must be a single directory name", dir)
		}
	}
	return nil
}

func validateCatalog(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Catalog.Types))
	for i, typ := range cfg.Catalog.Types {
		name := strings.TrimSpace(typ.Name)
		if name == "" || !strings.Contains(name, ".") {
			return errors.Newf(errors.CodeValidationError, "catalog.types[%d]: name %q must be fully qualified", i, typ.Name)
		}
		if seen[name] {
			return errors.Newf(errors.CodeValidationError, "catalog.types[%d]: duplicate type %s", i, name)
		}
		seen[name] = true
		if len(typ.Members) == 0 {
			return errors.Newf(errors.CodeValidationError, "catalog.types[%d]: %s lists no members", i, name)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return errors.New(errors.CodeValidationError, "watch.debounce must not be negative")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	switch strings.ToLower(cfg.Observability.LogFormat) {
	case "text", "json":
		return nil
	default:
		return errors.Newf(errors.CodeValidationError, "observability.log_format: unknown format %q", cfg.Observability.LogFormat)
	}
}
