package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"junitmig/internal/core/errors"

	"github.com/BurntSushi/toml"
)

const DefaultFile = "junitmig.toml"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to DefaultConfig
// when path is empty or names the default file and that file is absent.
func LoadOrDefault(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFile
	}
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.IsCode(err, errors.CodeNotFound) {
		return DefaultConfig(), nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Scan.Paths) == 0 {
		cfg.Scan.Paths = []string{"."}
	}
	if len(cfg.Scan.ExcludeDirs) == 0 {
		cfg.Scan.ExcludeDirs = []string{".git", ".idea", "build", "target", "node_modules", ".gradle"}
	}
	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = []string{".java"}
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = runtime.NumCPU()
	}

	if len(cfg.Rules.Enabled) == 0 {
		cfg.Rules.Enabled = []string{"assertnull-to-assertthat"}
	}

	if strings.TrimSpace(cfg.State.Path) == "" {
		cfg.State.Path = ".junitmig/state.db"
	}
	if cfg.State.BusyTimeout <= 0 {
		cfg.State.BusyTimeout = 5 * time.Second
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RateLimit <= 0 {
		cfg.Watch.RateLimit = 2
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}

	if strings.TrimSpace(cfg.Observability.LogFormat) == "" {
		cfg.Observability.LogFormat = "text"
	}
}
