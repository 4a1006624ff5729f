package config

import (
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Rules         Rules         `toml:"rules"`
	Catalog       Catalog       `toml:"catalog"`
	State         State         `toml:"state"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Scan struct {
	Paths        []string `toml:"paths"`
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"` // glob patterns matched against the slash path
	Extensions   []string `toml:"extensions"`
	Workers      int      `toml:"workers"`
}

type Rules struct {
	Enabled []string `toml:"enabled"`
}

// Catalog extends the built-in list of library types known to the resolver.
type Catalog struct {
	Types []CatalogType `toml:"types"`
}

type CatalogType struct {
	Name     string   `toml:"name"`
	Members  []string `toml:"members"`
	Complete bool     `toml:"complete"`
}

type State struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Debounce  time.Duration `toml:"debounce"`
	RateLimit float64       `toml:"rate_limit"` // reruns per second
	Burst     int           `toml:"burst"`
}

type Output struct {
	SARIF string `toml:"sarif"`
	Diff  bool   `toml:"diff"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	LogFormat    string `toml:"log_format"`
	LogFile      string `toml:"log_file"`
}

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
