package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: JUNITMIG_[SECTION]_[KEY] (e.g., JUNITMIG_SCAN_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Scan
	setEnvList(&cfg.Scan.Paths, "JUNITMIG_SCAN_PATHS")
	setEnvList(&cfg.Scan.ExcludeDirs, "JUNITMIG_SCAN_EXCLUDE_DIRS")
	setEnvList(&cfg.Scan.ExcludeFiles, "JUNITMIG_SCAN_EXCLUDE_FILES")
	setEnvInt(&cfg.Scan.Workers, "JUNITMIG_SCAN_WORKERS")

	// Rules
	setEnvList(&cfg.Rules.Enabled, "JUNITMIG_RULES_ENABLED")

	// State
	setEnvBool(&cfg.State.Enabled, "JUNITMIG_STATE_ENABLED")
	setEnvString(&cfg.State.Path, "JUNITMIG_STATE_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "JUNITMIG_WATCH_DEBOUNCE")

	// Output
	setEnvString(&cfg.Output.SARIF, "JUNITMIG_OUTPUT_SARIF")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "JUNITMIG_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "JUNITMIG_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.LogFormat, "JUNITMIG_OBSERVABILITY_LOG_FORMAT")
	setEnvString(&cfg.Observability.LogFile, "JUNITMIG_OBSERVABILITY_LOG_FILE")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = out
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
