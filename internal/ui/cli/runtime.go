package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	coreapp "junitmig/internal/core/app"
	"junitmig/internal/core/config"
	"junitmig/internal/data/state"
	"junitmig/internal/shared/observability"

	"github.com/spf13/cobra"
)

// runtime holds everything a subcommand needs. close releases it in reverse
// order of acquisition.
type runtime struct {
	cfg     *config.Config
	cfgPath string
	paths   config.ResolvedPaths
	app     *coreapp.App
	logger  *slog.Logger
	closers []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func newRuntime(ctx context.Context, cmd *cobra.Command, opts *globalOptions, stderr io.Writer) (*runtime, error) {
	rt := &runtime{}
	ok := false
	defer func() {
		if !ok {
			rt.close()
		}
	}()

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)
	applyFlagOverrides(cmd, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	rt.cfg = cfg
	rt.cfgPath = opts.configPath
	if rt.cfgPath == "" {
		if _, statErr := os.Stat(config.DefaultFile); statErr == nil {
			rt.cfgPath = config.DefaultFile
		}
	}

	logger, logCloser := observability.NewLogger(observability.LogOptions{
		Verbose: opts.verbose,
		Format:  cfg.Observability.LogFormat,
		File:    cfg.Observability.LogFile,
		Output:  stderr,
	})
	slog.SetDefault(logger)
	rt.logger = logger
	rt.closers = append(rt.closers, func() { _ = logCloser.Close() })

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	rt.paths, err = config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, err
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	})

	appOpts := []coreapp.Option{coreapp.WithLogger(logger)}
	var store *state.Store
	if cfg.State.Enabled {
		store, err = state.Open(rt.paths.StatePath, cfg.State.BusyTimeout)
		if err != nil {
			return nil, err
		}
		logger.Debug("state ledger opened", "path", store.Path())
		appOpts = append(appOpts, coreapp.WithStateStore(store))
	}

	rt.app, err = coreapp.New(cfg, appOpts...)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = rt.app.Close() })

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		server := NewObservabilityServer(addr, coreapp.NewHealthService(rt.app), logger)
		if err := server.Start(ctx); err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		})
	}

	ok = true
	return rt, nil
}

// applyFlagOverrides copies explicitly set flags over config and env values.
func applyFlagOverrides(cmd *cobra.Command, opts *globalOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed(flagWorkers) {
		cfg.Scan.Workers = opts.workers
	}
	if flags.Changed(flagRules) {
		cfg.Rules.Enabled = opts.rules
	}
	if flags.Changed(flagSARIF) {
		cfg.Output.SARIF = opts.sarif
	}
	if flags.Changed(flagMetricsAddr) {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	if flags.Changed(flagLogFormat) {
		cfg.Observability.LogFormat = opts.logFormat
	}
	if flags.Changed(flagLogFile) {
		cfg.Observability.LogFile = opts.logFile
	}
	if flags.Changed(flagState) {
		cfg.State.Enabled = opts.state
	}
}
