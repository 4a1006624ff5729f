package app

import (
	"context"
	"os"

	"junitmig/internal/core/ports"
	"junitmig/internal/core/watcher"
	"junitmig/internal/shared/util"
)

// Watch applies the rules once over paths, then again for every debounced
// batch of changed files until ctx is cancelled. Reruns are throttled by the
// configured rate limit.
func (a *App) Watch(ctx context.Context, paths []string, onRun func(ports.RunResult, error)) error {
	cfg, eng := a.current()
	if len(paths) == 0 {
		paths = cfg.Scan.Paths
	}
	roots := uniqueScanRoots(paths)
	if onRun == nil {
		onRun = func(ports.RunResult, error) {}
	}

	batches := make(chan []string, 16)
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, eng.filter, func(changed []string) {
		select {
		case batches <- changed:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	w.SetLogger(a.logger)
	a.setWatcher(w)
	defer func() {
		a.setWatcher(nil)
		_ = w.Close()
	}()

	if err := w.Watch(roots); err != nil {
		return err
	}
	a.logger.Info("watching for changes", "paths", roots)

	onRun(a.Run(ctx, ports.RunRequest{Paths: roots, Mode: ports.ModeApply}))

	limiter := util.NewLimiter(cfg.Watch.RateLimit, cfg.Watch.Burst)
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-batches:
			pending := make(map[string]bool, len(batch))
			for _, p := range batch {
				pending[p] = true
			}
			if err := limiter.Wait(ctx, 1); err != nil {
				return nil
			}
		drain:
			for {
				select {
				case more := <-batches:
					for _, p := range more {
						pending[p] = true
					}
				default:
					break drain
				}
			}

			existing := make([]string, 0, len(pending))
			for _, p := range util.SortedStringKeys(pending) {
				if info, err := os.Stat(p); err == nil && !info.IsDir() {
					existing = append(existing, p)
				}
			}
			if len(existing) == 0 {
				continue
			}
			a.logger.Debug("rerunning on change", "files", len(existing))
			onRun(a.Run(ctx, ports.RunRequest{Paths: existing, Mode: ports.ModeApply}))
		}
	}
}
