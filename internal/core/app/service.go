package app

import (
	"context"
	"time"

	"junitmig/internal/core/errors"
	"junitmig/internal/core/ports"
	"junitmig/internal/data/state"
	"junitmig/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Run processes every source file under req.Paths (the configured scan paths
// when empty). Units are independent; one failing unit never aborts the run.
func (a *App) Run(ctx context.Context, req ports.RunRequest) (ports.RunResult, error) {
	if req.Mode == "" {
		req.Mode = ports.ModeApply
	}
	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes(
		attribute.String("mode", string(req.Mode)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return ports.RunResult{}, err
	}
	switch req.Mode {
	case ports.ModeApply, ports.ModeCheck, ports.ModeDiff:
	default:
		return ports.RunResult{}, errors.Newf(errors.CodeValidationError, "unknown run mode %q", req.Mode)
	}

	cfg, eng := a.current()
	paths := req.Paths
	if len(paths) == 0 {
		paths = cfg.Scan.Paths
	}

	result := ports.RunResult{
		ID:        uuid.NewString(),
		Mode:      req.Mode,
		StartedAt: time.Now().UTC(),
	}

	files, err := a.Discover(paths)
	if err != nil {
		span.RecordError(err)
		return result, errors.AddContext(err, errors.CtxOperation, "discover")
	}

	outcomes := make([]ports.FileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(eng.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = a.processFile(gctx, eng, path, req.Mode, req.NoCache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return result, err
	}

	result.Files = outcomes
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			result.Errors++
		case o.Skipped != "":
			result.FilesSkipped++
		default:
			result.FilesScanned++
		}
		if o.Changed {
			result.FilesChanged++
		}
		result.Rewrites += len(o.Changes)
		result.Warnings += len(o.Warnings)
	}
	result.FinishedAt = time.Now().UTC()
	observability.RunDuration.Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
	span.SetAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("changed", result.FilesChanged),
	)

	if a.store != nil {
		err := a.store.SaveRun(state.Run{
			ID:           result.ID,
			Mode:         string(result.Mode),
			StartedAt:    result.StartedAt,
			FinishedAt:   result.FinishedAt,
			FilesScanned: result.FilesScanned,
			FilesChanged: result.FilesChanged,
			Rewrites:     result.Rewrites,
			Warnings:     result.Warnings,
			Errors:       result.Errors,
		})
		if err != nil {
			a.logger.Warn("failed to save run", "run", result.ID, "error", err)
		}
	}

	a.logger.Info("run complete",
		"run", result.ID,
		"mode", result.Mode,
		"files", len(files),
		"changed", result.FilesChanged,
		"rewrites", result.Rewrites,
		"warnings", result.Warnings,
		"errors", result.Errors,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
	return result, nil
}

// History returns up to limit past runs, newest first.
func (a *App) History(limit int) ([]state.Run, error) {
	if a.store == nil {
		return nil, errors.New(errors.CodeNotSupported, "state ledger is disabled")
	}
	return a.store.LoadRuns(limit)
}
