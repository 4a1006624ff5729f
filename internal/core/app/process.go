package app

import (
	"context"
	"os"
	"time"

	"junitmig/internal/core/errors"
	"junitmig/internal/core/ports"
	"junitmig/internal/data/state"
	"junitmig/internal/shared/observability"
	"junitmig/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	skipUnchanged  = "unchanged"
	skipParseError = "parse_error"
)

// processFile rewrites one compilation unit. Failures are returned in the
// outcome; the file is left as it was.
func (a *App) processFile(ctx context.Context, eng *engine, path string, mode ports.Mode, noCache bool) ports.FileOutcome {
	ctx, span := observability.Tracer.Start(ctx, "app.processFile", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("mode", string(mode)),
	))
	defer span.End()

	out := ports.FileOutcome{Path: path}
	fail := func(err error) ports.FileOutcome {
		span.RecordError(err)
		code := errors.CodeOf(err)
		if code == "" {
			code = errors.CodeInternal
		}
		observability.UnitErrorsTotal.WithLabelValues(string(code)).Inc()
		a.logger.Warn("unit left unchanged", "path", path, "error", err)
		out.Err = err
		return out
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fail(errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source"), errors.CtxPath, path))
	}
	observability.FilesScannedTotal.Inc()
	hash := state.HashContent(content)

	if a.store != nil && !noCache {
		prev, ok, err := a.store.Lookup(path)
		if err != nil {
			a.logger.Debug("state lookup failed", "path", path, "error", err)
		} else if ok && prev.ContentHash == hash && prev.Ruleset == eng.ruleset {
			observability.FilesSkippedTotal.WithLabelValues(skipUnchanged).Inc()
			out.Skipped = skipUnchanged
			return out
		}
	}

	parseStart := time.Now()
	unit, err := eng.parser.ParseFile(path, content)
	if err != nil {
		return fail(errors.AddContext(err, errors.CtxPath, path))
	}
	observability.ParsingDuration.WithLabelValues(unit.Language).Observe(time.Since(parseStart).Seconds())
	if unit.HasErrors {
		observability.FilesSkippedTotal.WithLabelValues(skipParseError).Inc()
		out.Skipped = skipParseError
		return fail(errors.AddContext(errors.New(errors.CodeParse, "source has syntax errors"), errors.CtxPath, path))
	}

	rewriteStart := time.Now()
	res, err := eng.driver.Apply(ctx, unit)
	observability.RewriteDuration.Observe(time.Since(rewriteStart).Seconds())
	if err != nil {
		return fail(err)
	}

	out.Changed = res.Changed
	out.Changes = res.Changes
	out.Warnings = res.Warnings
	out.ImportsAdded = res.ImportsAdded
	out.ImportsRemoved = res.ImportsRemoved
	for _, c := range res.Changes {
		observability.RewritesTotal.WithLabelValues(c.Rule).Inc()
	}
	for _, w := range res.Warnings {
		observability.WarningsTotal.WithLabelValues(string(w.Code)).Inc()
	}
	if res.Changed {
		out.Before = content
		out.After = res.Output
	}

	if !mode.Writes() {
		return out
	}

	final := content
	if res.Changed {
		a.remember(path, res.Output)
		if err := util.WriteFileAtomic(path, res.Output, 0o644); err != nil {
			out.Changed = false
			return fail(errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write rewritten source"), errors.CtxPath, path))
		}
		observability.FilesChangedTotal.Inc()
		final = res.Output
	}

	if a.store != nil {
		err := a.store.Record(state.FileState{
			Path:        path,
			ContentHash: state.HashContent(final),
			Ruleset:     eng.ruleset,
			Changed:     res.Changed,
		})
		if err != nil {
			a.logger.Warn("failed to record file state", "path", path, "error", err)
		}
	}
	return out
}
