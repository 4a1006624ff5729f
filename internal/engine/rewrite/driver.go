// # internal/engine/rewrite/driver.go
package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
	"junitmig/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Rule rewrites matching invocations. Visit returns true when it consumed inv;
// expected non-matches return (false, nil).
type Rule interface {
	Name() string
	Description() string
	Visit(uc *UnitContext, inv *parser.MethodInvocation) (bool, error)
}

// Result is the outcome of one driver pass over a unit.
type Result struct {
	Path           string
	Output         []byte
	Changed        bool
	Changes        []Change
	Warnings       []Diagnostic
	ImportsAdded   []string
	ImportsRemoved []string
}

type Driver struct {
	parser     *parser.Parser
	resolver   *resolver.Resolver
	reconciler *ImportReconciler
	rules      []Rule
	logger     *slog.Logger
}

type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// NewDriver builds a driver running rules in order. p is used to verify that
// rewritten output still parses.
func NewDriver(p *parser.Parser, r *resolver.Resolver, rules []Rule, opts ...Option) *Driver {
	d := &Driver{
		parser:     p,
		resolver:   r,
		reconciler: NewImportReconciler(r),
		rules:      rules,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Apply runs every rule over unit and returns the rewritten source. On error
// the unit must be treated as unchanged.
func (d *Driver) Apply(ctx context.Context, unit *parser.CompilationUnit) (res *Result, err error) {
	ctx, span := observability.Tracer.Start(ctx, "rewrite.Driver.Apply", trace.WithAttributes(
		attribute.String("path", unit.Path),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("rule panicked", "path", unit.Path, "panic", r, "stack", string(debug.Stack()))
			res = nil
			err = errors.AddContext(errors.Newf(errors.CodeInternal, "rule panicked: %v", r), errors.CtxPath, unit.Path)
		}
		if err != nil {
			span.RecordError(err)
		}
	}()

	uc := newUnitContext(unit, d.resolver, d.reconciler, d.logger)
	for _, inv := range unit.Invocations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uc.current = inv
		for _, rule := range d.rules {
			uc.rule = rule.Name()
			done, err := rule.Visit(uc, inv)
			if err != nil {
				return nil, errors.AddContext(errors.AddContext(err, errors.CtxRule, rule.Name()), errors.CtxPath, unit.Path)
			}
			if done {
				break
			}
		}
	}
	uc.current = nil
	uc.rule = ""

	imports, err := d.reconciler.Reconcile(unit, uc.plan, uc.remainingUsage(), &uc.edits)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, unit.Path)
	}

	res = &Result{
		Path:           unit.Path,
		Output:         unit.Source,
		Changes:        uc.changes,
		Warnings:       append(uc.warnings, imports.Warnings...),
		ImportsAdded:   imports.Added,
		ImportsRemoved: imports.Removed,
	}
	if uc.edits.Len() == 0 {
		return res, nil
	}

	out, err := uc.edits.Apply(unit.Source)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, unit.Path)
	}
	if err := d.verify(unit, out); err != nil {
		return nil, err
	}

	res.Output = out
	res.Changed = string(out) != string(unit.Source)
	span.SetAttributes(
		attribute.Int("changes", len(res.Changes)),
		attribute.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

func (d *Driver) verify(unit *parser.CompilationUnit, out []byte) error {
	if d.parser == nil || unit.HasErrors {
		return nil
	}
	lang := unit.Language
	if lang == "" {
		lang = "java"
	}
	check, err := d.parser.Parse(lang, unit.Path, out)
	if err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "re-parse of rewritten output failed"), errors.CtxPath, unit.Path)
	}
	if check.HasErrors {
		return errors.AddContext(
			errors.New(errors.CodeInternal, fmt.Sprintf("rewrite introduced syntax errors in %s", unit.Path)),
			errors.CtxPath, unit.Path)
	}
	return nil
}
