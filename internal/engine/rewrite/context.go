// # internal/engine/rewrite/context.go
package rewrite

import (
	"fmt"
	"log/slog"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
)

// Diagnostic is a non-fatal finding reported for a unit.
type Diagnostic struct {
	Rule     string
	Code     errors.ErrorCode
	Message  string
	Location parser.Location
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s", d.Location.File, d.Location.Line, d.Location.Column, d.Code, d.Message)
}

// Change describes one rewritten call site.
type Change struct {
	Rule     string
	Location parser.Location
	Before   string
	After    string
}

// UnitContext is the mutable state of one rule pass over a compilation unit.
// It is owned by a single goroutine.
type UnitContext struct {
	Unit     *parser.CompilationUnit
	Resolver *resolver.Resolver
	Logger   *slog.Logger

	reconciler  *ImportReconciler
	rule        string
	current     *parser.MethodInvocation
	edits       EditSet
	plan        ImportPlan
	bindings    map[bindKey]BindState
	resolutions map[*parser.MethodInvocation]resolved
	consumed    map[*parser.MethodInvocation]bool
	changes     []Change
	warnings    []Diagnostic
}

// bindKey scopes a binding answer to the innermost type of the call site.
type bindKey struct {
	ref   StaticRef
	scope parser.Span
}

type resolved struct {
	res resolver.Resolution
	err error
}

func newUnitContext(unit *parser.CompilationUnit, r *resolver.Resolver, ir *ImportReconciler, logger *slog.Logger) *UnitContext {
	return &UnitContext{
		Unit:        unit,
		Resolver:    r,
		Logger:      logger,
		reconciler:  ir,
		bindings:    make(map[bindKey]BindState),
		resolutions: make(map[*parser.MethodInvocation]resolved),
		consumed:    make(map[*parser.MethodInvocation]bool),
	}
}

// Resolve returns the owner of inv, memoized for the pass.
func (uc *UnitContext) Resolve(inv *parser.MethodInvocation) (resolver.Resolution, error) {
	if r, ok := uc.resolutions[inv]; ok {
		return r.res, r.err
	}
	res, err := uc.Resolver.ResolveOwner(uc.Unit, inv)
	uc.resolutions[inv] = resolved{res: res, err: err}
	return res, err
}

// RequireStaticImport asks for owner.member to be usable unqualified. It
// returns false when the name cannot be bound safely; the caller must then
// emit a qualified reference. The answer is fixed for the rest of the pass.
func (uc *UnitContext) RequireStaticImport(owner, member string, replacing ...string) bool {
	ref := StaticRef{Owner: owner, Member: member}
	at := uc.span()
	key := bindKey{ref: ref, scope: uc.Unit.EnclosingType(at)}
	state, ok := uc.bindings[key]
	if !ok {
		state = uc.reconciler.BindStatus(uc.Unit, at, owner, member, replacing...)
		uc.bindings[key] = state
		if state == BindConflict {
			uc.warnings = append(uc.warnings, Diagnostic{
				Rule:     uc.rule,
				Code:     errors.CodeAmbiguousImport,
				Message:  fmt.Sprintf("%s is already bound here; emitting qualified %s", member, ref),
				Location: uc.location(),
			})
		}
	}
	switch state {
	case BindConflict:
		return false
	case BindAddable:
		uc.plan.RequestAdd(ref)
	}
	return true
}

// ReleaseStaticImport marks a static import of owner.member as no longer
// needed by the rewritten call. It is removed only if nothing else uses it.
func (uc *UnitContext) ReleaseStaticImport(owner, member string) {
	uc.plan.RequestRelease(StaticRef{Owner: owner, Member: member})
}

// Replace records edit as the rewrite of inv and consumes inv.
func (uc *UnitContext) Replace(inv *parser.MethodInvocation, edit Edit) {
	edit.Rule = uc.rule
	uc.edits.Add(edit)
	uc.changes = append(uc.changes, Change{
		Rule:     uc.rule,
		Location: inv.Location,
		Before:   uc.Unit.Text(edit.Span),
		After:    edit.Preview(uc.Unit.Source),
	})
	uc.consumed[inv] = true
}

// Consume marks inv as handled without editing it, e.g. when only its import changes.
func (uc *UnitContext) Consume(inv *parser.MethodInvocation) {
	if uc.consumed[inv] {
		return
	}
	uc.consumed[inv] = true
	text := uc.Unit.Text(inv.Span)
	uc.changes = append(uc.changes, Change{Rule: uc.rule, Location: inv.Location, Before: text, After: text})
}

func (uc *UnitContext) Consumed(inv *parser.MethodInvocation) bool {
	return uc.consumed[inv]
}

// Warn records a diagnostic against inv.
func (uc *UnitContext) Warn(inv *parser.MethodInvocation, code errors.ErrorCode, msg string) {
	uc.warnings = append(uc.warnings, Diagnostic{Rule: uc.rule, Code: code, Message: msg, Location: inv.Location})
}

// Debug logs an expected non-match, such as an unresolved owner.
func (uc *UnitContext) Debug(inv *parser.MethodInvocation, msg string, err error) {
	if uc.Logger == nil {
		return
	}
	uc.Logger.Debug(msg,
		"rule", uc.rule,
		"file", inv.Location.File,
		"line", inv.Location.Line,
		"call", inv.Name,
		"code", errors.CodeOf(err),
		"error", err,
	)
}

func (uc *UnitContext) span() parser.Span {
	if uc.current != nil {
		return uc.current.Span
	}
	return parser.Span{}
}

func (uc *UnitContext) location() parser.Location {
	if uc.current != nil {
		return uc.current.Location
	}
	return parser.Location{File: uc.Unit.Path, Line: 1, Column: 1}
}

// remainingUsage counts unqualified invocations no rule consumed.
func (uc *UnitContext) remainingUsage() map[string]int {
	usage := make(map[string]int)
	for _, inv := range uc.Unit.Invocations {
		if inv.Unqualified() && !uc.consumed[inv] {
			usage[inv.Name]++
		}
	}
	return usage
}
