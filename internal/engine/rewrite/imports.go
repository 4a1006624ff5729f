// # internal/engine/rewrite/imports.go
package rewrite

import (
	"bytes"
	"strings"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
)

// BindState says whether a bare static method name can be bound to an owner.
type BindState int

const (
	BindAddable BindState = iota
	BindPresent
	BindConflict
)

func (s BindState) String() string {
	switch s {
	case BindPresent:
		return "present"
	case BindConflict:
		return "conflict"
	default:
		return "addable"
	}
}

// StaticRef names a static member Owner.Member.
type StaticRef struct {
	Owner  string
	Member string
}

func (r StaticRef) String() string { return r.Owner + "." + r.Member }

// ImportPlan is the per-unit import delta accumulated by rules.
type ImportPlan struct {
	Add     []StaticRef
	Release []StaticRef
}

func (p *ImportPlan) RequestAdd(ref StaticRef) {
	for _, r := range p.Add {
		if r == ref {
			return
		}
	}
	p.Add = append(p.Add, ref)
}

func (p *ImportPlan) RequestRelease(ref StaticRef) {
	for _, r := range p.Release {
		if r == ref {
			return
		}
	}
	p.Release = append(p.Release, ref)
}

func (p *ImportPlan) Empty() bool {
	return len(p.Add) == 0 && len(p.Release) == 0
}

type ImportResult struct {
	Added    []string
	Removed  []string
	Warnings []Diagnostic
}

// ImportReconciler applies an ImportPlan to the import block of a unit.
type ImportReconciler struct {
	resolver *resolver.Resolver
}

func NewImportReconciler(r *resolver.Resolver) *ImportReconciler {
	return &ImportReconciler{resolver: r}
}

// BindStatus reports whether member may be used unqualified at the call
// site at to mean owner.member. Owners listed in replacing are being migrated
// away from and do not count as competing bindings. A single static import
// shadows on-demand ones, so a competing wildcard only conflicts while some
// bare call still resolves through it.
func (ir *ImportReconciler) BindStatus(unit *parser.CompilationUnit, at parser.Span, owner, member string, replacing ...string) BindState {
	if unit.DeclaresMethodAt(at, member) || ir.resolver.InheritsMember(unit, at, member) {
		return BindConflict
	}

	present := false
	for _, imp := range unit.StaticImports() {
		if imp.Wildcard || imp.Member() != member {
			continue
		}
		switch {
		case imp.Owner() == owner:
			present = true
		case !contains(replacing, imp.Owner()):
			return BindConflict
		}
	}
	if present {
		return BindPresent
	}

	covered := false
	catalog := ir.resolver.Catalog()
	for _, imp := range unit.StaticImports() {
		if !imp.Wildcard {
			continue
		}
		switch {
		case imp.Owner() == owner:
			covered = true
		case catalog.Declares(imp.Owner(), member) && !contains(replacing, imp.Owner()) && ir.boundThrough(unit, member, imp.Owner()):
			return BindConflict
		}
	}
	if covered {
		return BindPresent
	}
	return BindAddable
}

// boundThrough reports whether a bare call named member resolves to owner.
func (ir *ImportReconciler) boundThrough(unit *parser.CompilationUnit, member, owner string) bool {
	for _, inv := range unit.Invocations {
		if !inv.Unqualified() || inv.Name != member {
			continue
		}
		if res, err := ir.resolver.ResolveOwner(unit, inv); err == nil && res.Owner == owner {
			return true
		}
	}
	return false
}

// Reconcile turns plan into import edits. usage counts the unqualified
// invocations per method name that remain after rewriting.
func (ir *ImportReconciler) Reconcile(unit *parser.CompilationUnit, plan ImportPlan, usage map[string]int, edits *EditSet) (ImportResult, error) {
	var result ImportResult
	if plan.Empty() {
		return result, nil
	}

	removed := make(map[*parser.ImportDecl]parser.Span)
	for _, imp := range ir.removable(unit, plan, usage) {
		span := importLineSpan(unit.Source, imp.Span)
		removed[imp] = span
		edits.Delete(span)
		result.Removed = append(result.Removed, imp.Name+suffix(imp))
	}

	var toAdd []StaticRef
	for _, ref := range plan.Add {
		if ir.covered(unit, ref, removed) {
			continue
		}
		if clash := ir.clashingImport(unit, ref, removed); clash != nil {
			result.Warnings = append(result.Warnings, Diagnostic{
				Code:     errors.CodeAmbiguousImport,
				Message:  "cannot import " + ref.String() + ": " + clash.Name + suffix(clash) + " is still in use",
				Location: clash.Location,
			})
			continue
		}
		toAdd = append(toAdd, ref)
		result.Added = append(result.Added, ref.String())
	}
	if len(toAdd) > 0 {
		offset, text := insertionPoint(unit, removed, toAdd)
		edits.Insert(offset, text)
	}
	return result, nil
}

func (ir *ImportReconciler) removable(unit *parser.CompilationUnit, plan ImportPlan, usage map[string]int) []*parser.ImportDecl {
	catalog := ir.resolver.Catalog()
	var out []*parser.ImportDecl
	for _, imp := range unit.StaticImports() {
		for _, ref := range plan.Release {
			if imp.Owner() != ref.Owner {
				continue
			}
			if !imp.Wildcard && imp.Member() == ref.Member && usage[ref.Member] == 0 {
				out = append(out, imp)
				break
			}
			if imp.Wildcard && catalog.IsComplete(ref.Owner) && !usesAnyMember(usage, catalog.Members(ref.Owner)) {
				out = append(out, imp)
				break
			}
		}
	}
	return out
}

func (ir *ImportReconciler) covered(unit *parser.CompilationUnit, ref StaticRef, removed map[*parser.ImportDecl]parser.Span) bool {
	for _, imp := range unit.StaticImports() {
		if _, gone := removed[imp]; gone || imp.Owner() != ref.Owner {
			continue
		}
		if imp.Wildcard || imp.Member() == ref.Member {
			return true
		}
	}
	return false
}

// clashingImport returns a surviving single static import of ref.Member from
// another owner. Both imports together would not compile.
func (ir *ImportReconciler) clashingImport(unit *parser.CompilationUnit, ref StaticRef, removed map[*parser.ImportDecl]parser.Span) *parser.ImportDecl {
	for _, imp := range unit.StaticImports() {
		if _, gone := removed[imp]; gone || imp.Wildcard {
			continue
		}
		if imp.Member() == ref.Member && imp.Owner() != ref.Owner {
			return imp
		}
	}
	return nil
}

func insertionPoint(unit *parser.CompilationUnit, removed map[*parser.ImportDecl]parser.Span, refs []StaticRef) (int, string) {
	eol := lineEnding(unit.Source)
	lines := make([]string, len(refs))
	for i, ref := range refs {
		lines[i] = "import static " + ref.String() + ";"
	}
	block := strings.Join(lines, eol)

	statics := unit.StaticImports()
	if len(statics) > 0 {
		last := statics[len(statics)-1]
		if span, gone := removed[last]; gone && span.End > last.Span.End {
			return span.End, block + eol
		}
		return last.Span.End, eol + block
	}
	if len(unit.Imports) > 0 {
		return unit.Imports[len(unit.Imports)-1].Span.End, eol + eol + block
	}
	if unit.PackageSpan.Len() > 0 {
		return unit.PackageSpan.End, eol + eol + block
	}
	return 0, block + eol + eol
}

// lineEnding returns the terminator of the first line of src, "\n" by default.
func lineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// importLineSpan widens span to its whole line when nothing else shares it.
func importLineSpan(src []byte, span parser.Span) parser.Span {
	start := span.Start
	for start > 0 && (src[start-1] == ' ' || src[start-1] == '\t') {
		start--
	}
	if start > 0 && src[start-1] != '\n' {
		return span
	}
	end := span.End
	for end < len(src) && (src[end] == ' ' || src[end] == '\t' || src[end] == '\r') {
		end++
	}
	if end < len(src) && src[end] != '\n' {
		return span
	}
	if end < len(src) {
		end++
	}
	return parser.Span{Start: start, End: end}
}

func usesAnyMember(usage map[string]int, members []string) bool {
	for _, m := range members {
		if usage[m] > 0 {
			return true
		}
	}
	return false
}

func suffix(imp *parser.ImportDecl) string {
	if imp.Wildcard {
		return ".*"
	}
	return ""
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
