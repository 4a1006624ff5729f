// # internal/engine/resolver/resolver.go
package resolver

import (
	"strings"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
)

// Via records how an invocation's owner was determined.
type Via int

const (
	ViaNone Via = iota
	ViaLocal
	ViaSuperclass
	ViaStaticImport
	ViaStaticWildcard
	ViaQualified
)

func (v Via) String() string {
	switch v {
	case ViaLocal:
		return "local"
	case ViaSuperclass:
		return "superclass"
	case ViaStaticImport:
		return "static-import"
	case ViaStaticWildcard:
		return "static-wildcard"
	case ViaQualified:
		return "qualified"
	default:
		return "none"
	}
}

// Resolution is the owning type of an invocation.
type Resolution struct {
	Owner string
	Via   Via
}

// StaticImported reports whether the call reached its owner through a static import.
func (r Resolution) StaticImported() bool {
	return r.Via == ViaStaticImport || r.Via == ViaStaticWildcard
}

type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{catalog: catalog}
}

func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// ResolveOwner determines the type that declares the method inv calls.
// Unresolvable calls return a CodeUnresolvedSymbol error and ambiguous static
// imports a CodeAmbiguousImport error; neither is fatal to the caller.
func (r *Resolver) ResolveOwner(unit *parser.CompilationUnit, inv *parser.MethodInvocation) (Resolution, error) {
	if inv.Unqualified() {
		return r.resolveUnqualified(unit, inv)
	}
	return r.resolveQualified(unit, inv)
}

func (r *Resolver) resolveUnqualified(unit *parser.CompilationUnit, inv *parser.MethodInvocation) (Resolution, error) {
	name := inv.Name

	if owner, ok := r.localOwner(unit, inv.Span, name); ok {
		return Resolution{Owner: owner, Via: ViaLocal}, nil
	}
	if owner, ok := r.inheritedOwner(unit, inv.Span, name); ok {
		return Resolution{Owner: owner, Via: ViaSuperclass}, nil
	}

	owners := make([]string, 0, 1)
	for _, imp := range unit.StaticImports() {
		if imp.Wildcard || imp.Member() != name {
			continue
		}
		owners = appendDistinct(owners, imp.Owner())
	}
	switch len(owners) {
	case 1:
		return Resolution{Owner: owners[0], Via: ViaStaticImport}, nil
	case 0:
	default:
		return Resolution{}, errors.AddContext(
			errors.Newf(errors.CodeAmbiguousImport, "%s is statically imported from %s", name, strings.Join(owners, ", ")),
			errors.CtxSymbol, name)
	}

	for _, imp := range unit.StaticImports() {
		if imp.Wildcard && r.catalog.Declares(imp.Owner(), name) {
			owners = appendDistinct(owners, imp.Owner())
		}
	}
	switch len(owners) {
	case 1:
		return Resolution{Owner: owners[0], Via: ViaStaticWildcard}, nil
	case 0:
		return Resolution{}, errors.AddContext(
			errors.Newf(errors.CodeUnresolvedSymbol, "no owner found for %s", name),
			errors.CtxSymbol, name)
	default:
		return Resolution{}, errors.AddContext(
			errors.Newf(errors.CodeAmbiguousImport, "%s is provided by wildcards %s", name, strings.Join(owners, ", ")),
			errors.CtxSymbol, name)
	}
}

func (r *Resolver) resolveQualified(unit *parser.CompilationUnit, inv *parser.MethodInvocation) (Resolution, error) {
	dotted := inv.Object.DottedName()
	if dotted == "" {
		return Resolution{}, errors.AddContext(
			errors.Newf(errors.CodeUnresolvedSymbol, "receiver %q is not a type name", inv.Object.Text),
			errors.CtxSymbol, inv.Name)
	}
	if r.VariableType(unit, parser.FirstSegment(dotted), inv.Span) != "" {
		return Resolution{}, errors.AddContext(
			errors.Newf(errors.CodeUnresolvedSymbol, "receiver %q is a variable", dotted),
			errors.CtxSymbol, inv.Name)
	}
	owner := r.ResolveType(unit, dotted)
	if owner == "" {
		return Resolution{}, errors.AddContext(
			errors.Newf(errors.CodeUnresolvedSymbol, "type %q is not imported", dotted),
			errors.CtxSymbol, inv.Name)
	}
	return Resolution{Owner: owner, Via: ViaQualified}, nil
}

// ResolveType maps a type name as written in unit to its fully-qualified name.
// Dotted names are taken as qualified unless their first segment is an
// imported or declared simple type name.
func (r *Resolver) ResolveType(unit *parser.CompilationUnit, name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, ".") {
		first := parser.FirstSegment(name)
		if resolved := r.resolveSimpleType(unit, first); resolved != "" {
			return resolved + strings.TrimPrefix(name, first)
		}
		return name
	}
	return r.resolveSimpleType(unit, name)
}

func (r *Resolver) resolveSimpleType(unit *parser.CompilationUnit, simple string) string {
	for _, imp := range unit.Imports {
		if !imp.Static && !imp.Wildcard && parser.SimpleName(imp.Name) == simple {
			return imp.Name
		}
	}
	for _, td := range unit.Types {
		if td.Name == simple {
			return qualify(unit.Package, simple)
		}
	}
	for _, imp := range unit.Imports {
		if imp.Static || !imp.Wildcard {
			continue
		}
		if name, ok := r.catalog.TypeInPackage(imp.Name, simple); ok {
			return name
		}
	}
	if unit.Package != "" {
		if name, ok := r.catalog.TypeInPackage(unit.Package, simple); ok {
			return name
		}
	}
	return ""
}

// localOwner reports the innermost type enclosing at that declares name.
// Methods of sibling types are not in scope.
func (r *Resolver) localOwner(unit *parser.CompilationUnit, at parser.Span, name string) (string, bool) {
	best := -1
	owner := ""
	for _, td := range unit.Types {
		if !td.Methods[name] || !td.Span.Contains(at) {
			continue
		}
		if best < 0 || td.Span.Len() < best {
			best = td.Span.Len()
			owner = qualify(unit.Package, td.Name)
		}
	}
	return owner, owner != ""
}

func (r *Resolver) inheritedOwner(unit *parser.CompilationUnit, at parser.Span, name string) (string, bool) {
	for _, super := range r.Superclasses(unit, at) {
		if r.catalog.Declares(super, name) {
			return super, true
		}
	}
	return "", false
}

// Superclasses returns the resolved superclasses of the types enclosing at.
func (r *Resolver) Superclasses(unit *parser.CompilationUnit, at parser.Span) []string {
	var out []string
	for _, td := range unit.Types {
		if td.Superclass == "" || !td.Span.Contains(at) {
			continue
		}
		super := r.ResolveType(unit, td.Superclass)
		if super == "" {
			super = td.Superclass
		}
		out = appendDistinct(out, super)
	}
	return out
}

// InheritsMember reports whether a type enclosing at inherits a known static member name.
func (r *Resolver) InheritsMember(unit *parser.CompilationUnit, at parser.Span, name string) bool {
	_, ok := r.inheritedOwner(unit, at, name)
	return ok
}

// VariableType returns the declared type of the innermost variable named name
// visible at span, or "" when no such variable exists.
func (r *Resolver) VariableType(unit *parser.CompilationUnit, name string, at parser.Span) string {
	best := -1
	typ := ""
	for _, d := range unit.Declarations {
		if d.Name != name || !d.Scope.Contains(at) {
			continue
		}
		if best < 0 || d.Scope.Len() < best {
			best = d.Scope.Len()
			typ = d.Type
			if typ == "" {
				typ = "var"
			}
		}
	}
	return typ
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func appendDistinct(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
