// # internal/engine/parser/types.go
package parser

import (
	"strings"
	"time"
)

// Span is a half-open byte range [Start, End) into CompilationUnit.Source.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

type Location struct {
	File   string
	Line   int
	Column int
}

// CompilationUnit is the extracted model of a single Java source file.
type CompilationUnit struct {
	Path         string
	Language     string
	Source       []byte
	Package      string
	PackageSpan  Span // zero when the file has no package declaration
	Imports      []*ImportDecl
	Invocations  []*MethodInvocation // document order, nested calls included
	Types        []TypeDecl
	Declarations []Declaration
	HasErrors    bool
	ParsedAt     time.Time
}

// Text returns the source text covered by span.
func (u *CompilationUnit) Text(span Span) string {
	if span.Start < 0 || span.End > len(u.Source) || span.Start > span.End {
		return ""
	}
	return string(u.Source[span.Start:span.End])
}

// StaticImports returns the static import declarations in source order.
func (u *CompilationUnit) StaticImports() []*ImportDecl {
	out := make([]*ImportDecl, 0, len(u.Imports))
	for _, imp := range u.Imports {
		if imp.Static {
			out = append(out, imp)
		}
	}
	return out
}

// DeclaresMethodAt reports whether a type enclosing at declares a method
// named name. Sibling types are not in scope.
func (u *CompilationUnit) DeclaresMethodAt(at Span, name string) bool {
	for _, td := range u.Types {
		if td.Methods[name] && td.Span.Contains(at) {
			return true
		}
	}
	return false
}

// EnclosingType returns the span of the innermost type containing at, or the
// zero Span when at lies outside every type.
func (u *CompilationUnit) EnclosingType(at Span) Span {
	var best Span
	found := false
	for _, td := range u.Types {
		if !td.Span.Contains(at) {
			continue
		}
		if !found || td.Span.Len() < best.Len() {
			best = td.Span
			found = true
		}
	}
	return best
}

type ImportDecl struct {
	Static   bool
	Wildcard bool
	// Name is the dotted import target without a trailing ".*".
	Name     string
	Span     Span
	Location Location
}

// Owner returns the type a static import pulls members from. For non-static
// imports it returns the package (wildcard) or the imported type itself.
func (i *ImportDecl) Owner() string {
	if i.Wildcard || !i.Static {
		return i.Name
	}
	idx := strings.LastIndex(i.Name, ".")
	if idx < 0 {
		return ""
	}
	return i.Name[:idx]
}

// Member returns the imported member name, "*" for on-demand imports.
func (i *ImportDecl) Member() string {
	if i.Wildcard {
		return "*"
	}
	idx := strings.LastIndex(i.Name, ".")
	return i.Name[idx+1:]
}

func (i *ImportDecl) String() string {
	var b strings.Builder
	b.WriteString("import ")
	if i.Static {
		b.WriteString("static ")
	}
	b.WriteString(i.Name)
	if i.Wildcard {
		b.WriteString(".*")
	}
	b.WriteString(";")
	return b.String()
}

type MethodInvocation struct {
	Name     string
	NameSpan Span
	// Object is nil for unqualified calls such as assertNull(x).
	Object   *Expr
	Args     []*Expr
	ArgsSpan Span // argument list including parentheses
	Span     Span
	Location Location
}

func (m *MethodInvocation) Unqualified() bool { return m.Object == nil }

type ExprKind int

const (
	ExprOther ExprKind = iota
	ExprString
	ExprLambda
	ExprMethodRef
	ExprIdentifier
	ExprName // dotted field access made only of identifiers, e.g. org.junit.Assert
	ExprInvocation
	ExprCast
	ExprParens
)

func (k ExprKind) String() string {
	switch k {
	case ExprString:
		return "string"
	case ExprLambda:
		return "lambda"
	case ExprMethodRef:
		return "method_reference"
	case ExprIdentifier:
		return "identifier"
	case ExprName:
		return "name"
	case ExprInvocation:
		return "invocation"
	case ExprCast:
		return "cast"
	case ExprParens:
		return "parenthesized"
	default:
		return "other"
	}
}

type Expr struct {
	Kind ExprKind
	Span Span
	Text string
	// LambdaParams is the declared parameter count of a lambda, -1 otherwise.
	LambdaParams int
	// Inner is the wrapped operand of casts and parenthesized expressions.
	Inner *Expr
	// CastType is the target type text of a cast expression.
	CastType string
}

// Unwrap strips casts and parentheses.
func (e *Expr) Unwrap() *Expr {
	cur := e
	for cur != nil && (cur.Kind == ExprCast || cur.Kind == ExprParens) && cur.Inner != nil {
		cur = cur.Inner
	}
	return cur
}

// DottedName returns the whitespace-free text of identifier and name expressions.
func (e *Expr) DottedName() string {
	if e == nil || (e.Kind != ExprIdentifier && e.Kind != ExprName) {
		return ""
	}
	return normalizeRefName(e.Text)
}

type TypeDecl struct {
	Name       string
	Kind       string // class, interface, enum, record
	Superclass string
	Methods    map[string]bool
	Span       Span
}

// Declaration is a named variable visible inside Scope: a field, parameter or local.
type Declaration struct {
	Name  string
	Type  string
	Scope Span
	Span  Span
}
