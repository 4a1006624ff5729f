// # internal/engine/rules/matcher.go
package rules

import (
	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
	"junitmig/internal/engine/rewrite"
)

type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageString
	MessageSupplier
)

func (k MessageKind) String() string {
	switch k {
	case MessageString:
		return "string"
	case MessageSupplier:
		return "supplier"
	default:
		return "none"
	}
}

// Overload is one assertNull signature: the positions of the value and the
// optional message. Message is -1 when the overload takes none.
type Overload struct {
	Owner           string
	Arity           int
	Value           int
	Message         int
	SupplierAllowed bool
}

var nullOverloads = []Overload{
	{Owner: resolver.JupiterAssertions, Arity: 1, Value: 0, Message: -1},
	{Owner: resolver.JupiterAssertions, Arity: 2, Value: 0, Message: 1, SupplierAllowed: true},
	{Owner: resolver.JUnit4Assert, Arity: 1, Value: 0, Message: -1},
	{Owner: resolver.JUnit4Assert, Arity: 2, Value: 1, Message: 0},
	{Owner: resolver.LegacyAssert, Arity: 1, Value: 0, Message: -1},
	{Owner: resolver.LegacyAssert, Arity: 2, Value: 1, Message: 0},
	{Owner: resolver.LegacyTestCase, Arity: 1, Value: 0, Message: -1},
	{Owner: resolver.LegacyTestCase, Arity: 2, Value: 1, Message: 0},
}

const (
	assertNullName = "assertNull"
	maxNullArity   = 3
)

// MatchInfo describes a recognized assertNull call.
type MatchInfo struct {
	Invocation     *parser.MethodInvocation
	Value          *parser.Expr
	Message        *parser.Expr
	Kind           MessageKind
	StaticImported bool
	Owner          string
	Via            resolver.Via
}

// AssertNullMatcher recognizes assertNull calls however they are written:
// through a static import, a static wildcard or a qualified owner.
type AssertNullMatcher struct {
	overloads []Overload
}

func NewAssertNullMatcher() *AssertNullMatcher {
	return &AssertNullMatcher{overloads: nullOverloads}
}

// IsEntryPoint reports whether owner declares a recognized assertNull.
func (m *AssertNullMatcher) IsEntryPoint(owner string) bool {
	for _, o := range m.overloads {
		if o.Owner == owner {
			return true
		}
	}
	return false
}

func (m *AssertNullMatcher) overload(owner string, arity int) (Overload, bool) {
	for _, o := range m.overloads {
		if o.Owner == owner && o.Arity == arity {
			return o, true
		}
	}
	return Overload{}, false
}

// Match returns the match details for inv, or false for anything that is not
// an unambiguous assertNull of a known library.
func (m *AssertNullMatcher) Match(uc *rewrite.UnitContext, inv *parser.MethodInvocation) (MatchInfo, bool) {
	if inv.Name != assertNullName {
		return MatchInfo{}, false
	}
	arity := len(inv.Args)
	if arity < 1 || arity > maxNullArity {
		return MatchInfo{}, false
	}

	res, err := uc.Resolve(inv)
	if err != nil {
		uc.Debug(inv, "assertNull owner not resolved", err)
		return MatchInfo{}, false
	}
	if !m.IsEntryPoint(res.Owner) {
		return MatchInfo{}, false
	}

	ov, ok := m.overload(res.Owner, arity)
	if !ok {
		uc.Debug(inv, "no assertNull overload for arity",
			errors.Newf(errors.CodeMalformedArgument, "%s.assertNull has no %d-argument form", res.Owner, arity))
		return MatchInfo{}, false
	}

	info := MatchInfo{
		Invocation:     inv,
		Value:          inv.Args[ov.Value],
		Kind:           MessageNone,
		StaticImported: res.StaticImported(),
		Owner:          res.Owner,
		Via:            res.Via,
	}
	if ov.Message < 0 {
		return info, true
	}

	msg := inv.Args[ov.Message]
	kind, err := classifyMessage(uc, inv, msg)
	if err == nil && kind == MessageSupplier && !ov.SupplierAllowed {
		err = errors.Newf(errors.CodeMalformedArgument, "%s.assertNull takes no message supplier", res.Owner)
	}
	if err != nil {
		uc.Debug(inv, "assertNull message has an unexpected shape", err)
		return MatchInfo{}, false
	}
	info.Message = msg
	info.Kind = kind
	return info, true
}

// classifyMessage tells a message string from a message supplier by shape,
// falling back to the declared type of a plain variable.
func classifyMessage(uc *rewrite.UnitContext, inv *parser.MethodInvocation, msg *parser.Expr) (MessageKind, error) {
	inner := msg.Unwrap()
	switch inner.Kind {
	case parser.ExprLambda:
		if inner.LambdaParams > 0 {
			return MessageNone, errors.Newf(errors.CodeMalformedArgument, "message lambda takes %d parameters", inner.LambdaParams)
		}
		return MessageSupplier, nil
	case parser.ExprMethodRef:
		return MessageSupplier, nil
	case parser.ExprIdentifier:
		if isSupplierType(uc.Resolver.VariableType(uc.Unit, inner.Text, inv.Span)) {
			return MessageSupplier, nil
		}
	}
	if msg.Kind == parser.ExprCast && isSupplierType(msg.CastType) {
		return MessageSupplier, nil
	}
	return MessageString, nil
}

func isSupplierType(typ string) bool {
	return typ == "Supplier" || typ == "java.util.function.Supplier"
}
