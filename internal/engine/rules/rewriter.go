// # internal/engine/rules/rewriter.go
package rules

import (
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
	"junitmig/internal/engine/rewrite"
)

const assertThatName = "assertThat"

// AssertNullRewriter turns a matched assertNull into an AssertJ chain. The
// value and message are moved as source ranges so edits inside them survive.
type AssertNullRewriter struct{}

func (r *AssertNullRewriter) Rewrite(uc *rewrite.UnitContext, m MatchInfo) rewrite.Edit {
	head := assertThatName
	if !uc.RequireStaticImport(resolver.AssertJAssertions, assertThatName) {
		head = resolver.AssertJAssertions + "." + assertThatName
	}
	if m.StaticImported {
		uc.ReleaseStaticImport(m.Owner, assertNullName)
	}

	pieces := []rewrite.Piece{
		rewrite.Text(head + "("),
		rewrite.Source(m.Value.Span),
		rewrite.Text(")"),
	}
	switch m.Kind {
	case MessageString:
		pieces = append(pieces, rewrite.Text(".as("), rewrite.Source(m.Message.Span), rewrite.Text(")"))
	case MessageSupplier:
		pieces = append(pieces, rewrite.Text(".withFailMessage("), rewrite.Source(m.Message.Span), rewrite.Text(")"))
	}
	pieces = append(pieces, rewrite.Text(".isNull()"))

	return rewrite.Edit{Span: m.Invocation.Span, Pieces: pieces}
}

// AssertNullRule rewrites JUnit assertNull calls to assertThat(x).isNull().
type AssertNullRule struct {
	matcher  *AssertNullMatcher
	rewriter *AssertNullRewriter
}

func NewAssertNullRule() *AssertNullRule {
	return &AssertNullRule{matcher: NewAssertNullMatcher(), rewriter: &AssertNullRewriter{}}
}

func (r *AssertNullRule) Name() string { return AssertNullRuleID }

func (r *AssertNullRule) Description() string {
	return "JUnit assertNull(x[, message]) to AssertJ assertThat(x).isNull()"
}

func (r *AssertNullRule) Visit(uc *rewrite.UnitContext, inv *parser.MethodInvocation) (bool, error) {
	m, ok := r.matcher.Match(uc, inv)
	if !ok {
		return false, nil
	}
	uc.Replace(inv, r.rewriter.Rewrite(uc, m))
	return true, nil
}
