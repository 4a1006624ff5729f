// # internal/engine/rules/hamcrest.go
package rules

import (
	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
	"junitmig/internal/engine/rewrite"
)

// HamcrestAssertThatRule moves the deprecated org.junit.Assert.assertThat onto
// org.hamcrest.MatcherAssert. Arguments are left untouched.
type HamcrestAssertThatRule struct{}

func NewHamcrestAssertThatRule() *HamcrestAssertThatRule {
	return &HamcrestAssertThatRule{}
}

func (r *HamcrestAssertThatRule) Name() string { return HamcrestRuleID }

func (r *HamcrestAssertThatRule) Description() string {
	return "org.junit.Assert.assertThat to org.hamcrest.MatcherAssert.assertThat"
}

func (r *HamcrestAssertThatRule) Visit(uc *rewrite.UnitContext, inv *parser.MethodInvocation) (bool, error) {
	if inv.Name != assertThatName {
		return false, nil
	}
	res, err := uc.Resolve(inv)
	if err != nil {
		uc.Debug(inv, "assertThat owner not resolved", err)
		return false, nil
	}
	if res.Owner != resolver.JUnit4Assert {
		return false, nil
	}

	qualified := resolver.HamcrestAssert + "." + assertThatName
	switch {
	case res.Via == resolver.ViaQualified:
		uc.Replace(inv, rewrite.Edit{
			Span:   inv.Object.Span,
			Pieces: []rewrite.Piece{rewrite.Text(resolver.HamcrestAssert)},
		})
	case res.StaticImported():
		uc.ReleaseStaticImport(resolver.JUnit4Assert, assertThatName)
		if uc.RequireStaticImport(resolver.HamcrestAssert, assertThatName, resolver.JUnit4Assert) {
			uc.Consume(inv)
			return true, nil
		}
		uc.Replace(inv, rewrite.Edit{
			Span:   inv.NameSpan,
			Pieces: []rewrite.Piece{rewrite.Text(qualified)},
		})
	default:
		return false, nil
	}
	return true, nil
}
