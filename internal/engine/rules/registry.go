// # internal/engine/rules/registry.go
package rules

import (
	"sort"
	"strings"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/rewrite"
)

const (
	AssertNullRuleID = "assertnull-to-assertthat"
	HamcrestRuleID   = "hamcrest-assert-that"
)

type Factory func() rewrite.Rule

var registry = map[string]Factory{
	AssertNullRuleID: func() rewrite.Rule { return NewAssertNullRule() },
	HamcrestRuleID:   func() rewrite.Rule { return NewHamcrestAssertThatRule() },
}

// DefaultRules is the rule set used when none is configured.
var DefaultRules = []string{AssertNullRuleID}

// Names lists every registered rule ID.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func New(name string) (rewrite.Rule, error) {
	factory, ok := registry[strings.TrimSpace(name)]
	if !ok {
		return nil, errors.AddContext(
			errors.Newf(errors.CodeNotFound, "unknown rule %q (known: %s)", name, strings.Join(Names(), ", ")),
			errors.CtxRule, name)
	}
	return factory(), nil
}

// Build instantiates rules in the given order, skipping duplicates.
func Build(names []string) ([]rewrite.Rule, error) {
	if len(names) == 0 {
		names = DefaultRules
	}
	seen := make(map[string]bool, len(names))
	out := make([]rewrite.Rule, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		rule, err := New(name)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}
