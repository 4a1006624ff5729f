// # internal/engine/rewrite/imports_test.go
package rewrite

import (
	"testing"

	"junitmig/internal/engine/parser"
	"junitmig/internal/engine/resolver"
)

func parseUnit(t *testing.T, code string) *parser.CompilationUnit {
	t.Helper()
	loader, err := parser.NewGrammarLoader(nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := parser.NewParser(loader)
	if err != nil {
		t.Fatal(err)
	}
	unit, err := p.ParseFile("A.java", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	return unit
}

// callSite is the span of the first invocation, or the zero span.
func callSite(unit *parser.CompilationUnit) parser.Span {
	if len(unit.Invocations) > 0 {
		return unit.Invocations[0].Span
	}
	return parser.Span{}
}

func TestBindStatus(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		member    string
		replacing []string
		expected  BindState
	}{
		{
			name:     "nothing imported",
			code:     "class A {}",
			expected: BindAddable,
		},
		{
			name:     "single import present",
			code:     "import static org.assertj.core.api.Assertions.assertThat;\nclass A {}",
			expected: BindPresent,
		},
		{
			name:     "covered by own wildcard",
			code:     "import static org.assertj.core.api.Assertions.*;\nclass A {}",
			expected: BindPresent,
		},
		{
			name:     "other single import",
			code:     "import static org.hamcrest.MatcherAssert.assertThat;\nclass A {}",
			expected: BindConflict,
		},
		{
			name:      "other single import being replaced",
			code:      "import static org.junit.Assert.assertThat;\nclass A {}",
			replacing: []string{resolver.JUnit4Assert},
			expected:  BindAddable,
		},
		{
			name:     "other wildcard declaring the member is shadowed",
			code:     "import static org.junit.Assert.*;\nclass A { void t() { assertNull(x); } }",
			expected: BindAddable,
		},
		{
			name:     "other wildcard still binding a bare call",
			code:     "import static org.junit.Assert.*;\nclass A { void t() { assertThat(y, is(z)); } }",
			expected: BindConflict,
		},
		{
			name:      "other wildcard behind a replaced single import",
			code:      "import static org.junit.Assert.*;\nimport static org.hamcrest.MatcherAssert.assertThat;\nclass A { void t() { assertThat(y, is(z)); } }",
			replacing: []string{resolver.HamcrestAssert},
			expected:  BindAddable,
		},
		{
			name:     "other wildcard without the member",
			code:     "import static org.junit.jupiter.api.Assertions.*;\nclass A {}",
			expected: BindAddable,
		},
		{
			name:     "unknown wildcard is ignored",
			code:     "import static com.acme.Checks.*;\nclass A {}",
			expected: BindAddable,
		},
		{
			name:     "declared locally",
			code:     "class A { void assertThat(int x) {} void t() { assertNull(x); } }",
			expected: BindConflict,
		},
		{
			name:     "declared by a sibling type",
			code:     "class A { void t() { assertNull(x); } }\nclass B { void assertThat(int x) {} }",
			expected: BindAddable,
		},
		{
			name:     "inherited from a known superclass",
			code:     "class A extends junit.framework.TestCase { void t() { assertNull(x); } }",
			member:   "assertEquals",
			expected: BindConflict,
		},
	}

	ir := NewImportReconciler(resolver.NewResolver(nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, tt.code)
			member := tt.member
			if member == "" {
				member = "assertThat"
			}
			got := ir.BindStatus(unit, callSite(unit), resolver.AssertJAssertions, member, tt.replacing...)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	assertThat := StaticRef{Owner: resolver.AssertJAssertions, Member: "assertThat"}
	assertNull := StaticRef{Owner: resolver.JupiterAssertions, Member: "assertNull"}

	tests := []struct {
		name     string
		code     string
		plan     ImportPlan
		usage    map[string]int
		expected string
	}{
		{
			name:     "empty plan",
			code:     "import static org.junit.jupiter.api.Assertions.assertNull;\nclass A {}\n",
			expected: "import static org.junit.jupiter.api.Assertions.assertNull;\nclass A {}\n",
		},
		{
			name:     "swap in place",
			code:     "import a.B;\n\nimport static org.junit.jupiter.api.Assertions.assertNull;\n\nclass A {}\n",
			plan:     ImportPlan{Add: []StaticRef{assertThat}, Release: []StaticRef{assertNull}},
			expected: "import a.B;\n\nimport static org.assertj.core.api.Assertions.assertThat;\n\nclass A {}\n",
		},
		{
			name:     "release blocked by usage",
			code:     "import static org.junit.jupiter.api.Assertions.assertNull;\nclass A {}\n",
			plan:     ImportPlan{Release: []StaticRef{assertNull}},
			usage:    map[string]int{"assertNull": 1},
			expected: "import static org.junit.jupiter.api.Assertions.assertNull;\nclass A {}\n",
		},
		{
			name:     "add after last static import",
			code:     "import static x.Y.a;\nimport static x.Y.b;\nclass A {}\n",
			plan:     ImportPlan{Add: []StaticRef{assertThat}},
			expected: "import static x.Y.a;\nimport static x.Y.b;\nimport static org.assertj.core.api.Assertions.assertThat;\nclass A {}\n",
		},
		{
			name:     "already present",
			code:     "import static org.assertj.core.api.Assertions.assertThat;\nclass A {}\n",
			plan:     ImportPlan{Add: []StaticRef{assertThat, assertThat}},
			expected: "import static org.assertj.core.api.Assertions.assertThat;\nclass A {}\n",
		},
		{
			name:     "crlf swap in place",
			code:     "import a.B;\r\n\r\nimport static org.junit.jupiter.api.Assertions.assertNull;\r\n\r\nclass A {}\r\n",
			plan:     ImportPlan{Add: []StaticRef{assertThat}, Release: []StaticRef{assertNull}},
			expected: "import a.B;\r\n\r\nimport static org.assertj.core.api.Assertions.assertThat;\r\n\r\nclass A {}\r\n",
		},
		{
			name:     "crlf add after type imports",
			code:     "package p;\r\n\r\nimport a.B;\r\n\r\nclass A {}\r\n",
			plan:     ImportPlan{Add: []StaticRef{assertThat}},
			expected: "package p;\r\n\r\nimport a.B;\r\n\r\nimport static org.assertj.core.api.Assertions.assertThat;\r\n\r\nclass A {}\r\n",
		},
		{
			name:     "crlf add at top of file",
			code:     "class A {}\r\n",
			plan:     ImportPlan{Add: []StaticRef{assertThat}},
			expected: "import static org.assertj.core.api.Assertions.assertThat;\r\n\r\nclass A {}\r\n",
		},
		{
			name:     "import sharing a line is cut alone",
			code:     "import a.B; import static org.junit.jupiter.api.Assertions.assertNull;\nclass A {}\n",
			plan:     ImportPlan{Release: []StaticRef{assertNull}},
			expected: "import a.B; \nclass A {}\n",
		},
	}

	ir := NewImportReconciler(resolver.NewResolver(nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, tt.code)
			var edits EditSet
			if _, err := ir.Reconcile(unit, tt.plan, tt.usage, &edits); err != nil {
				t.Fatal(err)
			}
			out, err := edits.Apply(unit.Source)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.expected {
				t.Errorf("unexpected output\n--- got ---\n%s\n--- expected ---\n%s", out, tt.expected)
			}
		})
	}
}

func TestLineEnding(t *testing.T) {
	tests := map[string]string{
		"":                 "\n",
		"class A {}":       "\n",
		"class A {}\n":     "\n",
		"class A {}\r\n":   "\r\n",
		"\nclass A {}\r\n": "\n",
	}
	for src, expected := range tests {
		if got := lineEnding([]byte(src)); got != expected {
			t.Errorf("lineEnding(%q) = %q, expected %q", src, got, expected)
		}
	}
}

func TestReconcile_ClashWarns(t *testing.T) {
	unit := parseUnit(t, "import static org.junit.Assert.assertThat;\nclass A {}\n")
	ir := NewImportReconciler(resolver.NewResolver(nil))

	var edits EditSet
	plan := ImportPlan{Add: []StaticRef{{Owner: resolver.HamcrestAssert, Member: "assertThat"}}}
	res, err := ir.Reconcile(unit, plan, nil, &edits)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Added) != 0 || len(res.Warnings) != 1 {
		t.Errorf("expected a warning and no addition, got %+v", res)
	}
	if edits.Len() != 0 {
		t.Errorf("expected no edits, got %d", edits.Len())
	}
}

func TestImportLineSpan(t *testing.T) {
	src := []byte("  import a.B;  \nimport c.D; int x;\n")
	if got := importLineSpan(src, span(2, 13)); got != span(0, 16) {
		t.Errorf("expected whole line [0,16), got %v", got)
	}
	if got := importLineSpan(src, span(16, 27)); got != span(16, 27) {
		t.Errorf("expected bare span when the line is shared, got %v", got)
	}
}
