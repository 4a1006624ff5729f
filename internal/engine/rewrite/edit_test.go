// # internal/engine/rewrite/edit_test.go
package rewrite

import (
	"testing"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
)

func span(start, end int) parser.Span { return parser.Span{Start: start, End: end} }

func TestEditSet_Apply(t *testing.T) {
	src := []byte("f(g(a), b);")
	//            0123456789A

	tests := []struct {
		name     string
		build    func(s *EditSet)
		expected string
	}{
		{
			name:     "no edits copies source",
			build:    func(s *EditSet) {},
			expected: "f(g(a), b);",
		},
		{
			name: "replace and insert",
			build: func(s *EditSet) {
				s.Replace(span(0, 1), Text("h"))
				s.Insert(11, "\n")
			},
			expected: "h(g(a), b);\n",
		},
		{
			name: "delete",
			build: func(s *EditSet) {
				s.Delete(span(6, 9))
			},
			expected: "f(g(a));",
		},
		{
			name: "moved source keeps nested edit",
			build: func(s *EditSet) {
				s.Replace(span(0, 10), Text("x("), Source(span(2, 6)), Text(").y("), Source(span(8, 9)), Text(")"))
				s.Replace(span(2, 6), Text("z("), Source(span(4, 5)), Text(")"))
			},
			expected: "x(z(a)).y(b);",
		},
		{
			name: "moved source used twice",
			build: func(s *EditSet) {
				s.Replace(span(8, 9), Source(span(8, 9)), Text("+"), Source(span(8, 9)))
			},
			expected: "f(g(a), b+b);",
		},
		{
			name: "insertions at the same offset keep order",
			build: func(s *EditSet) {
				s.Insert(0, "1")
				s.Insert(0, "2")
				s.Replace(span(0, 1), Text("h"))
			},
			expected: "12h(g(a), b);",
		},
		{
			name: "insertion at end of a deletion",
			build: func(s *EditSet) {
				s.Delete(span(0, 2))
				s.Insert(2, "[")
			},
			expected: "[g(a), b);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s EditSet
			tt.build(&s)
			out, err := s.Apply(src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(out) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(out))
			}
		})
	}
	if string(src) != "f(g(a), b);" {
		t.Fatal("Apply must not modify its input")
	}
}

func TestEditSet_Conflicts(t *testing.T) {
	src := []byte("f(g(a), b);")

	tests := []struct {
		name  string
		build func(s *EditSet)
		code  errors.ErrorCode
	}{
		{
			name: "partial overlap",
			build: func(s *EditSet) {
				s.Replace(span(0, 4), Text("x"))
				s.Replace(span(2, 7), Text("y"))
			},
			code: errors.CodeConflict,
		},
		{
			name: "nested edit discarded by parent",
			build: func(s *EditSet) {
				s.Replace(span(0, 10), Text("x"))
				s.Replace(span(2, 6), Text("y"))
			},
			code: errors.CodeConflict,
		},
		{
			name: "span outside source",
			build: func(s *EditSet) {
				s.Replace(span(5, 50), Text("x"))
			},
			code: errors.CodeInternal,
		},
		{
			name: "moved range outside edit",
			build: func(s *EditSet) {
				s.Replace(span(0, 2), Source(span(1, 6)))
			},
			code: errors.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s EditSet
			tt.build(&s)
			if _, err := s.Apply(src); !errors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestEdit_Preview(t *testing.T) {
	src := []byte("assertNull(x)")
	e := Edit{Span: span(0, 13), Pieces: []Piece{Text("assertThat("), Source(span(11, 12)), Text(").isNull()")}}
	if got := e.Preview(src); got != "assertThat(x).isNull()" {
		t.Errorf("unexpected preview %q", got)
	}
}
