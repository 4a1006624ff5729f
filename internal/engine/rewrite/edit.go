// # internal/engine/rewrite/edit.go
package rewrite

import (
	"bytes"
	"sort"

	"junitmig/internal/core/errors"
	"junitmig/internal/engine/parser"
)

// Piece is one fragment of replacement output: literal text, or a range of
// the original source that is carried over (with any edits nested inside it).
type Piece struct {
	Text   string
	Source *parser.Span
}

func Text(s string) Piece { return Piece{Text: s} }

func Source(span parser.Span) Piece {
	s := span
	return Piece{Source: &s}
}

// Edit replaces Span with Pieces. A zero-length Span is an insertion, an
// edit without pieces a deletion.
type Edit struct {
	Span   parser.Span
	Pieces []Piece
	Rule   string
}

// Preview renders the edit against src without applying nested edits.
func (e Edit) Preview(src []byte) string {
	var b bytes.Buffer
	for _, p := range e.Pieces {
		if p.Source != nil {
			b.Write(src[p.Source.Start:p.Source.End])
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// EditSet accumulates the edits for one compilation unit.
type EditSet struct {
	edits []Edit
}

func (s *EditSet) Add(e Edit) {
	s.edits = append(s.edits, e)
}

func (s *EditSet) Replace(span parser.Span, pieces ...Piece) {
	s.Add(Edit{Span: span, Pieces: pieces})
}

func (s *EditSet) Delete(span parser.Span) {
	s.Add(Edit{Span: span})
}

func (s *EditSet) Insert(offset int, text string) {
	s.Add(Edit{Span: parser.Span{Start: offset, End: offset}, Pieces: []Piece{Text(text)}})
}

func (s *EditSet) Len() int { return len(s.edits) }

func (s *EditSet) Edits() []Edit {
	out := make([]Edit, len(s.edits))
	copy(out, s.edits)
	return out
}

// Apply renders src with every edit applied. Edits may nest only inside the
// source pieces of an enclosing edit; any other overlap is a CodeConflict.
func (s *EditSet) Apply(src []byte) ([]byte, error) {
	if len(s.edits) == 0 {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}

	edits := s.Edits()
	for _, e := range edits {
		if e.Span.Start < 0 || e.Span.End > len(src) || e.Span.Start > e.Span.End {
			return nil, errors.Newf(errors.CodeInternal, "edit span [%d,%d) outside source", e.Span.Start, e.Span.End)
		}
		for _, p := range e.Pieces {
			if p.Source != nil && !e.Span.Contains(*p.Source) {
				return nil, errors.Newf(errors.CodeInternal, "moved range [%d,%d) outside edit", p.Source.Start, p.Source.End)
			}
		}
	}
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i].Span, edits[j].Span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if (a.Len() == 0) != (b.Len() == 0) {
			return a.Len() == 0
		}
		return a.End > b.End
	})

	var buf bytes.Buffer
	buf.Grow(len(src))
	if err := render(&buf, src, parser.Span{Start: 0, End: len(src)}, edits); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func render(buf *bytes.Buffer, src []byte, within parser.Span, edits []Edit) error {
	pos := within.Start
	for i := 0; i < len(edits); {
		e := edits[i]
		if e.Span.Start < pos {
			return errors.Newf(errors.CodeConflict, "edit [%d,%d) overlaps a previous edit", e.Span.Start, e.Span.End)
		}

		j := i + 1
		for j < len(edits) && nestedIn(edits[j].Span, e.Span) {
			j++
		}
		children := edits[i+1 : j]

		buf.Write(src[pos:e.Span.Start])
		used := make([]bool, len(children))
		for _, p := range e.Pieces {
			if p.Source == nil {
				buf.WriteString(p.Text)
				continue
			}
			inner := make([]Edit, 0)
			for k, c := range children {
				if p.Source.Contains(c.Span) {
					inner = append(inner, c)
					used[k] = true
				}
			}
			if err := render(buf, src, *p.Source, inner); err != nil {
				return err
			}
		}
		for k, ok := range used {
			if !ok {
				c := children[k].Span
				return errors.Newf(errors.CodeConflict, "edit [%d,%d) is discarded by enclosing edit [%d,%d)",
					c.Start, c.End, e.Span.Start, e.Span.End)
			}
		}

		pos = e.Span.End
		i = j
	}
	buf.Write(src[pos:within.End])
	return nil
}

// nestedIn reports whether child lies inside parent. Insertions at the
// boundaries of parent are siblings, not children.
func nestedIn(child, parent parser.Span) bool {
	if parent.Len() == 0 || !parent.Contains(child) {
		return false
	}
	if child.Len() == 0 && (child.Start == parent.Start || child.Start == parent.End) {
		return false
	}
	return true
}
