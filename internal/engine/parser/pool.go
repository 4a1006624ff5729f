// # internal/engine/parser/pool.go
package parser

import (
	"sync"
	"sync/atomic"

	"junitmig/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParserPool recycles tree-sitter parsers bound to one grammar. The apply
// workers share a single pool per language.
type ParserPool struct {
	lang   *sitter.Language
	idle   sync.Pool
	leased atomic.Int64
}

// NewParserPool loads lang into a first parser so that a missing or
// incompatible grammar fails here rather than on the first file.
func NewParserPool(lang *sitter.Language) (*ParserPool, error) {
	if lang == nil {
		return nil, errors.New(errors.CodeInternal, "grammar is nil")
	}
	sp := sitter.NewParser()
	if err := sp.SetLanguage(lang); err != nil {
		sp.Close()
		return nil, errors.Wrap(err, errors.CodeInternal, "grammar rejected by parser")
	}

	p := &ParserPool{lang: lang}
	p.idle.Put(sp)
	return p, nil
}

// Get leases a parser configured for the pool's grammar.
func (p *ParserPool) Get() (*sitter.Parser, error) {
	sp, _ := p.idle.Get().(*sitter.Parser)
	if sp == nil {
		sp = sitter.NewParser()
	}
	if err := sp.SetLanguage(p.lang); err != nil {
		sp.Close()
		return nil, errors.Wrap(err, errors.CodeInternal, "grammar rejected by parser")
	}
	p.leased.Add(1)
	return sp, nil
}

// Put resets sp and returns it to the pool. sp must not be used afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()
	p.leased.Add(-1)
	p.idle.Put(sp)
}

// Parse runs one parse of src on a leased parser. The tree outlives the
// lease and must be closed by the caller.
func (p *ParserPool) Parse(src []byte) (*sitter.Tree, error) {
	sp, err := p.Get()
	if err != nil {
		return nil, err
	}
	defer p.Put(sp)
	return sp.Parse(src, nil), nil
}

// Leased returns the number of parsers currently checked out.
func (p *ParserPool) Leased() int {
	return int(p.leased.Load())
}
