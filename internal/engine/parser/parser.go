// # internal/engine/parser/parser.go
package parser

import (
	"path/filepath"
	"strings"

	"junitmig/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*CompilationUnit, error)
}

// Parser turns Java source into CompilationUnits. Safe for concurrent use.
type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor
	pools      map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) (*Parser, error) {
	p := &Parser{
		loader:     loader,
		extractors: map[string]Extractor{"java": NewJavaExtractor()},
		pools:      make(map[string]*ParserPool),
	}
	for lang, grammar := range loader.languages {
		pool, err := NewParserPool(grammar)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxLanguage, lang)
		}
		p.pools[lang] = pool
	}
	return p, nil
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// ParseFile detects the language from path and parses content.
func (p *Parser) ParseFile(path string, content []byte) (*CompilationUnit, error) {
	lang := p.GetLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported file type"), errors.CtxPath, path)
	}
	return p.Parse(lang, path, content)
}

// Parse parses content with the grammar registered for lang.
func (p *Parser) Parse(lang, path string, content []byte) (*CompilationUnit, error) {
	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, errors.Newf(errors.CodeNotSupported, "no extractor for: %s", lang)
	}
	pool := p.pools[lang]
	if pool == nil {
		return nil, errors.Newf(errors.CodeInternal, "grammar not loaded: %s", lang)
	}

	tree, err := pool.Parse(content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	if tree == nil {
		return nil, errors.AddContext(errors.New(errors.CodeParse, "parse failed"), errors.CtxPath, path)
	}
	defer tree.Close()

	unit, err := extractor.Extract(tree.RootNode(), content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extraction failed")
	}
	return unit, nil
}

func (p *Parser) GetLanguage(path string) string {
	return p.loader.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.GetLanguage(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}
