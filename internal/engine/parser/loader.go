// # internal/engine/parser/loader.go
package parser

import (
	"sort"
	"strings"

	"junitmig/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// DefaultExtensions are the file extensions treated as Java sources.
var DefaultExtensions = []string{".java"}

type GrammarLoader struct {
	languages  map[string]*sitter.Language
	extensions map[string]string
}

// NewGrammarLoader loads the Java grammar and maps each extension onto it.
func NewGrammarLoader(extensions []string) (*GrammarLoader, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	gl := &GrammarLoader{
		languages:  map[string]*sitter.Language{"java": sitter.NewLanguage(tree_sitter_java.Language())},
		extensions: make(map[string]string, len(extensions)),
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			return nil, errors.Newf(errors.CodeValidationError, "extension %q must start with a dot", ext)
		}
		gl.extensions[ext] = "java"
	}
	return gl, nil
}

// Language returns the grammar registered for lang, or nil.
func (gl *GrammarLoader) Language(lang string) *sitter.Language {
	return gl.languages[lang]
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	out := make([]string, 0, len(gl.extensions))
	for ext := range gl.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
