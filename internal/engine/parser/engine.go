package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node for a language-specific extractor.
// Returns true if the handler has processed children and the walker should stop.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries shared state/helpers used by all extractors.
type ExtractionContext struct {
	Source            []byte
	Unit              *CompilationUnit
	ProcessedChildren bool // If true, the walker will skip this node's children

	engine    *ExtractorEngine
	typeStack []int // indexes into Unit.Types
}

func (c *ExtractionContext) ResetProcessedChildren() {
	c.ProcessedChildren = false
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}
	ctx.engine = e

	ctx.ResetProcessedChildren()
	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	}

	if !stop && !ctx.ProcessedChildren {
		e.walkChildren(ctx, node)
	}
}

func (e *ExtractorEngine) walkChildren(ctx *ExtractionContext, node *sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		e.Walk(ctx, node.Child(i))
	}
}

// WalkChildren lets a handler descend explicitly, e.g. to pop state afterwards.
func (c *ExtractionContext) WalkChildren(node *sitter.Node) {
	if c.engine == nil || node == nil {
		return
	}
	c.engine.walkChildren(c, node)
	c.ProcessedChildren = true
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

func (c *ExtractionContext) Span(node *sitter.Node) Span {
	if node == nil {
		return Span{}
	}
	return Span{Start: int(node.StartByte()), End: int(node.EndByte())}
}

func (c *ExtractionContext) Location(node *sitter.Node) Location {
	return Location{
		File:   c.Unit.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (c *ExtractionContext) ChildText(node *sitter.Node, kind string) string {
	child := childOfKind(node, kind)
	if child == nil {
		return ""
	}
	return c.Text(child)
}

func (c *ExtractionContext) currentType() *TypeDecl {
	if len(c.typeStack) == 0 {
		return nil
	}
	return &c.Unit.Types[c.typeStack[len(c.typeStack)-1]]
}

func childOfKind(node *sitter.Node, kinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		for _, kind := range kinds {
			if child.Kind() == kind {
				return child
			}
		}
	}
	return nil
}
