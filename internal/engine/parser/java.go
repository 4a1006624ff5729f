// # internal/engine/parser/java.go
package parser

import (
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaExtractor builds a CompilationUnit from a tree-sitter-java syntax tree.
type JavaExtractor struct {
	engine *ExtractorEngine
}

func NewJavaExtractor() *JavaExtractor {
	x := &JavaExtractor{}
	x.engine = NewExtractorEngine(map[string]NodeHandler{
		"package_declaration":         handlePackage,
		"import_declaration":          handleImport,
		"class_declaration":           handleTypeDecl,
		"interface_declaration":       handleTypeDecl,
		"enum_declaration":            handleTypeDecl,
		"record_declaration":          handleTypeDecl,
		"annotation_type_declaration": handleTypeDecl,
		"method_declaration":          handleMethodDecl,
		"method_invocation":           handleInvocation,
		"local_variable_declaration":  handleVariableDecl,
		"field_declaration":           handleVariableDecl,
		"formal_parameter":            handleParameter,
		"enhanced_for_statement":      handleParameter,
	})
	return x
}

func (x *JavaExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*CompilationUnit, error) {
	unit := &CompilationUnit{
		Path:     filePath,
		Language: "java",
		Source:   source,
		ParsedAt: time.Now(),
	}
	if root == nil {
		return unit, nil
	}
	unit.HasErrors = root.HasError()

	ctx := &ExtractionContext{Source: source, Unit: unit}
	x.engine.Walk(ctx, root)
	return unit, nil
}

func handlePackage(ctx *ExtractionContext, node *sitter.Node) bool {
	name := childOfKind(node, "scoped_identifier", "identifier")
	ctx.Unit.Package = normalizeRefName(ctx.Text(name))
	ctx.Unit.PackageSpan = ctx.Span(node)
	return true
}

func handleImport(ctx *ExtractionContext, node *sitter.Node) bool {
	imp := &ImportDecl{
		Span:     ctx.Span(node),
		Location: ctx.Location(node),
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "static":
			imp.Static = true
		case "asterisk":
			imp.Wildcard = true
		case "scoped_identifier", "identifier":
			imp.Name = normalizeRefName(ctx.Text(child))
		}
	}
	if imp.Name != "" {
		ctx.Unit.Imports = append(ctx.Unit.Imports, imp)
	}
	return true
}

func handleTypeDecl(ctx *ExtractionContext, node *sitter.Node) bool {
	td := TypeDecl{
		Name:    ctx.Text(node.ChildByFieldName("name")),
		Kind:    typeKind(node.Kind()),
		Methods: make(map[string]bool),
		Span:    ctx.Span(node),
	}
	if sc := node.ChildByFieldName("superclass"); sc != nil {
		if typ := sc.NamedChild(0); typ != nil {
			td.Superclass = stripTypeArguments(normalizeRefName(ctx.Text(typ)))
		}
	}

	ctx.Unit.Types = append(ctx.Unit.Types, td)
	ctx.typeStack = append(ctx.typeStack, len(ctx.Unit.Types)-1)
	ctx.WalkChildren(node)
	ctx.typeStack = ctx.typeStack[:len(ctx.typeStack)-1]
	return true
}

func typeKind(nodeKind string) string {
	switch nodeKind {
	case "interface_declaration", "annotation_type_declaration":
		return "interface"
	case "enum_declaration":
		return "enum"
	case "record_declaration":
		return "record"
	default:
		return "class"
	}
}

func handleMethodDecl(ctx *ExtractionContext, node *sitter.Node) bool {
	if td := ctx.currentType(); td != nil {
		if name := ctx.Text(node.ChildByFieldName("name")); name != "" {
			td.Methods[name] = true
		}
	}
	return false
}

func handleInvocation(ctx *ExtractionContext, node *sitter.Node) bool {
	nameNode := node.ChildByFieldName("name")
	argsNode := node.ChildByFieldName("arguments")
	if nameNode == nil || argsNode == nil {
		return false
	}

	inv := &MethodInvocation{
		Name:     ctx.Text(nameNode),
		NameSpan: ctx.Span(nameNode),
		ArgsSpan: ctx.Span(argsNode),
		Span:     ctx.Span(node),
		Location: ctx.Location(node),
	}
	if obj := node.ChildByFieldName("object"); obj != nil {
		inv.Object = toExpr(ctx, obj)
	}
	for i := uint(0); i < argsNode.NamedChildCount(); i++ {
		arg := argsNode.NamedChild(i)
		if arg == nil || isComment(arg.Kind()) {
			continue
		}
		inv.Args = append(inv.Args, toExpr(ctx, arg))
	}

	ctx.Unit.Invocations = append(ctx.Unit.Invocations, inv)
	return false
}

func handleVariableDecl(ctx *ExtractionContext, node *sitter.Node) bool {
	typ := stripTypeArguments(normalizeRefName(ctx.Text(node.ChildByFieldName("type"))))
	scope := ctx.Span(node.Parent())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil {
			continue
		}
		ctx.Unit.Declarations = append(ctx.Unit.Declarations, Declaration{
			Name:  ctx.Text(name),
			Type:  typ,
			Scope: scope,
			Span:  ctx.Span(child),
		})
	}
	return false
}

func handleParameter(ctx *ExtractionContext, node *sitter.Node) bool {
	name := node.ChildByFieldName("name")
	if name == nil {
		return false
	}
	scopeNode := node
	if node.Kind() == "formal_parameter" {
		// formal_parameter -> formal_parameters -> method/constructor/lambda
		if params := node.Parent(); params != nil && params.Parent() != nil {
			scopeNode = params.Parent()
		}
	}
	ctx.Unit.Declarations = append(ctx.Unit.Declarations, Declaration{
		Name:  ctx.Text(name),
		Type:  stripTypeArguments(normalizeRefName(ctx.Text(node.ChildByFieldName("type")))),
		Scope: ctx.Span(scopeNode),
		Span:  ctx.Span(node),
	})
	return false
}

func toExpr(ctx *ExtractionContext, node *sitter.Node) *Expr {
	e := &Expr{
		Kind:         ExprOther,
		Span:         ctx.Span(node),
		Text:         ctx.Text(node),
		LambdaParams: -1,
	}
	switch node.Kind() {
	case "string_literal", "text_block":
		e.Kind = ExprString
	case "lambda_expression":
		e.Kind = ExprLambda
		e.LambdaParams = lambdaParamCount(node.ChildByFieldName("parameters"))
	case "method_reference":
		e.Kind = ExprMethodRef
	case "identifier":
		e.Kind = ExprIdentifier
	case "field_access", "scoped_identifier":
		if isDottedName(node) {
			e.Kind = ExprName
		}
	case "method_invocation":
		e.Kind = ExprInvocation
	case "cast_expression":
		e.Kind = ExprCast
		e.CastType = stripTypeArguments(normalizeRefName(ctx.Text(node.ChildByFieldName("type"))))
		if value := node.ChildByFieldName("value"); value != nil {
			e.Inner = toExpr(ctx, value)
		}
	case "parenthesized_expression":
		e.Kind = ExprParens
		for i := uint(0); i < node.NamedChildCount(); i++ {
			inner := node.NamedChild(i)
			if inner != nil && !isComment(inner.Kind()) {
				e.Inner = toExpr(ctx, inner)
				break
			}
		}
	}
	return e
}

func lambdaParamCount(params *sitter.Node) int {
	if params == nil {
		return -1
	}
	switch params.Kind() {
	case "identifier":
		return 1
	case "formal_parameters", "inferred_parameters":
		count := 0
		for i := uint(0); i < params.NamedChildCount(); i++ {
			child := params.NamedChild(i)
			if child != nil && !isComment(child.Kind()) {
				count++
			}
		}
		return count
	}
	return -1
}

// isDottedName reports whether node is a chain of identifiers joined by dots.
func isDottedName(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "identifier":
		return true
	case "field_access":
		return isDottedName(node.ChildByFieldName("object")) &&
			node.ChildByFieldName("field") != nil &&
			node.ChildByFieldName("field").Kind() == "identifier"
	case "scoped_identifier":
		return isDottedName(node.ChildByFieldName("scope")) && node.ChildByFieldName("name") != nil
	}
	return false
}

func isComment(kind string) bool {
	return kind == "line_comment" || kind == "block_comment" || kind == "comment"
}
