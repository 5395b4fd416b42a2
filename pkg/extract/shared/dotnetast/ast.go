// Package dotnetast provides shared C# AST utilities for the csharp analyzer.
package dotnetast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/extract"
)

// C# AST node types.
const (
	NodeArgument              = "argument"
	NodeArgumentList          = "argument_list"
	NodeEqualsValueClause     = "equals_value_clause"
	NodeGenericName           = "generic_name"
	NodeIdentifier            = "identifier"
	NodeInitializerExpression = "initializer_expression"
	NodeInvocationExpression  = "invocation_expression"
	NodeMemberAccess          = "member_access_expression"
	NodeObjectCreation        = "object_creation_expression"
	NodeStringLiteral         = "string_literal"
	NodeVariableDeclarator    = "variable_declarator"
	NodeVerbatimString        = "verbatim_string_literal"
)

// StringValue extracts the unquoted value of a string literal node,
// handling both regular and verbatim (@"...") literals.
// Returns empty string for other node types.
func StringValue(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	text := extract.NodeText(node, source)
	switch node.Type() {
	case NodeStringLiteral:
		if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
			return text[1 : len(text)-1]
		}
	case NodeVerbatimString:
		if len(text) >= 3 && strings.HasPrefix(text, `@"`) && text[len(text)-1] == '"' {
			return text[2 : len(text)-1]
		}
	}
	return ""
}

// IsStringLiteral reports whether the node is a regular or verbatim
// string literal.
func IsStringLiteral(node *sitter.Node) bool {
	t := node.Type()
	return t == NodeStringLiteral || t == NodeVerbatimString
}

// InvokedName returns the simple name an invocation_expression calls:
// "GetTreatment" for client.GetTreatment(...) and GetTreatment(...) alike.
func InvokedName(node *sitter.Node, source []byte) string {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case NodeMemberAccess:
		name := fn.ChildByFieldName("name")
		if name != nil {
			return extract.NodeText(name, source)
		}
	case NodeIdentifier, NodeGenericName:
		return extract.NodeText(fn, source)
	}
	return ""
}

// Arguments returns the argument_list node of an invocation_expression.
func Arguments(node *sitter.Node) *sitter.Node {
	return node.ChildByFieldName("arguments")
}

// IsStringListCreation reports whether the node is new List<string> { ... }.
func IsStringListCreation(node *sitter.Node, source []byte) bool {
	if node.Type() != NodeObjectCreation {
		return false
	}
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil || typeNode.Type() != NodeGenericName {
		return false
	}
	text := strings.ReplaceAll(extract.NodeText(typeNode, source), " ", "")
	return text == "List<string>" || text == "List<String>"
}

// InitializerStrings returns the string-literal elements of an object
// creation's collection initializer, one level deep.
func InitializerStrings(node *sitter.Node, source []byte) []string {
	init := node.ChildByFieldName("initializer")
	if init == nil {
		init = extract.FindChildByType(node, NodeInitializerExpression)
	}
	if init == nil {
		return nil
	}
	var values []string
	for i := 0; i < int(init.NamedChildCount()); i++ {
		el := init.NamedChild(i)
		if IsStringLiteral(el) {
			values = append(values, StringValue(el, source))
		}
	}
	return values
}
