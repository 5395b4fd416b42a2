// Package javaast provides shared Java AST utilities for the java analyzer.
package javaast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/extract"
)

// Java AST node types.
const (
	NodeArgumentList       = "argument_list"
	NodeArrayCreation      = "array_creation_expression"
	NodeArrayInitializer   = "array_initializer"
	NodeIdentifier         = "identifier"
	NodeMethodInvocation   = "method_invocation"
	NodeStringLiteral      = "string_literal"
	NodeVariableDeclarator = "variable_declarator"
)

// StringValue extracts the unquoted value of a string_literal node.
// Returns empty string for other node types.
func StringValue(node *sitter.Node, source []byte) string {
	if node == nil || node.Type() != NodeStringLiteral {
		return ""
	}
	text := extract.NodeText(node, source)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return text[1 : len(text)-1]
	}
	return text
}

// MethodName extracts the invoked simple name from a method_invocation.
func MethodName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return extract.NodeText(nameNode, source)
}

// Qualifier returns the source text of the invocation's object
// (e.g. "Arrays" in Arrays.asList(...)), or empty for unqualified calls.
func Qualifier(node *sitter.Node, source []byte) string {
	objNode := node.ChildByFieldName("object")
	if objNode == nil {
		return ""
	}
	return extract.NodeText(objNode, source)
}

// IsArraysAsList reports whether the invocation is Arrays.asList(...).
// Fully-qualified java.util.Arrays.asList is accepted as well.
func IsArraysAsList(node *sitter.Node, source []byte) bool {
	if node.Type() != NodeMethodInvocation {
		return false
	}
	if MethodName(node, source) != "asList" {
		return false
	}
	q := Qualifier(node, source)
	return q == "Arrays" || q == "java.util.Arrays"
}

// Arguments returns the argument_list node of a method_invocation.
func Arguments(node *sitter.Node) *sitter.Node {
	return node.ChildByFieldName("arguments")
}

// ArgumentStrings returns the unquoted string-literal arguments of an
// invocation, skipping every other argument shape.
func ArgumentStrings(node *sitter.Node, source []byte) []string {
	args := Arguments(node)
	if args == nil {
		return nil
	}
	var values []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == NodeStringLiteral {
			values = append(values, StringValue(arg, source))
		}
	}
	return values
}

// InitializerStrings returns the string-literal elements of a
// new String[]{...} array creation, one level deep.
func InitializerStrings(node *sitter.Node, source []byte) []string {
	init := extract.FindChildByType(node, NodeArrayInitializer)
	if init == nil {
		return nil
	}
	var values []string
	for i := 0; i < int(init.NamedChildCount()); i++ {
		el := init.NamedChild(i)
		if el.Type() == NodeStringLiteral {
			values = append(values, StringValue(el, source))
		}
	}
	return values
}
