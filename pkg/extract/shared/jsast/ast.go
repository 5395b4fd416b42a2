// Package jsast provides shared JavaScript AST utilities for the
// javascript analyzer.
package jsast

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/extract"
)

// JavaScript AST node types.
const (
	NodeArray              = "array"
	NodeCallExpression     = "call_expression"
	NodeIdentifier         = "identifier"
	NodeMemberExpression   = "member_expression"
	NodeString             = "string"
	NodeVariableDeclarator = "variable_declarator"
)

// UnquoteString strips the surrounding quotes from a JavaScript string
// literal and resolves escapes where possible.
func UnquoteString(text string) string {
	if len(text) < 2 {
		return text
	}

	if text[0] == '`' && text[len(text)-1] == '`' {
		return text[1 : len(text)-1]
	}

	// Go's strconv.Unquote only handles double-quoted strings, so
	// single-quoted JavaScript strings are converted first.
	if text[0] == '\'' && text[len(text)-1] == '\'' {
		inner := text[1 : len(text)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		escaped := strings.ReplaceAll(inner, `"`, `\"`)
		if s, err := strconv.Unquote(`"` + escaped + `"`); err == nil {
			return s
		}
		return text
	}

	if s, err := strconv.Unquote(text); err == nil {
		return s
	}

	return text
}

// StringValue extracts the unquoted value of a string literal node.
// Returns empty string for non-string nodes.
func StringValue(node *sitter.Node, source []byte) string {
	if node == nil || node.Type() != NodeString {
		return ""
	}
	return UnquoteString(extract.NodeText(node, source))
}

// ArrayStrings returns the unquoted values of the direct string-literal
// elements of an array node. Nested arrays and other element shapes are
// skipped, not recursed into.
func ArrayStrings(node *sitter.Node, source []byte) []string {
	var values []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == NodeString {
			values = append(values, UnquoteString(extract.NodeText(child, source)))
		}
	}
	return values
}
