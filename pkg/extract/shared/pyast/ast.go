// Package pyast provides shared Python AST utilities for the python analyzer.
package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/extract"
)

// Python AST node types.
const (
	NodeArgumentList = "argument_list"
	NodeAssignment   = "assignment"
	NodeAttribute    = "attribute"
	NodeCall         = "call"
	NodeIdentifier   = "identifier"
	NodeList         = "list"
	NodeString       = "string"
)

// StringValue extracts the unquoted value of a string node.
// Returns empty string for other node types and for f-strings carrying
// interpolations (computed strings are not resolvable flag names).
func StringValue(node *sitter.Node, source []byte) string {
	if node == nil || node.Type() != NodeString {
		return ""
	}
	text := extract.NodeText(node, source)
	return unquote(text)
}

func unquote(text string) string {
	// Strip string prefixes (r"...", b"...", u"...") before the quotes.
	trimmed := strings.TrimLeft(text, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(trimmed, q) && strings.HasSuffix(trimmed, q) && len(trimmed) >= 2*len(q) {
			return trimmed[len(q) : len(trimmed)-len(q)]
		}
	}
	return text
}

// CallName returns the invoked name of a call node: the attribute name for
// obj.method(...) calls, or the identifier for bare function calls.
func CallName(node *sitter.Node, source []byte) string {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case NodeAttribute:
		attr := fn.ChildByFieldName("attribute")
		if attr != nil {
			return extract.NodeText(attr, source)
		}
	case NodeIdentifier:
		return extract.NodeText(fn, source)
	}
	return ""
}

// Arguments returns the argument_list node of a call.
func Arguments(node *sitter.Node) *sitter.Node {
	return node.ChildByFieldName("arguments")
}
