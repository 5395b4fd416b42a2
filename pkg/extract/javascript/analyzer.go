// Package javascript extracts feature-flag names from JavaScript and JSX
// sources via tree-sitter structural parsing.
package javascript

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract"
	"github.com/flaggate/flaggate/pkg/extract/shared/jsast"
	"github.com/flaggate/flaggate/pkg/extract/tspool"
)

const analyzerName = "javascript-ast"

// Flag-evaluation method names recognized on member expressions
// (client.getTreatment(...)). Matched case-sensitively.
var evaluationMethods = map[string]bool{
	"getTreatment":            true,
	"treatment":               true,
	"getTreatmentWithConfig":  true,
	"getTreatments":           true,
	"getTreatmentsWithConfig": true,
}

func init() {
	extract.Register(New(), ".js", ".jsx")
}

// Analyzer extracts flag names from JavaScript source.
type Analyzer struct {
	parser tspool.TreeParser
}

// New creates an analyzer backed by the tree-sitter JavaScript grammar.
func New() *Analyzer {
	return NewWithParser(tspool.NewLanguageParser(domain.LanguageJavaScript))
}

// NewWithParser creates an analyzer with an injected parser, letting tests
// drive the unavailable-parser path.
func NewWithParser(p tspool.TreeParser) *Analyzer {
	return &Analyzer{parser: p}
}

// Name implements extract.Analyzer.
func (a *Analyzer) Name() string { return analyzerName }

// Language reports the source language this analyzer handles.
func (a *Analyzer) Language() domain.Language { return domain.LanguageJavaScript }

// Extract returns all flag-name candidates in source. Parse failures and
// panics yield the empty set, never an error or a half-built result.
func (a *Analyzer) Extract(ctx context.Context, source []byte) (flags domain.FlagSet) {
	flags = domain.NewFlagSet()

	defer func() {
		if r := recover(); r != nil {
			flags = domain.NewFlagSet()
		}
	}()

	tree, err := a.parser.ParseTree(ctx, source)
	if err != nil {
		return flags
	}
	defer tree.Close()

	symbols := extract.NewSymbolTable()

	extract.WalkTree(tree.RootNode(), func(node *sitter.Node) bool {
		switch node.Type() {
		case jsast.NodeVariableDeclarator:
			a.recordAssignment(node, source, symbols)
		case jsast.NodeCallExpression:
			a.collectCall(node, source, symbols, flags)
		}
		return true
	})

	return flags
}

// recordAssignment captures const/let/var bindings of string literals or
// all-string array literals. Any other initializer shape is ignored.
func (a *Analyzer) recordAssignment(node *sitter.Node, source []byte, symbols *extract.SymbolTable) {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil || nameNode.Type() != jsast.NodeIdentifier {
		return
	}

	name := extract.NodeText(nameNode, source)
	switch valueNode.Type() {
	case jsast.NodeString:
		symbols.BindString(name, jsast.StringValue(valueNode, source))
	case jsast.NodeArray:
		symbols.BindList(name, jsast.ArrayStrings(valueNode, source))
	}
}

// collectCall inspects every argument of a recognized flag-evaluation call.
// All argument positions are extracted because SDK overloads differ in
// where the flag name sits; the governance layer filters out the user keys
// this deliberately over-captures.
func (a *Analyzer) collectCall(node *sitter.Node, source []byte, symbols *extract.SymbolTable, flags domain.FlagSet) {
	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Type() != jsast.NodeMemberExpression {
		return
	}
	prop := callee.ChildByFieldName("property")
	if prop == nil || !evaluationMethods[extract.NodeText(prop, source)] {
		return
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case jsast.NodeString:
			flags.Add(jsast.StringValue(arg, source))
		case jsast.NodeIdentifier:
			flags.AddAll(symbols.Resolve(extract.NodeText(arg, source)))
		case jsast.NodeArray:
			a.collectArrayArgument(arg, source, symbols, flags)
		}
	}
}

// collectArrayArgument adds string elements of an inline array argument.
// One level only: nested arrays are skipped, not recursed into.
func (a *Analyzer) collectArrayArgument(arr *sitter.Node, source []byte, symbols *extract.SymbolTable, flags domain.FlagSet) {
	for i := 0; i < int(arr.NamedChildCount()); i++ {
		el := arr.NamedChild(i)
		switch el.Type() {
		case jsast.NodeString:
			flags.Add(jsast.StringValue(el, source))
		case jsast.NodeIdentifier:
			if v, ok := symbols.ResolveString(extract.NodeText(el, source)); ok {
				flags.Add(v)
			}
		}
	}
}
