// Package python extracts feature-flag names from Python sources via
// tree-sitter structural parsing.
package python

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract"
	"github.com/flaggate/flaggate/pkg/extract/shared/pyast"
	"github.com/flaggate/flaggate/pkg/extract/tspool"
)

const analyzerName = "python-ast"

// Flag-evaluation method names; Python SDKs use snake_case but camelCase
// spellings appear in ported code, so both are matched case-sensitively.
var evaluationMethods = map[string]bool{
	"getTreatment":               true,
	"get_treatment":              true,
	"treatment":                  true,
	"get_treatment_with_config":  true,
	"getTreatments":              true,
	"get_treatments":             true,
	"get_treatments_with_config": true,
}

func init() {
	extract.Register(New(), ".py")
}

// Analyzer extracts flag names from Python source.
type Analyzer struct {
	parser tspool.TreeParser
}

// New creates an analyzer backed by the tree-sitter Python grammar.
func New() *Analyzer {
	return NewWithParser(tspool.NewLanguageParser(domain.LanguagePython))
}

// NewWithParser creates an analyzer with an injected parser.
func NewWithParser(p tspool.TreeParser) *Analyzer {
	return &Analyzer{parser: p}
}

// Name implements extract.Analyzer.
func (a *Analyzer) Name() string { return analyzerName }

// Language reports the source language this analyzer handles.
func (a *Analyzer) Language() domain.Language { return domain.LanguagePython }

// Extract returns all flag-name candidates in source. Parse failures and
// panics yield the empty set.
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
		case pyast.NodeAssignment:
			a.recordAssignment(node, source, symbols)
		case pyast.NodeCall:
			a.collectCall(node, source, symbols, flags)
		}
		return true
	})

	return flags
}

// recordAssignment captures FLAG = "..." and FLAGS = ["a", "b"] bindings
// of a single bare identifier. Tuple targets, attribute targets and any
// non-literal right-hand side are ignored.
func (a *Analyzer) recordAssignment(node *sitter.Node, source []byte, symbols *extract.SymbolTable) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != pyast.NodeIdentifier {
		return
	}

	name := extract.NodeText(left, source)
	switch right.Type() {
	case pyast.NodeString:
		symbols.BindString(name, pyast.StringValue(right, source))
	case pyast.NodeList:
		symbols.BindList(name, listStrings(right, source))
	}
}

// collectCall inspects every argument of a recognized evaluation call,
// whether invoked as client.get_treatment(...) or bare get_treatment(...).
func (a *Analyzer) collectCall(node *sitter.Node, source []byte, symbols *extract.SymbolTable, flags domain.FlagSet) {
	if !evaluationMethods[pyast.CallName(node, source)] {
		return
	}

	args := pyast.Arguments(node)
	if args == nil {
		return
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case pyast.NodeString:
			flags.Add(pyast.StringValue(arg, source))
		case pyast.NodeIdentifier:
			flags.AddAll(symbols.Resolve(extract.NodeText(arg, source)))
		case pyast.NodeList:
			a.collectListArgument(arg, source, symbols, flags)
		}
	}
}

// collectListArgument adds string elements of an inline list argument.
// One level only: nested lists are skipped, not recursed into.
func (a *Analyzer) collectListArgument(list *sitter.Node, source []byte, symbols *extract.SymbolTable, flags domain.FlagSet) {
	for i := 0; i < int(list.NamedChildCount()); i++ {
		el := list.NamedChild(i)
		switch el.Type() {
		case pyast.NodeString:
			flags.Add(pyast.StringValue(el, source))
		case pyast.NodeIdentifier:
			if v, ok := symbols.ResolveString(extract.NodeText(el, source)); ok {
				flags.Add(v)
			}
		}
	}
}

// listStrings returns the direct string elements of a list literal.
func listStrings(list *sitter.Node, source []byte) []string {
	var values []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		el := list.NamedChild(i)
		if el.Type() == pyast.NodeString {
			values = append(values, pyast.StringValue(el, source))
		}
	}
	return values
}
