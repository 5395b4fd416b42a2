// Package csharp extracts feature-flag names from C# sources. Structural
// parsing via tree-sitter is attempted first; a language-internal regex
// fallback covers parse failures and unavailable parsers. This fallback is
// distinct from the dispatcher-level one, which additionally backstops
// structurally-valid files where nothing was found.
package csharp

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract"
	"github.com/flaggate/flaggate/pkg/extract/shared/dotnetast"
	"github.com/flaggate/flaggate/pkg/extract/tspool"
)

const analyzerName = "csharp-ast"

// evaluationMethodPart matches the .NET SDK surface by substring, so
// GetTreatment, GetTreatmentAsync, GetTreatmentsWithConfigAsync and the
// other overloads are all recognized.
const evaluationMethodPart = "GetTreatment"

func init() {
	extract.Register(New(), ".cs")
}

// Analyzer extracts flag names from C# source.
type Analyzer struct {
	parser tspool.TreeParser
}

// New creates an analyzer backed by the tree-sitter C# grammar.
func New() *Analyzer {
	return NewWithParser(tspool.NewLanguageParser(domain.LanguageCSharp))
}

// NewWithParser creates an analyzer with an injected parser.
func NewWithParser(p tspool.TreeParser) *Analyzer {
	return &Analyzer{parser: p}
}

// Name implements extract.Analyzer.
func (a *Analyzer) Name() string { return analyzerName }

// Language reports the source language this analyzer handles.
func (a *Analyzer) Language() domain.Language { return domain.LanguageCSharp }

// Extract returns all flag-name candidates in source. When the structural
// parse is unavailable or fails, the regex sub-fallback result is returned
// instead; a panic anywhere also routes to the sub-fallback.
func (a *Analyzer) Extract(ctx context.Context, source []byte) (flags domain.FlagSet) {
	defer func() {
		if r := recover(); r != nil {
			flags = extractRegex(source)
		}
	}()

	tree, err := a.parser.ParseTree(ctx, source)
	if err != nil {
		return extractRegex(source)
	}
	defer tree.Close()

	flags = domain.NewFlagSet()
	symbols := extract.NewSymbolTable()

	extract.WalkTree(tree.RootNode(), func(node *sitter.Node) bool {
		switch node.Type() {
		case dotnetast.NodeVariableDeclarator:
			a.recordDeclarator(node, source, symbols)
		case dotnetast.NodeInvocationExpression:
			a.collectInvocation(node, source, symbols, flags)
		}
		return true
	})

	return flags
}

// recordDeclarator captures string x = "...", var x = "..." and
// List<string> x = new List<string> { ... } declarations.
func (a *Analyzer) recordDeclarator(node *sitter.Node, source []byte, symbols *extract.SymbolTable) {
	nameNode := extract.FindChildByType(node, dotnetast.NodeIdentifier)
	if nameNode == nil {
		return
	}

	valueNode := declaratorValue(node)
	if valueNode == nil {
		return
	}

	name := extract.NodeText(nameNode, source)
	switch {
	case dotnetast.IsStringLiteral(valueNode):
		symbols.BindString(name, dotnetast.StringValue(valueNode, source))
	case dotnetast.IsStringListCreation(valueNode, source):
		symbols.BindList(name, dotnetast.InitializerStrings(valueNode, source))
	}
}

// declaratorValue returns the initializer expression of a declarator,
// peeling the equals_value_clause when the grammar produces one.
func declaratorValue(node *sitter.Node) *sitter.Node {
	if v := node.ChildByFieldName("value"); v != nil {
		return v
	}
	eq := extract.FindChildByType(node, dotnetast.NodeEqualsValueClause)
	if eq == nil || eq.NamedChildCount() == 0 {
		return nil
	}
	return eq.NamedChild(0)
}

// collectInvocation inspects every argument of a GetTreatment-family call.
// All positions are extracted; the governance layer filters the
// over-captured user keys downstream.
func (a *Analyzer) collectInvocation(node *sitter.Node, source []byte, symbols *extract.SymbolTable, flags domain.FlagSet) {
	if !strings.Contains(dotnetast.InvokedName(node, source), evaluationMethodPart) {
		return
	}

	args := dotnetast.Arguments(node)
	if args == nil {
		return
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == dotnetast.NodeArgument && arg.NamedChildCount() > 0 {
			arg = arg.NamedChild(0)
		}

		switch {
		case dotnetast.IsStringLiteral(arg):
			flags.Add(dotnetast.StringValue(arg, source))
		case arg.Type() == dotnetast.NodeIdentifier:
			flags.AddAll(symbols.Resolve(extract.NodeText(arg, source)))
		case dotnetast.IsStringListCreation(arg, source):
			flags.AddAll(dotnetast.InitializerStrings(arg, source))
		}
	}
}
