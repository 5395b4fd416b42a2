// Package java extracts feature-flag names from Java sources via
// tree-sitter structural parsing.
package java

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract"
	"github.com/flaggate/flaggate/pkg/extract/shared/javaast"
	"github.com/flaggate/flaggate/pkg/extract/tspool"
)

const analyzerName = "java-ast"

// Flag-evaluation method names, matched case-sensitively.
var evaluationMethods = map[string]bool{
	"getTreatment":            true,
	"treatment":               true,
	"getTreatmentWithConfig":  true,
	"getTreatments":           true,
	"getTreatmentsWithConfig": true,
}

func init() {
	extract.Register(New(), ".java")
}

// Analyzer extracts flag names from Java source.
type Analyzer struct {
	parser tspool.TreeParser
}

// New creates an analyzer backed by the tree-sitter Java grammar.
func New() *Analyzer {
	return NewWithParser(tspool.NewLanguageParser(domain.LanguageJava))
}

// NewWithParser creates an analyzer with an injected parser.
func NewWithParser(p tspool.TreeParser) *Analyzer {
	return &Analyzer{parser: p}
}

// Name implements extract.Analyzer.
func (a *Analyzer) Name() string { return analyzerName }

// Language reports the source language this analyzer handles.
func (a *Analyzer) Language() domain.Language { return domain.LanguageJava }

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
		case javaast.NodeVariableDeclarator:
			a.recordDeclarator(node, source, symbols)
		case javaast.NodeMethodInvocation:
			a.collectInvocation(node, source, symbols, flags)
		}
		return true
	})

	return flags
}

// recordDeclarator captures String FLAG = "..." and
// List<String> FLAGS = Arrays.asList("a", "b") declarations.
func (a *Analyzer) recordDeclarator(node *sitter.Node, source []byte, symbols *extract.SymbolTable) {
	nameNode := node.ChildByFieldName("name")
	valueNode := node.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil {
		return
	}

	name := extract.NodeText(nameNode, source)
	switch valueNode.Type() {
	case javaast.NodeStringLiteral:
		symbols.BindString(name, javaast.StringValue(valueNode, source))
	case javaast.NodeMethodInvocation:
		if javaast.IsArraysAsList(valueNode, source) {
			symbols.BindList(name, javaast.ArgumentStrings(valueNode, source))
		}
	}
}

// collectInvocation inspects every argument of a recognized evaluation
// call. All positions are extracted; over-captured non-flag strings are
// filtered downstream against the registry.
func (a *Analyzer) collectInvocation(node *sitter.Node, source []byte, symbols *extract.SymbolTable, flags domain.FlagSet) {
	if !evaluationMethods[javaast.MethodName(node, source)] {
		return
	}

	args := javaast.Arguments(node)
	if args == nil {
		return
	}

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		switch arg.Type() {
		case javaast.NodeStringLiteral:
			flags.Add(javaast.StringValue(arg, source))
		case javaast.NodeIdentifier:
			flags.AddAll(symbols.Resolve(extract.NodeText(arg, source)))
		case javaast.NodeMethodInvocation:
			if javaast.IsArraysAsList(arg, source) {
				flags.AddAll(javaast.ArgumentStrings(arg, source))
			}
		case javaast.NodeArrayCreation:
			flags.AddAll(javaast.InitializerStrings(arg, source))
		}
	}
}
