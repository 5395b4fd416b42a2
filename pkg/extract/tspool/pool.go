// Package tspool provides tree-sitter parsers for the supported languages.
//
// This package centralizes parser management to:
//   - Provide consistent parser creation across analyzers
//   - Ensure thread-safe language initialization
//
// Parsers are created fresh per parse. Tree-sitter's cancellation flag is
// not reset after a cancelled ParseCtx, so reusing a parser after a
// context cancellation fails with "operation limit was hit".
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/flaggate/flaggate/pkg/domain"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

var (
	csLang   *sitter.Language
	javaLang *sitter.Language
	jsLang   *sitter.Language
	pyLang   *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		csLang = csharp.GetLanguage()
		javaLang = java.GetLanguage()
		jsLang = javascript.GetLanguage()
		pyLang = python.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for the given domain language.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	switch lang {
	case domain.LanguageCSharp:
		return csLang
	case domain.LanguageJava:
		return javaLang
	case domain.LanguagePython:
		return pyLang
	default:
		return jsLang
	}
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(GetLanguage(lang))

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
