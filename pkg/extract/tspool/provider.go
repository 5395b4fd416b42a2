package tspool

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/flaggate/flaggate/pkg/domain"
)

// ErrParserUnavailable signals that no structural parser can serve the
// request. Analyzers treat it as a non-fatal capability gap and fall back.
var ErrParserUnavailable = errors.New("tspool: structural parser unavailable")

// TreeParser abstracts "parse or report unavailable". Analyzers receive a
// TreeParser at construction so the unavailable-parser fallback path can be
// exercised in tests without touching process-wide state.
type TreeParser interface {
	// ParseTree parses source into a syntax tree.
	// Caller MUST call tree.Close() to free resources.
	ParseTree(ctx context.Context, source []byte) (*sitter.Tree, error)
}

// LanguageParser is the production TreeParser backed by the tree-sitter
// grammar for one language.
type LanguageParser struct {
	lang domain.Language
}

// NewLanguageParser creates a TreeParser for the given language.
func NewLanguageParser(lang domain.Language) *LanguageParser {
	return &LanguageParser{lang: lang}
}

// ParseTree parses source with a fresh parser for the configured language.
func (p *LanguageParser) ParseTree(ctx context.Context, source []byte) (*sitter.Tree, error) {
	return Parse(ctx, p.lang, source)
}
