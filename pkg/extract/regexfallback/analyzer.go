// Package regexfallback extracts feature-flag names by pattern matching
// over raw text. It serves files with no structural analyzer and backstops
// the per-language analyzers when they come up empty.
package regexfallback

import (
	"context"
	"regexp"

	"github.com/flaggate/flaggate/pkg/domain"
)

const analyzerName = "regex"

// Call-site patterns over the recognized method vocabulary: snake_case,
// camelCase and PascalCase spellings, optional WithConfig and Async
// suffixes, optional plural. Each anchors on start-of-text or a
// non-identifier character so longer identifiers (myGetTreatmentHelper)
// never match, and captures the first quoted literal in the argument
// list. Quantifiers are non-greedy to keep matching linear on
// pathological input.
var callPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[^a-zA-Z])(?:get_?)?[Tt]reatments?(?:_?[Ww]ith_?[Cc]onfig(?:_?[Aa]sync)?)?\s*\([^)]*?["']([^"']+?)["']`),
	regexp.MustCompile(`(?:^|[^a-zA-Z])GetTreatments?(?:WithConfig(?:Async)?)?\s*\([^)]*?["']([^"']+?)["']`),
}

// Array and list idioms. The List<string> constructions only count inside
// a recognized evaluation call or a declaration initializer; bare bracket
// literals and Arrays.asList match anywhere, as in the structural
// analyzers' symbol tables.
var arrayPatterns = []*regexp.Regexp{
	// Bracketed list literals: ['flag1', 'flag2']
	regexp.MustCompile(`\[([^\]]*?["'][^"']+["'][^\]]*?)\]`),
	// Java: Arrays.asList("flag1", "flag2")
	regexp.MustCompile(`Arrays\.asList\s*\(([^)]*?["'][^"']+["'][^)]*?)\)`),
	// Java: new String[]{"flag1", "flag2"}
	regexp.MustCompile(`new\s+String\[\]\s*\{([^}]*?["'][^"']+["'][^}]*?)\}`),
	// C#: new List<string> { ... } inside a GetTreatment call
	regexp.MustCompile(`GetTreatments?(?:WithConfig)?(?:Async)?\s*\([^)]*new\s+List<string>\s*\{([^}]*?["'][^"']+["'][^}]*?)\}`),
	// C#: var x = new List<string> { ... }
	regexp.MustCompile(`var\s+\w+\s*=\s*new\s+List<string>\s*\{([^}]*?["'][^"']+["'][^}]*?)\}`),
	// C#: List<string> x = new List<string> { ... }
	regexp.MustCompile(`List<string>\s+\w+\s*=\s*new\s+List<string>\s*\{([^}]*?["'][^"']+["'][^}]*?)\}`),
}

var quotedString = regexp.MustCompile(`["']([^"']+)["']`)

// Analyzer is the language-agnostic, pure-text extraction fallback.
type Analyzer struct{}

// New creates the regex fallback analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Name implements extract.Analyzer.
func (a *Analyzer) Name() string { return analyzerName }

// Extract unions the first quoted literal of every recognized call site
// with every quoted element of the recognized array idioms. It never
// fails; text that matches nothing yields the empty set.
func (a *Analyzer) Extract(ctx context.Context, source []byte) domain.FlagSet {
	flags := domain.NewFlagSet()
	text := string(source)

	for _, pattern := range callPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			flags.Add(m[1])
		}
	}

	for _, pattern := range arrayPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			for _, s := range quotedString.FindAllStringSubmatch(m[1], -1) {
				flags.Add(s[1])
			}
		}
	}

	return flags
}
