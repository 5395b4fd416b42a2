package csharp

import (
	"regexp"

	"github.com/flaggate/flaggate/pkg/domain"
)

// Language-internal regex fallback for C#. Triggered when the structural
// parse is unavailable or fails; the dispatcher-level fallback remains the
// backstop for structurally-valid files that yield nothing.
var (
	varAssignPattern = regexp.MustCompile(`string\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*=\s*["']([^"']+)["'];`)

	methodCallPattern = regexp.MustCompile(`(?:^|[^a-zA-Z])GetTreatments?(?:WithConfig)?(?:Async)?\s*\(([^)]+)\)`)

	varUsagePattern = regexp.MustCompile(`GetTreatments?(?:WithConfig)?(?:Async)?\(([^)]*)\)`)

	identifierPattern = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\b`)

	stringLiteralPattern = regexp.MustCompile(`["']([^"']+)["']`)

	listInitPatterns = []*regexp.Regexp{
		// In GetTreatment method calls.
		regexp.MustCompile(`GetTreatments?(?:WithConfig)?(?:Async)?\s*\([^)]*new\s+List<string>\s*\{([^}]+)\}`),
		// List<string> flagList = new List<string> { ... };
		regexp.MustCompile(`List<string>\s+\w+\s*=\s*new\s+List<string>\s*\{([^}]+)\}`),
		// readonly List<string> FlagList = new List<string> { ... };
		regexp.MustCompile(`readonly\s+List<string>\s+\w+\s*=\s*new\s+List<string>\s*\{([^}]+)\}`),
		// var flagList = new List<string> { ... };
		regexp.MustCompile(`var\s+\w+\s*=\s*new\s+List<string>\s*\{([^}]+)\}`),
	}

	arraysAsListPattern = regexp.MustCompile(`Arrays\.asList\s*\(([^)]+)\)`)
)

// extractRegex is the pure-text extraction path for C#.
func extractRegex(source []byte) domain.FlagSet {
	flags := domain.NewFlagSet()
	text := string(source)

	variables := make(map[string]string)
	for _, m := range varAssignPattern.FindAllStringSubmatch(text, -1) {
		variables[m[1]] = m[2]
	}

	// Every string literal inside a GetTreatment-family call.
	for _, m := range methodCallPattern.FindAllStringSubmatch(text, -1) {
		for _, s := range stringLiteralPattern.FindAllStringSubmatch(m[1], -1) {
			flags.Add(s[1])
		}
	}

	// Identifier arguments resolved through earlier string assignments.
	for _, m := range varUsagePattern.FindAllStringSubmatch(text, -1) {
		for _, id := range identifierPattern.FindAllStringSubmatch(m[1], -1) {
			if v, ok := variables[id[1]]; ok {
				flags.Add(v)
			}
		}
	}

	for _, pattern := range listInitPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			for _, s := range stringLiteralPattern.FindAllStringSubmatch(m[1], -1) {
				flags.Add(s[1])
			}
		}
	}

	for _, m := range arraysAsListPattern.FindAllStringSubmatch(text, -1) {
		for _, s := range stringLiteralPattern.FindAllStringSubmatch(m[1], -1) {
			flags.Add(s[1])
		}
	}

	return flags
}
