// Package extract implements the multi-language flag-extraction engine:
// per-language structural analyzers, a language-agnostic regex fallback,
// extension-based dispatch, and per-run aggregation with provenance.
package extract

import (
	"context"
	"sort"
	"sync"

	"github.com/flaggate/flaggate/pkg/domain"
)

// Analyzer locates flag-evaluation call sites in one source text and
// resolves them to literal flag names.
//
// Extract never returns an error: malformed source, a missing structural
// parser, or any internal failure yields the empty set. Implementations
// deliberately collect every argument of a recognized call, including
// non-flag strings such as user keys; the governance layer filters the
// candidate set against registry-known flag names.
type Analyzer interface {
	// Name identifies the analyzer in logs (e.g. "javascript-ast").
	Name() string
	// Extract returns the deduplicated flag-name candidates found in source.
	Extract(ctx context.Context, source []byte) domain.FlagSet
}

// Registry maps file extensions to analyzers.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]Analyzer
}

// NewRegistry creates an empty analyzer registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Analyzer)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that analyzer
// packages populate from init.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register binds the analyzer to each extension in the default registry.
// Extensions include the leading dot and are matched case-sensitively.
func Register(a Analyzer, extensions ...string) {
	defaultRegistry.Register(a, extensions...)
}

// Register binds the analyzer to each extension.
func (r *Registry) Register(a Analyzer, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range extensions {
		r.byExt[ext] = a
	}
}

// Find returns the analyzer registered for the extension, or nil.
func (r *Registry) Find(ext string) Analyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[ext]
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
