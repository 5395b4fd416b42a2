package extract

import (
	"os"

	"go.uber.org/zap"
)

// Options configures an Orchestrator.
type Options struct {
	// ExcludePatterns are doublestar globs; matching paths are skipped
	// before analysis (generated code, vendored trees).
	ExcludePatterns []string

	// Fallback is the analyzer used for unknown extensions and empty
	// primary results. Nil uses the package default regex fallback.
	Fallback Analyzer

	// Logger receives per-file observability output. Nil means no logging.
	Logger *zap.Logger

	// ReadFile reads a file's content. Nil uses os.ReadFile. Injected for
	// tests and remote sources.
	ReadFile func(path string) ([]byte, error)

	// Registry is the extension-to-analyzer table. Nil uses the default
	// registry populated by the analyzer packages.
	Registry *Registry
}

// Option is a functional option for configuring an Orchestrator.
type Option func(*Options)

// WithExcludePatterns sets doublestar globs for paths to skip.
func WithExcludePatterns(patterns []string) Option {
	return func(o *Options) {
		o.ExcludePatterns = patterns
	}
}

// WithFallback sets the fallback analyzer.
func WithFallback(a Analyzer) Option {
	return func(o *Options) {
		o.Fallback = a
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithReadFile overrides how file content is read.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(o *Options) {
		o.ReadFile = fn
	}
}

// WithRegistry sets the analyzer registry.
func WithRegistry(r *Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

func applyDefaults(o *Options) {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.ReadFile == nil {
		o.ReadFile = os.ReadFile
	}
	if o.Registry == nil {
		o.Registry = DefaultRegistry()
	}
}
