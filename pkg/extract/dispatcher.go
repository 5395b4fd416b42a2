package extract

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract/regexfallback"
)

// Dispatcher routes a file to its language analyzer by extension and
// backstops every route with the regex fallback.
//
// Two fallback tiers exist on purpose: a language analyzer may swallow its
// own parse failure and return empty without having tried a regex path, so
// the dispatcher upgrades any empty primary result to the fallback's
// result. The upgrade replaces the empty result; it never merges.
type Dispatcher struct {
	registry *Registry
	fallback Analyzer
	log      *zap.Logger
}

// NewDispatcher creates a dispatcher over the given registry. A nil
// registry uses the default registry; a nil fallback or logger uses the
// package defaults.
func NewDispatcher(registry *Registry, fallback Analyzer, log *zap.Logger) *Dispatcher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if fallback == nil {
		fallback = regexfallback.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		fallback: fallback,
		log:      log,
	}
}

// ExtractForFile returns the flag-name candidates for one file. The method
// that produced the result is recorded through the logger only; callers
// receive just the set.
func (d *Dispatcher) ExtractForFile(ctx context.Context, path string, source []byte) domain.FlagSet {
	analyzer := d.registry.Find(filepath.Ext(path))

	if analyzer == nil {
		result := d.fallback.Extract(ctx, source)
		d.logResult(path, d.fallback.Name(), result)
		return result
	}

	result := analyzer.Extract(ctx, source)
	method := analyzer.Name()

	if result.Len() == 0 {
		result = d.fallback.Extract(ctx, source)
		method = analyzer.Name() + "->" + d.fallback.Name()
	}

	d.logResult(path, method, result)
	return result
}

func (d *Dispatcher) logResult(path, method string, flags domain.FlagSet) {
	if flags.Len() > 0 {
		d.log.Debug("extracted flags",
			zap.String("file", path),
			zap.String("method", method),
			zap.Strings("flags", flags.Values()),
		)
		return
	}
	d.log.Debug("no flags found",
		zap.String("file", path),
		zap.String("method", method),
	)
}
