// Package registry fetches feature-flag metadata and per-environment
// definitions from the remote flag-management service. The extraction
// engine never talks to the registry; the runner intersects extracted
// candidates with the snapshot's known names before validating.
package registry

import (
	"context"

	"github.com/flaggate/flaggate/pkg/domain"
)

// Snapshot is the registry state for one project at fetch time.
type Snapshot struct {
	// Meta maps flag name to governance metadata (tags, creation time).
	Meta map[string]domain.Flag
	// Rules are the production-environment flag definitions, carrying
	// activity timestamps and traffic allocation.
	Rules []domain.FlagRule
}

// KnownNames returns every flag name the registry knows about, from both
// metadata and environment definitions.
func (s *Snapshot) KnownNames() domain.FlagSet {
	names := domain.NewFlagSet()
	for name := range s.Meta {
		names.Add(name)
	}
	for _, rule := range s.Rules {
		names.Add(rule.Name)
	}
	return names
}

// Rule returns the environment definition for the named flag.
func (s *Snapshot) Rule(name string) (domain.FlagRule, bool) {
	for _, rule := range s.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return domain.FlagRule{}, false
}

// Client fetches flag governance data.
type Client interface {
	// FetchFlags returns the current registry snapshot. Implementations
	// return an error only for conditions the gate cannot proceed
	// without; the CI run aborts on failure.
	FetchFlags(ctx context.Context) (*Snapshot, error)
}
