package domain

import (
	"strings"
	"time"
)

// EqualTag compares tag names case-insensitively with surrounding
// whitespace ignored.
func EqualTag(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Tag is a label attached to a flag in the registry.
type Tag struct {
	Name string `json:"name"`
}

// Flag is registry metadata for a single feature flag.
type Flag struct {
	// Name is the flag identifier as it appears in code.
	Name string `json:"name"`
	// Tags are governance labels (removal markers, permanence markers).
	Tags []Tag `json:"tags"`
	// CreationTime is when the flag was created, unix seconds.
	CreationTime int64 `json:"creationTime"`
}

// HasTag reports whether the flag carries the named tag, matched
// case-insensitively by [EqualTag].
func (f Flag) HasTag(name string) bool {
	for _, t := range f.Tags {
		if EqualTag(t.Name, name) {
			return true
		}
	}
	return false
}

// FlagRule is the per-environment definition of a flag, including the
// traffic allocation used to decide whether a flag is at full rollout.
type FlagRule struct {
	Name             string      `json:"name"`
	Environment      string      `json:"environment"`
	LastUpdateTime   int64       `json:"lastUpdateTime"`        // unix seconds
	LastTrafficTime  int64       `json:"lastTrafficReceivedAt"` // unix seconds
	DefaultTreatment string      `json:"defaultTreatment"`
	Treatments       []Treatment `json:"treatments"`
}

// Treatment is one variant of a flag with its traffic percentage.
type Treatment struct {
	Name       string `json:"name"`
	Allocation int    `json:"allocation"` // percent of traffic, 0-100
}

// AtFullRollout reports whether a single treatment receives all traffic.
func (r FlagRule) AtFullRollout() bool {
	for _, t := range r.Treatments {
		if t.Allocation == 100 {
			return true
		}
	}
	return false
}

// LastUpdated returns the last modification time of the rule.
func (r FlagRule) LastUpdated() time.Time {
	return time.Unix(r.LastUpdateTime, 0)
}

// LastTraffic returns the last time the flag received evaluation traffic.
func (r FlagRule) LastTraffic() time.Time {
	return time.Unix(r.LastTrafficTime, 0)
}
