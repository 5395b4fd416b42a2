package domain

import "sort"

// FlagSet is a deduplicated collection of flag-name strings.
// The empty set is the normal "nothing found" result; extraction never
// reports absence as an error.
type FlagSet map[string]struct{}

// NewFlagSet creates a FlagSet containing the given names.
// Empty strings are dropped.
func NewFlagSet(names ...string) FlagSet {
	s := make(FlagSet, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts a flag name. Empty strings are ignored.
func (s FlagSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// AddAll inserts every name in the slice.
func (s FlagSet) AddAll(names []string) {
	for _, name := range names {
		s.Add(name)
	}
}

// Merge unions other into s.
func (s FlagSet) Merge(other FlagSet) {
	for name := range other {
		s[name] = struct{}{}
	}
}

// Contains reports whether the flag name is present.
func (s FlagSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of distinct flag names.
func (s FlagSet) Len() int {
	return len(s)
}

// Values returns the flag names sorted for deterministic output.
func (s FlagSet) Values() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
