// Package validate implements the governance checks run against the flag
// candidates the extraction engine produced: removal tags, count limits
// and staleness thresholds.
package validate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/format"
)

// FlagValidator runs tag and count checks over registry-validated flags.
type FlagValidator struct {
	removalTags []string
	maxFlags    int
	log         *zap.Logger
}

// NewFlagValidator creates a validator. removalTags is a comma-separated
// tag list (empty disables the check); maxFlags of -1 disables the count
// limit.
func NewFlagValidator(removalTags string, maxFlags int, log *zap.Logger) *FlagValidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &FlagValidator{
		removalTags: splitTags(removalTags),
		maxFlags:    maxFlags,
		log:         log,
	}
}

// CheckRemovalTags fails when any flag found in code carries one of the
// configured removal tags. The error message lists the files the flag was
// found in.
func (v *FlagValidator) CheckRemovalTags(flags []string, meta map[string]domain.Flag, prov domain.Provenance) error {
	if len(v.removalTags) == 0 {
		return nil
	}

	for _, name := range flags {
		flag, ok := meta[name]
		if !ok {
			continue
		}
		for _, tag := range flag.Tags {
			if !matchesAny(tag.Name, v.removalTags) {
				continue
			}
			v.log.Debug("flag carries removal tag",
				zap.String("flag", name),
				zap.String("tag", tag.Name),
			)
			return fmt.Errorf("%s", format.FlagRemovalError(name, tag.Name, prov.Files(name)))
		}
	}
	return nil
}

// CheckFlagCount fails when the number of distinct flags in code exceeds
// the configured limit.
func (v *FlagValidator) CheckFlagCount(flags []string) error {
	if v.maxFlags < 0 {
		return nil
	}
	if len(flags) > v.maxFlags {
		return fmt.Errorf("%s", format.FlagCountError(len(flags), v.maxFlags, flags))
	}
	return nil
}

func splitTags(csv string) []string {
	var tags []string
	for _, t := range strings.Split(csv, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func matchesAny(tag string, candidates []string) bool {
	for _, c := range candidates {
		if domain.EqualTag(tag, c) {
			return true
		}
	}
	return false
}
