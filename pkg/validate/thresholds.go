package validate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/format"
)

// ThresholdConfig carries the staleness thresholds as human duration
// strings ("90d", "12h30m"). "-1" or empty disables a check.
type ThresholdConfig struct {
	// PermanentTags is a comma-separated list of tags exempting a flag
	// from every staleness check.
	PermanentTags string
	// LastModified fails flags not modified within the duration.
	LastModified string
	// LastTraffic fails flags without evaluation traffic within the
	// duration.
	LastTraffic string
	// FullRolloutLastModified is the LastModified variant applied only to
	// flags serving one treatment to 100% of traffic.
	FullRolloutLastModified string
	// FullRolloutLastTraffic is the LastTraffic variant for 100% flags.
	FullRolloutLastTraffic string
}

// ThresholdValidator runs staleness checks over registry-validated flags.
type ThresholdValidator struct {
	cfg ThresholdConfig
	log *zap.Logger
	now func() time.Time
}

// NewThresholdValidator creates a validator. The clock is injectable for
// tests via WithClock.
func NewThresholdValidator(cfg ThresholdConfig, log *zap.Logger) *ThresholdValidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ThresholdValidator{cfg: cfg, log: log, now: time.Now}
}

// WithClock overrides the validator's time source.
func (v *ThresholdValidator) WithClock(now func() time.Time) *ThresholdValidator {
	v.now = now
	return v
}

type thresholdCheck struct {
	threshold    string
	activityKind string
	fullRollout  bool
	activityTime func(domain.FlagRule) time.Time
}

// CheckAll runs every configured staleness check and returns the first
// failure. Flags carrying a permanent tag are skipped entirely.
func (v *ThresholdValidator) CheckAll(flags []string, meta map[string]domain.Flag, rules []domain.FlagRule) error {
	checks := []thresholdCheck{
		{v.cfg.LastModified, "modified", false, domain.FlagRule.LastUpdated},
		{v.cfg.LastTraffic, "receiving traffic", false, domain.FlagRule.LastTraffic},
		{v.cfg.FullRolloutLastModified, "modified", true, domain.FlagRule.LastUpdated},
		{v.cfg.FullRolloutLastTraffic, "receiving traffic", true, domain.FlagRule.LastTraffic},
	}

	for _, check := range checks {
		if err := v.runCheck(check, flags, meta, rules); err != nil {
			return err
		}
	}
	return nil
}

func (v *ThresholdValidator) runCheck(check thresholdCheck, flags []string, meta map[string]domain.Flag, rules []domain.FlagRule) error {
	window, enabled, err := ParseThreshold(check.threshold)
	if err != nil {
		// An unparseable threshold disables the check rather than failing
		// every build.
		v.log.Warn("invalid threshold, check skipped",
			zap.String("threshold", check.threshold),
			zap.Error(err),
		)
		return nil
	}
	if !enabled {
		return nil
	}

	cutoff := v.now().Add(-window)
	permanent := splitTags(v.cfg.PermanentTags)

	for _, name := range flags {
		if flag, ok := meta[name]; ok && hasAnyTag(flag, permanent) {
			v.log.Info("flag has a permanent tag, skipping staleness checks",
				zap.String("flag", name))
			continue
		}

		rule, ok := findRule(rules, name)
		if !ok {
			continue
		}
		if check.fullRollout && !rule.AtFullRollout() {
			continue
		}

		activity := check.activityTime(rule)
		if activity.IsZero() || activity.Unix() <= 0 {
			continue
		}
		if activity.Before(cutoff) {
			return fmt.Errorf("%s", format.StaleFlagError(
				name,
				check.threshold,
				activity.Format("2006-01-02 15:04:05"),
				check.activityKind,
			))
		}
	}
	return nil
}

func findRule(rules []domain.FlagRule, name string) (domain.FlagRule, bool) {
	for _, r := range rules {
		if r.Name == name {
			return r, true
		}
	}
	return domain.FlagRule{}, false
}

func hasAnyTag(flag domain.Flag, tags []string) bool {
	for _, t := range tags {
		if flag.HasTag(t) {
			return true
		}
	}
	return false
}
