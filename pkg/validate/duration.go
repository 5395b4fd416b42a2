package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseThreshold parses a human threshold string into a duration.
// On top of time.ParseDuration units it accepts day ("90d") and week
// ("4w") suffixes and space-separated terms ("90d 10h 30m").
// The sentinel "-1" means disabled and returns ok=false.
func ParseThreshold(s string) (time.Duration, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-1" {
		return 0, false, nil
	}

	var total time.Duration
	for _, term := range strings.Fields(s) {
		d, err := parseTerm(term)
		if err != nil {
			return 0, false, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += d
	}
	return total, true, nil
}

func parseTerm(term string) (time.Duration, error) {
	if n, ok := strings.CutSuffix(term, "w"); ok {
		weeks, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, err
		}
		return time.Duration(weeks * 7 * 24 * float64(time.Hour)), nil
	}
	if n, ok := strings.CutSuffix(term, "d"); ok {
		days, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, err
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}
	return time.ParseDuration(term)
}
