// Package format renders actionable multi-line failure messages for the
// CI gate. Checks fail builds, so every message names the offending flag,
// where it was found and what to do about it.
package format

import (
	"fmt"
	"sort"
	"strings"
)

const (
	ruleTop = "╔══════════════════════════════════════════════════════════════════════"
	ruleMid = "╠══════════════════════════════════════════════════════════════════════"
	ruleBot = "╚══════════════════════════════════════════════════════════════════════"
)

// FlagRemovalError formats the failure for a flag carrying a removal tag.
func FlagRemovalError(flagName, tagName string, files []string) string {
	var b strings.Builder
	writeHeader(&b, "FEATURE FLAG REMOVAL REQUIRED")
	fmt.Fprintf(&b, "║ Flag: %q\n", flagName)
	fmt.Fprintf(&b, "║ Issue: flag has removal tag %q\n", tagName)
	b.WriteString("║\n║ Required actions:\n")
	fmt.Fprintf(&b, "║   1. Remove all references to %q from your code\n", flagName)
	b.WriteString("║   2. Clean up related configuration and documentation\n")
	b.WriteString("║   3. Consider user impact and rollout strategy\n")
	b.WriteString("║\n║ Files containing this flag:\n")
	if len(files) > 0 {
		for _, path := range files {
			fmt.Fprintf(&b, "║   • %s\n", path)
		}
	} else {
		fmt.Fprintf(&b, "║   • (run: git grep -n %q)\n", flagName)
	}
	b.WriteString(ruleBot)
	return b.String()
}

// FlagCountError formats the failure for exceeding the flag count limit.
func FlagCountError(current, maxAllowed int, flags []string) string {
	sorted := append([]string(nil), flags...)
	sort.Strings(sorted)

	var b strings.Builder
	writeHeader(&b, "FEATURE FLAG COUNT LIMIT EXCEEDED")
	fmt.Fprintf(&b, "║ Current flags: %d\n", current)
	fmt.Fprintf(&b, "║ Maximum allowed: %d\n", maxAllowed)
	fmt.Fprintf(&b, "║ Excess: %d\n", current-maxAllowed)
	b.WriteString("║\n║ Flags in code:\n")
	for _, flag := range sorted {
		fmt.Fprintf(&b, "║   • %s\n", flag)
	}
	b.WriteString("║\n║ Strategies to reduce flag count:\n")
	b.WriteString("║   • Remove flags at 100% rollout\n")
	b.WriteString("║   • Combine similar feature toggles\n")
	b.WriteString("║   • Remove concluded experiment flags\n")
	b.WriteString(ruleBot)
	return b.String()
}

// StaleFlagError formats the failure for a flag past an activity threshold.
// activityKind is "modified" or "receiving traffic".
func StaleFlagError(flagName, threshold, lastActivity, activityKind string) string {
	var b strings.Builder
	writeHeader(&b, "STALE FEATURE FLAG DETECTED")
	fmt.Fprintf(&b, "║ Flag: %q\n", flagName)
	fmt.Fprintf(&b, "║ Issue: flag hasn't been %s in %s\n", activityKind, threshold)
	fmt.Fprintf(&b, "║ Last activity: %s\n", lastActivity)
	b.WriteString("║\n║ Required actions:\n")
	b.WriteString("║   1. Review whether this flag is still needed\n")
	b.WriteString("║   2. If needed, add a permanent tag to exempt it from stale checks\n")
	b.WriteString("║   3. If not needed, plan its removal\n")
	b.WriteString(ruleBot)
	return b.String()
}

// APIError formats a registry connectivity failure with troubleshooting
// steps.
func APIError(errorType, details string, suggestions []string) string {
	var b strings.Builder
	writeHeader(&b, "FLAG REGISTRY API ERROR")
	fmt.Fprintf(&b, "║ Error type: %s\n", errorType)
	fmt.Fprintf(&b, "║ Details: %s\n", details)
	b.WriteString("║\n║ Troubleshooting steps:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(&b, "║   %d. %s\n", i+1, suggestion)
	}
	b.WriteString(ruleBot)
	return b.String()
}

// ConfigurationError formats missing required settings, with the optional
// settings listed for discoverability.
func ConfigurationError(missing, optional []string) string {
	var b strings.Builder
	writeHeader(&b, "CONFIGURATION ERROR")
	b.WriteString("║ Missing required environment variables:\n")
	for _, name := range missing {
		fmt.Fprintf(&b, "║   • %s\n", name)
	}
	if len(optional) > 0 {
		b.WriteString("║\n║ Optional settings that enhance functionality:\n")
		for _, name := range optional {
			fmt.Fprintf(&b, "║   • %s\n", name)
		}
	}
	b.WriteString(ruleBot)
	return b.String()
}

func writeHeader(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(ruleTop)
	b.WriteString("\n║ ")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(ruleMid)
	b.WriteString("\n")
}
