package format

import (
	"strings"
	"testing"
)

func TestFlagRemovalError(t *testing.T) {
	msg := FlagRemovalError("doomed-flag", "remove_me", []string{"src/app.js", "src/other.js"})

	for _, want := range []string{"FEATURE FLAG REMOVAL REQUIRED", "doomed-flag", "remove_me", "src/app.js", "src/other.js"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message:\n%s", want, msg)
		}
	}
}

func TestFlagRemovalError_NoFiles(t *testing.T) {
	msg := FlagRemovalError("doomed-flag", "remove_me", nil)

	if !strings.Contains(msg, "git grep") {
		t.Errorf("expected git grep hint when no files recorded:\n%s", msg)
	}
}

func TestFlagCountError(t *testing.T) {
	msg := FlagCountError(3, 2, []string{"charlie", "alpha", "bravo"})

	for _, want := range []string{"COUNT LIMIT EXCEEDED", "Current flags: 3", "Maximum allowed: 2", "Excess: 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message:\n%s", want, msg)
		}
	}
	// Flags listed sorted.
	if strings.Index(msg, "alpha") > strings.Index(msg, "bravo") {
		t.Error("expected sorted flag list")
	}
}

func TestStaleFlagError(t *testing.T) {
	msg := StaleFlagError("old-flag", "90d", "2024-01-01 00:00:00", "modified")

	for _, want := range []string{"STALE FEATURE FLAG", "old-flag", "90d", "2024-01-01"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message:\n%s", want, msg)
		}
	}
}

func TestAPIError(t *testing.T) {
	msg := APIError("HTTP 401 Error", "Unauthorized", []string{"Check the token", "Rotate credentials"})

	if !strings.Contains(msg, "1. Check the token") || !strings.Contains(msg, "2. Rotate credentials") {
		t.Errorf("expected numbered suggestions:\n%s", msg)
	}
}

func TestConfigurationError(t *testing.T) {
	msg := ConfigurationError([]string{"REQUIRED_VAR"}, []string{"OPTIONAL_VAR (extra checks)"})

	for _, want := range []string{"CONFIGURATION ERROR", "REQUIRED_VAR", "OPTIONAL_VAR"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message:\n%s", want, msg)
		}
	}
}
