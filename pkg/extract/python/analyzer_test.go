package python

import (
	"context"
	"reflect"
	"sort"
	"testing"
)

func TestAnalyzer_Extract(t *testing.T) {
	a := New()
	ctx := context.Background()

	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			name:     "snake_case method with string literal",
			source:   `treatment = client.get_treatment("new-checkout-flow")`,
			expected: []string{"new-checkout-flow"},
		},
		{
			name:     "camelCase spelling also matched",
			source:   `treatment = client.getTreatment("ported-flag")`,
			expected: []string{"ported-flag"},
		},
		{
			name:     "bare function call matched",
			source:   `treatment = get_treatment("module-level-flag")`,
			expected: []string{"module-level-flag"},
		},
		{
			name: "variable resolved to string",
			source: `
FLAG_NAME = "dark-mode"
treatment = client.get_treatment(FLAG_NAME)
`,
			expected: []string{"dark-mode"},
		},
		{
			name: "list variable resolved to all elements",
			source: `
FLAG_LIST = ["flag-one", "flag-two"]
treatments = client.get_treatments(FLAG_LIST)
`,
			expected: []string{"flag-one", "flag-two"},
		},
		{
			name:     "inline list argument",
			source:   `client.get_treatments(["alpha", "beta"])`,
			expected: []string{"alpha", "beta"},
		},
		{
			name:     "all arguments captured including user key",
			source:   `t = client.get_treatment("user-123", "checkout-flow")`,
			expected: []string{"user-123", "checkout-flow"},
		},
		{
			name: "unrelated calls excluded",
			source: `
user = api.get_user("user-42")
print("hello")
`,
			expected: nil,
		},
		{
			name:     "with_config variant",
			source:   `result = client.get_treatment_with_config("config-flag")`,
			expected: []string{"config-flag"},
		},
		{
			name: "single and double quotes",
			source: `
client.get_treatment('single-quoted')
client.get_treatment("double-quoted")
`,
			expected: []string{"single-quoted", "double-quoted"},
		},
		{
			name: "nested lists are not recursed into",
			source: `client.get_treatments(["outer", ["inner-one"]])`,
			expected: []string{"outer"},
		},
		{
			name: "tuple assignment ignored",
			source: `
a, b = "one", "two"
client.get_treatment(a)
`,
			expected: nil,
		},
		{
			name:     "empty source",
			source:   "",
			expected: nil,
		},
		{
			name: "malformed source still yields partial results",
			source: `
client.get_treatment("valid-flag")
def broken(:
`,
			expected: []string{"valid-flag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := a.Extract(ctx, []byte(tt.source))

			got := flags.Values()
			if len(got) == 0 {
				got = nil
			}
			want := append([]string(nil), tt.expected...)
			sort.Strings(want)
			if len(want) == 0 {
				want = nil
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected flags %v, got %v", want, got)
			}
		})
	}
}

func TestAnalyzer_Name(t *testing.T) {
	if got := New().Name(); got != "python-ast" {
		t.Errorf("expected name 'python-ast', got %q", got)
	}
}
