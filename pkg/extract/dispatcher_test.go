package extract

import (
	"context"
	"testing"

	"github.com/flaggate/flaggate/pkg/domain"
)

type stubAnalyzer struct {
	name  string
	flags []string
	calls int
}

func (s *stubAnalyzer) Name() string { return s.name }

func (s *stubAnalyzer) Extract(ctx context.Context, source []byte) domain.FlagSet {
	s.calls++
	set := domain.NewFlagSet()
	set.AddAll(s.flags)
	return set
}

func TestDispatcher_ExtractForFile(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by extension", func(t *testing.T) {
		primary := &stubAnalyzer{name: "primary", flags: []string{"ast-flag"}}
		fallback := &stubAnalyzer{name: "fallback", flags: []string{"regex-flag"}}

		registry := NewRegistry()
		registry.Register(primary, ".js")
		d := NewDispatcher(registry, fallback, nil)

		result := d.ExtractForFile(ctx, "src/app.js", []byte("source"))

		if !result.Contains("ast-flag") {
			t.Errorf("expected primary result, got %v", result.Values())
		}
		if fallback.calls != 0 {
			t.Errorf("expected fallback untouched, got %d calls", fallback.calls)
		}
	})

	t.Run("unknown extension uses fallback", func(t *testing.T) {
		primary := &stubAnalyzer{name: "primary", flags: []string{"ast-flag"}}
		fallback := &stubAnalyzer{name: "fallback", flags: []string{"regex-flag"}}

		registry := NewRegistry()
		registry.Register(primary, ".js")
		d := NewDispatcher(registry, fallback, nil)

		result := d.ExtractForFile(ctx, "config/settings.rb", []byte("source"))

		if !result.Contains("regex-flag") {
			t.Errorf("expected fallback result, got %v", result.Values())
		}
		if primary.calls != 0 {
			t.Errorf("expected primary untouched, got %d calls", primary.calls)
		}
	})

	t.Run("empty primary result upgrades to fallback", func(t *testing.T) {
		primary := &stubAnalyzer{name: "primary"}
		fallback := &stubAnalyzer{name: "fallback", flags: []string{"regex-flag"}}

		registry := NewRegistry()
		registry.Register(primary, ".js")
		d := NewDispatcher(registry, fallback, nil)

		result := d.ExtractForFile(ctx, "src/app.js", []byte("source"))

		if primary.calls != 1 {
			t.Errorf("expected primary consulted first, got %d calls", primary.calls)
		}
		if !result.Contains("regex-flag") {
			t.Errorf("expected fallback result, got %v", result.Values())
		}
	})

	t.Run("upgrade replaces rather than merges", func(t *testing.T) {
		// A non-empty primary result is final even when the fallback
		// would have found more.
		primary := &stubAnalyzer{name: "primary", flags: []string{"ast-flag"}}
		fallback := &stubAnalyzer{name: "fallback", flags: []string{"regex-flag"}}

		registry := NewRegistry()
		registry.Register(primary, ".js")
		d := NewDispatcher(registry, fallback, nil)

		result := d.ExtractForFile(ctx, "src/app.js", []byte("source"))

		if result.Contains("regex-flag") {
			t.Errorf("fallback result leaked into primary result: %v", result.Values())
		}
		if result.Len() != 1 {
			t.Errorf("expected 1 flag, got %v", result.Values())
		}
	})

	t.Run("nil fallback defaults to regex analyzer", func(t *testing.T) {
		d := NewDispatcher(NewRegistry(), nil, nil)

		source := []byte(`client.getTreatment("nil-fallback-flag")`)
		result := d.ExtractForFile(ctx, "config/settings.rb", source)

		if !result.Contains("nil-fallback-flag") {
			t.Errorf("expected default fallback result, got %v", result.Values())
		}
	})

	t.Run("extensionless path uses fallback", func(t *testing.T) {
		fallback := &stubAnalyzer{name: "fallback", flags: []string{"regex-flag"}}
		d := NewDispatcher(NewRegistry(), fallback, nil)

		result := d.ExtractForFile(ctx, "Makefile", []byte("source"))

		if !result.Contains("regex-flag") {
			t.Errorf("expected fallback result, got %v", result.Values())
		}
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	a := &stubAnalyzer{name: "multi"}
	registry.Register(a, ".js", ".jsx")

	if registry.Find(".js") != a || registry.Find(".jsx") != a {
		t.Error("expected analyzer registered for both extensions")
	}
	if registry.Find(".py") != nil {
		t.Error("expected nil for unregistered extension")
	}

	exts := registry.Extensions()
	if len(exts) != 2 || exts[0] != ".js" || exts[1] != ".jsx" {
		t.Errorf("expected sorted extensions [.js .jsx], got %v", exts)
	}
}
