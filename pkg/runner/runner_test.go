package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaggate/flaggate/pkg/config"
	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract"
	"github.com/flaggate/flaggate/pkg/registry"
)

type fakeClient struct {
	snapshot *registry.Snapshot
	err      error
}

func (f *fakeClient) FetchFlags(ctx context.Context) (*registry.Snapshot, error) {
	return f.snapshot, f.err
}

type fakeDetector struct {
	files []string
	err   error
}

func (f *fakeDetector) ChangedFiles(ctx context.Context) ([]string, error) {
	return f.files, f.err
}

type fixedAnalyzer struct {
	flags []string
}

func (f *fixedAnalyzer) Name() string { return "fixed" }

func (f *fixedAnalyzer) Extract(ctx context.Context, source []byte) domain.FlagSet {
	set := domain.NewFlagSet()
	set.AddAll(f.flags)
	return set
}

func testConfig() *config.Config {
	return &config.Config{
		CommitBefore:                     "abc123",
		CommitAfter:                      "def456",
		APIBaseURL:                       "https://example.invalid",
		Token:                            "token",
		Account:                          "acct",
		Project:                          "proj",
		MaxFlagsInProject:                -1,
		LastModifiedThreshold:            "-1",
		LastTrafficThreshold:             "-1",
		FullRolloutLastModifiedThreshold: "-1",
		FullRolloutLastTrafficThreshold:  "-1",
	}
}

func testOrchestrator(flags ...string) *extract.Orchestrator {
	return extract.NewOrchestrator(
		extract.WithFallback(&fixedAnalyzer{flags: flags}),
		extract.WithRegistry(extract.NewRegistry()),
		extract.WithReadFile(func(path string) ([]byte, error) {
			return []byte("source"), nil
		}),
	)
}

func snapshotWith(flags ...domain.Flag) *registry.Snapshot {
	meta := make(map[string]domain.Flag, len(flags))
	for _, f := range flags {
		meta[f.Name] = f
	}
	return &registry.Snapshot{Meta: meta}
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("passes when no check fails", func(t *testing.T) {
		r := New(testConfig(), nil,
			WithClient(&fakeClient{snapshot: snapshotWith(domain.Flag{Name: "checkout-flow"})}),
			WithDetector(&fakeDetector{files: []string{"src/app.js"}}),
			WithOrchestrator(testOrchestrator("checkout-flow")),
		)

		assert.NoError(t, r.Run(ctx))
	})

	t.Run("unknown extracted names ignored", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxFlagsInProject = 0

		r := New(cfg, nil,
			WithClient(&fakeClient{snapshot: snapshotWith()}),
			WithDetector(&fakeDetector{files: []string{"src/app.js"}}),
			WithOrchestrator(testOrchestrator("user-123", "not-a-flag")),
		)

		// A zero-flag limit passes because nothing survives the
		// registry intersection.
		assert.NoError(t, r.Run(ctx))
	})

	t.Run("removal tag fails the gate", func(t *testing.T) {
		cfg := testConfig()
		cfg.RemoveTheseFlagsTag = "remove_me"

		r := New(cfg, nil,
			WithClient(&fakeClient{snapshot: snapshotWith(domain.Flag{
				Name: "doomed-flag",
				Tags: []domain.Tag{{Name: "remove_me"}},
			})}),
			WithDetector(&fakeDetector{files: []string{"src/app.js"}}),
			WithOrchestrator(testOrchestrator("doomed-flag")),
		)

		err := r.Run(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "doomed-flag")
	})

	t.Run("flag count limit fails the gate", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxFlagsInProject = 1

		r := New(cfg, nil,
			WithClient(&fakeClient{snapshot: snapshotWith(
				domain.Flag{Name: "flag-one"},
				domain.Flag{Name: "flag-two"},
			)}),
			WithDetector(&fakeDetector{files: []string{"src/app.js"}}),
			WithOrchestrator(testOrchestrator("flag-one", "flag-two")),
		)

		require.Error(t, r.Run(ctx))
	})

	t.Run("registry failure aborts", func(t *testing.T) {
		r := New(testConfig(), nil,
			WithClient(&fakeClient{err: errors.New("HTTP 401")}),
			WithDetector(&fakeDetector{files: []string{"src/app.js"}}),
			WithOrchestrator(testOrchestrator()),
		)

		err := r.Run(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch registry snapshot")
	})

	t.Run("diff failure aborts", func(t *testing.T) {
		r := New(testConfig(), nil,
			WithClient(&fakeClient{snapshot: snapshotWith()}),
			WithDetector(&fakeDetector{err: fmt.Errorf("bad object abc123")}),
			WithOrchestrator(testOrchestrator()),
		)

		err := r.Run(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "detect changed files")
	})

	t.Run("empty change set passes", func(t *testing.T) {
		r := New(testConfig(), nil,
			WithClient(&fakeClient{snapshot: snapshotWith(domain.Flag{Name: "any-flag"})}),
			WithDetector(&fakeDetector{}),
			WithOrchestrator(testOrchestrator()),
		)

		assert.NoError(t, r.Run(ctx))
	})
}
