// Package runner wires the full gate pipeline: registry fetch, change
// detection, flag extraction and validation.
package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flaggate/flaggate/pkg/config"
	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract"
	_ "github.com/flaggate/flaggate/pkg/extract/all"
	"github.com/flaggate/flaggate/pkg/gitdiff"
	"github.com/flaggate/flaggate/pkg/registry"
	"github.com/flaggate/flaggate/pkg/validate"
)

// Runner executes one gate run against a commit range.
type Runner struct {
	cfg        *config.Config
	client     registry.Client
	detector   gitdiff.ChangeDetector
	extractor  *extract.Orchestrator
	flags      *validate.FlagValidator
	thresholds *validate.ThresholdValidator
	log        *zap.Logger
}

// New builds a runner from configuration. The registry client and change
// detector are constructed from the config; tests swap them via the
// exported fields on Option.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Runner{
		cfg: cfg,
		log: log,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = registry.NewHarnessClient(registry.HarnessConfig{
			BaseURL:               cfg.APIBaseURL,
			Token:                 cfg.Token,
			Account:               cfg.Account,
			Org:                   cfg.Org,
			Project:               cfg.Project,
			ProductionEnvironment: cfg.ProductionEnvironment,
		}, log)
	}
	if r.detector == nil {
		r.detector = gitdiff.NewDetector(&gitdiff.RemoteConfig{
			BaseURL: cfg.APIBaseURL,
			Token:   cfg.Token,
			Account: cfg.Account,
			Org:     cfg.Org,
			Project: cfg.Project,
			Repo:    cfg.RepoName,
		}, cfg.CommitBefore, cfg.CommitAfter, log)
	}
	if r.extractor == nil {
		r.extractor = extract.NewOrchestrator(
			extract.WithExcludePatterns(cfg.ExcludePatterns),
			extract.WithLogger(log),
		)
	}
	if r.flags == nil {
		r.flags = validate.NewFlagValidator(cfg.RemoveTheseFlagsTag, cfg.MaxFlagsInProject, log)
	}
	if r.thresholds == nil {
		r.thresholds = validate.NewThresholdValidator(validate.ThresholdConfig{
			PermanentTags:           cfg.PermanentFlagsTag,
			LastModified:            cfg.LastModifiedThreshold,
			LastTraffic:             cfg.LastTrafficThreshold,
			FullRolloutLastModified: cfg.FullRolloutLastModifiedThreshold,
			FullRolloutLastTraffic:  cfg.FullRolloutLastTrafficThreshold,
		}, log)
	}
	return r
}

// Option overrides a runner dependency, primarily for tests.
type Option func(*Runner)

// WithClient overrides the registry client.
func WithClient(c registry.Client) Option {
	return func(r *Runner) { r.client = c }
}

// WithDetector overrides the change detector.
func WithDetector(d gitdiff.ChangeDetector) Option {
	return func(r *Runner) { r.detector = d }
}

// WithOrchestrator overrides the extraction orchestrator.
func WithOrchestrator(o *extract.Orchestrator) Option {
	return func(r *Runner) { r.extractor = o }
}

// Run executes the gate: fetch the registry snapshot and analyze the
// change set concurrently, intersect candidates with registry-known
// names, then run every validation check. The first failing check's
// error is returned; a nil return means the build may proceed.
func (r *Runner) Run(ctx context.Context) error {
	var (
		snapshot *registry.Snapshot
		report   *extract.Report
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = r.client.FetchFlags(gctx)
		if err != nil {
			return fmt.Errorf("fetch registry snapshot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		files, err := r.detector.ChangedFiles(gctx)
		if err != nil {
			return fmt.Errorf("detect changed files: %w", err)
		}
		r.log.Info("change set resolved", zap.Int("files", len(files)))
		report = r.extractor.Analyze(gctx, files)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	flags := candidateFlags(report.Flags, snapshot)
	r.log.Info("flags confirmed against registry",
		zap.Int("candidates", report.Flags.Len()),
		zap.Int("confirmed", len(flags)),
		zap.Strings("names", flags),
	)

	checks := []struct {
		name string
		run  func() error
	}{
		{"removal tags", func() error {
			return r.flags.CheckRemovalTags(flags, snapshot.Meta, report.Provenance)
		}},
		{"flag count", func() error {
			return r.flags.CheckFlagCount(flags)
		}},
		{"staleness thresholds", func() error {
			return r.thresholds.CheckAll(flags, snapshot.Meta, snapshot.Rules)
		}},
	}
	for _, check := range checks {
		if err := check.run(); err != nil {
			r.log.Error("check failed", zap.String("check", check.name))
			return err
		}
		r.log.Info("check passed", zap.String("check", check.name))
	}

	r.log.Info("all feature flag checks passed", zap.Int("flags", len(flags)))
	return nil
}

// candidateFlags intersects extracted names with registry-known flags.
// Extraction over-collects; string arguments that are not flags fall
// out here.
func candidateFlags(extracted domain.FlagSet, snapshot *registry.Snapshot) []string {
	known := snapshot.KnownNames()
	var confirmed []string
	for _, name := range extracted.Values() {
		if known.Contains(name) {
			confirmed = append(confirmed, name)
		}
	}
	return confirmed
}
