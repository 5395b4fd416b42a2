package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/extract/regexfallback"
)

// FileError records a file that could not be analyzed. It is informational:
// one unreadable file never halts the batch.
type FileError struct {
	// Path is the file the error occurred on.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ErrNotText is recorded for files whose content is not valid UTF-8.
var ErrNotText = fmt.Errorf("content is not valid UTF-8 text")

// Report is the outcome of one orchestrator run. Both the flag set and the
// provenance map are rebuilt from scratch on every run.
type Report struct {
	// Flags is the deduplicated union of all per-file results.
	Flags domain.FlagSet
	// Provenance maps each flag to the files it was found in.
	Provenance domain.Provenance
	// Skipped lists files that could not be read or decoded.
	Skipped []FileError
}

// Orchestrator iterates changed files, dispatches each to an analyzer and
// aggregates the results. Processing is sequential: change lists are
// CI-diff-sized, and per-file isolation matters more than throughput here.
type Orchestrator struct {
	dispatcher *Dispatcher
	options    *Options
	log        *zap.Logger
}

// NewOrchestrator creates an orchestrator with the given options.
func NewOrchestrator(opts ...Option) *Orchestrator {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)
	if options.Fallback == nil {
		options.Fallback = regexfallback.New()
	}

	return &Orchestrator{
		dispatcher: NewDispatcher(options.Registry, options.Fallback, options.Logger),
		options:    options,
		log:        options.Logger,
	}
}

// Analyze reads every path, extracts flag candidates per file and returns
// the aggregated report. Unreadable or non-text files are logged, recorded
// in Report.Skipped and skipped; the batch always completes.
func (o *Orchestrator) Analyze(ctx context.Context, paths []string) *Report {
	report := &Report{
		Flags:      domain.NewFlagSet(),
		Provenance: domain.NewProvenance(),
	}

	for _, path := range paths {
		if o.excluded(path) {
			o.log.Debug("path excluded", zap.String("file", path))
			continue
		}

		content, err := o.options.ReadFile(path)
		if err != nil {
			o.log.Warn("could not read file", zap.String("file", path), zap.Error(err))
			report.Skipped = append(report.Skipped, FileError{Path: path, Err: err})
			continue
		}
		if !utf8.Valid(content) {
			o.log.Warn("skipping non-text file", zap.String("file", path))
			report.Skipped = append(report.Skipped, FileError{Path: path, Err: ErrNotText})
			continue
		}

		flags := o.dispatcher.ExtractForFile(ctx, path, content)
		report.Flags.Merge(flags)
		for _, flag := range flags.Values() {
			report.Provenance.Record(flag, path)
		}
	}

	o.log.Info("flag extraction complete",
		zap.Int("files", len(paths)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("flags", report.Flags.Len()),
		zap.Strings("names", report.Flags.Values()),
	)

	return report
}

func (o *Orchestrator) excluded(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range o.options.ExcludePatterns {
		matched, err := doublestar.Match(pattern, normalized)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
