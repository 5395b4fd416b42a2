// Command flaggate is the CI gate: it scans changed files for feature
// flag references and fails the build when a referenced flag violates
// governance policy.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flaggate/flaggate/pkg/config"
	"github.com/flaggate/flaggate/pkg/runner"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Check failures carry their own formatted report; print it
		// without the usage banner.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "flaggate",
		Short:         "CI gate enforcing feature flag governance on changed files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Debug {
				debug = true
			}

			log, err := newLogger(debug)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			log.Info("starting feature flag gate",
				zap.String("version", version),
				zap.String("project", cfg.Project),
				zap.String("range", cfg.CommitBefore+".."+cfg.CommitAfter),
			)

			if err := runner.New(cfg, log).Run(cmd.Context()); err != nil {
				if errors.Is(err, config.ErrInvalidConfig) {
					return err
				}
				log.Error("feature flag gate failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
