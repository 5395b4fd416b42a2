// Package config loads gate configuration from the CI environment, with
// an optional TOML settings file merged beneath the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/flaggate/flaggate/pkg/format"
)

// Environment variable names follow the Drone/Harness plugin convention.
const (
	EnvCommitBefore = "DRONE_COMMIT_BEFORE"
	EnvCommitAfter  = "DRONE_COMMIT_AFTER"
	EnvRepoName     = "DRONE_REPO_NAME"

	EnvAPIBaseURL = "API_BASE_URL"
	EnvToken      = "PLUGIN_HARNESS_API_TOKEN"
	EnvAccount    = "HARNESS_ACCOUNT_ID"
	EnvOrg        = "HARNESS_ORG_ID"
	EnvProject    = "HARNESS_PROJECT_ID"

	EnvProductionEnvironment = "PLUGIN_PRODUCTION_ENVIRONMENT_NAME"
	EnvPermanentFlagsTag     = "PLUGIN_TAG_PERMANENT_FLAGS"
	EnvRemoveTheseFlagsTag   = "PLUGIN_TAG_REMOVE_THESE_FLAGS"
	EnvMaxFlagsInProject     = "PLUGIN_MAX_FLAGS_IN_PROJECT"

	EnvLastModifiedThreshold            = "PLUGIN_FLAG_LAST_MODIFIED_THRESHOLD"
	EnvLastTrafficThreshold             = "PLUGIN_FLAG_LAST_TRAFFIC_THRESHOLD"
	EnvFullRolloutLastModifiedThreshold = "PLUGIN_FLAG_AT_100_PERCENT_LAST_MODIFIED_THRESHOLD"
	EnvFullRolloutLastTrafficThreshold  = "PLUGIN_FLAG_AT_100_PERCENT_LAST_TRAFFIC_THRESHOLD"

	EnvExcludePatterns = "PLUGIN_EXCLUDE_PATTERNS"
	EnvDebug           = "PLUGIN_DEBUG"
	EnvConfigFile      = "PLUGIN_CONFIG_FILE"
)

// Config is the full gate configuration.
type Config struct {
	CommitBefore string `toml:"commit_before" validate:"required"`
	CommitAfter  string `toml:"commit_after" validate:"required"`
	RepoName     string `toml:"repo_name"`

	APIBaseURL string `toml:"api_base_url" validate:"required,url"`
	Token      string `toml:"api_token" validate:"required"`
	Account    string `toml:"account_id" validate:"required"`
	Org        string `toml:"org_id"`
	Project    string `toml:"project_id" validate:"required"`

	ProductionEnvironment string `toml:"production_environment"`
	PermanentFlagsTag     string `toml:"permanent_flags_tag"`
	RemoveTheseFlagsTag   string `toml:"remove_these_flags_tag"`
	MaxFlagsInProject     int    `toml:"max_flags_in_project"`

	LastModifiedThreshold            string `toml:"flag_last_modified_threshold"`
	LastTrafficThreshold             string `toml:"flag_last_traffic_threshold"`
	FullRolloutLastModifiedThreshold string `toml:"flag_at_100_percent_last_modified_threshold"`
	FullRolloutLastTrafficThreshold  string `toml:"flag_at_100_percent_last_traffic_threshold"`

	// ExcludePatterns are doublestar globs skipped during extraction.
	ExcludePatterns []string `toml:"exclude_patterns"`

	Debug bool `toml:"debug"`
}

// ErrInvalidConfig wraps validation failures; the error message carries
// the formatted missing-variable report.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Load builds the configuration: defaults, then the optional TOML file
// named by PLUGIN_CONFIG_FILE, then environment overrides, then
// validation.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		CommitBefore:                     "HEAD",
		CommitAfter:                      "HEAD",
		APIBaseURL:                       "https://app.harness.io",
		ProductionEnvironment:            "Production",
		MaxFlagsInProject:                -1,
		LastModifiedThreshold:            "-1",
		LastTrafficThreshold:             "-1",
		FullRolloutLastModifiedThreshold: "-1",
		FullRolloutLastTrafficThreshold:  "-1",
	}
}

func mergeFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read settings file %s: %w", path, err)
	}
	if err := toml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("config: parse settings file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.CommitBefore, EnvCommitBefore)
	setString(&cfg.CommitAfter, EnvCommitAfter)
	setString(&cfg.RepoName, EnvRepoName)
	setString(&cfg.APIBaseURL, EnvAPIBaseURL)
	setString(&cfg.Token, EnvToken)
	setString(&cfg.Account, EnvAccount)
	setString(&cfg.Org, EnvOrg)
	setString(&cfg.Project, EnvProject)
	setString(&cfg.ProductionEnvironment, EnvProductionEnvironment)
	setString(&cfg.PermanentFlagsTag, EnvPermanentFlagsTag)
	setString(&cfg.RemoveTheseFlagsTag, EnvRemoveTheseFlagsTag)
	setString(&cfg.LastModifiedThreshold, EnvLastModifiedThreshold)
	setString(&cfg.LastTrafficThreshold, EnvLastTrafficThreshold)
	setString(&cfg.FullRolloutLastModifiedThreshold, EnvFullRolloutLastModifiedThreshold)
	setString(&cfg.FullRolloutLastTrafficThreshold, EnvFullRolloutLastTrafficThreshold)

	if v := os.Getenv(EnvMaxFlagsInProject); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFlagsInProject = n
		}
	}
	if v := os.Getenv(EnvExcludePatterns); v != "" {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		cfg.ExcludePatterns = patterns
	}
	if v := os.Getenv(EnvDebug); v != "" {
		cfg.Debug = v == "true" || v == "1" || v == "yes"
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks required settings. "HEAD" commit refs count as unset:
// the default means the CI system did not populate them.
func (c *Config) Validate() error {
	var missing []string

	if c.Token == "" || c.Token == "none" {
		missing = append(missing, EnvToken)
	}
	if c.Account == "" || c.Account == "none" {
		missing = append(missing, EnvAccount)
	}
	if c.Project == "" || c.Project == "none" {
		missing = append(missing, EnvProject)
	}
	if c.CommitBefore == "HEAD" {
		missing = append(missing, EnvCommitBefore)
	}
	if c.CommitAfter == "HEAD" {
		missing = append(missing, EnvCommitAfter)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w\n%s", ErrInvalidConfig,
			format.ConfigurationError(missing, c.optionalHints()))
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// optionalHints lists unset optional settings so the CI log tells users
// what else the gate can do.
func (c *Config) optionalHints() []string {
	var hints []string
	if c.RemoveTheseFlagsTag == "" {
		hints = append(hints, EnvRemoveTheseFlagsTag+" (tag-based flag removal)")
	}
	if c.PermanentFlagsTag == "" {
		hints = append(hints, EnvPermanentFlagsTag+" (exclude flags from stale checks)")
	}
	if c.MaxFlagsInProject == -1 {
		hints = append(hints, EnvMaxFlagsInProject+" (flag count limits)")
	}
	if c.LastModifiedThreshold == "-1" {
		hints = append(hints, EnvLastModifiedThreshold+" (stale flag detection)")
	}
	if c.LastTrafficThreshold == "-1" {
		hints = append(hints, EnvLastTrafficThreshold+" (unused flag detection)")
	}
	if c.FullRolloutLastModifiedThreshold == "-1" {
		hints = append(hints, EnvFullRolloutLastModifiedThreshold+" (100% rollout staleness)")
	}
	if c.FullRolloutLastTrafficThreshold == "-1" {
		hints = append(hints, EnvFullRolloutLastTrafficThreshold+" (100% rollout traffic)")
	}
	return hints
}
