package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/flaggate/flaggate/pkg/domain"
	"github.com/flaggate/flaggate/pkg/format"
)

const (
	requestTimeout = 30 * time.Second

	// The admin API rate-limits aggressively; stay well under it.
	requestsPerSecond = 5
)

// HarnessConfig configures the Harness-hosted registry client.
type HarnessConfig struct {
	// BaseURL is the API host, e.g. https://app.harness.io.
	BaseURL string
	// Token is the x-api-key credential.
	Token string
	// Account, Org and Project identify the flag project.
	Account string
	Org     string
	Project string
	// ProductionEnvironment is the environment whose definitions carry
	// the activity timestamps, default "Production".
	ProductionEnvironment string
}

// HarnessClient fetches flag data from the Harness feature-flag API.
type HarnessClient struct {
	cfg     HarnessConfig
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewHarnessClient creates a registry client.
func NewHarnessClient(cfg HarnessConfig, log *zap.Logger) *HarnessClient {
	if cfg.ProductionEnvironment == "" {
		cfg.ProductionEnvironment = "Production"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HarnessClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:     log,
	}
}

type projectResponse struct {
	Data struct {
		Project struct {
			Identifier string `json:"identifier"`
			Name       string `json:"name"`
		} `json:"project"`
	} `json:"data"`
}

type flagListResponse struct {
	Objects []domain.Flag `json:"objects"`
}

type ruleListResponse struct {
	Objects []domain.FlagRule `json:"objects"`
}

// FetchFlags verifies the project and loads flag metadata plus the
// production-environment definitions.
func (c *HarnessClient) FetchFlags(ctx context.Context) (*Snapshot, error) {
	project, err := c.fetchProject(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Info("resolved flag project", zap.String("project", project))

	meta, err := c.fetchFlagMeta(ctx)
	if err != nil {
		return nil, err
	}
	c.log.Info("loaded flag definitions", zap.Int("count", len(meta)))

	rules, err := c.fetchFlagRules(ctx)
	if err != nil {
		// A missing production environment degrades the staleness checks
		// but the tag and count checks can still run.
		c.log.Warn("production environment definitions unavailable",
			zap.String("environment", c.cfg.ProductionEnvironment),
			zap.Error(err),
		)
		rules = nil
	} else {
		c.log.Info("loaded production flag configurations", zap.Int("count", len(rules)))
	}

	return &Snapshot{Meta: meta, Rules: rules}, nil
}

func (c *HarnessClient) fetchProject(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/ng/api/projects/%s?accountIdentifier=%s&orgIdentifier=%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.Project),
		url.QueryEscape(c.cfg.Account),
		url.QueryEscape(c.cfg.Org),
	)

	var resp projectResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return "", err
	}
	if resp.Data.Project.Identifier == "" {
		return "", fmt.Errorf("registry: unexpected project response structure")
	}
	return resp.Data.Project.Name, nil
}

func (c *HarnessClient) fetchFlagMeta(ctx context.Context) (map[string]domain.Flag, error) {
	endpoint := fmt.Sprintf("%s/cf/admin/features?accountIdentifier=%s&orgIdentifier=%s&projectIdentifier=%s",
		c.cfg.BaseURL,
		url.QueryEscape(c.cfg.Account),
		url.QueryEscape(c.cfg.Org),
		url.QueryEscape(c.cfg.Project),
	)

	var resp flagListResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	meta := make(map[string]domain.Flag, len(resp.Objects))
	for _, flag := range resp.Objects {
		meta[flag.Name] = flag
	}
	return meta, nil
}

func (c *HarnessClient) fetchFlagRules(ctx context.Context) ([]domain.FlagRule, error) {
	endpoint := fmt.Sprintf("%s/cf/admin/features/definitions?accountIdentifier=%s&orgIdentifier=%s&projectIdentifier=%s&environment=%s",
		c.cfg.BaseURL,
		url.QueryEscape(c.cfg.Account),
		url.QueryEscape(c.cfg.Org),
		url.QueryEscape(c.cfg.Project),
		url.QueryEscape(c.cfg.ProductionEnvironment),
	)

	var resp ruleListResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Objects, nil
}

func (c *HarnessClient) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("registry: build request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s", format.APIError(
			"Network Connection Error",
			err.Error(),
			[]string{
				"Check internet connectivity",
				"Verify DNS resolution for the registry host",
				"Check proxy settings if behind a corporate firewall",
			},
		))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return httpStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("registry: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("registry: invalid JSON response: %w", err)
	}
	return nil
}

func httpStatusError(status int) error {
	var suggestions []string
	switch status {
	case http.StatusUnauthorized:
		suggestions = []string{
			"Verify the API token is correct and not expired",
			"Check the token has feature-flag permissions",
			"Generate a new API token if needed",
		}
	case http.StatusForbidden:
		suggestions = []string{
			"The API token lacks permissions for this project",
			"Verify the account and project identifiers are correct",
		}
	case http.StatusNotFound:
		suggestions = []string{
			"Verify the project exists and the identifiers are correct",
			"Check the project has feature flags enabled",
			"Confirm the account/org/project hierarchy",
		}
	default:
		suggestions = []string{
			"Check the registry status page for known issues",
			"Retry after a brief delay",
		}
	}
	return fmt.Errorf("%s", format.APIError(
		fmt.Sprintf("HTTP %d Error", status),
		http.StatusText(status),
		suggestions,
	))
}
