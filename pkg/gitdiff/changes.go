// Package gitdiff supplies the list of files changed between two commit
// references, either through the remote code API or local git tooling.
package gitdiff

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ChangeDetector lists the file paths changed between two commits.
type ChangeDetector interface {
	ChangedFiles(ctx context.Context) ([]string, error)
}

// RemoteConfig configures the code-API diff endpoint.
type RemoteConfig struct {
	BaseURL string
	Token   string
	Account string
	Org     string
	Project string
	// Repo is the repository name as known to the code API.
	Repo string
}

// Detector resolves changed files via the remote code API with a local
// git fallback. A failure of both is non-fatal: the gate proceeds with an
// empty change list, and downstream checks simply see no flags.
type Detector struct {
	remote *RemoteConfig
	before string
	after  string
	http   *http.Client
	log    *zap.Logger

	// runGit is injectable for tests.
	runGit func(ctx context.Context, args ...string) ([]byte, error)
}

// NewDetector creates a change detector for the commit range. remote may
// be nil to use local git only.
func NewDetector(remote *RemoteConfig, before, after string, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{
		remote: remote,
		before: before,
		after:  after,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    log,
		runGit: runGitCommand,
	}
}

// ChangedFiles returns the paths changed between the configured commits.
func (d *Detector) ChangedFiles(ctx context.Context) ([]string, error) {
	if d.remote != nil && d.remote.Repo != "" && d.remote.Token != "" {
		files, err := d.fetchRemoteDiff(ctx)
		if err == nil {
			d.log.Info("resolved changed files via code API",
				zap.Int("count", len(files)),
				zap.String("range", d.before+"..."+d.after),
			)
			return files, nil
		}
		d.log.Warn("code API diff failed, falling back to local git", zap.Error(err))
	}

	files, err := d.localDiff(ctx)
	if err != nil {
		d.log.Warn("could not determine changed files, proceeding with empty change list", zap.Error(err))
		return nil, nil
	}

	d.log.Info("resolved changed files via local git",
		zap.Int("count", len(files)),
		zap.String("range", d.before+"..."+d.after),
	)
	return files, nil
}

type diffEntry struct {
	Path string `json:"path"`
}

type diffResponse struct {
	Files []diffEntry `json:"files"`
}

func (d *Detector) fetchRemoteDiff(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("%s/code/api/v1/repos/%s/diff/%s...%s?accountIdentifier=%s&orgIdentifier=%s&projectIdentifier=%s",
		d.remote.BaseURL,
		url.PathEscape(d.remote.Repo),
		url.PathEscape(d.before),
		url.PathEscape(d.after),
		url.QueryEscape(d.remote.Account),
		url.QueryEscape(d.remote.Org),
		url.QueryEscape(d.remote.Project),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", d.remote.Token)

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("diff endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// The endpoint answers either a bare array or an object with a
	// "files" key depending on API version.
	var entries []diffEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		var wrapped diffResponse
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("unexpected diff response: %w", err)
		}
		entries = wrapped.Files
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Path != "" {
			files = append(files, e.Path)
		}
	}
	return files, nil
}

func (d *Detector) localDiff(ctx context.Context) ([]string, error) {
	out, err := d.runGit(ctx, "diff", "--name-only", d.before, d.after)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

func runGitCommand(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}
