package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aidigest/internal/config"
	"aidigest/internal/core"
	"aidigest/internal/logger"
)

const githubAPIBase = "https://api.github.com"

// GitHubAdapter fetches recent commits from the tracked repositories. Each
// repository carries its own source weight so flagship repositories score
// higher than the rest.
type GitHubAdapter struct {
	cfg     config.GitHub
	client  *http.Client
	baseURL string
}

// NewGitHub creates a GitHub commits adapter.
func NewGitHub(cfg config.GitHub) *GitHubAdapter {
	return &GitHubAdapter{
		cfg:     cfg,
		client:  &http.Client{Timeout: parseTimeout(cfg.Timeout, 30*time.Second)},
		baseURL: githubAPIBase,
	}
}

func (g *GitHubAdapter) Name() string { return "github" }

// commitResponse mirrors the fields we read from the GitHub commits API.
type commitResponse struct {
	SHA    string `json:"sha"`
	URL    string `json:"html_url"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// Fetch returns recent commits across all tracked repositories. A repository
// that fails is logged and skipped; the adapter fails only when every
// repository fails.
func (g *GitHubAdapter) Fetch(ctx context.Context) ([]core.ContentItem, error) {
	if len(g.cfg.Repos) == 0 {
		return nil, nil
	}

	since := time.Now().UTC().AddDate(0, 0, -g.cfg.LookbackDays)

	var items []core.ContentItem
	failed := 0
	for _, repo := range g.cfg.Repos {
		commits, err := g.fetchRepo(ctx, repo.Name, since)
		if err != nil {
			failed++
			logger.Warnf("github: repo %s failed: %v", repo.Name, err)
			continue
		}
		for _, commit := range commits {
			items = append(items, g.toItem(repo, commit))
		}
	}

	if failed == len(g.cfg.Repos) {
		return nil, fmt.Errorf("all %d repositories failed", failed)
	}
	return items, nil
}

func (g *GitHubAdapter) fetchRepo(ctx context.Context, repo string, since time.Time) ([]commitResponse, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/commits?since=%s&per_page=%s",
		g.baseURL, repo,
		url.QueryEscape(since.Format(time.RFC3339)),
		strconv.Itoa(g.cfg.CommitsLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "token "+g.cfg.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commits: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commits endpoint returned status %d", resp.StatusCode)
	}

	var commits []commitResponse
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return nil, fmt.Errorf("failed to decode commits: %w", err)
	}
	return commits, nil
}

// toItem maps a commit to a content item: the first message line becomes the
// title, the rest the body.
func (g *GitHubAdapter) toItem(repo config.GitHubRepo, commit commitResponse) core.ContentItem {
	title, body, _ := strings.Cut(commit.Commit.Message, "\n")

	sha := commit.SHA
	if len(sha) > 8 {
		sha = sha[:8]
	}

	return core.ContentItem{
		ID:           fmt.Sprintf("github:%s@%s", repo.Name, sha),
		SourceKind:   core.SourceCommit,
		Title:        strings.TrimSpace(title),
		Body:         strings.TrimSpace(body),
		URL:          commit.URL,
		PublishedAt:  commit.Commit.Author.Date.UTC(),
		SourceWeight: repo.Weight,
	}
}
