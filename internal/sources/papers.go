package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"aidigest/internal/config"
	"aidigest/internal/core"
	"aidigest/internal/logger"
)

// PapersAdapter searches a papers index for the configured research
// keywords.
type PapersAdapter struct {
	cfg    config.Papers
	client *http.Client
}

// NewPapers creates a research papers adapter.
func NewPapers(cfg config.Papers) *PapersAdapter {
	return &PapersAdapter{
		cfg:    cfg,
		client: &http.Client{Timeout: parseTimeout(cfg.Timeout, 30*time.Second)},
	}
}

func (p *PapersAdapter) Name() string { return "papers" }

type paperResponse struct {
	Results []struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Abstract  string `json:"abstract"`
		URLAbs    string `json:"url_abs"`
		Published string `json:"published"`
	} `json:"results"`
}

// Fetch searches the index once per keyword and merges the results. Items
// sharing a URL across keywords are emitted once; cross-source duplicates
// are left to the deduplicator.
func (p *PapersAdapter) Fetch(ctx context.Context) ([]core.ContentItem, error) {
	if len(p.cfg.Keywords) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var items []core.ContentItem
	failed := 0
	for _, keyword := range p.cfg.Keywords {
		results, err := p.search(ctx, keyword)
		if err != nil {
			failed++
			logger.Warnf("papers: query %q failed: %v", keyword, err)
			continue
		}
		for _, item := range results {
			if seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			items = append(items, item)
		}
	}

	if failed == len(p.cfg.Keywords) {
		return nil, fmt.Errorf("all %d paper queries failed", failed)
	}
	return items, nil
}

func (p *PapersAdapter) search(ctx context.Context, keyword string) ([]core.ContentItem, error) {
	endpoint := fmt.Sprintf("%s/papers/?q=%s&items_per_page=%s",
		p.cfg.BaseURL, url.QueryEscape(keyword), strconv.Itoa(p.cfg.PapersPerQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search papers: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("papers endpoint returned status %d", resp.StatusCode)
	}

	var decoded paperResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode papers: %w", err)
	}

	items := make([]core.ContentItem, 0, len(decoded.Results))
	for _, paper := range decoded.Results {
		id := paper.ID
		if id == "" {
			id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(paper.URLAbs)).String()
		}
		items = append(items, core.ContentItem{
			ID:           "paper:" + id,
			SourceKind:   core.SourcePaper,
			Title:        paper.Title,
			Body:         paper.Abstract,
			URL:          paper.URLAbs,
			PublishedAt:  parseTime(paper.Published, "2006-01-02", time.RFC3339),
			SourceWeight: p.cfg.SourceWeight,
		})
	}
	return items, nil
}
