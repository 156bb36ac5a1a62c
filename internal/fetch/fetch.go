// Package fetch enriches news items whose feed description is too short to
// score meaningfully by extracting the main text of the linked page.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"aidigest/internal/core"
	"aidigest/internal/logger"
)

// contentSelectors are tried in order when looking for the main content
// area of an article page.
var contentSelectors = []string{
	"article", "[role=main]", ".article-content", ".post-content",
	".entry-content", ".story-body", "main",
}

// minUsefulBody is the body length below which enrichment is attempted, and
// the extracted length below which the extraction is considered a miss.
const minUsefulBody = 200

// Enricher fetches article pages and extracts their main text.
type Enricher struct {
	client    *http.Client
	userAgent string
}

// NewEnricher creates an article content enricher.
func NewEnricher(timeout time.Duration, userAgent string) *Enricher {
	return &Enricher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// EnrichBodies replaces the body of news items that only carry a short feed
// description with the extracted article text. Extraction failures leave
// the original body in place; enrichment never drops an item.
func (e *Enricher) EnrichBodies(ctx context.Context, items []core.ContentItem) []core.ContentItem {
	enriched := make([]core.ContentItem, len(items))
	copy(enriched, items)
	for i, item := range enriched {
		if item.SourceKind != core.SourceNews || len(item.Body) >= minUsefulBody {
			continue
		}
		text, err := e.ExtractText(ctx, item.URL)
		if err != nil {
			logger.Debugf("fetch: extraction failed for %s: %v", item.URL, err)
			continue
		}
		enriched[i].Body = text
	}
	return enriched
}

// ExtractText fetches a page and returns the text of its main content area,
// falling back to the whole body when no content selector matches.
func (e *Enricher) ExtractText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside, iframe").Remove()

	for _, selector := range contentSelectors {
		if text := collapse(doc.Find(selector).First().Text()); len(text) >= minUsefulBody {
			return text, nil
		}
	}

	text := collapse(doc.Find("body").Text())
	if text == "" {
		return "", fmt.Errorf("no text content found")
	}
	return text, nil
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
