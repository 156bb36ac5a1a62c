// Package sources provides the source adapters that produce well-formed
// content items for the intelligence engine: GitHub commits, research papers
// and RSS/Atom news.
package sources

import (
	"context"
	"time"

	"aidigest/internal/core"
	"aidigest/internal/logger"
)

// Adapter fetches a batch of content items from one external source. An
// adapter either produces well-formed items or fails with a source-level
// error that the host logs and treats as zero items from this source.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]core.ContentItem, error)
}

// FetchAll runs every adapter concurrently and materializes all results
// before returning. A failed source contributes zero items; the failure is
// logged and counted, never fatal.
func FetchAll(ctx context.Context, adapters []Adapter) ([]core.ContentItem, int) {
	type result struct {
		items []core.ContentItem
		err   error
		name  string
	}

	results := make(chan result, len(adapters))
	for _, adapter := range adapters {
		go func(a Adapter) {
			items, err := a.Fetch(ctx)
			results <- result{items: items, err: err, name: a.Name()}
		}(adapter)
	}

	var all []core.ContentItem
	sourceErrors := 0
	for range adapters {
		r := <-results
		if r.err != nil {
			sourceErrors++
			logger.Error("source fetch failed", &core.SourceUnavailableError{Source: r.name, Err: r.err})
			continue
		}
		logger.Infof("source %s produced %d items", r.name, len(r.items))
		all = append(all, r.items...)
	}
	return all, sourceErrors
}

// parseTime tries a list of layouts and returns the zero time when none
// matches, which downstream stages treat as "oldest".
func parseTime(value string, layouts ...string) time.Time {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseTimeout parses a duration string with a fallback.
func parseTimeout(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}
