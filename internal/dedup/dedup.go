// Package dedup collapses near-duplicate items originating from different
// sources into a single survivor per story.
package dedup

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"aidigest/internal/config"
	"aidigest/internal/core"
)

// trackingParams are query parameters stripped during URL normalization.
var trackingParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
	"mc_cid": true,
	"mc_eid": true,
	"ref":    true,
	"source": true,
}

// Deduplicator detects and merges duplicates by normalized URL or by title
// similarity within a bounded publish-time window.
type Deduplicator struct {
	cfg config.Dedup
}

// New creates a deduplicator with the given thresholds.
func New(cfg config.Dedup) *Deduplicator {
	return &Deduplicator{cfg: cfg}
}

// Dedupe returns the surviving items in their original input order, plus a
// mapping from each dropped item ID to the ID of the survivor it was merged
// into. The survivor set is deterministic and independent of input order:
// candidates are considered in preference order (higher relevance score, then
// higher source weight, then earliest published, then ID) and each later
// candidate is merged into the first kept duplicate.
func (d *Deduplicator) Dedupe(items []core.ScoredItem) ([]core.ScoredItem, map[string]string) {
	merges := make(map[string]string)
	if len(items) == 0 {
		return nil, merges
	}

	ranked := make([]core.ScoredItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.SourceWeight != b.SourceWeight {
			return a.SourceWeight > b.SourceWeight
		}
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.Before(b.PublishedAt)
		}
		return a.ID < b.ID
	})

	kept := make([]core.ScoredItem, 0, len(ranked))
	for _, candidate := range ranked {
		survivorID := ""
		for _, survivor := range kept {
			if d.isDuplicate(candidate, survivor) {
				survivorID = survivor.ID
				break
			}
		}
		if survivorID != "" {
			merges[candidate.ID] = survivorID
			continue
		}
		kept = append(kept, candidate)
	}

	keptIDs := make(map[string]bool, len(kept))
	for _, item := range kept {
		keptIDs[item.ID] = true
	}

	survivors := make([]core.ScoredItem, 0, len(kept))
	for _, item := range items {
		if keptIDs[item.ID] {
			survivors = append(survivors, item)
		}
	}
	return survivors, merges
}

// isDuplicate reports whether two items describe the same story. Either the
// normalized URLs match exactly, or the titles overlap above the threshold
// AND the items were published within the configured window. The time bound
// keeps recurring titles ("Weekly Release") from merging across unrelated
// periods.
func (d *Deduplicator) isDuplicate(a, b core.ScoredItem) bool {
	if na, nb := NormalizeURL(a.URL), NormalizeURL(b.URL); na != "" && na == nb {
		return true
	}
	if TitleSimilarity(a.Title, b.Title) < d.cfg.TitleSimilarity {
		return false
	}
	if a.PublishedAt.IsZero() || b.PublishedAt.IsZero() {
		return false
	}
	window := time.Duration(d.cfg.WindowHours) * time.Hour
	gap := a.PublishedAt.Sub(b.PublishedAt)
	if gap < 0 {
		gap = -gap
	}
	return gap <= window
}

// NormalizeURL canonicalizes a URL for duplicate comparison: lowercased
// scheme and host, tracking parameters and fragment stripped, trailing slash
// removed. An unparseable URL normalizes to the empty string so it never
// matches anything.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	query := u.Query()
	for param := range query {
		if trackingParams[param] || strings.HasPrefix(param, "utm_") {
			query.Del(param)
		}
	}
	u.RawQuery = query.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// TitleSimilarity computes the case-insensitive token overlap ratio between
// two titles: shared tokens over the union of tokens.
func TitleSimilarity(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	shared := 0
	for token := range tokensA {
		if tokensB[token] {
			shared++
		}
	}
	union := len(tokensA) + len(tokensB) - shared
	return float64(shared) / float64(union)
}

func tokenSet(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(title)) {
		field = strings.Trim(field, ".,:;!?\"'()[]")
		if field != "" {
			tokens[field] = true
		}
	}
	return tokens
}
