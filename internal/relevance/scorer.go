// Package relevance implements keyword-based relevance scoring of content
// items against a global interest vocabulary.
package relevance

import (
	"math"
	"regexp"
	"strings"
	"time"

	"aidigest/internal/config"
	"aidigest/internal/core"
)

// Scorer assigns each item a 0-10 relevance score from weighted features.
// Scoring is a pure function of the item and the static configuration; the
// scorer holds no mutable state.
type Scorer struct {
	cfg        config.Relevance
	vocabulary []*regexp.Regexp
}

// NewScorer creates a scorer for the configured interest vocabulary.
func NewScorer(cfg config.Relevance) *Scorer {
	patterns := make([]*regexp.Regexp, 0, len(cfg.Vocabulary))
	for _, term := range cfg.Vocabulary {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		patterns = append(patterns, wordPattern(term))
	}
	return &Scorer{cfg: cfg, vocabulary: patterns}
}

// Score calculates the relevance score for a single item relative to now.
// Items missing a title or URL fail with a MalformedItemError and must be
// excluded from the batch by the caller.
func (s *Scorer) Score(item core.ContentItem, now time.Time) (core.ScoredItem, error) {
	if strings.TrimSpace(item.Title) == "" {
		return core.ScoredItem{}, &core.MalformedItemError{ItemID: item.ID, Reason: "missing title"}
	}
	if strings.TrimSpace(item.URL) == "" {
		return core.ScoredItem{}, &core.MalformedItemError{ItemID: item.ID, Reason: "missing url"}
	}

	title := strings.ToLower(item.Title)
	body := strings.ToLower(item.Body)

	score := s.cfg.TitleWeight * float64(s.termHits(title))
	if body != "" {
		score += s.cfg.BodyWeight * float64(s.termHits(body))
	}
	score += item.SourceWeight
	score += s.recency(item.PublishedAt, now)

	score = math.Max(0.0, math.Min(10.0, score))

	return core.ScoredItem{ContentItem: item, RelevanceScore: score}, nil
}

// ScoreBatch scores every item in a batch. Malformed items are reported back
// rather than silently coerced.
func (s *Scorer) ScoreBatch(items []core.ContentItem, now time.Time) ([]core.ScoredItem, []error) {
	scored := make([]core.ScoredItem, 0, len(items))
	var malformed []error
	for _, item := range items {
		si, err := s.Score(item, now)
		if err != nil {
			malformed = append(malformed, err)
			continue
		}
		scored = append(scored, si)
	}
	return scored, malformed
}

// Partition splits scored items into those at or above the threshold and the
// filtered rest, preserving order. Filtered items are retained for
// diagnostics only.
func Partition(items []core.ScoredItem, threshold float64) (kept, filtered []core.ScoredItem) {
	for _, item := range items {
		if item.RelevanceScore >= threshold {
			kept = append(kept, item)
		} else {
			filtered = append(filtered, item)
		}
	}
	return kept, filtered
}

// termHits counts how many distinct vocabulary terms appear in the text with
// word-boundary matching.
func (s *Scorer) termHits(text string) int {
	hits := 0
	for _, pattern := range s.vocabulary {
		if pattern.MatchString(text) {
			hits++
		}
	}
	return hits
}

// recency computes the linear falloff contribution over the lookback window.
// A zero PublishedAt is treated as oldest and contributes nothing.
func (s *Scorer) recency(publishedAt, now time.Time) float64 {
	if publishedAt.IsZero() {
		return 0.0
	}
	window := time.Duration(s.cfg.LookbackDays) * 24 * time.Hour
	age := now.Sub(publishedAt)
	if age < 0 {
		age = 0
	}
	if age >= window {
		return 0.0
	}
	return s.cfg.RecencyMax * (1.0 - float64(age)/float64(window))
}

// wordPattern compiles a case-insensitive, word-boundary pattern for a term.
// Substrings inside unrelated words do not count as hits.
func wordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(term)) + `\b`)
}
