// Package trends derives activity level, trend direction and urgency for
// topic clusters by comparing current counts against persisted run history.
package trends

import (
	"time"

	"aidigest/internal/config"
	"aidigest/internal/core"
	"aidigest/internal/history"
)

// Tracker enriches cluster stats from history and maintains the bounded
// per-key history window.
type Tracker struct {
	cfg config.Trends
}

// NewTracker creates a tracker with the configured breakpoints.
func NewTracker(cfg config.Trends) *Tracker {
	return &Tracker{cfg: cfg}
}

// Enrich fills in ActivityLevel, Trend and Urgency for every cluster. The
// uncategorized bucket is left untouched; it never participates in trend
// tracking.
func (t *Tracker) Enrich(clusters map[string]*core.TopicCluster, counts history.Counts, now time.Time) {
	for key, cluster := range clusters {
		if key == core.UncategorizedKey {
			continue
		}
		cluster.Stats.ActivityLevel = t.activityLevel(cluster.Stats.ItemCount)
		cluster.Stats.Trend = t.trend(cluster.Stats.ItemCount, counts[key])
		cluster.Stats.Urgency = t.urgency(cluster, now)
	}
}

// UpdateHistory appends each cluster's current item count and FIFO-truncates
// every key to the retention window. Keys absent from the current run keep
// their existing history untouched.
func (t *Tracker) UpdateHistory(counts history.Counts, clusters map[string]*core.TopicCluster) history.Counts {
	updated := make(history.Counts, len(counts))
	for key, values := range counts {
		updated[key] = append([]int(nil), values...)
	}
	for key, cluster := range clusters {
		if key == core.UncategorizedKey {
			continue
		}
		values := append(updated[key], cluster.Stats.ItemCount)
		if excess := len(values) - t.cfg.Retention; excess > 0 {
			values = values[excess:]
		}
		updated[key] = values
	}
	return updated
}

// activityLevel buckets an item count against the absolute breakpoints.
func (t *Tracker) activityLevel(count int) core.ActivityLevel {
	switch {
	case count >= t.cfg.HighMin:
		return core.ActivityHigh
	case count >= t.cfg.MediumMin:
		return core.ActivityMedium
	default:
		return core.ActivityLow
	}
}

// trend compares the current count against the mean of the historical
// window. A cluster with no history is always stable: a single observation
// is insufficient data for a direction.
func (t *Tracker) trend(count int, past []int) core.TrendDirection {
	if len(past) == 0 {
		return core.TrendStable
	}
	sum := 0
	for _, v := range past {
		sum += v
	}
	mean := float64(sum) / float64(len(past))

	now := float64(count)
	switch {
	case now > mean*(1+t.cfg.Epsilon):
		return core.TrendIncreasing
	case now < mean*(1-t.cfg.Epsilon):
		return core.TrendDecreasing
	default:
		return core.TrendStable
	}
}

// urgency combines activity rank, trend direction and the fraction of items
// published within the recency window into a monotonic sort key. It is never
// persisted.
func (t *Tracker) urgency(cluster *core.TopicCluster, now time.Time) float64 {
	rank := 1.0
	switch cluster.Stats.ActivityLevel {
	case core.ActivityMedium:
		rank = 2.0
	case core.ActivityHigh:
		rank = 3.0
	}

	direction := 0.0
	switch cluster.Stats.Trend {
	case core.TrendIncreasing:
		direction = 1.0
	case core.TrendDecreasing:
		direction = -1.0
	}

	return rank*2.0 + direction + t.recentFraction(cluster.Items, now)
}

func (t *Tracker) recentFraction(items []core.ScoredItem, now time.Time) float64 {
	if len(items) == 0 {
		return 0.0
	}
	window := time.Duration(t.cfg.RecencyHours) * time.Hour
	recent := 0
	for _, item := range items {
		if !item.PublishedAt.IsZero() && now.Sub(item.PublishedAt) <= window {
			recent++
		}
	}
	return float64(recent) / float64(len(items))
}
