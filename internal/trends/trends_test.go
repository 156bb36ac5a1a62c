package trends

import (
	"testing"
	"time"

	"aidigest/internal/config"
	"aidigest/internal/core"
	"aidigest/internal/history"
)

func testConfig() config.Trends {
	return config.Trends{
		MediumMin:    3,
		HighMin:      9,
		Epsilon:      0.25,
		Retention:    7,
		RecencyHours: 24,
	}
}

func clusterWithItems(key string, n int, published time.Time) *core.TopicCluster {
	cluster := &core.TopicCluster{Key: key, MatchScores: make(map[string]float64)}
	for i := 0; i < n; i++ {
		cluster.Items = append(cluster.Items, core.ScoredItem{
			ContentItem: core.ContentItem{ID: key + string(rune('a'+i)), PublishedAt: published},
		})
	}
	cluster.Stats.ItemCount = n
	return cluster
}

func TestActivityLevelBreakpoints(t *testing.T) {
	tracker := NewTracker(testConfig())
	now := time.Now().UTC()

	tests := []struct {
		count int
		want  core.ActivityLevel
	}{
		{0, core.ActivityLow},
		{2, core.ActivityLow},
		{3, core.ActivityMedium},
		{8, core.ActivityMedium},
		{9, core.ActivityHigh},
		{20, core.ActivityHigh},
	}

	for _, tt := range tests {
		clusters := map[string]*core.TopicCluster{
			"k": clusterWithItems("k", tt.count, now),
		}
		tracker.Enrich(clusters, history.Counts{}, now)
		if got := clusters["k"].Stats.ActivityLevel; got != tt.want {
			t.Errorf("count %d: activity = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestTrend_FirstRunIsAlwaysStable(t *testing.T) {
	tracker := NewTracker(testConfig())
	now := time.Now().UTC()

	for _, count := range []int{0, 1, 15} {
		clusters := map[string]*core.TopicCluster{
			"fresh": clusterWithItems("fresh", count, now),
		}
		tracker.Enrich(clusters, history.Counts{}, now)
		if got := clusters["fresh"].Stats.Trend; got != core.TrendStable {
			t.Errorf("count %d with no history: trend = %v, want stable", count, got)
		}
	}
}

func TestTrend_AgainstHistoricalMean(t *testing.T) {
	tracker := NewTracker(testConfig())
	now := time.Now().UTC()

	// Historical mean is 4; the band is [3, 5] with epsilon 0.25.
	past := history.Counts{"k": {4, 4, 4}}

	tests := []struct {
		count int
		want  core.TrendDirection
	}{
		{6, core.TrendIncreasing},
		{2, core.TrendDecreasing},
		{4, core.TrendStable},
		{5, core.TrendStable}, // exactly at the band edge
		{3, core.TrendStable},
	}

	for _, tt := range tests {
		clusters := map[string]*core.TopicCluster{
			"k": clusterWithItems("k", tt.count, now),
		}
		tracker.Enrich(clusters, past, now)
		if got := clusters["k"].Stats.Trend; got != tt.want {
			t.Errorf("count %d vs mean 4: trend = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestEnrich_SkipsUncategorized(t *testing.T) {
	tracker := NewTracker(testConfig())
	now := time.Now().UTC()

	clusters := map[string]*core.TopicCluster{
		core.UncategorizedKey: clusterWithItems(core.UncategorizedKey, 5, now),
	}
	tracker.Enrich(clusters, history.Counts{}, now)

	stats := clusters[core.UncategorizedKey].Stats
	if stats.ActivityLevel != "" || stats.Trend != "" || stats.Urgency != 0 {
		t.Errorf("uncategorized bucket must stay unenriched, got %+v", stats)
	}
}

func TestUrgency_Ordering(t *testing.T) {
	tracker := NewTracker(testConfig())
	now := time.Now().UTC()

	// A high-activity increasing cluster with fresh items outranks a
	// low-activity decreasing cluster with stale items.
	hot := clusterWithItems("hot", 10, now.Add(-time.Hour))
	cold := clusterWithItems("cold", 1, now.Add(-10*24*time.Hour))

	clusters := map[string]*core.TopicCluster{"hot": hot, "cold": cold}
	counts := history.Counts{
		"hot":  {2, 3},
		"cold": {6, 6},
	}
	tracker.Enrich(clusters, counts, now)

	if hot.Stats.Urgency <= cold.Stats.Urgency {
		t.Errorf("urgency ordering wrong: hot %v <= cold %v", hot.Stats.Urgency, cold.Stats.Urgency)
	}
	// rank 3 * 2 + increasing 1 + all items recent 1.0
	if hot.Stats.Urgency != 8.0 {
		t.Errorf("hot urgency = %v, want 8.0", hot.Stats.Urgency)
	}
	// rank 1 * 2 + decreasing -1 + nothing recent
	if cold.Stats.Urgency != 1.0 {
		t.Errorf("cold urgency = %v, want 1.0", cold.Stats.Urgency)
	}
}

func TestUpdateHistory_AppendsAndTruncates(t *testing.T) {
	cfg := testConfig()
	cfg.Retention = 3
	tracker := NewTracker(cfg)
	now := time.Now().UTC()

	counts := history.Counts{"k": {1, 2, 3}}
	clusters := map[string]*core.TopicCluster{
		"k":                   clusterWithItems("k", 4, now),
		"new":                 clusterWithItems("new", 7, now),
		core.UncategorizedKey: clusterWithItems(core.UncategorizedKey, 2, now),
	}

	updated := tracker.UpdateHistory(counts, clusters)

	if got := updated["k"]; len(got) != 3 || got[0] != 2 || got[1] != 3 || got[2] != 4 {
		t.Errorf("k history = %v, want [2 3 4] (oldest dropped)", got)
	}
	if got := updated["new"]; len(got) != 1 || got[0] != 7 {
		t.Errorf("new history = %v, want [7]", got)
	}
	if _, ok := updated[core.UncategorizedKey]; ok {
		t.Errorf("uncategorized must not be recorded in history")
	}
	// Input map stays untouched.
	if got := counts["k"]; len(got) != 3 || got[2] != 3 {
		t.Errorf("input counts mutated: %v", got)
	}
}

func TestUpdateHistory_PreservesAbsentKeys(t *testing.T) {
	tracker := NewTracker(testConfig())

	counts := history.Counts{"dormant": {5, 5}}
	updated := tracker.UpdateHistory(counts, map[string]*core.TopicCluster{})

	if got := updated["dormant"]; len(got) != 2 || got[0] != 5 {
		t.Errorf("dormant history = %v, want preserved [5 5]", got)
	}
}
