package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	// No config file anywhere on the search path: pure defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Engine.Relevance.Threshold != 6.5 {
		t.Errorf("relevance threshold = %v, want 6.5", cfg.Engine.Relevance.Threshold)
	}
	if cfg.Engine.Dedup.TitleSimilarity != 0.85 || cfg.Engine.Dedup.WindowHours != 48 {
		t.Errorf("dedup defaults = %+v", cfg.Engine.Dedup)
	}
	if cfg.Engine.Trends.MediumMin != 3 || cfg.Engine.Trends.HighMin != 9 {
		t.Errorf("trend breakpoints = %+v", cfg.Engine.Trends)
	}
	if cfg.Engine.Trends.Retention != 7 {
		t.Errorf("retention = %d, want 7", cfg.Engine.Trends.Retention)
	}
	if cfg.Engine.Narrative.MinSentences != 2 || cfg.Engine.Narrative.MaxSentences != 3 {
		t.Errorf("narrative bounds = %+v", cfg.Engine.Narrative)
	}
	if len(cfg.Engine.Relevance.Vocabulary) == 0 {
		t.Error("default vocabulary is empty")
	}
	if cfg.LLM.Model == "" {
		t.Error("default model is empty")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `engine:
  relevance:
    threshold: 5.0
sources:
  rss:
    feeds:
      - name: Example
        url: https://example.com/feed.xml
        category: news
        weight: 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.Relevance.Threshold != 5.0 {
		t.Errorf("threshold = %v, want file override 5.0", cfg.Engine.Relevance.Threshold)
	}
	// Untouched keys keep their defaults.
	if cfg.Engine.Dedup.WindowHours != 48 {
		t.Errorf("window_hours = %d, want default 48", cfg.Engine.Dedup.WindowHours)
	}
	if len(cfg.Sources.RSS.Feeds) != 1 || cfg.Sources.RSS.Feeds[0].Weight != 1.5 {
		t.Errorf("feeds = %+v", cfg.Sources.RSS.Feeds)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"threshold out of range",
			"engine:\n  relevance:\n    threshold: 11\n",
			"threshold",
		},
		{
			"similarity out of range",
			"engine:\n  dedup:\n    title_similarity: 1.5\n",
			"title_similarity",
		},
		{
			"inverted breakpoints",
			"engine:\n  trends:\n    medium_min: 9\n    high_min: 3\n",
			"breakpoints",
		},
		{
			"inverted sentence bounds",
			"engine:\n  narrative:\n    min_sentences: 5\n    max_sentences: 2\n",
			"sentence bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
