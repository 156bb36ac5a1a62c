package classify

import (
	"testing"

	"aidigest/internal/config"
	"aidigest/internal/core"
)

func testDefs() []config.ClusterDef {
	return []config.ClusterDef{
		{Key: "openai", DisplayName: "OpenAI", Keywords: []string{"openai", "chatgpt", "gpt"}},
		{Key: "deepmind", DisplayName: "DeepMind", Keywords: []string{"deepmind", "gemini"}},
		{Key: "robotics", DisplayName: "Robotics", Keywords: []string{"robot", "humanoid"}, CrossLinkThreshold: 2},
	}
}

func item(id, title, body string) core.ScoredItem {
	return core.ScoredItem{
		ContentItem:    core.ContentItem{ID: id, Title: title, Body: body, URL: "https://example.com/" + id},
		RelevanceScore: 7.0,
	}
}

func newTestClassifier() *Classifier {
	return New(config.Classify{TitleWeight: 2, BodyWeight: 1}, testDefs())
}

func TestClassify_AssignsBestCluster(t *testing.T) {
	c := newTestClassifier()

	clusters := c.Classify([]core.ScoredItem{
		item("a", "OpenAI launches new feature", ""),
	})

	openai := clusters["openai"]
	if openai == nil || len(openai.Items) != 1 || openai.Items[0].ID != "a" {
		t.Fatalf("item not assigned to openai cluster: %+v", clusters)
	}
	if openai.MatchScores["a"] != 2.0 {
		t.Errorf("match score = %v, want 2.0 (one title hit, weight 2)", openai.MatchScores["a"])
	}
	if openai.Stats.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1", openai.Stats.ItemCount)
	}
}

func TestClassify_TitleOutweighsBody(t *testing.T) {
	c := newTestClassifier()

	// One title hit for deepmind (2) beats one body hit for openai (1).
	clusters := c.Classify([]core.ScoredItem{
		item("a", "DeepMind results announced", "A response to openai"),
	})

	if len(clusters["deepmind"].Items) != 1 {
		t.Errorf("want item in deepmind, got %+v", clusters)
	}
	if len(clusters["openai"].Items) != 0 {
		t.Errorf("openai should be empty, got %d items", len(clusters["openai"].Items))
	}
}

func TestClassify_TieBreaksToFirstKey(t *testing.T) {
	c := newTestClassifier()

	// One title hit each for deepmind and openai: tie resolves to the
	// lexicographically first cluster key.
	clusters := c.Classify([]core.ScoredItem{
		item("a", "DeepMind responds to OpenAI", ""),
	})

	if len(clusters["deepmind"].Items) != 1 {
		t.Errorf("tie should assign to deepmind (first key), got %+v", clusters)
	}
	if len(clusters["openai"].Items) != 0 {
		t.Errorf("openai should lose the tie, got %d items", len(clusters["openai"].Items))
	}
}

func TestClassify_WordBoundaries(t *testing.T) {
	c := newTestClassifier()

	// "robotics" contains "robot" as a prefix but not as a whole word.
	clusters := c.Classify([]core.ScoredItem{
		item("a", "New robotics curriculum announced", ""),
	})

	if len(clusters["robotics"].Items) != 0 {
		t.Errorf("substring should not match, got %d items", len(clusters["robotics"].Items))
	}
	if clusters[core.UncategorizedKey] == nil || len(clusters[core.UncategorizedKey].Items) != 1 {
		t.Errorf("item should fall to uncategorized, got %+v", clusters)
	}
}

func TestClassify_UncategorizedOnlyWhenNonEmpty(t *testing.T) {
	c := newTestClassifier()

	clusters := c.Classify([]core.ScoredItem{
		item("a", "ChatGPT update shipped", ""),
	})

	if _, ok := clusters[core.UncategorizedKey]; ok {
		t.Errorf("uncategorized bucket should be absent when empty")
	}
	for _, def := range testDefs() {
		if _, ok := clusters[def.Key]; !ok {
			t.Errorf("configured cluster %q missing from result", def.Key)
		}
	}
}

func TestClassify_CrossLinksSecondaryCluster(t *testing.T) {
	c := newTestClassifier()

	// Primary is openai (title hits for chatgpt and openai). The robotics
	// score (robot in title x2 weight + humanoid in body) clears its
	// cross-link threshold of 2 without stealing the item.
	clusters := c.Classify([]core.ScoredItem{
		item("a", "OpenAI ChatGPT robot demo", "A humanoid controlled by chatgpt"),
	})

	if len(clusters["openai"].Items) != 1 {
		t.Fatalf("primary assignment wrong: %+v", clusters)
	}
	robotics := clusters["robotics"]
	if len(robotics.Items) != 0 {
		t.Errorf("robotics should hold no primary items, got %d", len(robotics.Items))
	}
	if len(robotics.RelatedItems) != 1 || robotics.RelatedItems[0].ID != "a" {
		t.Errorf("robotics.RelatedItems = %+v, want the cross-linked item", robotics.RelatedItems)
	}
	if robotics.Stats.ItemCount != 0 {
		t.Errorf("cross-linked items must not count: ItemCount = %d", robotics.Stats.ItemCount)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newTestClassifier()

	clusters := c.Classify(nil)
	if len(clusters) != len(testDefs()) {
		t.Errorf("got %d clusters, want %d configured clusters", len(clusters), len(testDefs()))
	}
	for key, cluster := range clusters {
		if len(cluster.Items) != 0 {
			t.Errorf("cluster %q should be empty", key)
		}
	}
}
