// Package classify assigns scored items to configured topic clusters via
// keyword matching.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"aidigest/internal/config"
	"aidigest/internal/core"
)

// Classifier assigns each item to the cluster with the strictly highest
// keyword match score. Items matching no cluster land in the reserved
// uncategorized bucket.
type Classifier struct {
	cfg      config.Classify
	clusters []clusterMatcher
}

type clusterMatcher struct {
	def      config.ClusterDef
	patterns []*regexp.Regexp
}

// New creates a classifier for the given cluster definitions. Definitions
// are assumed to have passed config.ValidateClusters.
func New(cfg config.Classify, defs []config.ClusterDef) *Classifier {
	matchers := make([]clusterMatcher, 0, len(defs))
	for _, def := range defs {
		patterns := make([]*regexp.Regexp, 0, len(def.Keywords))
		for _, kw := range def.Keywords {
			patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`))
		}
		matchers = append(matchers, clusterMatcher{def: def, patterns: patterns})
	}
	// Lexicographic order makes the tie-break a simple first-wins scan.
	sort.Slice(matchers, func(i, j int) bool {
		return matchers[i].def.Key < matchers[j].def.Key
	})
	return &Classifier{cfg: cfg, clusters: matchers}
}

// Classify assigns every item to its best cluster and returns the clusters
// keyed by cluster key. Every configured cluster appears in the result even
// when empty; the uncategorized bucket appears only when it has items.
// Clusters configured with a cross-link threshold additionally collect
// secondary members in RelatedItems without counting them in ItemCount.
func (c *Classifier) Classify(items []core.ScoredItem) map[string]*core.TopicCluster {
	result := make(map[string]*core.TopicCluster, len(c.clusters)+1)
	for _, m := range c.clusters {
		result[m.def.Key] = &core.TopicCluster{
			Key:         m.def.Key,
			DisplayName: m.def.DisplayName,
			Icon:        m.def.Icon,
			Keywords:    append([]string(nil), m.def.Keywords...),
			MatchScores: make(map[string]float64),
		}
	}

	for _, item := range items {
		scores := c.matchScores(item)

		bestKey := ""
		bestScore := 0.0
		for _, m := range c.clusters {
			// Strictly-greater keeps the lexicographically first key on ties.
			if score := scores[m.def.Key]; score > bestScore {
				bestScore = score
				bestKey = m.def.Key
			}
		}

		if bestKey == "" {
			bucket := result[core.UncategorizedKey]
			if bucket == nil {
				bucket = &core.TopicCluster{
					Key:         core.UncategorizedKey,
					DisplayName: "Uncategorized",
					MatchScores: make(map[string]float64),
				}
				result[core.UncategorizedKey] = bucket
			}
			bucket.Items = append(bucket.Items, item)
			continue
		}

		cluster := result[bestKey]
		cluster.Items = append(cluster.Items, item)
		cluster.MatchScores[item.ID] = bestScore

		for _, m := range c.clusters {
			if m.def.Key == bestKey || m.def.CrossLinkThreshold <= 0 {
				continue
			}
			if scores[m.def.Key] >= m.def.CrossLinkThreshold {
				result[m.def.Key].RelatedItems = append(result[m.def.Key].RelatedItems, item)
			}
		}
	}

	for _, cluster := range result {
		if cluster.Key != core.UncategorizedKey {
			cluster.Stats.ItemCount = len(cluster.Items)
		}
	}
	return result
}

// matchScores computes the weighted keyword match score of one item against
// every cluster: occurrences in the title count double those in the body,
// with word-boundary matching throughout.
func (c *Classifier) matchScores(item core.ScoredItem) map[string]float64 {
	scores := make(map[string]float64, len(c.clusters))
	for _, m := range c.clusters {
		hits := 0
		for _, pattern := range m.patterns {
			hits += c.cfg.TitleWeight * len(pattern.FindAllStringIndex(item.Title, -1))
			hits += c.cfg.BodyWeight * len(pattern.FindAllStringIndex(item.Body, -1))
		}
		if hits > 0 {
			scores[m.def.Key] = float64(hits)
		}
	}
	return scores
}
