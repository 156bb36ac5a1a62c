// Package pipeline orchestrates one digest run: fetch, score, dedupe,
// classify, trend-enrich, narrate, and assemble the final payload. The
// engine runs as a single synchronous pipeline per invocation; only the
// source fetches and the oracle call touch the network.
package pipeline

import (
	"context"
	"sort"
	"time"

	"aidigest/internal/classify"
	"aidigest/internal/config"
	"aidigest/internal/core"
	"aidigest/internal/dedup"
	"aidigest/internal/fetch"
	"aidigest/internal/history"
	"aidigest/internal/logger"
	"aidigest/internal/narrative"
	"aidigest/internal/relevance"
	"aidigest/internal/sources"
	"aidigest/internal/trends"
)

// Pipeline holds the wired stages for one run.
type Pipeline struct {
	cfg        *config.Config
	adapters   []sources.Adapter
	enricher   *fetch.Enricher
	scorer     *relevance.Scorer
	deduper    *dedup.Deduplicator
	classifier *classify.Classifier
	tracker    *trends.Tracker
	store      *history.Store
	generator  *narrative.Generator
}

// New wires a pipeline. The oracle may be nil, in which case both narrative
// slots are emitted as incomplete blocks.
func New(cfg *config.Config, clusterDefs []config.ClusterDef, adapters []sources.Adapter,
	oracle narrative.TextGenerator, store *history.Store) *Pipeline {

	p := &Pipeline{
		cfg:        cfg,
		adapters:   adapters,
		scorer:     relevance.NewScorer(cfg.Engine.Relevance),
		deduper:    dedup.New(cfg.Engine.Dedup),
		classifier: classify.New(cfg.Engine.Classify, clusterDefs),
		tracker:    trends.NewTracker(cfg.Engine.Trends),
		store:      store,
	}
	if oracle != nil {
		p.generator = narrative.NewGenerator(oracle, narrative.NewValidator(cfg.Engine.Narrative))
	}
	if cfg.Sources.RSS.EnrichBodies {
		p.enricher = fetch.NewEnricher(30*time.Second, cfg.Sources.RSS.UserAgent)
	}
	return p
}

// Run executes one batch. No error aborts the run: malformed items, failed
// sources, a failed oracle and an unreadable history all degrade to partial
// output, and every omission is reflected in the diagnostics.
func (p *Pipeline) Run(ctx context.Context) (core.Digest, error) {
	now := time.Now().UTC()

	counts, err := p.store.Load()
	if err != nil {
		logger.Error("run history unavailable, treating all clusters as new", err)
		counts = history.Counts{}
	}

	items, sourceErrors := sources.FetchAll(ctx, p.adapters)
	if p.enricher != nil {
		items = p.enricher.EnrichBodies(ctx, items)
	}

	scored, malformed := p.scorer.ScoreBatch(items, now)
	for _, err := range malformed {
		logger.Warnf("skipping item: %v", err)
	}

	kept, filtered := relevance.Partition(scored, p.cfg.Engine.Relevance.Threshold)

	survivors, merges := p.deduper.Dedupe(kept)
	for dropped, survivor := range merges {
		logger.Debugf("dedup: merged %s into %s", dropped, survivor)
	}

	clusters := p.classifier.Classify(survivors)
	p.tracker.Enrich(clusters, counts, now)

	ordered := orderByUrgency(clusters)

	uncategorized := 0
	if bucket := clusters[core.UncategorizedKey]; bucket != nil {
		uncategorized = len(bucket.Items)
	}

	digest := core.Digest{
		GeneratedAt: now,
		Clusters:    ordered,
		Diagnostics: core.Diagnostics{
			ItemsFetched:       len(items),
			ItemsFiltered:      len(filtered),
			ItemsDeduplicated:  len(merges),
			ItemsUncategorized: uncategorized,
			MalformedItems:     len(malformed),
			SourceErrors:       sourceErrors,
		},
	}

	if p.generator != nil {
		blocks, failures := p.generator.GenerateAll(ctx, ordered)
		for _, err := range failures {
			logger.Error("narrative slot failed", err)
		}
		digest.Narratives = blocks
	}

	updated := p.tracker.UpdateHistory(counts, clusters)
	if err := p.store.Save(updated); err != nil {
		logger.Error("failed to persist run history", err)
	}

	return digest, nil
}

// orderByUrgency returns the configured clusters sorted by urgency
// descending, with key order breaking ties for determinism. The
// uncategorized bucket is excluded: its items exist for diagnostics only.
func orderByUrgency(clusters map[string]*core.TopicCluster) []*core.TopicCluster {
	ordered := make([]*core.TopicCluster, 0, len(clusters))
	for key, cluster := range clusters {
		if key == core.UncategorizedKey {
			continue
		}
		ordered = append(ordered, cluster)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Stats.Urgency != ordered[j].Stats.Urgency {
			return ordered[i].Stats.Urgency > ordered[j].Stats.Urgency
		}
		return ordered[i].Key < ordered[j].Key
	})
	return ordered
}
