package narrative

import (
	"context"
	"fmt"
	"strings"

	"aidigest/internal/core"
)

// Narrative slots. The oracle is invoked at most once per slot per run.
const (
	SlotExecutiveSummary    = "executive_summary"
	SlotCrossClusterInsight = "cross_cluster_insight"
)

// TextGenerator is the capability interface for the text generation oracle.
// The engine depends on it abstractly; the validator is the sole consumer
// authorized to accept, repair or reject its output.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator builds structured prompts from cluster summaries and validates
// the oracle's responses.
type Generator struct {
	oracle    TextGenerator
	validator *Validator
}

// NewGenerator creates a generator backed by the given oracle.
func NewGenerator(oracle TextGenerator, validator *Validator) *Generator {
	return &Generator{oracle: oracle, validator: validator}
}

// GenerateAll produces one validated block per narrative slot. A failed or
// empty oracle response yields an empty block marked incomplete; the
// corresponding OracleFailureError is returned for diagnostics and the run
// continues without that narrative.
func (g *Generator) GenerateAll(ctx context.Context, clusters []*core.TopicCluster) ([]core.NarrativeBlock, []error) {
	slots := []struct {
		name   string
		prompt string
	}{
		{SlotExecutiveSummary, g.executivePrompt(clusters)},
		{SlotCrossClusterInsight, g.insightPrompt(clusters)},
	}

	blocks := make([]core.NarrativeBlock, 0, len(slots))
	var failures []error
	for _, slot := range slots {
		text, err := g.oracle.GenerateText(ctx, slot.prompt)
		if err != nil || strings.TrimSpace(text) == "" {
			if err == nil {
				err = fmt.Errorf("empty response")
			}
			failures = append(failures, &core.OracleFailureError{Slot: slot.name, Err: err})
			blocks = append(blocks, core.NarrativeBlock{Slot: slot.name, IsComplete: false})
			continue
		}
		blocks = append(blocks, g.validator.ValidateAndRepair(slot.name, text))
	}
	return blocks, failures
}

// executivePrompt asks for a short, concrete summary of the most urgent
// clusters.
func (g *Generator) executivePrompt(clusters []*core.TopicCluster) string {
	var b strings.Builder
	b.WriteString("You are a strategic intelligence analyst. Write 2-3 complete sentences summarizing ")
	b.WriteString("today's most important AI and robotics developments and the concrete action leaders should take. ")
	b.WriteString("Mention specific companies and technologies. No introductory phrases, no quotes.\n\n")
	b.WriteString("Today's topic clusters, most urgent first:\n")
	writeClusterSummaries(&b, clusters, 3)
	return b.String()
}

// insightPrompt asks for one pattern that spans multiple clusters.
func (g *Generator) insightPrompt(clusters []*core.TopicCluster) string {
	var b strings.Builder
	b.WriteString("You are a strategic intelligence analyst. In 2-3 complete sentences, describe one ")
	b.WriteString("pattern that connects developments across the following topic clusters. ")
	b.WriteString("Be specific about companies and technologies. No introductory phrases.\n\n")
	writeClusterSummaries(&b, clusters, 2)
	return b.String()
}

// writeClusterSummaries renders the structured prompt payload: key, display
// name, item count, representative titles, trend and urgency per cluster.
func writeClusterSummaries(b *strings.Builder, clusters []*core.TopicCluster, titlesPerCluster int) {
	for _, cluster := range clusters {
		if cluster.Key == core.UncategorizedKey || len(cluster.Items) == 0 {
			continue
		}
		fmt.Fprintf(b, "- %s (%s): %d items, trend %s, urgency %.1f\n",
			cluster.Key, cluster.DisplayName, cluster.Stats.ItemCount,
			cluster.Stats.Trend, cluster.Stats.Urgency)
		for i, item := range cluster.Items {
			if i >= titlesPerCluster {
				break
			}
			fmt.Fprintf(b, "    * %s\n", item.Title)
		}
	}
}
