package core

import "time"

// SourceKind identifies which kind of external artifact an item came from.
type SourceKind string

const (
	SourceCommit SourceKind = "commit"
	SourcePaper  SourceKind = "paper"
	SourceNews   SourceKind = "news"
)

// UncategorizedKey is the reserved cluster key for items that match no
// configured topic cluster. It may not be used as a configured cluster key.
const UncategorizedKey = "uncategorized"

// ContentItem represents one external artifact (a commit, a paper, a news
// article) produced by a source adapter. Items are created once per batch and
// are immutable after creation.
type ContentItem struct {
	ID           string     `json:"id"`            // Stable, source-qualified identifier
	SourceKind   SourceKind `json:"source_kind"`   // commit, paper, or news
	Title        string     `json:"title"`         // Title text used for scoring and matching
	Body         string     `json:"body"`          // Body text used for scoring and matching
	URL          string     `json:"url"`           // Canonical link, serves as a dedup key
	PublishedAt  time.Time  `json:"published_at"`  // Publication timestamp, used for recency decay
	SourceWeight float64    `json:"source_weight"` // Authority weight of the originating source
}

// ScoredItem is a ContentItem with its relevance score attached.
type ScoredItem struct {
	ContentItem
	RelevanceScore float64 `json:"relevance_score"` // 0-10 relevance rating
}

// ActivityLevel classifies cluster volume into coarse buckets.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// TrendDirection describes how a cluster's volume compares to recent history.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// ClusterStats holds derived per-cluster statistics. Urgency is only a sort
// key for presentation and is never persisted.
type ClusterStats struct {
	ItemCount     int            `json:"item_count"`
	ActivityLevel ActivityLevel  `json:"activity_level"`
	Trend         TrendDirection `json:"trend"`
	Urgency       float64        `json:"urgency"`
}

// TopicCluster is a named topical bucket of items sharing keyword affinity.
type TopicCluster struct {
	Key          string             `json:"key"`           // Stable identifier (e.g., "openai")
	DisplayName  string             `json:"display_name"`  // Presentation name, passed through
	Icon         string             `json:"icon"`          // Presentation icon, passed through
	Keywords     []string           `json:"keywords"`      // Match terms that define the cluster
	Items        []ScoredItem       `json:"items"`         // Primary members in discovery order
	MatchScores  map[string]float64 `json:"match_scores"`  // Item ID -> keyword match score that justified assignment
	RelatedItems []ScoredItem       `json:"related_items"` // Secondary cross-linked members, not counted in stats
	Stats        ClusterStats       `json:"stats"`
}

// NarrativeBlock is oracle-generated text plus the validation metadata
// produced by the output validator. Blocks with IsComplete=false must not be
// rendered.
type NarrativeBlock struct {
	Slot          string   `json:"slot"`           // Narrative slot (e.g., "executive_summary")
	RawText       string   `json:"raw_text"`       // Text as returned by the oracle
	SentenceCount int      `json:"sentence_count"` // Sentences in the repaired text
	IsComplete    bool     `json:"is_complete"`    // Ends on a terminal punctuation boundary
	Violations    []string `json:"violations"`     // Contract violations found
	RepairedText  string   `json:"repaired_text"`  // Text after truncation repair
}

// Diagnostics counts every omission made during a run. Partial results are
// always preferred over no output, so each skipped item or failed source is
// reflected here.
type Diagnostics struct {
	ItemsFetched       int `json:"items_fetched"`
	ItemsFiltered      int `json:"items_filtered"`
	ItemsDeduplicated  int `json:"items_deduplicated"`
	ItemsUncategorized int `json:"items_uncategorized"`
	MalformedItems     int `json:"malformed_items"`
	SourceErrors       int `json:"source_errors"`
}

// Digest is the final structured payload handed to the presentation layer.
// Clusters are ordered by urgency descending.
type Digest struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Clusters    []*TopicCluster  `json:"clusters"`
	Narratives  []NarrativeBlock `json:"narratives"`
	Diagnostics Diagnostics      `json:"diagnostics"`
}
