// Package render turns the final digest payload into the HTML email
// document and a markdown file for local output. It is a pure presentation
// step over the engine's output.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"aidigest/internal/core"
)

// Branding holds the presentation strings for the digest header.
type Branding struct {
	Title    string
	Subtitle string
}

// DefaultBranding returns the standard digest branding.
func DefaultBranding() Branding {
	return Branding{
		Title:    "AI & Robotics Intelligence Digest",
		Subtitle: "Intelligent clustering and analysis of commits, papers, and industry news",
	}
}

type htmlData struct {
	Branding   Branding
	Date       string
	Clusters   []*core.TopicCluster
	Narratives []core.NarrativeBlock
	Diag       core.Diagnostics
}

var htmlFuncs = template.FuncMap{
	"trendArrow": trendArrow,
	"slotTitle":  slotTitle,
}

var htmlTemplate = template.Must(template.New("digest").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Branding.Title}}</title>
<style>
body { font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #1e293b; background: #f8fafc; padding: 20px; }
.container { max-width: 700px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; border: 1px solid #e2e8f0; }
.header { background: #1a365d; color: #ffffff; padding: 32px 24px; text-align: center; }
.header h1 { font-size: 26px; margin: 0 0 4px; }
.header .date { opacity: 0.85; font-size: 14px; }
.section { padding: 24px; border-bottom: 1px solid #e2e8f0; }
.section h2 { font-size: 18px; margin: 0 0 12px; }
.cluster { margin-bottom: 20px; }
.cluster h3 { font-size: 16px; margin: 0 0 6px; }
.badge { display: inline-block; padding: 2px 8px; border-radius: 10px; font-size: 12px; margin-left: 6px; }
.badge.high { background: #fed7d7; color: #9b2c2c; }
.badge.medium { background: #feebc8; color: #92400e; }
.badge.low { background: #e2e8f0; color: #475569; }
.cluster ul { margin: 6px 0 0; padding-left: 20px; }
.related { color: #64748b; font-size: 13px; margin-top: 4px; }
.diagnostics { color: #64748b; font-size: 13px; padding: 16px 24px; }
a { color: #2563eb; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Branding.Title}}</h1>
    <div class="date">{{.Date}}</div>
  </div>
{{range .Narratives}}{{if .IsComplete}}  <div class="section">
    <h2>{{slotTitle .Slot}}</h2>
    <p>{{.RepairedText}}</p>
  </div>
{{end}}{{end}}{{range .Clusters}}{{if .Items}}  <div class="section cluster">
    <h3>{{.Icon}} {{.DisplayName}}<span class="badge {{.Stats.ActivityLevel}}">{{.Stats.ActivityLevel}}</span> {{trendArrow .Stats.Trend}}</h3>
    <ul>
{{range .Items}}      <li><a href="{{.URL}}">{{.Title}}</a></li>
{{end}}    </ul>
{{if .RelatedItems}}    <div class="related">Related: {{range $i, $r := .RelatedItems}}{{if $i}}, {{end}}{{$r.Title}}{{end}}</div>
{{end}}  </div>
{{end}}{{end}}  <div class="diagnostics">
    {{.Diag.ItemsFetched}} fetched &middot; {{.Diag.ItemsFiltered}} filtered &middot; {{.Diag.ItemsDeduplicated}} deduplicated &middot; {{.Diag.ItemsUncategorized}} uncategorized &middot; {{.Diag.SourceErrors}} source errors
  </div>
</div>
</body>
</html>
`))

// RenderHTML renders the digest as a standalone HTML email document.
// Incomplete narrative blocks are omitted; they must never be rendered
// half-formed.
func RenderHTML(digest core.Digest, branding Branding) (string, error) {
	data := htmlData{
		Branding:   branding,
		Date:       digest.GeneratedAt.Format("January 2, 2006"),
		Clusters:   digest.Clusters,
		Narratives: digest.Narratives,
		Diag:       digest.Diagnostics,
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render digest HTML: %w", err)
	}
	return buf.String(), nil
}

// RenderMarkdown renders the digest as markdown for dry-run output.
func RenderMarkdown(digest core.Digest, branding Branding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - %s\n\n", branding.Title, digest.GeneratedAt.Format("2006-01-02"))

	for _, block := range digest.Narratives {
		if !block.IsComplete {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", slotTitle(block.Slot), block.RepairedText)
	}

	for _, cluster := range digest.Clusters {
		if len(cluster.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s %s (%s, %s)\n\n", cluster.Icon, cluster.DisplayName,
			cluster.Stats.ActivityLevel, cluster.Stats.Trend)
		for _, item := range cluster.Items {
			fmt.Fprintf(&b, "- [%s](%s)\n", item.Title, item.URL)
		}
		b.WriteString("\n")
	}

	d := digest.Diagnostics
	fmt.Fprintf(&b, "---\n%d fetched, %d filtered, %d deduplicated, %d uncategorized, %d source errors\n",
		d.ItemsFetched, d.ItemsFiltered, d.ItemsDeduplicated, d.ItemsUncategorized, d.SourceErrors)
	return b.String()
}

// WriteMarkdownDigest writes the markdown rendering to a dated file in the
// output directory and returns the file path.
func WriteMarkdownDigest(digest core.Digest, branding Branding, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filename := fmt.Sprintf("digest_%s.md", digest.GeneratedAt.Format("2006-01-02"))
	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, []byte(RenderMarkdown(digest, branding)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write digest file: %w", err)
	}
	return filePath, nil
}

func trendArrow(trend core.TrendDirection) string {
	switch trend {
	case core.TrendIncreasing:
		return "↗"
	case core.TrendDecreasing:
		return "↘"
	default:
		return "→"
	}
}

func slotTitle(slot string) string {
	switch slot {
	case "executive_summary":
		return "Executive Summary"
	case "cross_cluster_insight":
		return "Cross-Cluster Insight"
	default:
		return strings.Title(strings.ReplaceAll(slot, "_", " "))
	}
}
