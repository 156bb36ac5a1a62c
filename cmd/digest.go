package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aidigest/internal/config"
	"aidigest/internal/email"
	"aidigest/internal/history"
	"aidigest/internal/llm"
	"aidigest/internal/logger"
	"aidigest/internal/narrative"
	"aidigest/internal/pipeline"
	"aidigest/internal/render"
	"aidigest/internal/sources"
)

var dryRun bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Run the full pipeline once and deliver the digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDigest(cmd.Context())
	},
}

func init() {
	digestCmd.Flags().BoolVar(&dryRun, "dry-run", false, "render locally, skip email delivery")
	rootCmd.AddCommand(digestCmd)
}

func runDigest(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.App.Debug {
		logger.SetDebug()
	}

	clusterDefs, err := config.LoadClusters(cfg.App.ClustersFile)
	if err != nil {
		return fmt.Errorf("failed to load cluster definitions: %w", err)
	}

	store, err := history.NewStore(cfg.App.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open run history store: %w", err)
	}

	// A missing oracle degrades to a digest without narratives, not a
	// failed run.
	var oracle narrative.TextGenerator
	if client, err := llm.NewClient(ctx, cfg.LLM); err != nil {
		logger.Warnf("oracle unavailable, skipping narratives: %v", err)
	} else {
		oracle = client
	}

	p := pipeline.New(cfg, clusterDefs, buildAdapters(cfg), oracle, store)

	start := time.Now()
	digest, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	logger.Infof("pipeline completed in %s: %d clusters, %d items fetched",
		time.Since(start).Round(time.Millisecond), len(digest.Clusters), digest.Diagnostics.ItemsFetched)

	branding := render.DefaultBranding()

	mdPath, err := render.WriteMarkdownDigest(digest, branding, cfg.Output.Directory)
	if err != nil {
		logger.Error("failed to write markdown digest", err)
	} else {
		logger.Infof("digest written to %s", mdPath)
	}

	if dryRun {
		return nil
	}

	html, err := render.RenderHTML(digest, branding)
	if err != nil {
		return fmt.Errorf("failed to render digest HTML: %w", err)
	}

	sender := email.NewSender(cfg.Email)
	if !sender.Configured() {
		logger.Warnf("email delivery not configured, digest kept local only")
		return nil
	}
	subject := fmt.Sprintf("%s - %s", cfg.Email.Subject, digest.GeneratedAt.Format("January 2, 2006"))
	if err := sender.Send(subject, html); err != nil {
		logger.Error("digest delivery failed", err)
		return nil
	}
	logger.Info("digest delivered")
	return nil
}

// buildAdapters instantiates one adapter per configured source. A source
// with no configuration simply contributes nothing.
func buildAdapters(cfg *config.Config) []sources.Adapter {
	var adapters []sources.Adapter
	if len(cfg.Sources.GitHub.Repos) > 0 {
		adapters = append(adapters, sources.NewGitHub(cfg.Sources.GitHub))
	}
	if len(cfg.Sources.Papers.Keywords) > 0 {
		adapters = append(adapters, sources.NewPapers(cfg.Sources.Papers))
	}
	if len(cfg.Sources.RSS.Feeds) > 0 {
		adapters = append(adapters, sources.NewRSS(cfg.Sources.RSS))
	}
	return adapters
}
