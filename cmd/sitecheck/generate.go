package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitecheck/sitecheck/internal/config"
	"github.com/sitecheck/sitecheck/internal/crawler"
	"github.com/sitecheck/sitecheck/internal/sitemap"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Crawl a website and generate a sitemap.xml",
		Long: `Generate crawls a website breadth-first from the given URL without
running any checks and writes a sitemap-protocol XML document. Each
page's priority decays geometrically with its crawl depth (the root
gets 1.00, each hop multiplies by 0.8).

Examples:
  # Generate sitemap.xml in the current directory
  sitecheck generate https://example.com

  # Write to a custom path with a bounded crawl
  sitecheck generate --output dist/sitemap.xml --max-pages 500 https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerateCmd,
	}

	cmd.Flags().IntP("max", "m", config.DefaultBatchSize,
		"Number of pages fetched concurrently per batch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().Int("max-pages", 0,
		"Maximum number of pages to crawl (0 = unlimited)")
	cmd.Flags().Int("max-depth", 0,
		"Maximum crawl depth (0 = unlimited)")
	cmd.Flags().StringP("output", "o", config.DefaultSitemapFile,
		"Output path for the sitemap XML")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecheck in current or home directory)")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildGenerateConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runGenerate(ctx, cfg, logger)
}

// buildGenerateConfig creates a Config from generate command flags.
func buildGenerateConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Target = args[0]

	var err error

	cfg.BatchSize, err = cmd.Flags().GetInt("max")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth")
	if err != nil {
		return nil, err
	}

	cfg.SitemapFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runGenerate executes the sitemap generation run. Unlike check, the
// crawl runs no checks and does not skip sitemap.xml/robots.txt links.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := &http.Client{Timeout: cfg.Timeout}
	site := cfg.SiteConfigForTarget()

	logger.Info("starting sitemap generation",
		"target", cfg.Target,
		"batchSize", cfg.BatchSize,
		"output", cfg.SitemapFile,
	)

	if err := probeTarget(ctx, client, cfg.Target); err != nil {
		return fmt.Errorf("target %s is unreachable: %w", cfg.Target, err)
	}

	engine, err := newEngine(client, cfg, site, crawler.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Printf("Crawling %s...\n", cfg.Target)
	startTime := time.Now()

	store, err := engine.Crawl(ctx)
	if err != nil {
		return fmt.Errorf("crawl aborted: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Crawled %d page(s) in %s\n", store.Len(), elapsed.Round(time.Millisecond))

	if dir := filepath.Dir(cfg.SitemapFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.SitemapFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create sitemap file: %w", err)
	}
	defer f.Close()

	if err := sitemap.NewRenderer().Render(f, store); err != nil {
		return fmt.Errorf("failed to render sitemap: %w", err)
	}

	fmt.Printf("Wrote %s\n", cfg.SitemapFile)
	return nil
}
