package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitecheck/sitecheck/internal/checks"
	"github.com/sitecheck/sitecheck/internal/config"
	"github.com/sitecheck/sitecheck/internal/crawler"
	"github.com/sitecheck/sitecheck/internal/database"
	"github.com/sitecheck/sitecheck/internal/model"
	"github.com/sitecheck/sitecheck/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Crawl a website and check every page for issues",
		Long: `Check crawls a website breadth-first from the given URL and runs a
battery of checks against every same-origin page it discovers:
- SEO (headings, title, meta description, anchors, image validity)
- Accessibility (alt text, SVG semantics, ARIA roles, form labels)
- Social media metadata (Open Graph and Twitter card tags)
- Performance (load time classification)

Results are written to pages.json and summarized on stdout.

Examples:
  # Check a site with default settings
  sitecheck check https://example.com

  # Crawl 30 pages at a time and include social media checks
  sitecheck check --max 30 --social-media https://example.com

  # Write a Markdown report to a file
  sitecheck check --markdown --output report.md https://example.com

Configuration file (.sitecheck) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      ignorePatterns:
        - "/admin/*"`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max", "m", config.DefaultBatchSize,
		"Number of pages fetched concurrently per batch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().Int("max-pages", 0,
		"Maximum number of pages to crawl (0 = unlimited)")
	cmd.Flags().Int("max-depth", 0,
		"Maximum crawl depth (0 = unlimited)")

	// Check selection flags
	cmd.Flags().Bool("seo", true, "Run SEO checks")
	cmd.Flags().Bool("accessibility", true, "Run accessibility checks")
	cmd.Flags().Bool("social-media", false, "Run social media metadata checks")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecheck in current or home directory)")

	// Report flags
	cmd.Flags().Bool("markdown", false,
		"Output a Markdown report instead of the plain text summary")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not save the run summary to the history database")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runCheck(ctx, cfg, logger)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCheckConfig creates a Config from cobra command flags.
func buildCheckConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
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

	cfg.SEO, err = cmd.Flags().GetBool("seo")
	if err != nil {
		return nil, err
	}

	cfg.Accessibility, err = cmd.Flags().GetBool("accessibility")
	if err != nil {
		return nil, err
	}

	cfg.SocialMedia, err = cmd.Flags().GetBool("social-media")
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

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NoHistory, err = cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSiteConfigs loads the .sitecheck config file into the config.
// If the user explicitly specified a config file path, a missing file is
// an error. Otherwise an absent file silently yields an empty config.
func loadSiteConfigs(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		siteConfigs, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = siteConfigs
		return nil
	}

	if explicitConfigPath {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.SiteConfigs = &config.File{
		Sites: make(map[string]config.SiteConfig),
	}
	return nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// progressObserver prints crawl progress to stderr.
// The crawl engine itself never prints; console output stays here.
type progressObserver struct{}

// OnFetchStart implements crawler.Observer.
func (progressObserver) OnFetchStart(string, int) {}

// OnFetchComplete implements crawler.Observer.
func (progressObserver) OnFetchComplete(url string, status int, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "  %s (%d, %s)\n", url, status, elapsed.Round(time.Millisecond))
}

// OnPageError implements crawler.Observer.
func (progressObserver) OnPageError(url string, err error) {
	fmt.Fprintf(os.Stderr, "  %s FAILED: %v\n", url, err)
}

// runCheck executes the crawl-and-check run.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := &http.Client{Timeout: cfg.Timeout}
	site := cfg.SiteConfigForTarget()

	logger.Info("starting check",
		"target", cfg.Target,
		"batchSize", cfg.BatchSize,
		"seo", cfg.SEO,
		"accessibility", cfg.Accessibility,
		"socialMedia", cfg.SocialMedia,
	)

	// An unreachable base is a hard failure before any crawling begins.
	if err := probeTarget(ctx, client, cfg.Target); err != nil {
		return fmt.Errorf("target %s is unreachable: %w", cfg.Target, err)
	}

	battery := checks.Default()
	checks.SetHTTPClient(battery, client)
	checkOpts := checks.Options{
		SEO:           cfg.SEO,
		Accessibility: cfg.Accessibility,
		SocialMedia:   cfg.SocialMedia,
	}

	engine, err := newEngine(client, cfg, site,
		crawler.WithChecks(battery, checkOpts),
		crawler.WithSkipWellKnown(true),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Checking %s...\n", cfg.Target)
	startTime := time.Now()

	store, err := engine.Crawl(ctx)
	if err != nil {
		return fmt.Errorf("crawl aborted: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Checked %d page(s) in %s\n", store.Len(), elapsed.Round(time.Millisecond))

	base, _ := url.Parse(cfg.Target)
	summary := report.NewAggregator(client).Aggregate(ctx, base, store)
	summary.Categories = enabledCategories(checkOpts)

	if err := writePagesJSON(summary, store); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n\n", config.DefaultReportFile)

	if err := outputReport(cfg, summary, store); err != nil {
		return err
	}

	if !cfg.NoHistory {
		saveRunHistory(ctx, cfg, summary, logger)
	}

	return nil
}

// newEngine builds a crawl engine from the config and per-site overrides.
func newEngine(client *http.Client, cfg *config.Config, site config.SiteConfig, extra ...crawler.Option) (*crawler.Engine, error) {
	batchSize := cfg.BatchSize
	if site.BatchSize > 0 {
		batchSize = site.BatchSize
	}

	opts := []crawler.Option{
		crawler.WithBatchSize(batchSize),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxDepth(cfg.MaxDepth),
	}
	if cfg.Verbose {
		opts = append(opts, crawler.WithObserver(progressObserver{}))
	}
	if site.Cookie != "" {
		opts = append(opts, crawler.WithCookie(site.Cookie))
	}
	if len(site.Headers) > 0 {
		opts = append(opts, crawler.WithHeaders(site.Headers))
	}
	if len(site.IgnorePatterns) > 0 {
		opts = append(opts, crawler.WithIgnorePatterns(site.IgnorePatterns))
	}
	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}
	if userAgent != "" {
		opts = append(opts, crawler.WithUserAgent(userAgent))
	}
	if cfg.MaxBodySize > 0 {
		opts = append(opts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}
	opts = append(opts, extra...)

	engine, err := crawler.NewEngine(client, cfg.Target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create crawler: %w", err)
	}
	return engine, nil
}

// probeTarget verifies the base URL answers at the transport level.
// HTTP error statuses are left for the crawl to record; only a connection
// failure aborts the run.
func probeTarget(ctx context.Context, client *http.Client, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", crawler.DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// enabledCategories lists the check category identifiers active for a run.
func enabledCategories(opts checks.Options) []string {
	all := []checks.Category{
		checks.CategorySEO,
		checks.CategoryAccessibility,
		checks.CategorySocialMedia,
		checks.CategoryPerformance,
	}
	enabled := make([]string, 0, len(all))
	for _, c := range all {
		if opts.Enabled(c) {
			enabled = append(enabled, string(c))
		}
	}
	return enabled
}

// writePagesJSON writes the machine-readable page report to pages.json in
// the current directory.
func writePagesJSON(summary *report.Summary, store *model.Store) error {
	f, err := os.OpenFile(config.DefaultReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", config.DefaultReportFile, err)
	}
	defer f.Close()

	if _, err := report.NewJSONWriter(f, report.WithPrettyPrint()).Write(summary, store); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.DefaultReportFile, err)
	}
	return nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, summary *report.Summary, store *model.Store) error {
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	if cfg.MarkdownReport {
		writer = report.NewMarkdownWriter(output)
	} else {
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(summary, store)
	return err
}

// saveRunHistory saves the run summary to the history database.
// Failures are logged, never fatal: the report already reached the user.
func saveRunHistory(ctx context.Context, cfg *config.Config, summary *report.Summary, logger *slog.Logger) {
	hdb, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer hdb.Close()

	if _, err := hdb.SaveRun(ctx, summary); err != nil {
		logger.Error("failed to save run history", "target", summary.Target, "error", err)
		return
	}
	logger.Info("run history saved", "target", summary.Target, "dir", cfg.DBDir)
}
