package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request HTTP timeout. 30 seconds is
	// generous for slow origins while keeping hung connections from
	// stalling a whole batch indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize of 15 concurrent fetches balances throughput with
	// politeness toward the target site. Users can override this via the
	// --max CLI flag.
	DefaultBatchSize = 15

	// AppName is the application name used for XDG directory paths.
	AppName = "sitecheck"

	// DefaultReportFile is where the machine-readable page report is
	// written after a check run.
	DefaultReportFile = "pages.json"

	// DefaultSitemapFile is where the generated sitemap is written.
	DefaultSitemapFile = "sitemap.xml"
)

// Config holds all configuration options for sitecheck.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Target is the base URL of the site to crawl.
	// Must be an absolute http or https URL.
	Target string

	// Timeout is the HTTP timeout for each page fetch.
	Timeout time.Duration

	// BatchSize is the number of pages fetched concurrently per batch.
	BatchSize int

	// MaxPages caps the total number of pages crawled.
	// A value of 0 means unbounded.
	MaxPages int

	// MaxDepth caps the crawl depth. A value of 0 means unbounded.
	MaxDepth int

	// SEO enables the SEO check category.
	SEO bool

	// Accessibility enables the accessibility check category.
	Accessibility bool

	// SocialMedia enables the social media metadata check category.
	SocialMedia bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format on stdout.
	MarkdownReport bool

	// ReportFile is the output file path for the stdout-style report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// SitemapFile is the output path for sitemap generation mode.
	SitemapFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitecheck in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site configurations loaded from the config
	// file. This is populated by LoadConfigFile and applied by host.
	SiteConfigs *File

	// NoHistory disables saving the run summary to the history database.
	NoHistory bool

	// DBDir is the directory path for storing the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/sitecheck on Linux).
	DBDir string

	// UserAgent overrides the User-Agent header sent with HTTP requests.
	// Empty means the crawler default.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the crawler default.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, batch
// size). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		BatchSize:     DefaultBatchSize,
		SEO:           true,
		Accessibility: true,
		SitemapFile:   DefaultSitemapFile,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for sitecheck.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitecheck
// On macOS: ~/Library/Application Support/sitecheck
// On Windows: %LOCALAPPDATA%\sitecheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}

	u, err := url.Parse(c.Target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no crawling
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

// SiteConfigForTarget returns the per-site configuration matching the
// target's host, merged over the config file defaults. Returns a zero
// SiteConfig when no config file was loaded or the target is unparsable.
func (c *Config) SiteConfigForTarget() SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	u, err := url.Parse(c.Target)
	if err != nil {
		return c.SiteConfigs.Defaults
	}
	return c.SiteConfigs.GetSiteConfig(u.Host)
}
