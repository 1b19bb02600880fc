package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitecheck/sitecheck/internal/checks"
	"github.com/sitecheck/sitecheck/internal/config"
	"github.com/sitecheck/sitecheck/internal/database"
	"github.com/sitecheck/sitecheck/internal/model"
	"github.com/sitecheck/sitecheck/internal/report"
)

// TestNewCheckCmd tests the check command creation.
func TestNewCheckCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCheckCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "check <url>" {
			t.Errorf("expected use 'check <url>', got %q", cmd.Use)
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for missing argument")
		}
		if err := cmd.Args(cmd, []string{"https://example.com"}); err != nil {
			t.Errorf("unexpected error for one argument: %v", err)
		}
	})

	t.Run("has max flag with batch default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max")
		if flag == nil {
			t.Fatal("expected max flag")
		}
		if flag.Shorthand != "m" {
			t.Errorf("expected shorthand 'm', got %q", flag.Shorthand)
		}
		if flag.DefValue != "15" {
			t.Errorf("expected default '15', got %q", flag.DefValue)
		}
	})

	t.Run("check category defaults", func(t *testing.T) {
		t.Parallel()
		for name, want := range map[string]string{
			"seo":           "true",
			"accessibility": "true",
			"social-media":  "false",
		} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Fatalf("expected %s flag", name)
			}
			if flag.DefValue != want {
				t.Errorf("flag %s: expected default %q, got %q", name, want, flag.DefValue)
			}
		}
	})

	t.Run("has crawl cap flags defaulting to unbounded", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"max-pages", "max-depth"} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Fatalf("expected %s flag", name)
			}
			if flag.DefValue != "0" {
				t.Errorf("flag %s: expected default '0', got %q", name, flag.DefValue)
			}
		}
	})

	t.Run("has report flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("markdown") == nil {
			t.Error("expected markdown flag")
		}
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has no-history flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("no-history")
		if flag == nil {
			t.Fatal("expected no-history flag")
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})
}

// TestSetupLogger tests logger level selection.
func TestSetupLogger(t *testing.T) {
	t.Parallel()

	quiet := setupLogger(false)
	if quiet.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("non-verbose logger must not log debug")
	}
	if !quiet.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("non-verbose logger must log warnings")
	}

	verbose := setupLogger(true)
	if !verbose.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("verbose logger must log debug")
	}
}

// TestBuildCheckConfig tests flag-to-config mapping.
func TestBuildCheckConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewCheckCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		cfg, err := buildCheckConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}

		if cfg.Target != "https://example.com" {
			t.Errorf("Target = %q", cfg.Target)
		}
		if cfg.BatchSize != config.DefaultBatchSize {
			t.Errorf("BatchSize = %d", cfg.BatchSize)
		}
		if !cfg.SEO || !cfg.Accessibility || cfg.SocialMedia {
			t.Errorf("unexpected category defaults: %+v", cfg)
		}
		if cfg.SiteConfigs == nil {
			t.Error("SiteConfigs must be initialized")
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewCheckCmd()
		args := []string{
			"--max", "5",
			"--seo=false",
			"--social-media",
			"--max-pages", "100",
			"--markdown",
			"--no-history",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		cfg, err := buildCheckConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}

		if cfg.BatchSize != 5 {
			t.Errorf("BatchSize = %d", cfg.BatchSize)
		}
		if cfg.SEO {
			t.Error("SEO must be disabled")
		}
		if !cfg.SocialMedia {
			t.Error("SocialMedia must be enabled")
		}
		if cfg.MaxPages != 100 {
			t.Errorf("MaxPages = %d", cfg.MaxPages)
		}
		if !cfg.MarkdownReport || !cfg.NoHistory {
			t.Errorf("report/history flags lost: %+v", cfg)
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewCheckCmd()
		missing := filepath.Join(t.TempDir(), "nope.yml")
		if err := cmd.ParseFlags([]string{"--config", missing}); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		if _, err := buildCheckConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected an error for missing explicit config file")
		}
	})
}

// TestEnabledCategories tests category identifier listing.
func TestEnabledCategories(t *testing.T) {
	t.Parallel()

	got := enabledCategories(checks.Options{SEO: true, SocialMedia: true})
	want := []string{"seo", "social-media", "performance"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestRunCheck tests the end-to-end check run against a local server.
func TestRunCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Home</title></head>
			<body><h1>Home</h1><a href="/about">About</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>About</title></head><body><h1>About</h1></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg := config.NewConfig()
	cfg.Target = server.URL
	cfg.NoHistory = true
	cfg.ReportFile = filepath.Join(workDir, "report.txt")

	logger := setupLogger(false)
	if err := runCheck(context.Background(), cfg, logger); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// pages.json lands in the working directory.
	data, err := os.ReadFile(filepath.Join(workDir, config.DefaultReportFile))
	if err != nil {
		t.Fatalf("pages.json missing: %v", err)
	}
	var document map[string]json.RawMessage
	if err := json.Unmarshal(data, &document); err != nil {
		t.Fatalf("pages.json malformed: %v", err)
	}
	if _, ok := document["global"]; !ok {
		t.Error("pages.json missing global entry")
	}
	if len(document) != 3 {
		t.Errorf("expected 2 pages + global, got %d entries", len(document))
	}

	// The text report goes to the configured file.
	reportData, err := os.ReadFile(cfg.ReportFile)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if !strings.Contains(string(reportData), "SITECHECK REPORT") {
		t.Errorf("unexpected report content:\n%s", reportData)
	}
	if !strings.Contains(string(reportData), "SEO: Missing meta description tag") {
		t.Errorf("expected meta description finding:\n%s", reportData)
	}
}

// TestRunCheckUnreachableTarget tests the pre-crawl reachability gate.
func TestRunCheckUnreachableTarget(t *testing.T) {
	t.Parallel()

	// A server that is already closed refuses connections.
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	cfg := config.NewConfig()
	cfg.Target = target
	cfg.NoHistory = true

	err := runCheck(context.Background(), cfg, setupLogger(false))
	if err == nil {
		t.Fatal("expected an error for unreachable target")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestSaveRunHistory tests run persistence through the CLI helper.
func TestSaveRunHistory(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Target = "https://example.com/"
	cfg.DBDir = t.TempDir()

	summary := &report.Summary{
		Target:         cfg.Target,
		PageCount:      2,
		GlobalErrors:   []string{},
		GlobalWarnings: []string{},
	}

	saveRunHistory(context.Background(), cfg, summary, setupLogger(false))

	hdb, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("history database missing: %v", err)
	}
	defer hdb.Close()

	stored, err := hdb.GetLatestRun(context.Background(), cfg.Target)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if stored == nil || stored.PageCount != 2 {
		t.Errorf("unexpected stored run: %+v", stored)
	}
}

// TestOutputReportFormats tests format and destination selection.
func TestOutputReportFormats(t *testing.T) {
	t.Parallel()

	store := model.NewStore()
	record := model.NewPageRecord("https://example.com/", 1)
	record.Title = "Home"
	store.Add(record.URL, record)

	summary := &report.Summary{
		Target:         "https://example.com/",
		PageCount:      1,
		GlobalErrors:   []string{},
		GlobalWarnings: []string{},
	}

	t.Run("markdown to nested file path", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "out.md")

		if err := outputReport(cfg, summary, store); err != nil {
			t.Fatalf("output failed: %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("report file missing: %v", err)
		}
		if !strings.Contains(string(data), "# Sitecheck Report") {
			t.Errorf("expected markdown heading:\n%s", data)
		}
	})

	t.Run("simple text to file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "out.txt")

		if err := outputReport(cfg, summary, store); err != nil {
			t.Fatalf("output failed: %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("report file missing: %v", err)
		}
		if !strings.Contains(string(data), "SITECHECK REPORT") {
			t.Errorf("expected text report:\n%s", data)
		}
	})
}

// TestHistoryCmdEmpty tests history listing without a database.
func TestHistoryCmdEmpty(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	cmd.SetArgs([]string{"--db-dir", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when no history database exists")
	}
}
