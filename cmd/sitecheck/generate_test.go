package main

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitecheck/sitecheck/internal/config"
)

// TestNewGenerateCmd tests the generate command creation.
func TestNewGenerateCmd(t *testing.T) {
	t.Parallel()

	cmd := NewGenerateCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "generate <url>" {
			t.Errorf("expected use 'generate <url>', got %q", cmd.Use)
		}
	})

	t.Run("has output flag with sitemap default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.DefValue != config.DefaultSitemapFile {
			t.Errorf("expected default %q, got %q", config.DefaultSitemapFile, flag.DefValue)
		}
	})

	t.Run("has no check selection flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"seo", "accessibility", "social-media"} {
			if cmd.Flags().Lookup(name) != nil {
				t.Errorf("generate must not expose the %s flag", name)
			}
		}
	})
}

// TestRunGenerate tests end-to-end sitemap generation.
func TestRunGenerate(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/about">About</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/about/team">Team</a></body></html>`))
	})
	mux.HandleFunc("/about/team", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>team</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := config.NewConfig()
	cfg.Target = server.URL
	cfg.SitemapFile = filepath.Join(t.TempDir(), "out", "sitemap.xml")

	if err := runGenerate(context.Background(), cfg, setupLogger(false)); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(cfg.SitemapFile)
	if err != nil {
		t.Fatalf("sitemap missing: %v", err)
	}

	output := string(data)
	for _, want := range []string{
		"<priority>1.00</priority>",
		"<priority>0.80</priority>",
		"<priority>0.64</priority>",
		"<changefreq>daily</changefreq>",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("sitemap missing %q:\n%s", want, output)
		}
	}

	var parsed struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 3 {
		t.Errorf("expected 3 url entries, got %d", len(parsed.URLs))
	}
}
