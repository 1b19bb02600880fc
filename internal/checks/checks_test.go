package checks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitecheck/sitecheck/internal/model"
)

// mustParse parses an HTML fragment into a goquery document.
func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return doc
}

// allOptions enables every gated category.
func allOptions() Options {
	return Options{SEO: true, Accessibility: true, SocialMedia: true}
}

// hasDiagnostic reports whether any string in list contains substr.
func hasDiagnostic(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// TestHeadingStructureCheck tests heading hierarchy validation.
func TestHeadingStructureCheck(t *testing.T) {
	t.Parallel()

	t.Run("missing h1", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><h2>Sub</h2></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewHeadingStructureCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Errors, "Missing <h1>") {
			t.Errorf("expected missing h1 error, got %v", page.Errors)
		}
	})

	t.Run("multiple h1", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><h1>One</h1><h1>Two</h1></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewHeadingStructureCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Errors, "Multiple <h1> tags found (2)") {
			t.Errorf("expected multiple h1 error, got %v", page.Errors)
		}
	})

	t.Run("skipped level flagged once", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><h1>Top</h1><h3>Deep</h3></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewHeadingStructureCheck().Run(allOptions(), doc, page)

		count := 0
		for _, e := range page.Errors {
			if strings.Contains(e, "<h3> used without") {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected exactly 1 skipped-level error for h3, got %d: %v", count, page.Errors)
		}
	})

	t.Run("well-formed hierarchy passes", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><h1>Top</h1><h2>Mid</h2><h3>Deep</h3></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewHeadingStructureCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 0 {
			t.Errorf("expected no errors, got %v", page.Errors)
		}
		if len(page.Headings[2]) != 1 || page.Headings[2][0] != "Mid" {
			t.Errorf("expected h2 heading recorded, got %v", page.Headings)
		}
	})
}

// TestTitleCheck tests title presence and width estimation.
func TestTitleCheck(t *testing.T) {
	t.Parallel()

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head></head><body></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewTitleCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Errors, "Missing or empty <title>") {
			t.Errorf("expected missing title error, got %v", page.Errors)
		}
	})

	t.Run("records title text", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head><title>Home</title></head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewTitleCheck().Run(allOptions(), doc, page)

		if page.Title != "Home" {
			t.Errorf("expected title %q, got %q", "Home", page.Title)
		}
		if len(page.Errors) != 0 || len(page.Warnings) != 0 {
			t.Errorf("expected no diagnostics, got %v / %v", page.Errors, page.Warnings)
		}
	})

	t.Run("overly wide title warns", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("Wide Title Words ", 8)
		doc := mustParse(t, `<html><head><title>`+long+`</title></head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewTitleCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Warnings, "too wide") {
			t.Errorf("expected width warning, got %v", page.Warnings)
		}
	})
}

// TestEstimateTextWidth tests the character width table fallback.
func TestEstimateTextWidth(t *testing.T) {
	t.Parallel()

	if w := estimateTextWidth(""); w != 0 {
		t.Errorf("expected 0 width for empty string, got %f", w)
	}

	// An unknown rune contributes the table average.
	known := estimateTextWidth("aa")
	withUnknown := estimateTextWidth("aé") // e-acute is not in the table
	if withUnknown <= known/2 {
		t.Errorf("expected fallback width for unknown rune, got %f", withUnknown)
	}
}

// TestMetaDescriptionCheck tests meta description detection.
func TestMetaDescriptionCheck(t *testing.T) {
	t.Parallel()

	t.Run("missing description", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head></head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewMetaDescriptionCheck().Run(allOptions(), doc, page)

		want := "SEO: Missing meta description tag"
		if len(page.Errors) != 1 || page.Errors[0] != want {
			t.Errorf("expected [%q], got %v", want, page.Errors)
		}
	})

	t.Run("present description passes", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head><meta name="description" content="About us"></head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewMetaDescriptionCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 0 {
			t.Errorf("expected no errors, got %v", page.Errors)
		}
	})
}

// TestH1LengthCheck tests the h1 word budget.
func TestH1LengthCheck(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body>
		<h1>one two three four five six seven eight nine ten eleven twelve thirteen</h1>
		<h1>Short heading</h1>
	</body></html>`)
	page := model.NewPageRecord("https://example.com/", 1)
	NewH1LengthCheck().Run(allOptions(), doc, page)

	if len(page.Warnings) != 1 || !strings.Contains(page.Warnings[0], "exceeds 12 words") {
		t.Errorf("expected one word-count warning, got %v", page.Warnings)
	}
}

// TestAnchorHrefCheck tests detection of anchors without href.
func TestAnchorHrefCheck(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body>
		<a href="/ok">fine</a>
		<a>broken</a>
		<a name="legacy">also broken</a>
	</body></html>`)
	page := model.NewPageRecord("https://example.com/", 1)
	NewAnchorHrefCheck().Run(allOptions(), doc, page)

	if len(page.Errors) != 2 {
		t.Errorf("expected 2 href errors, got %v", page.Errors)
	}
}

// TestImageValidityCheck tests image reachability probing.
func TestImageValidityCheck(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png"))
	})
	mux.HandleFunc("/not-image", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc := mustParse(t, `<html><body>
		<img src="/ok.png">
		<img src="/not-image">
		<img src="/missing.png">
	</body></html>`)
	page := model.NewPageRecord(server.URL+"/", 1)

	check := NewImageValidityCheck()
	check.SetHTTPClient(server.Client())
	check.Run(allOptions(), doc, page)

	if len(page.Errors) != 2 {
		t.Fatalf("expected 2 image errors, got %v", page.Errors)
	}
	if !hasDiagnostic(page.Errors, "does not serve image content") {
		t.Errorf("expected content-type error, got %v", page.Errors)
	}
	if !hasDiagnostic(page.Errors, "Unreachable image: /missing.png") {
		t.Errorf("expected unreachable error, got %v", page.Errors)
	}
}

// TestSocialMetaCheck tests required social meta tag detection.
func TestSocialMetaCheck(t *testing.T) {
	t.Parallel()

	t.Run("flags every missing tag", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head></head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewSocialMetaCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != len(requiredSocialTags) {
			t.Errorf("expected %d errors, got %d: %v", len(requiredSocialTags), len(page.Errors), page.Errors)
		}
	})

	t.Run("complete tags pass", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head>
			<meta property="og:title" content="t">
			<meta property="og:description" content="d">
			<meta property="og:image" content="i">
			<meta property="og:url" content="u">
			<meta property="og:type" content="website">
			<meta name="twitter:title" content="t">
			<meta name="twitter:description" content="d">
			<meta name="twitter:image" content="i">
		</head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewSocialMetaCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 0 {
			t.Errorf("expected no errors, got %v", page.Errors)
		}
	})

	t.Run("empty content counts as missing", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><head><meta property="og:title" content=""></head></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewSocialMetaCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Errors, "og:title") {
			t.Errorf("expected og:title flagged, got %v", page.Errors)
		}
	})
}

// TestImageAltCheck tests alt text validation with aria-hidden exemption.
func TestImageAltCheck(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body>
		<img src="/a.png" alt="described">
		<img src="/b.png">
		<div aria-hidden="true"><img src="/c.png"></div>
		<img src="/d.png" aria-hidden="true">
	</body></html>`)
	page := model.NewPageRecord("https://example.com/", 1)
	NewImageAltCheck().Run(allOptions(), doc, page)

	if len(page.Errors) != 1 || !strings.Contains(page.Errors[0], "/b.png") {
		t.Errorf("expected single alt error for /b.png, got %v", page.Errors)
	}
}

// TestSVGCheck tests svg role and label validation.
func TestSVGCheck(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body>
		<svg role="img" aria-label="logo"></svg>
		<svg></svg>
		<svg aria-hidden="true"></svg>
	</body></html>`)
	page := model.NewPageRecord("https://example.com/", 1)
	NewSVGCheck().Run(allOptions(), doc, page)

	if len(page.Warnings) != 1 || !strings.Contains(page.Warnings[0], `role="img"`) {
		t.Errorf("expected single role warning, got %v", page.Warnings)
	}
	if len(page.Errors) != 1 || !strings.Contains(page.Errors[0], "aria-label") {
		t.Errorf("expected single aria-label error, got %v", page.Errors)
	}
}

// TestAccessibleNameCheck tests interactive element naming.
func TestAccessibleNameCheck(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<html><body>
		<a href="/a">visible text</a>
		<a href="/b"></a>
		<a href="/c" aria-label="labelled"></a>
		<a href="/d"><span aria-label="nested label"></span></a>
		<button></button>
		<div role="button" aria-checked="false"></div>
		<a href="/e" aria-hidden="true"></a>
	</body></html>`)
	page := model.NewPageRecord("https://example.com/", 1)
	NewAccessibleNameCheck().Run(allOptions(), doc, page)

	// The empty anchor, the empty button, and the empty role=button div.
	if len(page.Errors) != 3 {
		t.Errorf("expected 3 accessible-name errors, got %v", page.Errors)
	}
}

// TestAriaRoleCheck tests role vocabulary and companion attributes.
func TestAriaRoleCheck(t *testing.T) {
	t.Parallel()

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><div role="fancybox"></div></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewAriaRoleCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Errors, `Unknown ARIA role "fancybox"`) {
			t.Errorf("expected unknown role error, got %v", page.Errors)
		}
	})

	t.Run("missing companion attribute", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body>
			<div role="checkbox"></div>
			<div role="checkbox" aria-checked="false"></div>
		</body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewAriaRoleCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 1 || !strings.Contains(page.Errors[0], "aria-checked") {
			t.Errorf("expected single aria-checked error, got %v", page.Errors)
		}
	})

	t.Run("clickable div without role", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body>
			<div onclick="go()"></div>
			<span onclick="go()" role="button" aria-checked="false"></span>
		</body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewAriaRoleCheck().Run(allOptions(), doc, page)

		if len(page.Warnings) != 1 || !strings.Contains(page.Warnings[0], "Clickable <div>") {
			t.Errorf("expected single clickable warning, got %v", page.Warnings)
		}
	})
}

// TestFormLabelCheck tests form control labeling rules.
func TestFormLabelCheck(t *testing.T) {
	t.Parallel()

	t.Run("accepts each labeling mechanism", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body>
			<input type="text" aria-label="search">
			<span id="email-label">Email</span><input type="email" aria-labelledby="email-label">
			<label for="phone">Phone</label><input type="tel" id="phone">
			<label>Name <input type="text" name="name"></label>
		</body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewFormLabelCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 0 {
			t.Errorf("expected no errors, got %v", page.Errors)
		}
	})

	t.Run("flags unlabeled control", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><textarea name="comment"></textarea></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewFormLabelCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 1 || !strings.Contains(page.Errors[0], "<textarea>") {
			t.Errorf("expected textarea label error, got %v", page.Errors)
		}
	})

	t.Run("ignores non-text inputs", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body>
			<input type="submit" value="Go">
			<input type="hidden" name="csrf">
		</body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewFormLabelCheck().Run(allOptions(), doc, page)

		if len(page.Errors) != 0 {
			t.Errorf("expected no errors, got %v", page.Errors)
		}
	})

	t.Run("dangling label for", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, `<html><body><label for="nowhere">Lost</label></body></html>`)
		page := model.NewPageRecord("https://example.com/", 1)
		NewFormLabelCheck().Run(allOptions(), doc, page)

		if !hasDiagnostic(page.Errors, `references a nonexistent id`) {
			t.Errorf("expected dangling label error, got %v", page.Errors)
		}
	})
}

// TestPerformanceCheck tests load-time classification and thresholds.
func TestPerformanceCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		millis       int64
		wantScore    model.Score
		wantErrors   int
		wantWarnings int
	}{
		{name: "fast page", millis: 300, wantScore: model.ScoreExcellent},
		{name: "good page", millis: 1500, wantScore: model.ScoreGood},
		{name: "slow page warns", millis: 3000, wantScore: model.ScoreNeedsImprovement, wantWarnings: 1},
		{name: "very slow page errors", millis: 4500, wantScore: model.ScorePoor, wantErrors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := model.NewPageRecord("https://example.com/", 1)
			page.LoadingTime = tt.millis
			NewPerformanceCheck().Run(Options{}, nil, page)

			if page.Score != tt.wantScore {
				t.Errorf("expected score %q, got %q", tt.wantScore, page.Score)
			}
			if len(page.Errors) != tt.wantErrors {
				t.Errorf("expected %d errors, got %v", tt.wantErrors, page.Errors)
			}
			if len(page.Warnings) != tt.wantWarnings {
				t.Errorf("expected %d warnings, got %v", tt.wantWarnings, page.Warnings)
			}
		})
	}
}

// TestCheckIndependence verifies that disabling one category silences its
// diagnostics without affecting another category on the same document.
func TestCheckIndependence(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>T</title></head><body>
		<h1>Heading</h1>
		<img src="/no-alt.png">
	</body></html>`

	run := func(opts Options) *model.PageRecord {
		doc := mustParse(t, html)
		page := model.NewPageRecord("https://example.com/", 1)
		for _, c := range Default() {
			if c.Name() == "image-validity" {
				continue // network check, covered separately
			}
			c.Run(opts, doc, page)
		}
		return page
	}

	withA11y := run(Options{SEO: true, Accessibility: true})
	withoutA11y := run(Options{SEO: true})

	countPrefixed := func(page *model.PageRecord, prefix string) int {
		n := 0
		for _, s := range append(append([]string{}, page.Errors...), page.Warnings...) {
			if strings.HasPrefix(s, prefix) {
				n++
			}
		}
		return n
	}

	if countPrefixed(withA11y, "Accessibility:") == 0 {
		t.Fatal("expected accessibility findings when enabled")
	}
	if got := countPrefixed(withoutA11y, "Accessibility:"); got != 0 {
		t.Errorf("expected zero accessibility findings when disabled, got %d", got)
	}
	if countPrefixed(withA11y, "SEO:") != countPrefixed(withoutA11y, "SEO:") {
		t.Error("SEO findings changed when accessibility was toggled")
	}
}

// TestDefaultBattery verifies registry construction.
func TestDefaultBattery(t *testing.T) {
	t.Parallel()

	battery := Default()
	if len(battery) == 0 {
		t.Fatal("expected a non-empty default battery")
	}

	seen := make(map[string]bool)
	for _, c := range battery {
		if c.Name() == "" {
			t.Error("check with empty name")
		}
		if seen[c.Name()] {
			t.Errorf("duplicate check name %q", c.Name())
		}
		seen[c.Name()] = true
	}

	// Client injection reaches the image check without panicking on others.
	SetHTTPClient(battery, http.DefaultClient)
}
