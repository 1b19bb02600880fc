package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/sitecheck/sitecheck/internal/checks"
	"github.com/sitecheck/sitecheck/internal/model"
)

// Default engine settings.
const (
	// DefaultBatchSize is the number of pages fetched concurrently per
	// batch when no limit is configured.
	DefaultBatchSize = 15

	// DefaultUserAgent identifies sitecheck in HTTP requests.
	DefaultUserAgent = "sitecheck/1.0 (+https://github.com/sitecheck/sitecheck)"

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// frontierEntry is a discovered-but-not-yet-fetched page candidate.
type frontierEntry struct {
	// url is the canonical absolute URL of the candidate.
	url string

	// depth is the distance in hops from the seed, starting at 1.
	depth int
}

// Engine drives the breadth-first crawl: it maintains a FIFO frontier of
// candidates, fetches them in concurrency-bounded batches, runs the check
// battery against each fetched document, and merges newly discovered
// same-origin links back into the frontier until it drains.
//
// Design decision: Batches are awaited to completion before the next batch
// starts rather than using a sliding window because:
//  1. The barrier bounds peak concurrency exactly
//  2. Frontier merging and deduplication happen single-threaded between
//     batches, which keeps first-discovery depth semantics trivial
//  3. One slow page delaying its batch is an accepted trade-off
type Engine struct {
	// client performs all page fetches.
	client *http.Client

	// base is the crawl origin; only links with the same scheme and host
	// are followed.
	base *url.URL

	// batchSize bounds how many pages are in flight simultaneously.
	batchSize int

	// battery is the ordered list of checks run against each fetched
	// document. Empty in sitemap mode.
	battery []checks.Check

	// checkOpts selects which check categories run.
	checkOpts checks.Options

	// maxPages caps the total pages crawled. 0 means unbounded: a crawl
	// of an unbounded link graph with novel paths at every depth will not
	// terminate, which is accepted behavior.
	maxPages int

	// maxDepth caps the traversal depth. 0 means unbounded.
	maxDepth int

	// ignorePatterns are URL path glob patterns skipped during traversal.
	ignorePatterns []string

	// skipWellKnown excludes candidates ending in sitemap.xml or
	// robots.txt. Enabled by the checker, not by sitemap generation.
	skipWellKnown bool

	userAgent   string
	headers     map[string]string
	cookie      string
	maxBodySize int64

	logger   *slog.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithBatchSize bounds how many pages are fetched concurrently per batch.
// Values below 1 are treated as 1.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// WithChecks sets the check battery and the options gating it. Without
// this option the engine crawls without running any checks.
func WithChecks(battery []checks.Check, opts checks.Options) Option {
	return func(e *Engine) {
		e.battery = battery
		e.checkOpts = opts
	}
}

// WithMaxPages caps the total number of pages crawled. 0 means unbounded.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		e.maxPages = n
	}
}

// WithMaxDepth caps the traversal depth. 0 means unbounded.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// WithIgnorePatterns sets URL path glob patterns to skip during traversal
// (e.g. "/admin/*", "*.pdf").
func WithIgnorePatterns(patterns []string) Option {
	return func(e *Engine) {
		e.ignorePatterns = patterns
	}
}

// WithSkipWellKnown excludes sitemap.xml and robots.txt candidates from
// the crawl.
func WithSkipWellKnown(skip bool) Option {
	return func(e *Engine) {
		e.skipWellKnown = skip
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Engine) {
		e.userAgent = ua
	}
}

// WithHeaders sets additional HTTP headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(e *Engine) {
		e.headers = headers
	}
}

// WithCookie sets the Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(e *Engine) {
		e.cookie = cookie
	}
}

// WithMaxBodySize limits the response body size read per page.
func WithMaxBodySize(size int64) Option {
	return func(e *Engine) {
		e.maxBodySize = size
	}
}

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObserver installs a progress observer.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// NewEngine creates an Engine crawling from the given base URL.
// The base must be an absolute http or https URL.
func NewEngine(client *http.Client, baseURL string, opts ...Option) (*Engine, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}
	if base.Path == "" {
		base.Path = "/"
	}
	base.Fragment = ""

	e := &Engine{
		client:      client,
		base:        base,
		batchSize:   DefaultBatchSize,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		observer:    NopObserver{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e, nil
}

// Crawl runs the crawl to completion and returns the page record store.
// It returns early only on context cancellation; individual page failures
// are recorded in the store and never abort sibling fetches.
func (e *Engine) Crawl(ctx context.Context) (*model.Store, error) {
	store := model.NewStore()
	frontier := []frontierEntry{{url: e.base.String(), depth: 1}}

	for len(frontier) > 0 {
		take := max(e.batchSize, 1)
		if e.maxPages > 0 {
			remaining := e.maxPages - store.Len()
			if remaining <= 0 {
				break
			}
			take = min(take, remaining)
		}
		take = min(take, len(frontier))

		batch := frontier[:take]
		frontier = frontier[take:]

		discovered := make([][]frontierEntry, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, entry := range batch {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				discovered[i] = e.processPage(gctx, entry, store)
				return nil
			})
		}

		// The batch boundary is a synchronization barrier: nothing from
		// the next batch is dispatched until every worker here returns.
		if err := g.Wait(); err != nil {
			return store, err
		}

		for _, links := range discovered {
			frontier = append(frontier, links...)
		}
		frontier = e.pruneFrontier(frontier, store)
	}

	return store, nil
}

// processPage fetches one candidate, runs the check battery on it, writes
// its record to the store, and returns the next-depth frontier candidates
// discovered on the page. Non-HTML responses produce no record and no
// candidates.
func (e *Engine) processPage(ctx context.Context, entry frontierEntry, store *model.Store) []frontierEntry {
	e.observer.OnFetchStart(entry.url, entry.depth)
	e.logger.Debug("fetching page", "url", entry.url, "depth", entry.depth)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.url, nil)
	if err != nil {
		e.recordFailure(store, entry, fmt.Sprintf("Fetch error: %v", err), err)
		return nil
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	if e.cookie != "" {
		req.Header.Set("Cookie", e.cookie)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		e.recordFailure(store, entry, fmt.Sprintf("Fetch error: %v", err), err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodySize))
	elapsed := time.Since(start)
	if err != nil {
		e.recordFailure(store, entry, fmt.Sprintf("Fetch error: %v", err), err)
		return nil
	}

	// Non-HTML resources are silently ignored: no record, no links.
	contentType := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Type")))
	if !strings.HasPrefix(contentType, "text/html") {
		e.logger.Debug("skipping non-HTML resource", "url", entry.url, "contentType", contentType)
		return nil
	}

	record := model.NewPageRecord(entry.url, entry.depth)
	record.LoadingTime = elapsed.Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("HTTP error: %d", resp.StatusCode)
		record.Failed = true
		record.AddError(statusErr.Error())
		store.Add(entry.url, record)
		e.observer.OnPageError(entry.url, statusErr)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		record.Failed = true
		record.AddError(fmt.Sprintf("Parse error: %v", err))
		store.Add(entry.url, record)
		e.observer.OnPageError(entry.url, err)
		return nil
	}

	for _, check := range e.battery {
		check.Run(e.checkOpts, doc, record)
	}

	// Sibling workers may still be writing their own keys; the store
	// tolerates concurrent reads here.
	links := ExtractLinks(doc, e.base, store)

	store.Add(entry.url, record)
	e.observer.OnFetchComplete(entry.url, resp.StatusCode, elapsed)

	next := make([]frontierEntry, 0, len(links))
	for _, link := range links {
		next = append(next, frontierEntry{url: link, depth: entry.depth + 1})
	}
	return next
}

// recordFailure writes a failed page record for a candidate that could not
// be fetched at the transport level.
func (e *Engine) recordFailure(store *model.Store, entry frontierEntry, msg string, err error) {
	record := model.NewPageRecord(entry.url, entry.depth)
	record.Failed = true
	record.AddError(msg)
	store.Add(entry.url, record)
	e.observer.OnPageError(entry.url, err)
}

// pruneFrontier removes candidates already recorded in the store,
// duplicates within the frontier (first occurrence wins, preserving BFS
// discovery order and depth), and candidates excluded by the depth cap or
// skip rules.
func (e *Engine) pruneFrontier(frontier []frontierEntry, store *model.Store) []frontierEntry {
	seen := make(map[string]bool, len(frontier))
	pruned := make([]frontierEntry, 0, len(frontier))
	for _, entry := range frontier {
		if seen[entry.url] || store.Has(entry.url) {
			continue
		}
		if e.maxDepth > 0 && entry.depth > e.maxDepth {
			continue
		}
		if e.shouldSkip(entry.url) {
			continue
		}
		seen[entry.url] = true
		pruned = append(pruned, entry)
	}
	return pruned
}

// shouldSkip applies the well-known-file exclusion and ignore patterns to
// a canonical candidate URL.
func (e *Engine) shouldSkip(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	if e.skipWellKnown &&
		(strings.HasSuffix(path, "sitemap.xml") || strings.HasSuffix(path, "robots.txt")) {
		return true
	}

	for _, pattern := range e.ignorePatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "/admin/*" matches "/admin/dashboard", "/admin/users"
//   - "*.pdf" matches "/docs/file.pdf"
func matchPattern(pattern, path string) bool {
	// Prefix patterns like "/admin/*" should match any depth below them.
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	// Extension patterns like "*.pdf" match regardless of directory.
	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// Also try the filename alone for patterns without a separator.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
