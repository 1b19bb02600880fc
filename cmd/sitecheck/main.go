// Package main provides the entry point for the sitecheck CLI.
//
// Sitecheck crawls a website and audits every page for SEO,
// accessibility, social media metadata, and performance issues.
// It can also generate a sitemap.xml from the crawl.
//
// Usage:
//
//	sitecheck check <url>
//	sitecheck generate <url>
//
// See --help for all available options.
package main

// main is the entry point for sitecheck.
func main() {
	Execute()
}
