// Package model defines the core data structures shared across sitecheck:
// page records produced by the crawl, the record store that is the single
// deduplication authority for one run, and the performance score scale.
package model
