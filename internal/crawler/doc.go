// Package crawler implements the breadth-first crawl engine: frontier
// management, batch-bounded concurrent page fetching, same-origin link
// extraction, and dispatch of the check battery against each fetched
// document. The engine returns data and never prints; progress reporting
// happens through the Observer callbacks installed by the caller.
package crawler
