// Package database provides SQLite-based persistence for run history.
//
// Each completed check run stores its summary so that results can be
// compared across invocations. The history never feeds back into crawl
// traversal; it is reporting data only.
package database
