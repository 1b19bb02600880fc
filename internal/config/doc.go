// Package config provides configuration structures and utilities for sitecheck.
// It defines the main configuration options for crawling, check selection,
// and report generation preferences.
package config
