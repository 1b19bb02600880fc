// Package checks implements the pluggable page validations run against
// each crawled document: SEO structure rules, accessibility rules, social
// media metadata rules, and performance classification.
//
// Checks are stateless with respect to the crawl: each one inspects a
// single parsed document and appends diagnostics to that page's record.
// Checks never communicate with each other and never influence traversal.
// The registry is a statically constructed ordered list; relative order is
// fixed but carries no semantic meaning.
package checks
