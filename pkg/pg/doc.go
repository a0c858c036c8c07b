// Package pg provides PostgreSQL connectivity for subscription storage:
// pool construction with startup retries, goose-based schema migrations,
// a health check, and helpers for classifying pgx errors.
package pg
