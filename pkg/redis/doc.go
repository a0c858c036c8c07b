// Package redis provides Redis connectivity for the entitlement state cache:
// client construction with startup retries and a health check.
package redis
