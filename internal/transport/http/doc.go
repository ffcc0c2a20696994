// Package http provides the HTTP transport layer: chi handlers for the
// analysis, upload and batch endpoints, the health endpoints and the
// Prometheus scrape endpoint, plus request-level rate limiting.
package http
