// Package http executes parsed requests and normalizes responses.
//
// It wraps the standard library's http package with additional features:
//   - Configurable per-request timeouts
//   - Redirect handling and TLS validation toggles
//   - Optional request rate limiting shared across workers
//   - Response normalization (lowercased single-valued header map,
//     fully materialized body)
package http
