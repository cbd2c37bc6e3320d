// Package geoip implements the client for the external geolocation-by-IP
// provider consumed by the IP risk heuristic.
//
// The provider is treated as untrusted and optional: every response field
// may be absent without breaking scoring, and lookup failures are reported
// as errors for the caller to degrade gracefully rather than retried.
package geoip
