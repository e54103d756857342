// Package server runs the gin HTTP server behind an h2c handler, wraps it
// in the standard middleware stack and registers the operational endpoints:
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /live: liveness probe
//   - /info, /version: build information
//   - /metrics: runtime stats and resolver counters
package server
