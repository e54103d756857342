// Package component defines lifecycle-managed parts of the service and a
// registry that starts them in order, stops them in reverse and aggregates
// their health for the readiness endpoint.
package component
