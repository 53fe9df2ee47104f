// Package server implements the optional local stats HTTP server. It
// exposes Prometheus metrics, a health probe, and a JSON snapshot of the
// running load test for scripted monitoring alongside the terminal
// dashboard.
package server
