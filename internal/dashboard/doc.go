// Package dashboard renders the live terminal view of a load test run: one
// progress row per simulated listener plus a bounded feed of recent
// connection events. It is a bubbletea program that reads listener counters
// through snapshots and never blocks the streaming goroutines.
package dashboard
