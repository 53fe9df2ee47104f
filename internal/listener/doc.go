// Package listener implements the per-listener reconnect state machine and
// the coordinator that runs one state machine per simulated listener. Each
// listener owns its connection and progress counters; the only cross-task
// resources are the event feed and the metrics registry.
package listener
