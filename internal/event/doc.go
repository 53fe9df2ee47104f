// Package event defines the plain status records that listeners publish and
// the dashboard consumes, plus a bounded most-recent-first history. Protocol
// code never touches presentation; it only emits these records.
package event
