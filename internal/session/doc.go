// Package session owns the long-lived upload connection for one listener:
// a single chunked POST whose body is fed frame by frame by the sequencer,
// held open until the peer closes or a network fault occurs. It also
// classifies connection faults into transient and unexpected.
package session
