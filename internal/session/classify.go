package session

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// IsTransient reports whether err belongs to the recoverable connection
// fault class: refused or reset connections, timeouts, and the peer closing
// a stream that was expected to stay open. Transient faults are retried with
// exponential backoff; everything else takes the unexpected-fault path with
// a fixed pause. Cancellation is neither.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, ErrPeerClosed) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	// url.Error and net.OpError both satisfy net.Error and wrap the causes
	// above; checking the interface catches dial and read faults that carry
	// no recognizable errno.
	var netErr net.Error
	return errors.As(err, &netErr)
}
