package listener

import (
	"time"
)

const (
	// maxBackoff caps the exponential schedule.
	maxBackoff = 60 * time.Second

	// unexpectedFaultDelay is the fixed pause after a fault outside the
	// transient taxonomy, regardless of retry count.
	unexpectedFaultDelay = 5 * time.Second
)

// Backoff returns the delay before reconnect attempt retry: 2^retry seconds
// capped at 60. With consecutive faults and no intervening success the
// schedule runs 2, 4, 8, 16, 32, 60, 60, ...
func Backoff(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	// 2^6 already exceeds the cap.
	if retry >= 6 {
		return maxBackoff
	}
	return time.Duration(1<<uint(retry)) * time.Second
}
