package event

import (
	"sync"
)

// DefaultHistorySize matches the dashboard's visible row count.
const DefaultHistorySize = 12

// History is a bounded, most-recent-first event history. It is the one
// resource shared across listener goroutines, so it carries its own mutex.
type History struct {
	mu      sync.Mutex
	max     int
	entries []Event
}

// NewHistory creates a history retaining at most max entries. Non-positive
// max falls back to DefaultHistorySize.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max, entries: make([]Event, 0, max)}
}

// Add prepends an event, silently evicting the oldest entry once capacity is
// reached.
func (h *History) Add(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == h.max {
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append([]Event{e}, h.entries...)
}

// Snapshot returns a copy of the retained events, most recent first.
func (h *History) Snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of retained events.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Feed fans events out to the history and to an optional live subscriber
// channel. Publishing never blocks a listener: when the subscriber lags, the
// oldest queued event is dropped, consistent with bounded retention.
type Feed struct {
	history *History
	ch      chan Event
}

// NewFeed creates a feed backed by the given history with a subscriber
// buffer of the same capacity.
func NewFeed(history *History) *Feed {
	return &Feed{
		history: history,
		ch:      make(chan Event, history.max),
	}
}

// Publish records an event and offers it to the subscriber.
func (f *Feed) Publish(e Event) {
	f.history.Add(e)

	for {
		select {
		case f.ch <- e:
			return
		default:
		}
		select {
		case <-f.ch: // drop oldest queued event
		default:
		}
	}
}

// Events returns the live subscription channel.
func (f *Feed) Events() <-chan Event {
	return f.ch
}

// History returns the backing bounded history.
func (f *Feed) History() *History {
	return f.history
}
