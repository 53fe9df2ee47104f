package listener

import (
	"sync"
)

// State holds one listener's progress counters. Only the owning runner
// goroutine mutates it; the mutex exists so the dashboard and stats endpoint
// can take consistent snapshots while the listener streams.
type State struct {
	mu sync.Mutex

	id             string
	retryCount     int
	filesCompleted uint64
	secondsSent    float64
	cycleOffset    int // bytes of PCM sent in the current file cycle
}

// Snapshot is a point-in-time copy of a listener's counters.
type Snapshot struct {
	ID             string  `json:"id"`
	RetryCount     int     `json:"retry_count"`
	FilesCompleted uint64  `json:"files_completed"`
	SecondsSent    float64 `json:"seconds_sent"`
	CycleOffset    int     `json:"cycle_offset_bytes"`
}

// NewState creates the counter record for one listener.
func NewState(id string) *State {
	return &State{id: id}
}

// ID returns the listener identifier.
func (s *State) ID() string {
	return s.id
}

// Snapshot returns a consistent copy of the counters.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.id,
		RetryCount:     s.retryCount,
		FilesCompleted: s.filesCompleted,
		SecondsSent:    s.secondsSent,
		CycleOffset:    s.cycleOffset,
	}
}

// cycleStarted resets the in-cycle offset when a new header frame opens a
// file cycle (first connection or restart after a reconnect).
func (s *State) cycleStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycleOffset = 0
}

// pageSent advances the progress counters after one PCM page.
func (s *State) pageSent(pageBytes, bytesPerSecond int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycleOffset += pageBytes
	s.secondsSent += float64(pageBytes) / float64(bytesPerSecond)
}

// cycleCompleted counts a finished file.
func (s *State) cycleCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filesCompleted++
	s.cycleOffset = 0
}

// fault increments the retry counter and returns the new value.
func (s *State) fault() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCount++
	return s.retryCount
}

// connected resets the retry counter after a successful (re)connection.
func (s *State) connected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryCount = 0
}

// RetryCount returns the current retry counter.
func (s *State) RetryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryCount
}
