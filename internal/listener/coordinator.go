package listener

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Coordinator spawns one Runner per simulated listener and waits for them.
// Listeners are fully independent: no ordering across them, no shared
// mutable state beyond the event feed and metrics.
type Coordinator struct {
	runners []*Runner
	logger  *slog.Logger
}

// Totals aggregates counters across all listeners.
type Totals struct {
	Listeners      int     `json:"listeners"`
	FilesCompleted uint64  `json:"files_completed"`
	SecondsSent    float64 `json:"seconds_sent"`
}

// NewCoordinator builds count runners with ids listener01, listener02, ...
func NewCoordinator(count int, cfg Config) (*Coordinator, error) {
	if count < 1 {
		return nil, fmt.Errorf("listener count must be at least 1, got %d", count)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runners := make([]*Runner, 0, count)
	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("listener%02d", i)
		r, err := NewRunner(id, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", id, err)
		}
		runners = append(runners, r)
	}

	return &Coordinator{runners: runners, logger: logger}, nil
}

// Run starts every listener and blocks until all have stopped. Listeners
// only stop on context cancellation, so Run returns shortly after ctx is
// done.
func (c *Coordinator) Run(ctx context.Context) {
	c.logger.Info("starting listeners", slog.Int("count", len(c.runners)))

	var wg sync.WaitGroup
	for _, r := range c.runners {
		wg.Add(1)
		go func(r *Runner) {
			defer wg.Done()
			r.Run(ctx)
		}(r)
	}
	wg.Wait()

	c.logger.Info("all listeners stopped")
}

// Snapshots returns a point-in-time copy of every listener's counters, in
// listener order.
func (c *Coordinator) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(c.runners))
	for _, r := range c.runners {
		out = append(out, r.State().Snapshot())
	}
	return out
}

// Totals aggregates the current counters across listeners.
func (c *Coordinator) Totals() Totals {
	t := Totals{Listeners: len(c.runners)}
	for _, r := range c.runners {
		snap := r.State().Snapshot()
		t.FilesCompleted += snap.FilesCompleted
		t.SecondsSent += snap.SecondsSent
	}
	return t
}
