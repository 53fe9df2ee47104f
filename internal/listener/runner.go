package listener

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/atuecke/mock-listener/internal/audio"
	"github.com/atuecke/mock-listener/internal/event"
	"github.com/atuecke/mock-listener/internal/metrics"
	"github.com/atuecke/mock-listener/internal/sequencer"
	"github.com/atuecke/mock-listener/internal/session"
)

// Uploader opens one streaming upload session per call. Run blocks until
// the stream ends and returns a non-nil error describing why; the runner
// maps a nil return to a clean peer close. *session.Client is the
// production implementation.
type Uploader interface {
	Run(ctx context.Context, listenerID string, body session.Streamer, onConnected func(status int)) error
}

// Config carries everything a listener needs besides its identity.
type Config struct {
	Source   *audio.Source
	PageSize int
	Interval time.Duration // rest between file cycles
	Stagger  time.Duration // max random startup delay
	Client   Uploader
	Feed     *event.Feed
	Metrics  *metrics.Metrics // optional
	Logger   *slog.Logger
}

// Runner drives the reconnect state machine for one listener: connect,
// stream until the connection dies, back off, reconnect. It never gives up;
// only context cancellation stops it. Every reconnect restarts the file
// cycle from the header frame; progress counters survive across reconnects.
type Runner struct {
	state    *State
	seq      *sequencer.Sequencer
	client   Uploader
	feed     *event.Feed
	metrics  *metrics.Metrics
	logger   *slog.Logger
	stagger  time.Duration
	byteRate int

	// hooks replaced in tests
	sleep     func(ctx context.Context, d time.Duration) error
	randFloat func() float64
}

// NewRunner builds the state machine for one listener id.
func NewRunner(id string, cfg Config) (*Runner, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("upload client cannot be nil")
	}
	if cfg.Feed == nil {
		return nil, fmt.Errorf("event feed cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &Runner{
		state:     NewState(id),
		client:    cfg.Client,
		feed:      cfg.Feed,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With(slog.String("listener_id", id)),
		stagger:   cfg.Stagger,
		byteRate:  cfg.Source.BytesPerSecond,
		sleep:     sleepCtx,
		randFloat: rand.Float64,
	}

	seq, err := sequencer.New(cfg.Source, cfg.PageSize, cfg.Interval, r)
	if err != nil {
		return nil, fmt.Errorf("listener %s: %w", id, err)
	}
	r.seq = seq

	return r, nil
}

// State returns the listener's counter record.
func (r *Runner) State() *State {
	return r.state
}

// Run executes the state machine until ctx is cancelled. A fault on this
// listener never propagates; it is recovered locally and retried forever.
func (r *Runner) Run(ctx context.Context) {
	if r.stagger > 0 {
		delay := time.Duration(r.randFloat() * float64(r.stagger))
		if err := r.sleep(ctx, delay); err != nil {
			return
		}
	}

	attempt := 0
	for ctx.Err() == nil {
		attempt++
		if attempt > 1 {
			r.feed.Publish(event.Retry(r.state.ID(), r.state.RetryCount()))
		}
		if r.metrics != nil {
			r.metrics.RecordConnectAttempt()
		}

		connected := false
		err := r.client.Run(ctx, r.state.ID(), r.seq, func(status int) {
			connected = true
			r.onConnected(status)
		})
		// The gauge only counts sessions that actually reached the
		// streaming state; a refused connect never incremented it.
		if r.metrics != nil && connected {
			r.metrics.RecordDisconnect()
		}
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			// Uploader implementations must report why the stream ended; a
			// bare nil is treated as the peer closing cleanly.
			err = session.ErrPeerClosed
		}

		if session.IsTransient(err) {
			retry := r.state.fault()
			delay := Backoff(retry)
			r.feed.Publish(event.Error(r.state.ID(), err))
			r.feed.Publish(event.RetryIn(r.state.ID(), delay))
			if r.metrics != nil {
				r.metrics.RecordReconnect("transient")
			}
			r.logger.Warn("connection fault, backing off",
				slog.String("error", err.Error()),
				slog.Int("retry", retry),
				slog.Duration("delay", delay),
			)
			if r.sleep(ctx, delay) != nil {
				return
			}
		} else {
			retry := r.state.fault()
			r.feed.Publish(event.Unexpected(r.state.ID(), err))
			if r.metrics != nil {
				r.metrics.RecordReconnect("unexpected")
			}
			r.logger.Error("unexpected fault while streaming",
				slog.String("error", err.Error()),
				slog.Int("retry", retry),
			)
			if r.sleep(ctx, unexpectedFaultDelay) != nil {
				return
			}
		}
	}
}

// onConnected fires once per session when response headers arrive.
func (r *Runner) onConnected(status int) {
	r.state.connected()
	r.feed.Publish(event.Status(r.state.ID(), status))
	if r.metrics != nil {
		r.metrics.RecordConnected(status)
	}
	r.logger.Info("streaming", slog.String("status", event.StatusText(status)))
}

// The runner is its own sequencer observer: progress callbacks arrive from
// the producer goroutine owned by the active session.

// CycleStarted implements sequencer.Observer.
func (r *Runner) CycleStarted() {
	r.state.cycleStarted()
}

// PageSent implements sequencer.Observer.
func (r *Runner) PageSent(pageBytes int) {
	r.state.pageSent(pageBytes, r.byteRate)
	if r.metrics != nil {
		r.metrics.RecordPageSent(pageBytes, float64(pageBytes)/float64(r.byteRate))
	}
}

// CycleCompleted implements sequencer.Observer.
func (r *Runner) CycleCompleted() {
	r.state.cycleCompleted()
	r.feed.Publish(event.Done(r.state.ID()))
	if r.metrics != nil {
		r.metrics.RecordCycleCompleted()
	}
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
