package sequencer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/atuecke/mock-listener/internal/audio"
	"github.com/atuecke/mock-listener/internal/protocol"
)

// Observer receives progress callbacks from the producer. All methods are
// invoked from the sequencer's goroutine, in emission order.
type Observer interface {
	// CycleStarted fires after the header frame of a new cycle is written.
	CycleStarted()
	// PageSent fires after each PCM page frame is written.
	PageSent(pageBytes int)
	// CycleCompleted fires after the final page of a cycle.
	CycleCompleted()
}

// Sequencer turns the shared audio source into an infinite, paced frame
// stream. One instance serves one listener; it holds no mutable state between
// runs, so a reconnect simply calls Run again and the new connection opens
// with a fresh header frame.
type Sequencer struct {
	source       *audio.Source
	pageSize     int
	pageDuration time.Duration
	interval     time.Duration
	observer     Observer
}

// New validates the pacing inputs and builds a sequencer.
// interval is the rest inserted between file cycles.
func New(source *audio.Source, pageSize int, interval time.Duration, observer Observer) (*Sequencer, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	pageDuration, err := audio.PageDuration(source.BytesPerSecond, pageSize)
	if err != nil {
		return nil, fmt.Errorf("invalid pacing configuration: %w", err)
	}

	return &Sequencer{
		source:       source,
		pageSize:     pageSize,
		pageDuration: pageDuration,
		interval:     interval,
		observer:     observer,
	}, nil
}

// Run writes the frame stream to w until the context is cancelled or a write
// fails. It never returns nil: the stream has no natural end.
//
// Per cycle: frame(0, header), then pages with sequence 1, 2, ... wrapping
// modulo 2^24, pausing for the page's playback duration after each, then the
// inter-cycle rest before the next header frame.
func (s *Sequencer) Run(ctx context.Context, w io.Writer) error {
	buf := make([]byte, 0, protocol.FrameHeaderSize+s.pageSize)
	pcm := s.source.PCM

	for {
		buf = protocol.AppendFrame(buf[:0], protocol.HeaderSequence, s.source.Header)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write header frame: %w", err)
		}
		if s.observer != nil {
			s.observer.CycleStarted()
		}

		seq := uint32(protocol.HeaderSequence)
		for offset := 0; offset < len(pcm); offset += s.pageSize {
			end := offset + s.pageSize
			if end > len(pcm) {
				end = len(pcm)
			}
			page := pcm[offset:end]

			seq = protocol.NextSequence(seq)
			buf = protocol.AppendFrame(buf[:0], seq, page)
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("failed to write page frame %d: %w", seq, err)
			}
			if s.observer != nil {
				s.observer.PageSent(len(page))
			}

			if err := sleep(ctx, s.pagePause(len(page))); err != nil {
				return err
			}
		}

		if s.observer != nil {
			s.observer.CycleCompleted()
		}

		if err := sleep(ctx, s.interval); err != nil {
			return err
		}
	}
}

// PagesPerCycle returns the number of page frames emitted per file cycle.
func (s *Sequencer) PagesPerCycle() int {
	return s.source.PageCount(s.pageSize)
}

// pagePause returns the pacing delay after a page, scaled down for a short
// final page so the cycle still matches the file's playback duration.
func (s *Sequencer) pagePause(pageBytes int) time.Duration {
	if pageBytes == s.pageSize {
		return s.pageDuration
	}
	return time.Duration(float64(s.pageDuration) * float64(pageBytes) / float64(s.pageSize))
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		// Still honor cancellation between frames.
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
