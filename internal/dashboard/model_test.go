package dashboard

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atuecke/mock-listener/internal/audio"
	"github.com/atuecke/mock-listener/internal/event"
	"github.com/atuecke/mock-listener/internal/listener"
	"github.com/atuecke/mock-listener/internal/session"
)

type idleUploader struct{}

func (idleUploader) Run(ctx context.Context, listenerID string, body session.Streamer, onConnected func(int)) error {
	<-ctx.Done()
	return ctx.Err()
}

func testModel(t *testing.T) (Model, *event.Feed) {
	t.Helper()

	source := &audio.Source{
		Header:         make([]byte, 44),
		PCM:            make([]byte, 64000),
		SampleRate:     16000,
		Channels:       1,
		BitsPerSample:  16,
		BytesPerSecond: 32000,
	}

	feed := event.NewFeed(event.NewHistory(event.DefaultHistorySize))
	coord, err := listener.NewCoordinator(2, listener.Config{
		Source:   source,
		PageSize: 32768,
		Interval: time.Second,
		Client:   idleUploader{},
		Feed:     feed,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Failed to build coordinator: %v", err)
	}

	return New("run-test", "http://localhost:8000/upload-audio", source, coord, feed), feed
}

func TestViewShowsListeners(t *testing.T) {
	m, _ := testModel(t)

	view := m.View()
	if !strings.Contains(view, "listener01") {
		t.Errorf("Expected view to contain listener01, got:\n%s", view)
	}
	if !strings.Contains(view, "listener02") {
		t.Errorf("Expected view to contain listener02, got:\n%s", view)
	}
	if !strings.Contains(view, "run-test") {
		t.Errorf("Expected view to contain run id, got:\n%s", view)
	}
	if !strings.Contains(view, "waiting for connections") {
		t.Errorf("Expected empty-feed placeholder, got:\n%s", view)
	}
}

func TestViewShowsEvents(t *testing.T) {
	m, feed := testModel(t)

	feed.Publish(event.Status("listener01", 200))
	feed.Publish(event.Error("listener02", context.DeadlineExceeded))

	view := m.View()
	if !strings.Contains(view, "200 OK") {
		t.Errorf("Expected view to contain status event, got:\n%s", view)
	}
	if !strings.Contains(view, "ERROR:") {
		t.Errorf("Expected view to contain error event, got:\n%s", view)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := testModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected quit command, got nil")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("Expected quit message, got nil")
	}

	if view := updated.(Model).View(); view != "" {
		t.Errorf("Expected empty view after quit, got:\n%s", view)
	}
}

func TestResizeClampsBarWidth(t *testing.T) {
	m, _ := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	if got := updated.(Model).bar.Width; got != 10 {
		t.Errorf("Expected bar width clamped to 10, got %d", got)
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	if got := updated.(Model).bar.Width; got != defaultBarWidth {
		t.Errorf("Expected bar width capped at %d, got %d", defaultBarWidth, got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{42 * time.Second, "0:42"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2:03:04"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}
