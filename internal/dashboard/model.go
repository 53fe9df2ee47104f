package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atuecke/mock-listener/internal/audio"
	"github.com/atuecke/mock-listener/internal/event"
	"github.com/atuecke/mock-listener/internal/listener"
)

const (
	refreshInterval = 250 * time.Millisecond
	defaultBarWidth = 40
)

type tickMsg time.Time

type eventMsg event.Event

// Model is the bubbletea model for the load test dashboard.
type Model struct {
	runID       string
	targetURL   string
	coordinator *listener.Coordinator
	feed        *event.Feed
	pcmBytes    int
	fileLength  time.Duration

	bar       progress.Model
	width     int
	height    int
	startTime time.Time
	quitting  bool
}

// New creates the dashboard model. The coordinator and feed are shared with
// the running listeners; the model only reads snapshots from them.
func New(runID, targetURL string, source *audio.Source, coordinator *listener.Coordinator, feed *event.Feed) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = defaultBarWidth
	bar.ShowPercentage = false

	return Model{
		runID:       runID,
		targetURL:   targetURL,
		coordinator: coordinator,
		feed:        feed,
		pcmBytes:    len(source.PCM),
		fileLength:  time.Duration(source.Duration() * float64(time.Second)),
		bar:         bar,
		startTime:   time.Now(),
	}
}

// Run drives the dashboard until the user quits or ctx is cancelled.
// Cancellation is reported as a clean exit.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

// Init starts the refresh ticker and the event subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForEvent(m.feed.Events()))
}

// Update handles input, resize, and refresh messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := m.width - 44
		if barWidth > defaultBarWidth {
			barWidth = defaultBarWidth
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.bar.Width = barWidth

	case tickMsg:
		// Counters are re-read on every render; the tick only schedules
		// the next redraw.
		return m, tick()

	case eventMsg:
		return m, waitForEvent(m.feed.Events())
	}

	return m, nil
}

// View renders the full dashboard frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	totals := m.coordinator.Totals()
	title := fmt.Sprintf("Mock Listeners  run %s  %s", m.runID, m.targetURL)
	b.WriteString(styleTitle.Render(title) + "\n")
	b.WriteString(styleSubtle.Render(fmt.Sprintf(
		"uptime %s   file %s   files completed %d   audio sent %s",
		formatDuration(time.Since(m.startTime)),
		formatDuration(m.fileLength),
		totals.FilesCompleted,
		formatDuration(time.Duration(totals.SecondsSent*float64(time.Second))),
	)) + "\n\n")

	b.WriteString(m.renderListeners())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	b.WriteString("\n" + styleSubtle.Render("q quit") + "\n")

	return b.String()
}

// renderListeners draws one progress row per listener.
func (m Model) renderListeners() string {
	var b strings.Builder
	b.WriteString(styleHeading.Render("Listeners") + "\n")

	for _, snap := range m.coordinator.Snapshots() {
		pct := 0.0
		if m.pcmBytes > 0 {
			pct = float64(snap.CycleOffset) / float64(m.pcmBytes)
		}
		if pct > 1 {
			pct = 1
		}

		row := fmt.Sprintf("%-12s %s %5.1f%%  files %-4d sent %s",
			snap.ID,
			m.bar.ViewAs(pct),
			pct*100,
			snap.FilesCompleted,
			formatDuration(time.Duration(snap.SecondsSent*float64(time.Second))),
		)
		if snap.RetryCount > 0 {
			row += "  " + styleWarning.Render(fmt.Sprintf("retry #%d", snap.RetryCount))
		}
		b.WriteString(row + "\n")
	}

	return b.String()
}

// renderEvents draws the bounded event feed, most recent first.
func (m Model) renderEvents() string {
	events := m.feed.History().Snapshot()

	var b strings.Builder
	b.WriteString(styleHeading.Render("Events") + "\n")

	if len(events) == 0 {
		b.WriteString(styleSubtle.Render("waiting for connections...") + "\n")
		return styleBox.Render(strings.TrimRight(b.String(), "\n"))
	}

	for _, e := range events {
		line := fmt.Sprintf("%s  %-12s %s",
			e.Timestamp.Format("15:04:05"),
			e.ListenerID,
			eventStyle(e).Render(e.Detail),
		)
		b.WriteString(line + "\n")
	}

	return styleBox.Render(strings.TrimRight(b.String(), "\n"))
}

// formatDuration formats a duration as h:mm:ss or m:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}
