package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atuecke/mock-listener/internal/event"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)
)

// eventStyle picks the render style for one feed entry.
func eventStyle(e event.Event) lipgloss.Style {
	switch e.Kind {
	case event.KindStatus:
		switch event.StatusClass(e.StatusCode) {
		case event.ClassSuccess:
			return styleSuccess
		case event.ClassRedirect:
			return styleWarning
		case event.ClassClientError, event.ClassServerError:
			return styleError
		default:
			return styleSubtle
		}
	case event.KindDone:
		return styleSuccess
	case event.KindRetry:
		return styleWarning
	case event.KindError, event.KindUnexpected:
		return styleError
	default:
		return styleSubtle
	}
}
