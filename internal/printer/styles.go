package printer

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	styleOnce  sync.Once
	useColor   bool
	forceColor *bool
)

// SetColorEnabled overrides terminal detection, mainly for tests.
func SetColorEnabled(enabled bool) {
	forceColor = &enabled
}

func colorEnabled() bool {
	if forceColor != nil {
		return *forceColor
	}
	styleOnce.Do(func() {
		useColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	})
	return useColor
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

func heading(s string) string {
	if !colorEnabled() {
		return s
	}
	return headingStyle.Render(s)
}

func dim(s string) string {
	if !colorEnabled() {
		return s
	}
	return dimStyle.Render(s)
}
