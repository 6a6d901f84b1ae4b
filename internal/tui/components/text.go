package components

import (
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nwiizo/yamori/internal/tui/theme"
)

// Truncate shortens s to at most width terminal cells, keeping ANSI styling intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, theme.SymbolEllipsis)
}

// Sanitize strips escape sequences and carriage returns from captured
// process output so it cannot corrupt the layout.
func Sanitize(s string) string {
	s = stripansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "")
}

// ClipLines keeps at most n lines of s, marking the cut with an ellipsis line.
func ClipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(append(lines[:n-1], theme.TextMuted.Render(theme.SymbolEllipsis)), "\n")
}

// Center places block in the middle of a width x height area.
func Center(block string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
