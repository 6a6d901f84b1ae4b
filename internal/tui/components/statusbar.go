package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nwiizo/yamori/internal/tui/theme"
)

// KeyHint represents a single keybinding hint shown in the status bar.
type KeyHint struct {
	Key  string // e.g. "r"
	Desc string // e.g. "Re-run"
}

// StatusBarModel renders a bottom status bar with keybinding hints on the
// left and run state on the right.
type StatusBarModel struct {
	Hints []KeyHint
	Mode  string // build mode label
	Extra string // e.g. "Running 2/5"
	width int
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() StatusBarModel {
	return StatusBarModel{}
}

// SetWidth updates the available width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single line.
func (m StatusBarModel) View() string {
	var hints []string
	for _, h := range m.Hints {
		hints = append(hints, theme.StatusKey.Render(h.Key)+": "+h.Desc)
	}
	left := strings.Join(hints, "  "+theme.Dim.Render("|")+"  ")

	var parts []string
	if m.Extra != "" {
		parts = append(parts, theme.TextInfo.Render(m.Extra))
	}
	if m.Mode != "" {
		parts = append(parts, theme.TextAccent.Render(m.Mode))
	}
	right := strings.Join(parts, " "+theme.SymbolBullet+" ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	if m.width <= 0 {
		return theme.StatusBar.Render(bar)
	}
	return theme.StatusBar.Width(m.width).Render(Truncate(bar, m.width-2))
}
