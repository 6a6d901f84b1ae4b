package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwiizo/yamori/internal/tui/theme"
)

func TestTabBar(t *testing.T) {
	bar := NewTabBar([]Tab{{ID: "results", Label: "Results"}, {ID: "diff", Label: "Diff"}})

	bar.SetActive(1)
	assert.Equal(t, 1, bar.Active)
	bar.SetActive(5)
	assert.Equal(t, 1, bar.Active, "out of range index is ignored")

	bar.SetWidth(100)
	bar.SetBadge("diff", 2)
	view := bar.View()
	assert.Contains(t, view, "Results")
	assert.Contains(t, view, "Diff")
	assert.Contains(t, view, "2")
	assert.Equal(t, 100, lipgloss.Width(view))

	bar.SetWidth(20)
	view = bar.View()
	assert.NotContains(t, view, "Results")
	assert.Contains(t, view, "[2/2]")
}

func TestTabBarEmpty(t *testing.T) {
	assert.Empty(t, NewTabBar(nil).View())
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar()
	sb.Hints = []KeyHint{{Key: "q", Desc: "Quit"}, {Key: "r", Desc: "Re-run"}}
	sb.Mode = "DEBUG"
	sb.Extra = "Running 1/3"
	sb.SetWidth(80)

	view := sb.View()
	assert.Contains(t, view, "Quit")
	assert.Contains(t, view, "DEBUG")
	assert.Contains(t, view, "Running 1/3")
	assert.LessOrEqual(t, lipgloss.Width(view), 80)
}

func TestPager(t *testing.T) {
	m := NewPager(KeyHint{Key: "esc", Desc: "close"})
	assert.Empty(t, m.View())

	m.SetSize(60, 12)
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	m.Open("Help", strings.Join(lines, "\n"))
	require.True(t, m.IsOpen())

	view := m.View()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "line 0")
	assert.Contains(t, view, "esc close")
	assert.Contains(t, view, "j down")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Contains(t, m.View(), "line 39")
	assert.NotContains(t, m.View(), "line 0")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Contains(t, m.View(), "line 0")

	m.Close()
	assert.False(t, m.IsOpen())
	assert.Empty(t, m.View())
}

func TestTruncate(t *testing.T) {
	theme.InitSymbols(true)
	defer theme.InitSymbols(false)

	tests := []struct {
		name     string
		in       string
		width    int
		expected string
	}{
		{"fits", "hello", 10, "hello"},
		{"cut with ellipsis", "hello world", 8, "hello..."},
		{"zero width", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.in, tt.width))
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "red\nline", Sanitize("\x1b[31mred\x1b[0m\r\nline"))
	assert.Equal(t, "progress", Sanitize("pro\rgress"))
}

func TestClipLines(t *testing.T) {
	in := "1\n2\n3\n4"
	assert.Equal(t, in, ClipLines(in, 4))
	clipped := ClipLines(in, 3)
	assert.True(t, strings.HasPrefix(clipped, "1\n2\n"))
	assert.NotContains(t, clipped, "3")
	assert.Empty(t, ClipLines(in, 0))
}

func TestCenter(t *testing.T) {
	out := Center("x", 5, 3)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "  x  ", lines[1])
}
