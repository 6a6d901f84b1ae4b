package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nwiizo/yamori/internal/tui/theme"
)

// PagerKeys scroll a pager.
type PagerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultPagerKeys returns vim-style scrolling keys.
func DefaultPagerKeys() PagerKeys {
	return PagerKeys{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}

// PagerModel shows long rendered text full screen. It only scrolls; the
// parent decides when it opens and closes and lists its closing keys in
// Hints.
type PagerModel struct {
	Keys  PagerKeys
	Hints []KeyHint

	vp     viewport.Model
	title  string
	open   bool
	width  int
	height int
}

// NewPager creates a closed pager. hints describe how the parent closes it.
func NewPager(hints ...KeyHint) PagerModel {
	return PagerModel{Keys: DefaultPagerKeys(), Hints: hints, vp: viewport.New(80, 20)}
}

// IsOpen reports whether the pager is shown.
func (m PagerModel) IsOpen() bool { return m.open }

// Open shows content under title, scrolled to the top.
func (m *PagerModel) Open(title, content string) {
	m.title = title
	m.open = true
	m.vp.SetContent(content)
	m.vp.GotoTop()
}

// Close hides the pager.
func (m *PagerModel) Close() { m.open = false }

// SetContent replaces the text, keeping the scroll position when possible.
func (m *PagerModel) SetContent(content string) { m.vp.SetContent(content) }

// SetSize fits the pager to the terminal. Border and the title and footer
// lines take four rows and four columns.
func (m *PagerModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.vp.Width = max(w-4, 10)
	m.vp.Height = max(h-4, 3)
}

// Update scrolls on the pager keys and ignores everything else.
func (m PagerModel) Update(msg tea.Msg) (PagerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.open || !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Down):
		m.vp.LineDown(3)
	case key.Matches(keyMsg, m.Keys.Up):
		m.vp.LineUp(3)
	case key.Matches(keyMsg, m.Keys.Top):
		m.vp.GotoTop()
	case key.Matches(keyMsg, m.Keys.Bottom):
		m.vp.GotoBottom()
	}
	return m, nil
}

func (m PagerModel) footer() string {
	hints := append([]KeyHint(nil), m.Hints...)
	for _, b := range []key.Binding{m.Keys.Down, m.Keys.Up, m.Keys.Top, m.Keys.Bottom} {
		h := b.Help()
		hints = append(hints, KeyHint{Key: h.Key, Desc: h.Desc})
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.StatusKey.Render(h.Key) + " " + theme.Dim.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// View renders the pager, or "" while closed.
func (m PagerModel) View() string {
	if !m.open {
		return ""
	}
	pos := theme.TextMuted.Render(fmt.Sprintf("%3.0f%%", m.vp.ScrollPercent()*100))
	title := theme.SectionTitle.Render(m.title)
	gap := max(m.vp.Width-lipgloss.Width(title)-lipgloss.Width(pos), 1)
	header := title + strings.Repeat(" ", gap) + pos

	body := lipgloss.JoinVertical(lipgloss.Left, header, m.vp.View(), Truncate(m.footer(), m.vp.Width))
	return theme.BorderActive.Render(body)
}
