package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwiizo/yamori/internal/tui/components"
	"github.com/nwiizo/yamori/internal/tui/state"
)

// KeyMap binds keys to state machine actions.
type KeyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	Up            key.Binding
	Down          key.Binding
	TabLeft       key.Binding
	TabRight      key.Binding
	Rerun         key.Binding
	RunRelease    key.Binding
	ToggleRelease key.Binding
	History       key.Binding
	Close         key.Binding
	Confirm       key.Binding
	Copy          key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit now")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		TabLeft:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev tab")),
		TabRight:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next tab")),
		Rerun:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-run")),
		RunRelease:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "run release")),
		ToggleRelease: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "build mode")),
		History:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history")),
		Close:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy diff")),
	}
}

// Action decodes a key press. Keys without a binding map to ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) state.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return state.ActionQuit
	case key.Matches(msg, k.Help):
		return state.ActionToggleHelp
	case key.Matches(msg, k.Up):
		return state.ActionUp
	case key.Matches(msg, k.Down):
		return state.ActionDown
	case key.Matches(msg, k.TabLeft):
		return state.ActionTabLeft
	case key.Matches(msg, k.TabRight):
		return state.ActionTabRight
	case key.Matches(msg, k.Rerun):
		return state.ActionRerun
	case key.Matches(msg, k.RunRelease):
		return state.ActionRunRelease
	case key.Matches(msg, k.ToggleRelease):
		return state.ActionToggleRelease
	case key.Matches(msg, k.History):
		return state.ActionToggleHistory
	case key.Matches(msg, k.Close):
		return state.ActionClosePopup
	case key.Matches(msg, k.Confirm):
		return state.ActionConfirm
	default:
		return state.ActionNone
	}
}

// helpRows lists the bindings shown in the help overlay, in order.
func (k KeyMap) helpRows() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.TabLeft, k.TabRight,
		k.Rerun, k.RunRelease, k.ToggleRelease, k.History,
		k.Copy, k.Confirm, k.Close, k.Help, k.Quit, k.ForceQuit,
	}
}

// hint turns a binding's help text into a status hint.
func hint(b key.Binding) components.KeyHint {
	h := b.Help()
	return components.KeyHint{Key: h.Key, Desc: h.Desc}
}
