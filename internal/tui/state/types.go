// Package state is the dashboard's presentation state machine. It holds all
// UI navigation state, reacts to discrete actions and engine events one at a
// time, and produces a ViewModel for rendering. It never runs tests itself;
// re-run requests come back to the caller as Effects.
package state

// Mode is the UI mode, independent of any test status.
type Mode int

const (
	// ModeViewing - main view with tabs and the test list
	ModeViewing Mode = iota
	// ModeHelp - help overlay
	ModeHelp
	// ModeHistory - batch history overlay
	ModeHistory
	// ModeConfirm - confirmation popup for a pending request
	ModeConfirm
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "Viewing"
	case ModeHelp:
		return "HelpOpen"
	case ModeHistory:
		return "HistoryOpen"
	case ModeConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}

// Tab is a main-view tab.
type Tab int

const (
	TabResults Tab = iota
	TabStatistics
	TabDiff
	TabCommands

	tabCount
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabResults, TabStatistics, TabDiff, TabCommands}

// String returns the tab label.
func (t Tab) String() string {
	switch t {
	case TabResults:
		return "Results"
	case TabStatistics:
		return "Statistics"
	case TabDiff:
		return "Diff"
	case TabCommands:
		return "Commands"
	default:
		return "Unknown"
	}
}

// Action is a discrete user input, already decoded from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleHelp
	ActionUp
	ActionDown
	ActionTabLeft
	ActionTabRight
	ActionRerun
	ActionRunRelease
	ActionToggleRelease
	ActionToggleHistory
	ActionClosePopup
	ActionConfirm
)

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionQuit:
		return "quit"
	case ActionToggleHelp:
		return "toggle-help"
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionTabLeft:
		return "tab-left"
	case ActionTabRight:
		return "tab-right"
	case ActionRerun:
		return "re-run"
	case ActionRunRelease:
		return "run-in-release"
	case ActionToggleRelease:
		return "toggle-release-mode"
	case ActionToggleHistory:
		return "toggle-history"
	case ActionClosePopup:
		return "close-popup"
	case ActionConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Request is what a confirmation popup is asking about.
type Request int

const (
	RequestNone Request = iota
	RequestRerun
	RequestRunRelease
	RequestToggleRelease
)

func requestFor(a Action) Request {
	switch a {
	case ActionRerun:
		return RequestRerun
	case ActionRunRelease:
		return RequestRunRelease
	case ActionToggleRelease:
		return RequestToggleRelease
	default:
		return RequestNone
	}
}

// Effect tells the caller what to do after a transition. The zero value means nothing.
type Effect struct {
	Quit bool
	// RunBatch requests a new batch with the given build mode.
	RunBatch bool
	Release  bool
	// Notice is the sequence number of a newly raised notice, 0 if none.
	// The caller schedules ExpireNotice(Notice) after NoticeDuration.
	Notice int
}
