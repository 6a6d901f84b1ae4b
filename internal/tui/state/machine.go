package state

import (
	"fmt"
	"time"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// NoticeDuration is how long a result notice stays on screen.
const NoticeDuration = 3 * time.Second

// trendLength is how many past runs of the selected test the view shows.
const trendLength = 10

// ProgressEvent is one engine progress report, decoupled from the engine package.
type ProgressEvent struct {
	BatchID string
	Index   int
	Total   int
	Name    string
	State   yamoritypes.RunState
	Result  *yamoritypes.RunResult
	Entry   *yamoritypes.HistoryEntry
}

// Machine holds every piece of navigation state. It is not safe for
// concurrent use; the dashboard feeds it from the bubbletea update loop.
// Its history is its own copy, built only from the events it is given.
type Machine struct {
	tests    []yamoritypes.TestDefinition
	capacity int
	batches  []yamoritypes.BatchSummary
	trends   map[string][]yamoritypes.HistoryEntry

	mode     Mode
	tab      Tab
	selected int
	release  bool
	request  Request

	latest  []yamoritypes.RunResult
	shown   []yamoritypes.RunResult
	viewing string // ID of a loaded historical batch, "" for live results

	historySel int

	running    bool
	runRelease bool
	batchID    string
	progress   ProgressEvent
	partial    []yamoritypes.RunResult

	notice    string
	noticeSeq int
}

// New creates a machine for the declared tests. capacity bounds the retained
// batches and the entries per test, as in the engine's history store; values
// below 1 are raised to 1. release seeds the build mode toggle.
func New(tests []yamoritypes.TestDefinition, capacity int, release bool) *Machine {
	return &Machine{
		tests:    tests,
		capacity: max(capacity, 1),
		trends:   make(map[string][]yamoritypes.HistoryEntry),
		release:  release,
	}
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Tab returns the active tab.
func (m *Machine) Tab() Tab { return m.tab }

// Selected returns the selected row index.
func (m *Machine) Selected() int { return m.selected }

// Release reports the current build mode toggle.
func (m *Machine) Release() bool { return m.release }

// Running reports whether a batch is in flight.
func (m *Machine) Running() bool { return m.running }

// Notice returns the visible notice, "" if none.
func (m *Machine) Notice() string { return m.notice }

// SelectedResult returns the result behind the selected row, if any.
func (m *Machine) SelectedResult() (yamoritypes.RunResult, bool) {
	if m.selected < 0 || m.selected >= len(m.shown) {
		return yamoritypes.RunResult{}, false
	}
	return m.shown[m.selected], true
}

// Start requests the initial batch.
func (m *Machine) Start() Effect {
	m.running = true
	m.runRelease = m.release
	return Effect{RunBatch: true, Release: m.release}
}

// Apply processes one user action.
func (m *Machine) Apply(a Action) Effect {
	switch m.mode {
	case ModeConfirm:
		return m.applyConfirm(a)
	case ModeHelp:
		return m.applyHelp(a)
	case ModeHistory:
		return m.applyHistory(a)
	default:
		return m.applyViewing(a)
	}
}

func (m *Machine) applyViewing(a Action) Effect {
	switch a {
	case ActionQuit:
		return Effect{Quit: true}
	case ActionToggleHelp:
		m.mode = ModeHelp
	case ActionUp:
		m.selected = wrap(m.selected-1, m.rowCount())
	case ActionDown:
		m.selected = wrap(m.selected+1, m.rowCount())
	case ActionTabLeft:
		m.tab = Tab(wrap(int(m.tab)-1, int(tabCount)))
	case ActionTabRight:
		m.tab = Tab(wrap(int(m.tab)+1, int(tabCount)))
	case ActionRerun, ActionRunRelease:
		if m.running {
			return Effect{}
		}
		m.openConfirm(requestFor(a))
	case ActionToggleRelease:
		m.openConfirm(RequestToggleRelease)
	case ActionToggleHistory:
		m.mode = ModeHistory
		m.historySel = wrap(len(m.batches)-1, len(m.batches))
	case ActionClosePopup:
		switch {
		case m.notice != "":
			m.notice = ""
		case m.viewing != "":
			m.viewing = ""
			m.shown = m.latest
			m.selected = clamp(m.selected, len(m.shown))
		}
	}
	return Effect{}
}

func (m *Machine) openConfirm(r Request) {
	m.request = r
	m.mode = ModeConfirm
}

func (m *Machine) applyConfirm(a Action) Effect {
	switch a {
	case ActionClosePopup:
		m.closeConfirm()
	case ActionRerun, ActionRunRelease, ActionToggleRelease:
		// the same trigger key closes its own popup
		if requestFor(a) == m.request {
			m.closeConfirm()
		}
	case ActionConfirm:
		r := m.request
		m.closeConfirm()
		switch r {
		case RequestRerun:
			if m.running {
				return Effect{}
			}
			m.running = true
			m.runRelease = m.release
			return Effect{RunBatch: true, Release: m.release}
		case RequestRunRelease:
			if m.running {
				return Effect{}
			}
			m.release = true
			m.running = true
			m.runRelease = true
			return Effect{RunBatch: true, Release: true}
		case RequestToggleRelease:
			m.release = !m.release
			return Effect{Notice: m.raise("Build mode changed to: " + buildMode(m.release))}
		}
	}
	return Effect{}
}

func (m *Machine) closeConfirm() {
	m.request = RequestNone
	m.mode = ModeViewing
}

func (m *Machine) applyHelp(a Action) Effect {
	switch a {
	case ActionQuit:
		return Effect{Quit: true}
	case ActionToggleHelp, ActionClosePopup:
		m.mode = ModeViewing
	}
	return Effect{}
}

func (m *Machine) applyHistory(a Action) Effect {
	batches := m.batches
	switch a {
	case ActionQuit:
		return Effect{Quit: true}
	case ActionUp:
		m.historySel = wrap(m.historySel-1, len(batches))
	case ActionDown:
		m.historySel = wrap(m.historySel+1, len(batches))
	case ActionToggleHistory, ActionClosePopup:
		m.mode = ModeViewing
	case ActionConfirm:
		if m.historySel < 0 || m.historySel >= len(batches) {
			return Effect{}
		}
		b := batches[m.historySel]
		m.shown = b.Results
		m.viewing = b.ID
		m.mode = ModeViewing
		m.tab = TabResults
		m.selected = clamp(m.selected, len(m.shown))
		return Effect{Notice: m.raise(fmt.Sprintf("Loaded history entry #%d\nTimestamp: %s",
			m.historySel+1, b.Started.Format("2006-01-02 15:04:05")))}
	}
	return Effect{}
}

// BatchStarted marks the beginning of a batch run. The batch ID is adopted
// from the first progress event.
func (m *Machine) BatchStarted(total int, release bool) {
	m.running = true
	m.batchID = ""
	m.partial = nil
	m.runRelease = release
	m.progress = ProgressEvent{Total: total}
}

// Progress applies one engine progress event. Events from other batches are ignored.
func (m *Machine) Progress(ev ProgressEvent) {
	if !m.running || (m.batchID != "" && ev.BatchID != m.batchID) {
		return
	}
	if m.batchID == "" {
		m.batchID = ev.BatchID
	}
	m.progress = ev
	if ev.State != yamoritypes.RunStateDone {
		return
	}
	if ev.Result != nil {
		m.partial = append(m.partial, *ev.Result)
	}
	if ev.Entry != nil {
		name := ev.Entry.Result.Name
		m.trends[name] = keepLast(append(m.trends[name], *ev.Entry), m.capacity)
	}
}

// BatchFinished installs the batch results, records the batch unless it was
// stopped, resets navigation and raises the completion notice.
func (m *Machine) BatchFinished(summary yamoritypes.BatchSummary) Effect {
	if !summary.Stopped {
		m.batches = keepLast(append(m.batches, summary), m.capacity)
	}
	m.running = false
	m.batchID = ""
	m.partial = nil
	m.progress = ProgressEvent{}
	m.latest = summary.Results
	m.shown = summary.Results
	m.viewing = ""
	m.tab = TabResults
	m.selected = clamp(m.selected, len(m.shown))
	if m.mode == ModeHistory {
		m.mode = ModeViewing
	}

	title := "Tests completed!"
	if summary.Release {
		title = "Release tests completed!"
	}
	return Effect{Notice: m.raise(fmt.Sprintf("%s\n\nPassed: %d/%d (%.1f%%)",
		title, summary.Passed, summary.Total, summary.PassRate()))}
}

// ExpireNotice dismisses the notice raised with seq. Newer notices survive.
func (m *Machine) ExpireNotice(seq int) {
	if seq == m.noticeSeq {
		m.notice = ""
	}
}

func (m *Machine) raise(text string) int {
	m.noticeSeq++
	m.notice = text
	return m.noticeSeq
}

func (m *Machine) rowCount() int {
	if len(m.shown) > 0 {
		return len(m.shown)
	}
	return len(m.tests)
}

// recent returns up to n of the newest entries for name, oldest first.
func (m *Machine) recent(name string, n int) []yamoritypes.HistoryEntry {
	return keepLast(m.trends[name], n)
}

// keepLast drops the oldest elements of s beyond n.
func keepLast[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return append([]T(nil), s[len(s)-n:]...)
}

func buildMode(release bool) string {
	if release {
		return "RELEASE"
	}
	return "DEBUG"
}

// wrap moves i into [0, n) cyclically. It returns 0 for an empty range.
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// clamp resets an out-of-range selection to the first row.
func clamp(i, n int) int {
	if i < 0 || i >= n {
		return 0
	}
	return i
}
