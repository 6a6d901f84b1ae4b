package state

import (
	"time"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Row is one line of the test list.
type Row struct {
	Name string
	// Status is empty while the test has no result yet.
	Status  yamoritypes.Status
	Elapsed time.Duration
	Active  bool
}

// Stats summarizes the displayed results.
type Stats struct {
	Passed   int
	Total    int
	PassRate float64
	Counts   map[yamoritypes.Status]int
}

// BatchRow is one line of the history overlay.
type BatchRow struct {
	ID      string
	Started time.Time
	Elapsed time.Duration
	Release bool
	Passed  int
	Total   int
}

// Confirm describes an open confirmation popup.
type Confirm struct {
	Request Request
	Title   string
	Message string
}

// ViewModel is everything the renderer needs, derived from the machine.
type ViewModel struct {
	Mode     Mode
	Tab      Tab
	Rows     []Row
	Selected int
	// Detail is the selected test's result, nil before its first run.
	Detail *yamoritypes.RunResult
	// Definition is the selected test's declaration, nil when it is not declared.
	Definition *yamoritypes.TestDefinition
	Trend      []yamoritypes.HistoryEntry
	Stats      Stats

	Release    bool
	Running    bool
	RunRelease bool
	Progress   ProgressEvent

	Confirm *Confirm
	Notice  string

	Batches         []BatchRow
	HistorySelected int
	// ViewingBatch is the ID of a loaded historical batch.
	ViewingBatch string
}

// View derives the current ViewModel.
func (m *Machine) View() ViewModel {
	vm := ViewModel{
		Mode:            m.mode,
		Tab:             m.tab,
		Rows:            m.rows(),
		Selected:        m.selected,
		Release:         m.release,
		Running:         m.running,
		RunRelease:      m.runRelease,
		Progress:        m.progress,
		Notice:          m.notice,
		HistorySelected: m.historySel,
		ViewingBatch:    m.viewing,
		Stats:           statsFor(m.shown),
	}

	if r, ok := m.SelectedResult(); ok {
		vm.Detail = &r
	}
	if m.selected >= 0 && m.selected < len(vm.Rows) {
		name := vm.Rows[m.selected].Name
		for i := range m.tests {
			if m.tests[i].Name == name {
				def := m.tests[i]
				vm.Definition = &def
				break
			}
		}
		vm.Trend = m.recent(name, trendLength)
	}

	if m.mode == ModeConfirm {
		vm.Confirm = confirmFor(m.request, m.release)
	}
	for _, b := range m.batches {
		vm.Batches = append(vm.Batches, BatchRow{
			ID:      b.ID,
			Started: b.Started,
			Elapsed: b.Elapsed,
			Release: b.Release,
			Passed:  b.Passed,
			Total:   b.Total,
		})
	}
	return vm
}

// rows lists the displayed results, or the declared tests before the first
// batch. While a batch runs, finished results replace their rows and the
// test in flight is marked active.
func (m *Machine) rows() []Row {
	var rows []Row
	if len(m.shown) > 0 {
		rows = make([]Row, len(m.shown))
		for i, r := range m.shown {
			rows[i] = Row{Name: r.Name, Status: r.Status, Elapsed: r.Elapsed}
		}
	} else {
		rows = make([]Row, len(m.tests))
		for i, t := range m.tests {
			rows[i] = Row{Name: t.Name}
		}
	}

	if !m.running || m.viewing != "" {
		return rows
	}
	for i, r := range m.partial {
		if i < len(rows) && rows[i].Name == r.Name {
			rows[i].Status = r.Status
			rows[i].Elapsed = r.Elapsed
		}
	}
	if i := m.progress.Index; m.progress.Name != "" && m.progress.State != yamoritypes.RunStateDone && i < len(rows) {
		rows[i].Active = true
	}
	return rows
}

func statsFor(results []yamoritypes.RunResult) Stats {
	s := Stats{Total: len(results), Counts: yamoritypes.CountStatuses(results)}
	s.Passed = s.Counts[yamoritypes.StatusPass]
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}

func confirmFor(r Request, release bool) *Confirm {
	switch r {
	case RequestRerun:
		return &Confirm{Request: r, Title: "Run Tests", Message: "Run all tests again?\n\n[Enter] confirm  [Esc] cancel"}
	case RequestRunRelease:
		return &Confirm{Request: r, Title: "Run in Release", Message: "Run all tests with a release build?\n\n[Enter] confirm  [Esc] cancel"}
	case RequestToggleRelease:
		return &Confirm{
			Request: r,
			Title:   "Build Mode",
			Message: "Switch build mode to " + buildMode(!release) + "?\n\n[Enter] confirm  [Esc] cancel",
		}
	default:
		return nil
	}
}
