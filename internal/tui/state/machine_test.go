package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

const capacity = 5

func defs(names ...string) []yamoritypes.TestDefinition {
	out := make([]yamoritypes.TestDefinition, len(names))
	for i, n := range names {
		out[i] = yamoritypes.TestDefinition{Name: n, Command: "echo"}
	}
	return out
}

func summary(release bool, statuses ...yamoritypes.Status) yamoritypes.BatchSummary {
	s := yamoritypes.BatchSummary{ID: "b", Release: release, Total: len(statuses), Started: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	for i, st := range statuses {
		s.Results = append(s.Results, yamoritypes.RunResult{Name: string(rune('a' + i)), Status: st})
		if st == yamoritypes.StatusPass {
			s.Passed++
		}
	}
	return s
}

func TestNavigationWraps(t *testing.T) {
	m := New(defs("a", "b", "c"), capacity, false)

	m.Apply(ActionUp)
	assert.Equal(t, 2, m.Selected())
	m.Apply(ActionDown)
	assert.Equal(t, 0, m.Selected())

	m.Apply(ActionTabLeft)
	assert.Equal(t, TabCommands, m.Tab())
	m.Apply(ActionTabRight)
	assert.Equal(t, TabResults, m.Tab())
}

func TestNavigationOnEmptyList(t *testing.T) {
	m := New(nil, capacity, false)
	m.Apply(ActionDown)
	m.Apply(ActionUp)
	assert.Equal(t, 0, m.Selected())
	assert.Empty(t, m.View().Rows)
}

func TestHelpToggle(t *testing.T) {
	m := New(defs("a"), capacity, false)

	m.Apply(ActionToggleHelp)
	assert.Equal(t, ModeHelp, m.Mode())

	m.Apply(ActionDown)
	assert.Equal(t, 0, m.Selected(), "navigation is ignored while help is open")

	m.Apply(ActionToggleHelp)
	assert.Equal(t, ModeViewing, m.Mode())

	m.Apply(ActionToggleHelp)
	m.Apply(ActionClosePopup)
	assert.Equal(t, ModeViewing, m.Mode())
}

func TestQuit(t *testing.T) {
	tests := []struct {
		name  string
		setup []Action
		quit  bool
	}{
		{"from main view", nil, true},
		{"from help", []Action{ActionToggleHelp}, true},
		{"from history", []Action{ActionToggleHistory}, true},
		{"ignored while confirming", []Action{ActionRerun}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(defs("a"), capacity, false)
			for _, a := range tt.setup {
				m.Apply(a)
			}
			assert.Equal(t, tt.quit, m.Apply(ActionQuit).Quit)
		})
	}
}

func TestRerunConfirmation(t *testing.T) {
	m := New(defs("a", "b"), capacity, false)

	eff := m.Apply(ActionRerun)
	assert.False(t, eff.RunBatch, "re-run waits for confirmation")
	require.Equal(t, ModeConfirm, m.Mode())
	require.NotNil(t, m.View().Confirm)
	assert.Equal(t, RequestRerun, m.View().Confirm.Request)

	eff = m.Apply(ActionConfirm)
	assert.True(t, eff.RunBatch)
	assert.False(t, eff.Release)
	assert.Equal(t, ModeViewing, m.Mode())
	assert.True(t, m.Running())

	assert.Equal(t, Effect{}, m.Apply(ActionRerun), "no second batch while one is running")
	assert.Equal(t, ModeViewing, m.Mode())
}

func TestConfirmCancel(t *testing.T) {
	tests := []struct {
		name   string
		open   Action
		cancel Action
	}{
		{"escape", ActionRerun, ActionClosePopup},
		{"same key again", ActionRunRelease, ActionRunRelease},
		{"toggle key again", ActionToggleRelease, ActionToggleRelease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(defs("a"), capacity, false)
			m.Apply(tt.open)
			eff := m.Apply(tt.cancel)
			assert.Equal(t, Effect{}, eff)
			assert.Equal(t, ModeViewing, m.Mode())
			assert.False(t, m.Running())
		})
	}
}

func TestRunInRelease(t *testing.T) {
	m := New(defs("a"), capacity, false)
	m.Apply(ActionRunRelease)
	eff := m.Apply(ActionConfirm)

	assert.True(t, eff.RunBatch)
	assert.True(t, eff.Release)
	assert.True(t, m.Release())
	assert.True(t, m.View().RunRelease)
}

func TestToggleRelease(t *testing.T) {
	m := New(defs("a"), capacity, false)

	m.Apply(ActionToggleRelease)
	assert.Contains(t, m.View().Confirm.Message, "RELEASE")
	eff := m.Apply(ActionConfirm)

	assert.False(t, eff.RunBatch, "toggling does not run anything")
	assert.True(t, m.Release())
	assert.Equal(t, 1, eff.Notice)
	assert.Equal(t, "Build mode changed to: RELEASE", m.Notice())

	m.Apply(ActionToggleRelease)
	m.Apply(ActionConfirm)
	assert.False(t, m.Release())
	assert.Equal(t, "Build mode changed to: DEBUG", m.Notice())
}

func TestToggleReleaseWhileRunning(t *testing.T) {
	m := New(defs("a"), capacity, false)
	m.Start()

	m.Apply(ActionToggleRelease)
	m.Apply(ActionConfirm)
	assert.True(t, m.Release())
	assert.False(t, m.View().RunRelease, "the batch in flight keeps its build mode")
}

func TestBatchFinished(t *testing.T) {
	tests := []struct {
		name    string
		release bool
		notice  string
	}{
		{"debug", false, "Tests completed!\n\nPassed: 1/2 (50.0%)"},
		{"release", true, "Release tests completed!\n\nPassed: 1/2 (50.0%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(defs("a", "b"), capacity, false)
			m.Start()
			m.Apply(ActionTabRight)
			eff := m.BatchFinished(summary(tt.release, yamoritypes.StatusPass, yamoritypes.StatusFail))

			assert.NotZero(t, eff.Notice)
			assert.Equal(t, tt.notice, m.Notice())
			assert.False(t, m.Running())
			assert.Equal(t, TabResults, m.Tab())

			vm := m.View()
			require.Len(t, vm.Rows, 2)
			assert.Equal(t, yamoritypes.StatusFail, vm.Rows[1].Status)
			assert.Equal(t, 1, vm.Stats.Passed)
			assert.Equal(t, 2, vm.Stats.Total)
			assert.InDelta(t, 50.0, vm.Stats.PassRate, 0.001)
		})
	}
}

func TestSelectionClampedAfterBatch(t *testing.T) {
	m := New(defs("a", "b", "c"), capacity, false)
	m.Apply(ActionUp)
	require.Equal(t, 2, m.Selected())

	m.Start()
	m.BatchFinished(summary(false, yamoritypes.StatusPass))
	assert.Equal(t, 0, m.Selected())

	m.Start()
	m.BatchFinished(summary(false, yamoritypes.StatusPass, yamoritypes.StatusPass))
	m.Apply(ActionDown)
	m.Start()
	m.BatchFinished(summary(false, yamoritypes.StatusPass, yamoritypes.StatusFail))
	assert.Equal(t, 1, m.Selected(), "a still valid selection is kept")
}

func TestNoticeExpiry(t *testing.T) {
	m := New(defs("a"), capacity, false)
	m.Start()
	first := m.BatchFinished(summary(false, yamoritypes.StatusPass)).Notice

	m.Apply(ActionToggleRelease)
	second := m.Apply(ActionConfirm).Notice
	require.NotEqual(t, first, second)

	m.ExpireNotice(first)
	assert.NotEmpty(t, m.Notice(), "an older timer must not dismiss a newer notice")

	m.ExpireNotice(second)
	assert.Empty(t, m.Notice())
}

func TestEscapeDismissesNotice(t *testing.T) {
	m := New(defs("a"), capacity, false)
	m.Start()
	m.BatchFinished(summary(false, yamoritypes.StatusPass))
	require.NotEmpty(t, m.Notice())

	m.Apply(ActionClosePopup)
	assert.Empty(t, m.Notice())
}

func TestProgress(t *testing.T) {
	m := New(defs("a", "b"), capacity, false)
	m.Start()
	m.BatchStarted(2, false)

	m.Progress(ProgressEvent{BatchID: "x", Index: 0, Total: 2, Name: "a", State: yamoritypes.RunStateRunning})
	vm := m.View()
	assert.True(t, vm.Running)
	assert.True(t, vm.Rows[0].Active)
	assert.Empty(t, vm.Rows[0].Status)

	res := yamoritypes.RunResult{Name: "a", Status: yamoritypes.StatusPass}
	m.Progress(ProgressEvent{BatchID: "x", Index: 0, Total: 2, Name: "a", State: yamoritypes.RunStateDone, Result: &res})
	m.Progress(ProgressEvent{BatchID: "other", Index: 1, Total: 2, Name: "b", State: yamoritypes.RunStateRunning})

	vm = m.View()
	assert.Equal(t, yamoritypes.StatusPass, vm.Rows[0].Status)
	assert.False(t, vm.Rows[0].Active)
	assert.False(t, vm.Rows[1].Active, "events from another batch are ignored")
}

// finish runs one complete batch through the machine.
func finish(m *Machine, id string, release bool, statuses ...yamoritypes.Status) {
	b := summary(release, statuses...)
	b.ID = id
	m.Start()
	m.BatchFinished(b)
}

func batchIDs(vm ViewModel) []string {
	ids := make([]string, len(vm.Batches))
	for i, b := range vm.Batches {
		ids[i] = b.ID
	}
	return ids
}

func TestHistoryLoadAndReturn(t *testing.T) {
	m := New(defs("a"), capacity, false)
	finish(m, "old", true, yamoritypes.StatusFail)
	finish(m, "new", false, yamoritypes.StatusPass)

	m.Apply(ActionToggleHistory)
	require.Equal(t, ModeHistory, m.Mode())
	assert.Equal(t, 1, m.View().HistorySelected, "history opens on the newest batch")

	m.Apply(ActionUp)
	eff := m.Apply(ActionConfirm)
	assert.NotZero(t, eff.Notice)
	assert.Equal(t, "Loaded history entry #1\nTimestamp: 2024-05-01 12:00:00", m.Notice())
	assert.Equal(t, ModeViewing, m.Mode())

	vm := m.View()
	assert.Equal(t, "old", vm.ViewingBatch)
	assert.Equal(t, yamoritypes.StatusFail, vm.Rows[0].Status)
	assert.False(t, m.Release(), "loading history leaves the build mode toggle alone")

	m.Apply(ActionClosePopup) // notice
	m.Apply(ActionClosePopup) // back to live results
	vm = m.View()
	assert.Empty(t, vm.ViewingBatch)
	assert.Equal(t, yamoritypes.StatusPass, vm.Rows[0].Status)
}

func TestHistoryNavigation(t *testing.T) {
	m := New(defs("a"), capacity, false)
	for _, id := range []string{"1", "2", "3"} {
		finish(m, id, false, yamoritypes.StatusPass)
	}

	m.Apply(ActionToggleHistory)
	m.Apply(ActionDown)
	assert.Equal(t, 0, m.View().HistorySelected)
	m.Apply(ActionUp)
	assert.Equal(t, 2, m.View().HistorySelected)
	assert.Equal(t, 0, m.Selected(), "history navigation leaves the test selection alone")

	m.Apply(ActionToggleHistory)
	assert.Equal(t, ModeViewing, m.Mode())
}

func TestHistoryConfirmWithoutBatches(t *testing.T) {
	m := New(defs("a"), capacity, false)
	m.Apply(ActionToggleHistory)
	assert.Equal(t, Effect{}, m.Apply(ActionConfirm))
	assert.Equal(t, ModeHistory, m.Mode())
}

func TestHistoryIsBounded(t *testing.T) {
	m := New(defs("a"), 2, false)
	finish(m, "1", false, yamoritypes.StatusPass)
	finish(m, "2", false, yamoritypes.StatusPass)
	finish(m, "3", false, yamoritypes.StatusPass)
	assert.Equal(t, []string{"2", "3"}, batchIDs(m.View()), "the oldest batch is evicted first")

	stopped := summary(false, yamoritypes.StatusPass)
	stopped.ID = "4"
	stopped.Stopped = true
	m.Start()
	m.BatchFinished(stopped)
	assert.Equal(t, []string{"2", "3"}, batchIDs(m.View()), "a stopped batch is not recorded")
}

func TestHistorySelectionStableWhileRunning(t *testing.T) {
	m := New(defs("a"), 2, false)
	finish(m, "1", false, yamoritypes.StatusFail)
	finish(m, "2", false, yamoritypes.StatusPass)

	m.Start()
	m.BatchStarted(1, false)
	m.Apply(ActionToggleHistory)
	m.Apply(ActionUp)
	require.Equal(t, 0, m.View().HistorySelected)

	// the running batch reports its result while the overlay is open
	res := yamoritypes.RunResult{Name: "a", Status: yamoritypes.StatusPass}
	m.Progress(ProgressEvent{BatchID: "3", Total: 1, Name: "a", State: yamoritypes.RunStateDone,
		Result: &res, Entry: &yamoritypes.HistoryEntry{Result: res}})

	m.Apply(ActionConfirm)
	assert.Equal(t, "1", m.View().ViewingBatch, "the highlighted batch is the one loaded")

	m.Apply(ActionToggleHistory)
	require.Equal(t, ModeHistory, m.Mode())
	third := summary(false, yamoritypes.StatusPass)
	third.ID = "3"
	m.BatchFinished(third)
	assert.Equal(t, ModeViewing, m.Mode(), "a finished batch closes the overlay")
	assert.Equal(t, []string{"2", "3"}, batchIDs(m.View()))
}

func TestViewDetailAndTrend(t *testing.T) {
	m := New(defs("a"), 3, false)

	vm := m.View()
	assert.Nil(t, vm.Detail)
	require.NotNil(t, vm.Definition)
	assert.Equal(t, "echo", vm.Definition.Command)
	assert.Empty(t, vm.Trend)

	for i := 0; i < 4; i++ {
		m.Start()
		m.BatchStarted(1, i%2 == 1)
		res := yamoritypes.RunResult{Name: "a", Status: yamoritypes.StatusFail, Elapsed: time.Duration(i)}
		m.Progress(ProgressEvent{BatchID: "b", Total: 1, Name: "a", State: yamoritypes.RunStateDone,
			Result: &res, Entry: &yamoritypes.HistoryEntry{Result: res, Release: i%2 == 1}})
		m.BatchFinished(summary(false, yamoritypes.StatusPass))
	}

	vm = m.View()
	require.NotNil(t, vm.Detail)
	assert.Equal(t, yamoritypes.StatusPass, vm.Detail.Status)
	require.Len(t, vm.Trend, 3, "trend keeps at most the configured number of runs")
	assert.Equal(t, time.Duration(1), vm.Trend[0].Result.Elapsed, "oldest first")
	assert.True(t, vm.Trend[0].Release)
	assert.Equal(t, time.Duration(3), vm.Trend[2].Result.Elapsed)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "HistoryOpen", ModeHistory.String())
	assert.Equal(t, "Diff", TabDiff.String())
	assert.Equal(t, "toggle-release-mode", ActionToggleRelease.String())
	assert.Len(t, Tabs, int(tabCount))
}
