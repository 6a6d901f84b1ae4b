package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nwiizo/yamori/internal/build"
	"github.com/nwiizo/yamori/internal/engine"
	"github.com/nwiizo/yamori/internal/logger"
	"github.com/nwiizo/yamori/internal/tui/components"
	"github.com/nwiizo/yamori/internal/tui/state"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Ensure *Model satisfies tea.Model.
var _ tea.Model = (*Model)(nil)

// Deps are the dashboard's collaborators.
type Deps struct {
	Engine     *engine.Engine
	Tests      []yamoritypes.TestDefinition
	Global     *yamoritypes.BuildConfiguration
	ConfigPath string
	// HistorySize bounds the batches and per-test runs the dashboard keeps.
	HistorySize int
}

// Model is the root Bubble Tea model of the dashboard.
type Model struct {
	deps    Deps
	machine *state.Machine
	keys    KeyMap

	tabBar  components.TabBarModel
	help    components.PagerModel
	spinner spinner.Model

	width  int
	height int

	// flash is a one-line status message shown until the next key press.
	flash string

	helpCache      string
	helpCacheWidth int

	send   func(tea.Msg)
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *log.Logger
}

// New creates the dashboard model. Call SetProgramSender before running it
// to receive live progress.
func New(deps Deps) *Model {
	release := deps.Global != nil && deps.Global.Release

	tabs := make([]components.Tab, len(state.Tabs))
	for i, t := range state.Tabs {
		tabs[i] = components.Tab{ID: strings.ToLower(t.String()), Label: t.String()}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	keys := DefaultKeyMap()
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		deps:    deps,
		machine: state.New(deps.Tests, deps.HistorySize, release),
		keys:    keys,
		tabBar:  components.NewTabBar(tabs),
		help:    components.NewPager(hint(keys.Close), hint(keys.Help)),
		spinner: s,
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.NewStyledLogger("dashboard"),
	}
}

// SetProgramSender sets the function used to push progress messages from
// the batch goroutine. Must be called before Run().
func (m *Model) SetProgramSender(send func(tea.Msg)) {
	m.send = send
}

// Wait blocks until the batch in flight, if any, has returned. After a quit
// the batch stops before its next test.
func (m *Model) Wait() {
	m.wg.Wait()
}

// Machine exposes the state machine for inspection.
func (m *Model) Machine() *state.Machine {
	return m.machine
}

// Init starts the first batch.
func (m *Model) Init() tea.Cmd {
	return batchCmds(m.spinner.Tick, m.apply(m.machine.Start()))
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case ProgressMsg:
		p := msg.Progress
		m.machine.Progress(state.ProgressEvent{
			BatchID: p.BatchID,
			Index:   p.Index,
			Total:   p.Total,
			Name:    p.Name,
			State:   p.State,
			Result:  p.Result,
			Entry:   p.Entry,
		})
		return m, nil

	case BatchFinishedMsg:
		m.log.Debug("batch received", "batch", msg.Summary.ID, "passed", msg.Summary.Passed, "total", msg.Summary.Total)
		return m, m.apply(m.machine.BatchFinished(msg.Summary))

	case NoticeExpiredMsg:
		m.machine.ExpireNotice(msg.Seq)
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.flash = "copy failed: " + msg.Err.Error()
			m.log.Warn("clipboard copy failed", "error", msg.Err)
		} else {
			m.flash = "copied " + msg.What
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.help.IsOpen() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.flash = ""

	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	action := m.keys.Action(msg)
	mode := m.machine.Mode()

	// scrolling inside the help overlay
	if mode == state.ModeHelp && action != state.ActionToggleHelp && action != state.ActionClosePopup && action != state.ActionQuit {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}

	if mode == state.ModeViewing && key.Matches(msg, m.keys.Copy) {
		return m.copySelected()
	}
	if action == state.ActionNone {
		return nil
	}

	eff := m.machine.Apply(action)
	m.log.Debug("action", "action", action, "from", mode, "state", m.machine.Mode())
	return m.apply(eff)
}

// apply turns an Effect into commands and syncs the widgets that mirror the machine.
func (m *Model) apply(eff state.Effect) tea.Cmd {
	m.sync()

	if eff.Quit {
		return m.quit()
	}

	var cmds []tea.Cmd
	if eff.Notice != 0 {
		cmds = append(cmds, expireNoticeCmd(eff.Notice, state.NoticeDuration))
	}
	if eff.RunBatch {
		cmds = append(cmds, m.startBatch(eff.Release))
	}
	return batchCmds(cmds...)
}

func (m *Model) startBatch(release bool) tea.Cmd {
	global := m.deps.Global
	if global != nil || release {
		global = build.WithReleaseOverride(global, release)
	}
	m.machine.BatchStarted(len(m.deps.Tests), release)
	m.log.Info("starting batch", "tests", len(m.deps.Tests), "release", release)

	m.wg.Add(1)
	return runBatchCmd(m.ctx, m.deps.Engine, m.deps.Tests, global, m.send, m.wg.Done)
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m *Model) copySelected() tea.Cmd {
	r, ok := m.machine.SelectedResult()
	if !ok {
		m.flash = "nothing to copy"
		return nil
	}
	if r.Diff != "" {
		return copyCmd("diff", r.Diff)
	}
	return copyCmd("stdout", r.Stdout)
}

// sync mirrors machine state into the tab bar and help modal.
func (m *Model) sync() {
	m.tabBar.SetActive(int(m.machine.Tab()))

	vm := m.machine.View()
	failing := vm.Stats.Total - vm.Stats.Passed
	m.tabBar.SetBadge("results", failing)

	switch {
	case vm.Mode == state.ModeHelp && !m.help.IsOpen():
		m.help.Open("yamori help", m.renderHelp())
	case vm.Mode != state.ModeHelp && m.help.IsOpen():
		m.help.Close()
	}
}

func (m *Model) layout() {
	m.tabBar.SetWidth(m.width)
	m.help.SetSize(m.width, m.height)
	if m.help.IsOpen() {
		m.help.SetContent(m.renderHelp())
	}
}
