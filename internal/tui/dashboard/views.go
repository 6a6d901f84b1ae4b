package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nwiizo/yamori/internal/tui/components"
	"github.com/nwiizo/yamori/internal/tui/state"
	"github.com/nwiizo/yamori/internal/tui/theme"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	vm := m.machine.View()
	if vm.Mode == state.ModeHelp {
		return m.help.View()
	}

	header := m.header(vm)
	tabs := m.tabBar.View()
	footer := m.statusBar(vm)
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(tabs)-lipgloss.Height(footer), 5)

	var content string
	switch {
	case vm.Mode == state.ModeHistory:
		content = components.Center(m.historyView(vm), m.width, contentH)
	case vm.Confirm != nil:
		popup := theme.Popup.Render(theme.Bold.Render(vm.Confirm.Title) + "\n\n" + vm.Confirm.Message)
		content = components.Center(popup, m.width, contentH)
	case vm.Notice != "":
		notice := theme.NoticePopup.Render(vm.Notice)
		rest := max(contentH-lipgloss.Height(notice), 3)
		content = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.PlaceHorizontal(m.width, lipgloss.Center, notice),
			m.tabContent(vm, rest),
		)
	default:
		content = m.tabContent(vm, contentH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)
}

func (m *Model) header(vm state.ViewModel) string {
	left := theme.TextAccent.Bold(true).Render("yamori") + " " + theme.TextMuted.Render(m.deps.ConfigPath)
	if vm.ViewingBatch != "" {
		left += " " + theme.TextWarning.Render("[history "+shortID(vm.ViewingBatch)+"]")
	}
	right := buildModeLabel(vm.Release)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return components.Truncate(left+strings.Repeat(" ", gap)+right, m.width)
}

func (m *Model) tabContent(vm state.ViewModel, h int) string {
	switch vm.Tab {
	case state.TabStatistics:
		return m.statsView(vm, h)
	case state.TabDiff:
		return m.diffView(vm, h)
	case state.TabCommands:
		return m.commandsView(vm, h)
	default:
		list := m.listPane(vm, theme.ListWidth, h)
		out := m.outputPane(vm, m.width-theme.ListWidth, h)
		return lipgloss.JoinHorizontal(lipgloss.Top, list, out)
	}
}

func (m *Model) listPane(vm state.ViewModel, w, h int) string {
	if len(vm.Rows) == 0 {
		return box("Tests", theme.TextMuted.Render("No tests declared"), w, h, theme.BorderNormal)
	}

	visible := max(h-3, 1)
	start := 0
	if vm.Selected >= visible {
		start = vm.Selected - visible + 1
	}
	end := min(start+visible, len(vm.Rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := vm.Rows[i]
		cursor := "  "
		if i == vm.Selected {
			cursor = theme.SymbolCursor + " "
		}
		sym := theme.StatusStyle(row.Status).Render(theme.StatusSymbol(row.Status))
		if row.Active {
			sym = m.spinner.View()
		}
		line := cursor + sym + " " + row.Name
		if row.Status != "" {
			line += theme.TextMuted.Render(fmt.Sprintf(" %dms", row.Elapsed.Milliseconds()))
		}
		line = components.Truncate(line, w-4)
		if i == vm.Selected {
			line = theme.SelectedRow.Render(line)
		}
		lines = append(lines, line)
	}
	title := fmt.Sprintf("Tests (%d)", len(vm.Rows))
	return box(title, strings.Join(lines, "\n"), w, h, theme.BorderActive)
}

func (m *Model) outputPane(vm state.ViewModel, w, h int) string {
	top := h / 2
	bottom := h - top

	expected := ""
	if vm.Definition != nil {
		expected = vm.Definition.ExpectedOutput
	}
	var actual, title string
	switch {
	case vm.Detail == nil:
		title = "Actual"
		actual = theme.TextMuted.Render("(not run yet)")
	default:
		d := vm.Detail
		expected = d.ExpectedOutput
		title = "Actual " + theme.StatusStyle(d.Status).Render(d.Status.Label())
		actual = components.Sanitize(d.Stdout)
		if d.Status != yamoritypes.StatusPass && d.Status != yamoritypes.StatusFail {
			actual = theme.TextWarning.Render(d.Reason)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		box("Expected", components.Sanitize(expected), w, top, theme.BorderNormal),
		box(title, actual, w, bottom, theme.BorderNormal),
	)
}

func (m *Model) statsView(vm state.ViewModel, h int) string {
	s := vm.Stats
	card := func(value, label string) string {
		return theme.StatCard.Render(theme.StatValue.Render(value) + "\n" + theme.StatLabel.Render(label))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprint(s.Total), "Total"),
		card(fmt.Sprint(s.Passed), "Passed"),
		card(fmt.Sprint(s.Total-s.Passed), "Not passed"),
		card(fmt.Sprintf("%.1f%%", s.PassRate), "Pass rate"),
		card(fmt.Sprint(len(vm.Batches)), "Batches"),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	for _, st := range yamoritypes.AllStatuses {
		label := theme.StatusStyle(st).Render(fmt.Sprintf("%s %-8s", theme.StatusSymbol(st), st.Label()))
		fmt.Fprintf(&b, "%s %d\n", label, s.Counts[st])
	}

	if len(vm.Rows) > 0 && vm.Selected < len(vm.Rows) {
		fmt.Fprintf(&b, "\n%s\n", theme.SectionTitle.Render("Recent runs of "+vm.Rows[vm.Selected].Name))
		if len(vm.Trend) == 0 {
			b.WriteString(theme.TextMuted.Render("no history yet"))
		}
		var marks []string
		for _, e := range vm.Trend {
			mark := theme.StatusStyle(e.Result.Status).Render(theme.StatusSymbol(e.Result.Status))
			if e.Release {
				mark += theme.TextMuted.Render(theme.SymbolRelease)
			}
			marks = append(marks, mark)
		}
		b.WriteString(strings.Join(marks, " "))
	}

	return box("Statistics", b.String(), m.width, h, theme.BorderNormal)
}

func (m *Model) diffView(vm state.ViewModel, h int) string {
	d := vm.Detail
	switch {
	case d == nil:
		return box("Diff", theme.TextMuted.Render("No result yet"), m.width, h, theme.BorderNormal)
	case d.Diff == "" && d.Status == yamoritypes.StatusPass:
		return box("Diff: "+d.Name, theme.TextSuccess.Render("No differences"), m.width, h, theme.BorderNormal)
	case d.Diff == "":
		return box("Diff: "+d.Name, theme.TextWarning.Render(d.Reason), m.width, h, theme.BorderNormal)
	}

	lines := strings.Split(strings.TrimRight(components.Sanitize(d.Diff), "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "---"), strings.HasPrefix(l, "+++"):
			lines[i] = theme.DiffHeader.Render(l)
		case strings.HasPrefix(l, "+"):
			lines[i] = theme.DiffInsert.Render(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = theme.DiffDelete.Render(l)
		}
	}
	return box("Diff: "+d.Name, strings.Join(lines, "\n"), m.width, h, theme.BorderNormal)
}

func (m *Model) commandsView(vm state.ViewModel, h int) string {
	var rows [][2]string
	add := func(k, v string) { rows = append(rows, [2]string{k, v}) }

	def, d := vm.Definition, vm.Detail
	switch {
	case d != nil:
		add("Command", commandLine(d.Command, d.Args))
	case def != nil:
		add("Command", commandLine(def.Command, def.Args))
	default:
		return box("Commands", theme.TextMuted.Render("No test selected"), m.width, h, theme.BorderNormal)
	}
	if def != nil {
		input := "(none)"
		if def.Input != nil {
			input = fmt.Sprintf("%q", *def.Input)
		}
		add("Input", input)
		dir := def.WorkDir
		if dir == "" {
			dir = "."
		}
		add("Working dir", dir)
		add("Timeout", def.EffectiveTimeout().String())
	}
	if d != nil {
		add("Build", fmt.Sprintf("%s (%s)", buildModeName(d.Release), d.BuildSource))
		if len(d.BuildCommands) == 0 {
			add("Pre-build", "(none)")
		}
		for i, c := range d.BuildCommands {
			k := ""
			if i == 0 {
				k = "Pre-build"
			}
			add(k, theme.SymbolBullet+" "+c)
		}
		add("Status", theme.StatusStyle(d.Status).Render(d.Status.Label()))
		exit := "n/a"
		if d.ExitCode != nil {
			exit = fmt.Sprint(*d.ExitCode)
		}
		add("Exit code", exit)
		add("Elapsed", d.Elapsed.Round(time.Millisecond).String())
		if d.Reason != "" {
			add("Reason", d.Reason)
		}
		if stderr := strings.TrimRight(components.Sanitize(d.Stderr), "\n"); stderr != "" {
			for i, l := range strings.Split(stderr, "\n") {
				k := ""
				if i == 0 {
					k = "Stderr"
				}
				add(k, l)
			}
		}
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = theme.StatLabel.Render(fmt.Sprintf("%-12s", r[0])) + " " + r[1]
	}
	return box("Commands", strings.Join(lines, "\n"), m.width, h, theme.BorderNormal)
}

func (m *Model) historyView(vm state.ViewModel) string {
	w := min(m.width-4, 80)
	if len(vm.Batches) == 0 {
		return theme.Popup.Render(theme.Bold.Render("History") + "\n\n" + theme.TextMuted.Render("No batches yet"))
	}

	lines := make([]string, len(vm.Batches))
	for i, b := range vm.Batches {
		line := fmt.Sprintf("#%-3d %s  %d/%d passed  %-7s  %s",
			i+1, b.Started.Format("2006-01-02 15:04:05"), b.Passed, b.Total,
			buildModeName(b.Release), b.Elapsed.Round(time.Millisecond))
		if b.ID == vm.ViewingBatch {
			line += " " + theme.SymbolBullet
		}
		line = components.Truncate(line, w-8)
		if i == vm.HistorySelected {
			line = theme.SelectedRow.Render(theme.SymbolCursor + " " + line)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	title := theme.Bold.Render("History") + theme.TextMuted.Render("  enter: load  esc: close")
	return theme.Popup.Render(title + "\n\n" + strings.Join(lines, "\n"))
}

func (m *Model) statusBar(vm state.ViewModel) string {
	sb := components.NewStatusBar()
	sb.SetWidth(m.width)
	sb.Mode = buildModeLabel(vm.Release)

	switch vm.Mode {
	case state.ModeConfirm:
		sb.Hints = []components.KeyHint{{Key: "enter", Desc: "Confirm"}, {Key: "esc", Desc: "Cancel"}}
	case state.ModeHistory:
		sb.Hints = []components.KeyHint{{Key: "j/k", Desc: "Select"}, {Key: "enter", Desc: "Load"}, {Key: "esc", Desc: "Close"}}
	default:
		sb.Hints = []components.KeyHint{
			{Key: "q", Desc: "Quit"},
			{Key: "?", Desc: "Help"},
			{Key: "r", Desc: "Re-run"},
			{Key: "R", Desc: "Release"},
			{Key: "b", Desc: "Build"},
			{Key: "H", Desc: "History"},
		}
	}

	switch {
	case vm.Running:
		p := vm.Progress
		if p.Name == "" {
			sb.Extra = m.spinner.View() + " Starting" + theme.SymbolEllipsis
		} else {
			sb.Extra = fmt.Sprintf("%s Running %d/%d: %s (%s)", m.spinner.View(), p.Index+1, p.Total, p.Name, p.State)
		}
	case m.flash != "":
		sb.Extra = m.flash
	}
	return sb.View()
}

// box renders a titled bordered pane of exactly w x h cells.
func box(title, body string, w, h int, style lipgloss.Style) string {
	inner := max(h-3, 1)
	lines := strings.Split(components.ClipLines(body, inner), "\n")
	for i, l := range lines {
		lines[i] = components.Truncate(l, max(w-4, 1))
	}
	content := theme.SectionTitle.Render(title) + "\n" + strings.Join(lines, "\n")
	return style.Width(max(w-2, 1)).Height(max(h-2, 1)).MaxHeight(max(h, 3)).Render(content)
}

func commandLine(cmd string, args []string) string {
	return strings.TrimSpace(cmd + " " + strings.Join(args, " "))
}

func buildModeName(release bool) string {
	if release {
		return "RELEASE"
	}
	return "DEBUG"
}

func buildModeLabel(release bool) string {
	if release {
		return theme.SymbolRelease + " RELEASE"
	}
	return theme.SymbolDebug + " DEBUG"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
