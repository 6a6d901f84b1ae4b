// Package report prints a finished batch as the plain-text CLI summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"

	"github.com/nwiizo/yamori/internal/build"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Summary is what a printed batch amounted to.
type Summary struct {
	Passed int
	Total  int
	Counts map[yamoritypes.Status]int
}

// AllPassed reports whether every test passed. An empty batch counts as passed.
func (s Summary) AllPassed() bool {
	return s.Passed == s.Total
}

// Printer writes CLI summaries. Colors are used only when the writer is a
// terminal that supports them.
type Printer struct {
	w     io.Writer
	out   *termenv.Output
	color bool
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer) *Printer {
	out := termenv.NewOutput(w)
	return &Printer{w: w, out: out, color: out.Profile != termenv.Ascii}
}

// Header announces the configuration being run.
func (p *Printer) Header(configPath string) {
	fmt.Fprintf(p.w, "Running tests from configuration: %s\n", configPath)
}

// Print writes the batch summary, one line per test with details for every
// non-passing test, followed by a table of status counts.
func (p *Printer) Print(batch yamoritypes.BatchSummary) Summary {
	s := Summary{
		Passed: batch.Passed,
		Total:  batch.Total,
		Counts: yamoritypes.CountStatuses(batch.Results),
	}

	fmt.Fprintln(p.w, "\n=== Test Results ===")
	fmt.Fprintf(p.w, "Passed: %d/%d (%.1f%%)\n", batch.Passed, batch.Total, batch.PassRate())
	fmt.Fprintln(p.w, "====================")
	fmt.Fprintln(p.w)

	for i, r := range batch.Results {
		fmt.Fprintf(p.w, "[%s] Test #%d: %s (%dms)\n", p.label(r.Status), i+1, r.Name, r.Elapsed.Milliseconds())
		if r.Passed() {
			continue
		}
		p.details(r)
		fmt.Fprintln(p.w)
	}

	p.table(s)
	return s
}

func (p *Printer) details(r yamoritypes.RunResult) {
	fmt.Fprintf(p.w, "  Command: %s\n", strings.TrimSpace(r.Command+" "+strings.Join(r.Args, " ")))
	if r.Status != yamoritypes.StatusFail && r.Reason != "" {
		fmt.Fprintf(p.w, "  Reason: %s\n", r.Reason)
	}
	if len(r.DiffLines) > 0 {
		fmt.Fprintln(p.w, "  Expected vs Actual:")
		for _, l := range r.DiffLines {
			switch l.Op {
			case yamoritypes.DiffDelete:
				fmt.Fprintln(p.w, "  "+p.paint("- "+l.Text, "1"))
			case yamoritypes.DiffInsert:
				fmt.Fprintln(p.w, "  "+p.paint("+ "+l.Text, "2"))
			}
		}
	}
	if stderr := strings.TrimRight(r.Stderr, "\n"); stderr != "" {
		fmt.Fprintln(p.w, "  Stderr:")
		for _, line := range strings.Split(stderr, "\n") {
			fmt.Fprintln(p.w, "    "+line)
		}
	}
}

func (p *Printer) table(s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.AppendHeader(table.Row{"Status", "Count"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Count", Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	for _, st := range yamoritypes.AllStatuses {
		t.AppendRow(table.Row{st.Label(), s.Counts[st]})
	}
	t.AppendFooter(table.Row{"TOTAL", s.Total})

	switch {
	case !p.color:
		t.SetStyle(table.StyleLight)
	case s.AllPassed():
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.Render()
}

func (p *Printer) label(s yamoritypes.Status) string {
	switch s {
	case yamoritypes.StatusPass:
		return p.paint(s.Label(), "2")
	case yamoritypes.StatusTimedOut, yamoritypes.StatusBuildFailed:
		return p.paint(s.Label(), "3")
	default:
		return p.paint(s.Label(), "1")
	}
}

// paint colors text with an ANSI color when the output supports it.
func (p *Printer) paint(s, color string) string {
	if !p.color {
		return s
	}
	return p.out.String(s).Foreground(p.out.Color(color)).String()
}

// Tests lists the declared tests with the build configuration each resolves to.
func (p *Printer) Tests(doc *yamoritypes.Document) {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.AppendHeader(table.Row{"#", "Name", "Command", "Timeout", "Build", "Pre-build"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Command", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Pre-build", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})
	for i, test := range doc.Tests {
		eff := build.Resolve(test, doc.Build)
		mode := "debug"
		if eff.Release {
			mode = "release"
		}
		t.AppendRow(table.Row{
			i + 1,
			test.Name,
			strings.TrimSpace(test.Command + " " + strings.Join(eff.Args(test.Args), " ")),
			test.EffectiveTimeout(),
			fmt.Sprintf("%s (%s)", mode, eff.Source),
			strings.Join(eff.Commands(), "\n"),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tests", len(doc.Tests))})
	t.SetStyle(table.StyleLight)
	t.Render()
}
