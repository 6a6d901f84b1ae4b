package yamoritypes

import "time"

// Status is the terminal outcome of a single test run.
type Status string

const (
	StatusPass        Status = "pass"
	StatusFail        Status = "fail"
	StatusTimedOut    Status = "timeout"
	StatusBuildFailed Status = "build_failed"
	StatusError       Status = "error"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusPass, StatusFail, StatusTimedOut, StatusBuildFailed, StatusError}

// Label returns the short upper-case label used in reports.
func (s Status) Label() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusTimedOut:
		return "TIMEOUT"
	case StatusBuildFailed:
		return "BUILD"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// BuildSource records where an effective build configuration came from.
type BuildSource string

const (
	BuildSourceTest    BuildSource = "test"
	BuildSourceGlobal  BuildSource = "global"
	BuildSourceDefault BuildSource = "default"
)

// DiffOp classifies a single line of a line diff.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// Marker returns the unified-diff prefix for the operation.
func (o DiffOp) Marker() string {
	switch o {
	case DiffInsert:
		return "+"
	case DiffDelete:
		return "-"
	default:
		return " "
	}
}

// DiffLine is one line of a diff between expected and actual output.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// RunResult is produced exactly once per test execution and never mutated afterwards.
type RunResult struct {
	Name   string
	Status Status
	Stdout string
	Stderr string
	// ExitCode is nil when the process never started or was killed by the watchdog.
	ExitCode  *int
	Elapsed   time.Duration
	Diff      string
	DiffLines []DiffLine
	Timestamp time.Time

	Command        string
	Args           []string
	Input          *string
	ExpectedOutput string
	Release        bool
	BuildSource    BuildSource
	BuildCommands  []string
	Reason         string
}

// Passed reports whether the run ended in StatusPass.
func (r RunResult) Passed() bool {
	return r.Status == StatusPass
}

// HistoryEntry is a retained past run plus the build mode it used.
type HistoryEntry struct {
	Result  RunResult
	Release bool
}

// BatchSummary records one full pass over the declared tests.
type BatchSummary struct {
	ID      string
	Started time.Time
	Elapsed time.Duration
	Release bool
	Passed  int
	Total   int
	Results []RunResult
	// Stopped marks a batch cut short by cancellation. Stopped batches are
	// not kept in batch history.
	Stopped bool
}

// PassRate returns the percentage of passing tests, 0 for an empty batch.
func (b BatchSummary) PassRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Passed) / float64(b.Total) * 100
}

// CountStatuses tallies results by status.
func CountStatuses(results []RunResult) map[Status]int {
	counts := make(map[Status]int, len(AllStatuses))
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
