package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

func TestPrintAllPassed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	s := p.Print(yamoritypes.BatchSummary{
		Passed: 1,
		Total:  1,
		Results: []yamoritypes.RunResult{
			{Name: "echo", Status: yamoritypes.StatusPass, Elapsed: 12 * time.Millisecond},
		},
	})

	assert.True(t, s.AllPassed())
	out := buf.String()
	assert.Contains(t, out, "=== Test Results ===\nPassed: 1/1 (100.0%)\n====================\n")
	assert.Contains(t, out, "[PASS] Test #1: echo (12ms)\n")
	assert.NotContains(t, out, "Command:")
	assert.NotContains(t, out, "\x1b[", "a buffer is never colored")
}

func TestPrintFailureDetails(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	s := p.Print(yamoritypes.BatchSummary{
		Passed: 0,
		Total:  3,
		Results: []yamoritypes.RunResult{
			{
				Name:    "count",
				Status:  yamoritypes.StatusFail,
				Command: "wc",
				Args:    []string{"-w"},
				Reason:  "output mismatch",
				DiffLines: []yamoritypes.DiffLine{
					{Op: yamoritypes.DiffEqual, Text: "same"},
					{Op: yamoritypes.DiffDelete, Text: "8"},
					{Op: yamoritypes.DiffInsert, Text: "7"},
				},
			},
			{Name: "slow", Status: yamoritypes.StatusTimedOut, Command: "sleep", Args: []string{"10"}, Reason: "timed out after 1s"},
			{Name: "broken", Status: yamoritypes.StatusBuildFailed, Command: "app", Reason: "pre-build failed", Stderr: "make: error\n"},
		},
	})

	assert.False(t, s.AllPassed())
	assert.Equal(t, 1, s.Counts[yamoritypes.StatusFail])
	assert.Equal(t, 1, s.Counts[yamoritypes.StatusTimedOut])

	out := buf.String()
	assert.Contains(t, out, "Passed: 0/3 (0.0%)")
	assert.Contains(t, out, "[FAIL] Test #1: count (0ms)\n  Command: wc -w\n  Expected vs Actual:\n  - 8\n  + 7\n")
	assert.NotContains(t, out, "same", "equal lines are skipped")
	assert.NotContains(t, out, "Reason: output mismatch")
	assert.Contains(t, out, "[TIMEOUT] Test #2: slow")
	assert.Contains(t, out, "  Reason: timed out after 1s\n")
	assert.Contains(t, out, "[BUILD] Test #3: broken")
	assert.Contains(t, out, "  Command: app\n")
	assert.Contains(t, out, "  Stderr:\n    make: error\n")
}

func TestPrintStatusTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(yamoritypes.BatchSummary{
		Passed:  1,
		Total:   2,
		Results: []yamoritypes.RunResult{{Name: "a", Status: yamoritypes.StatusPass}, {Name: "b", Status: yamoritypes.StatusError, Reason: "spawn failed"}},
	})

	out := buf.String()
	idx := strings.Index(out, "STATUS")
	require.NotEqual(t, -1, idx, "table header is rendered")
	tbl := out[idx:]
	for _, label := range []string{"PASS", "FAIL", "TIMEOUT", "BUILD", "ERROR", "TOTAL"} {
		assert.Contains(t, tbl, label)
	}
}

func TestPrintEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	s := NewPrinter(&buf).Print(yamoritypes.BatchSummary{})
	assert.True(t, s.AllPassed())
	assert.Contains(t, buf.String(), "Passed: 0/0 (0.0%)")
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Header("tests/configs/tests.toml")
	assert.Equal(t, "Running tests from configuration: tests/configs/tests.toml\n", buf.String())
}

func TestTests(t *testing.T) {
	var buf bytes.Buffer
	doc := &yamoritypes.Document{
		Build: &yamoritypes.BuildConfiguration{Release: true, PreBuildCommands: []string{"make{{#if release}} release{{/if}}"}},
		Tests: []yamoritypes.TestDefinition{
			{Name: "uses-global", Command: "./app", Args: []string{"{{#if build.release}}--fast{{else}}--slow{{/if}}"}},
			{Name: "own-build", Command: "echo", Args: []string{"hi"}, Timeout: 2 * time.Second,
				Build: &yamoritypes.BuildConfiguration{}},
		},
	}

	NewPrinter(&buf).Tests(doc)

	out := buf.String()
	assert.Contains(t, out, "uses-global")
	assert.Contains(t, out, "./app --fast")
	assert.Contains(t, out, "release (global)")
	assert.Contains(t, out, "make release")
	assert.Contains(t, out, "debug (test)")
	assert.Contains(t, out, "2s")
	assert.Contains(t, out, "2 TESTS", "footers are upper-cased")
}
