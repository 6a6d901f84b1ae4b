// Package compare decides whether captured output matches the expected
// output and renders a line diff when it does not.
package compare

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Verdict is the comparator's decision. Diff and Lines are empty on a pass.
type Verdict struct {
	Pass  bool
	Diff  string
	Lines []yamoritypes.DiffLine
}

// Normalize removes exactly one trailing newline. No other whitespace is touched.
func Normalize(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// Compare checks actual against expected after Normalize.
func Compare(actual, expected string) Verdict {
	a, e := Normalize(actual), Normalize(expected)
	if a == e {
		return Verdict{Pass: true}
	}
	lines := LineDiff(e, a)
	return Verdict{Lines: lines, Diff: Unified(lines)}
}

// LineDiff computes a line-oriented diff from expected to actual.
// The result is deterministic: the diff timeout is disabled.
func LineDiff(expected, actual string) []yamoritypes.DiffLine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	chars1, chars2, lineArray := dmp.DiffLinesToChars(withNewline(expected), withNewline(actual))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	var out []yamoritypes.DiffLine
	for _, d := range diffs {
		op := yamoritypes.DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = yamoritypes.DiffInsert
		case diffmatchpatch.DiffDelete:
			op = yamoritypes.DiffDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, yamoritypes.DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// withNewline terminates the last line so that "a" and "a\nb" share the
// line "a\n" instead of diffing it as a change.
func withNewline(s string) string {
	if s == "" {
		return s
	}
	return s + "\n"
}

// Unified renders diff lines with a "--- expected / +++ actual" header.
func Unified(lines []yamoritypes.DiffLine) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("--- expected\n+++ actual\n")
	for _, l := range lines {
		b.WriteString(l.Op.Marker())
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
