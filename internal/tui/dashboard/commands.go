package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwiizo/yamori/internal/engine"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// expireNoticeCmd fires a NoticeExpiredMsg for seq after d.
func expireNoticeCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}

// runBatchCmd runs one batch. Progress is pushed through send while the
// batch runs; the summary is the command's result. done is called when the
// batch has returned.
func runBatchCmd(
	ctx context.Context,
	eng *engine.Engine,
	tests []yamoritypes.TestDefinition,
	global *yamoritypes.BuildConfiguration,
	send func(tea.Msg),
	done func(),
) tea.Cmd {
	return func() tea.Msg {
		defer done()
		var progress engine.ProgressFunc
		if send != nil {
			progress = func(p engine.Progress) { send(ProgressMsg{Progress: p}) }
		}
		return BatchFinishedMsg{Summary: eng.RunBatch(ctx, tests, global, progress)}
	}
}

// copyCmd writes text to the system clipboard.
func copyCmd(what, content string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{What: what, Err: writeClipboard(content)}
	}
}

// batchCmds combines commands, dropping nils.
func batchCmds(cmds ...tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}
