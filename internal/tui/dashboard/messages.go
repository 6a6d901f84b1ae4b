// Package dashboard implements the interactive Bubble Tea dashboard: it feeds
// key presses and engine events into the presentation state machine, runs
// requested batches in the background and renders the machine's view.
package dashboard

import (
	"github.com/nwiizo/yamori/internal/engine"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// ProgressMsg carries one engine progress report into the update loop.
type ProgressMsg struct {
	Progress engine.Progress
}

// BatchFinishedMsg carries a completed batch.
type BatchFinishedMsg struct {
	Summary yamoritypes.BatchSummary
}

// NoticeExpiredMsg fires when a notice's display time is over.
type NoticeExpiredMsg struct {
	Seq int
}

// CopiedMsg reports the outcome of a clipboard copy.
type CopiedMsg struct {
	What string
	Err  error
}
