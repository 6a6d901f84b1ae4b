package engine

import (
	"context"
	"time"

	"github.com/nwiizo/yamori/internal/build"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Progress reports a state change of one test inside a batch. Result and
// Entry are set only when State is RunStateDone; Entry is the record the
// engine appended to history for that result.
type Progress struct {
	BatchID string
	Index   int
	Total   int
	Name    string
	State   yamoritypes.RunState
	Result  *yamoritypes.RunResult
	Entry   *yamoritypes.HistoryEntry
}

// ProgressFunc receives batch progress. It is called from the goroutine
// running the batch.
type ProgressFunc func(Progress)

// RunBatch runs tests strictly in declaration order. A failing or panicking
// test never stops the batch. Each result is appended to history as soon as
// it is produced and the batch summary is appended at the end. Progress
// carries the same records, so a consumer on another goroutine can mirror the
// history without reading the store.
//
// Cancelling ctx stops the batch between tests: the test in flight still runs
// to completion or timeout, no further test starts, and the returned summary
// covers only the tests that ran. A stopped batch is not added to history.
func (e *Engine) RunBatch(
	ctx context.Context,
	tests []yamoritypes.TestDefinition,
	global *yamoritypes.BuildConfiguration,
	progress ProgressFunc,
) yamoritypes.BatchSummary {
	summary := yamoritypes.BatchSummary{
		ID:      e.newID(),
		Started: e.now(),
		Release: global != nil && global.Release,
		Total:   len(tests),
		Results: make([]yamoritypes.RunResult, 0, len(tests)),
	}
	e.log.Info("batch started", "batch", summary.ID, "tests", len(tests), "release", summary.Release)

	start := time.Now()
	memo := &buildMemo{}
	runCtx := context.WithoutCancel(ctx)
	stopped := false
	for i, test := range tests {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		notify := func(state yamoritypes.RunState) {
			if progress != nil && state != yamoritypes.RunStateDone {
				progress(Progress{BatchID: summary.ID, Index: i, Total: len(tests), Name: test.Name, State: state})
			}
		}
		result := e.guarded(test, func() yamoritypes.RunResult {
			return e.execute(runCtx, test, build.Resolve(test, global), memo, notify)
		})
		entry := e.record(result)

		summary.Results = append(summary.Results, result)
		if result.Passed() {
			summary.Passed++
		}
		if progress != nil {
			r := result
			progress(Progress{
				BatchID: summary.ID, Index: i, Total: len(tests), Name: test.Name,
				State: yamoritypes.RunStateDone, Result: &r, Entry: &entry,
			})
		}
	}
	summary.Elapsed = time.Since(start)

	if stopped {
		summary.Total = len(summary.Results)
		summary.Stopped = true
		e.log.Warn("batch stopped", "batch", summary.ID, "ran", summary.Total, "declared", len(tests))
		return summary
	}
	if e.history != nil {
		e.history.AppendBatch(summary)
	}
	e.log.Info("batch finished", "batch", summary.ID, "passed", summary.Passed, "total", summary.Total, "elapsed", summary.Elapsed)
	return summary
}
