// Package engine orchestrates test runs: build resolution, pre-build
// commands, the target command under its timeout, output comparison and
// result recording.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nwiizo/yamori/internal/build"
	"github.com/nwiizo/yamori/internal/command"
	"github.com/nwiizo/yamori/internal/compare"
	"github.com/nwiizo/yamori/internal/history"
	"github.com/nwiizo/yamori/internal/logger"
	"github.com/nwiizo/yamori/pkg/yamoritypes"
)

// Options configure an Engine.
type Options struct {
	// BuildTimeout bounds each pre-build command. Zero uses the test's timeout.
	BuildTimeout time.Duration
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Engine runs tests one at a time and records every result in its history store.
type Engine struct {
	runner       command.Runner
	history      *history.Store
	buildTimeout time.Duration
	now          func() time.Time
	newID        func() string
	log          *log.Logger
}

// New creates an Engine. store may be nil when no history is wanted.
func New(runner command.Runner, store *history.Store, opts Options) *Engine {
	e := &Engine{
		runner:       runner,
		history:      store,
		buildTimeout: opts.BuildTimeout,
		now:          opts.Now,
		newID:        opts.NewID,
		log:          logger.NewStyledLogger("engine"),
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

type buildOutcome struct {
	ok     bool
	reason string
	stderr string
}

// buildMemo runs the global pre-build commands at most once per batch.
type buildMemo struct {
	done    bool
	outcome buildOutcome
}

func (m *buildMemo) get(run func() buildOutcome) buildOutcome {
	if !m.done {
		m.outcome = run()
		m.done = true
	}
	return m.outcome
}

// Execute runs one test with an already resolved build configuration.
// It always returns a result with exactly one terminal status.
func (e *Engine) Execute(ctx context.Context, test yamoritypes.TestDefinition, eff build.Effective) yamoritypes.RunResult {
	return e.execute(ctx, test, eff, nil, nil)
}

func (e *Engine) execute(
	ctx context.Context,
	test yamoritypes.TestDefinition,
	eff build.Effective,
	memo *buildMemo,
	notify func(yamoritypes.RunState),
) yamoritypes.RunResult {
	start := time.Now()
	state := yamoritypes.RunStatePending
	move := func(next yamoritypes.RunState) {
		logger.StateTransition(e.log, test.Name, state, next)
		state = next
		if notify != nil {
			notify(next)
		}
	}

	args := eff.Args(test.Args)
	result := yamoritypes.RunResult{
		Name:           test.Name,
		Command:        test.Command,
		Args:           args,
		Input:          test.Input,
		ExpectedOutput: test.ExpectedOutput,
		Release:        eff.Release,
		BuildSource:    eff.Source,
		BuildCommands:  eff.Commands(),
	}
	finish := func(status yamoritypes.Status, reason string) yamoritypes.RunResult {
		result.Status = status
		result.Reason = reason
		result.Elapsed = time.Since(start)
		result.Timestamp = e.now()
		move(yamoritypes.RunStateDone)
		e.log.Info("test finished", "test", test.Name, "status", status, "elapsed", result.Elapsed)
		return result
	}

	if len(result.BuildCommands) > 0 {
		move(yamoritypes.RunStateBuilding)
		runBuild := func() buildOutcome { return e.runBuild(ctx, test, result.BuildCommands) }
		var bo buildOutcome
		if memo != nil && eff.Source == yamoritypes.BuildSourceGlobal {
			bo = memo.get(runBuild)
		} else {
			bo = runBuild()
		}
		if !bo.ok {
			e.log.Warn("build failed", "test", test.Name, "error", bo.reason)
			result.Stderr = bo.stderr
			return finish(yamoritypes.StatusBuildFailed, bo.reason)
		}
	}

	move(yamoritypes.RunStateRunning)
	outcome := e.runner.Run(ctx, command.Spec{
		Name:    test.Command,
		Args:    args,
		Stdin:   test.Input,
		Timeout: test.EffectiveTimeout(),
		Dir:     test.WorkDir,
	})
	switch outcome.Kind {
	case command.KindCompleted:
	case command.KindTimedOut:
		return finish(yamoritypes.StatusTimedOut, outcome.Reason)
	default:
		return finish(yamoritypes.StatusError, fmt.Sprintf("%s: %s", outcome.Kind, outcome.Reason))
	}

	result.Stdout = outcome.Stdout
	result.Stderr = outcome.Stderr
	exitCode := outcome.ExitCode
	result.ExitCode = &exitCode

	move(yamoritypes.RunStateComparing)
	verdict := compare.Compare(outcome.Stdout, test.ExpectedOutput)
	if verdict.Pass {
		return finish(yamoritypes.StatusPass, "")
	}
	result.Diff = verdict.Diff
	result.DiffLines = verdict.Lines
	return finish(yamoritypes.StatusFail, "output mismatch")
}

// runBuild runs the pre-build commands in order and stops at the first failure.
func (e *Engine) runBuild(ctx context.Context, test yamoritypes.TestDefinition, commands []string) buildOutcome {
	timeout := e.buildTimeout
	if timeout <= 0 {
		timeout = test.EffectiveTimeout()
	}

	for _, line := range commands {
		e.log.Debug("pre-build", "test", test.Name, "command", line)
		out := e.runner.Run(ctx, command.Shell(line, timeout, ""))
		if out.Succeeded() {
			continue
		}
		var reason string
		switch out.Kind {
		case command.KindCompleted:
			reason = fmt.Sprintf("pre-build command %q exited with status %d", line, out.ExitCode)
		case command.KindTimedOut:
			reason = fmt.Sprintf("pre-build command %q %s", line, out.Reason)
		default:
			reason = fmt.Sprintf("pre-build command %q failed: %s", line, out.Reason)
		}
		return buildOutcome{reason: reason, stderr: strings.TrimSpace(out.Stderr)}
	}
	return buildOutcome{ok: true}
}

// RunSingle resolves the build configuration, runs one test and records it.
// Pre-build commands always run afresh.
func (e *Engine) RunSingle(ctx context.Context, test yamoritypes.TestDefinition, global *yamoritypes.BuildConfiguration) yamoritypes.RunResult {
	result := e.guarded(test, func() yamoritypes.RunResult {
		return e.execute(ctx, test, build.Resolve(test, global), nil, nil)
	})
	e.record(result)
	return result
}

// record appends result to the per-test history and returns the entry.
func (e *Engine) record(result yamoritypes.RunResult) yamoritypes.HistoryEntry {
	entry := yamoritypes.HistoryEntry{Result: result, Release: result.Release}
	if e.history != nil {
		e.history.Append(result.Name, entry)
	}
	return entry
}

// guarded converts a panic while orchestrating one test into an error result
// so the batch loop keeps going.
func (e *Engine) guarded(test yamoritypes.TestDefinition, run func() yamoritypes.RunResult) (result yamoritypes.RunResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("test panicked", "test", test.Name, "error", r)
			result = yamoritypes.RunResult{
				Name:           test.Name,
				Status:         yamoritypes.StatusError,
				Command:        test.Command,
				Args:           test.Args,
				Input:          test.Input,
				ExpectedOutput: test.ExpectedOutput,
				Reason:         fmt.Sprintf("internal error: %v", r),
				Timestamp:      e.now(),
			}
		}
	}()
	return run()
}
