// Package command runs external processes under a hard wall-clock timeout.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc"

	"github.com/nwiizo/yamori/internal/logger"
)

// DefaultTimeout is used when a Spec carries no timeout.
const DefaultTimeout = 5 * time.Second

// Kind classifies how a command ended.
type Kind int

const (
	// KindCompleted - the process exited on its own
	KindCompleted Kind = iota
	// KindTimedOut - the watchdog killed the process
	KindTimedOut
	// KindSpawnFailed - the process could not be started
	KindSpawnFailed
	// KindIOFailed - the process ran but its output could not be collected
	KindIOFailed
	// KindCancelled - the caller's context ended before the process did
	KindCancelled
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCompleted:
		return "Completed"
	case KindTimedOut:
		return "TimedOut"
	case KindSpawnFailed:
		return "SpawnFailed"
	case KindIOFailed:
		return "IOFailed"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Spec describes one process invocation.
type Spec struct {
	Name    string
	Args    []string
	Stdin   *string
	Timeout time.Duration
	Dir     string
}

// String renders the spec as a shell-like command line for logs and reports.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Shell wraps a command line in `sh -c`.
func Shell(line string, timeout time.Duration, dir string) Spec {
	return Spec{Name: "sh", Args: []string{"-c", line}, Timeout: timeout, Dir: dir}
}

// Outcome is the result of running a Spec. Stdout, Stderr and ExitCode are
// only meaningful for KindCompleted; partial output of a killed process is
// discarded.
type Outcome struct {
	Kind     Kind
	Stdout   string
	Stderr   string
	ExitCode int
	Elapsed  time.Duration
	Reason   string
}

// Succeeded reports a completed run with exit status zero.
func (o Outcome) Succeeded() bool {
	return o.Kind == KindCompleted && o.ExitCode == 0
}

// Runner executes a Spec and always returns an Outcome.
type Runner interface {
	Run(ctx context.Context, spec Spec) Outcome
}

// ExecRunner runs processes with os/exec in their own process group.
type ExecRunner struct {
	log *log.Logger
}

// NewExecRunner creates the default Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{log: logger.NewStyledLogger("runner")}
}

func checkDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("invalid working directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid working directory %s: not a directory", dir)
	}
	return nil
}

// Run spawns the process, feeds stdin, collects both output streams
// concurrently and kills the whole process group once the timeout elapses.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) Outcome {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := time.Now()
	failed := func(kind Kind, err error) Outcome {
		return Outcome{Kind: kind, Elapsed: time.Since(start), Reason: err.Error()}
	}

	if err := ctx.Err(); err != nil {
		return failed(KindCancelled, err)
	}
	if err := checkDir(spec.Dir); err != nil {
		return failed(KindSpawnFailed, err)
	}

	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	setProcessGroup(cmd)
	if spec.Stdin != nil {
		cmd.Stdin = strings.NewReader(*spec.Stdin)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return failed(KindIOFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return failed(KindIOFailed, err)
	}

	r.log.Debug("spawning", "command", spec.String(), "timeout", timeout)
	if err := cmd.Start(); err != nil {
		return failed(KindSpawnFailed, fmt.Errorf("failed to spawn %s: %w", spec.Name, err))
	}

	ks := &killSwitch{cmd: cmd}
	watchdog := time.AfterFunc(timeout, func() { ks.fire(KindTimedOut) })
	stopCancel := context.AfterFunc(ctx, func() { ks.fire(KindCancelled) })

	var outBuf, errBuf bytes.Buffer
	var outErr, errErr error
	var wg conc.WaitGroup
	wg.Go(func() { _, outErr = io.Copy(&outBuf, stdout) })
	wg.Go(func() { _, errErr = io.Copy(&errBuf, stderr) })
	wg.Wait()

	waitErr := cmd.Wait()
	fired := ks.reap()
	watchdog.Stop()
	stopCancel()
	elapsed := time.Since(start)

	switch endedBy(fired, cmd.ProcessState) {
	case KindTimedOut:
		r.log.Debug("killed by watchdog", "command", spec.String(), "elapsed", elapsed)
		return Outcome{Kind: KindTimedOut, Elapsed: elapsed, Reason: fmt.Sprintf("timed out after %s", timeout)}
	case KindCancelled:
		return Outcome{Kind: KindCancelled, Elapsed: elapsed, Reason: context.Cause(ctx).Error()}
	}

	if readErr := errors.Join(outErr, errErr); readErr != nil {
		return Outcome{Kind: KindIOFailed, Elapsed: elapsed, Reason: fmt.Sprintf("reading output: %v", readErr)}
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return Outcome{Kind: KindIOFailed, Elapsed: elapsed, Reason: waitErr.Error()}
		}
		exitCode = exitErr.ExitCode()
	}

	return Outcome{
		Kind:     KindCompleted,
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: exitCode,
		Elapsed:  elapsed,
	}
}

// killSwitch terminates the process group at most once, and never after the
// process has been reaped.
type killSwitch struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	fired  Kind
	reaped bool
}

// fire kills the process on behalf of kind. It reports whether a signal was sent.
func (k *killSwitch) fire(kind Kind) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.reaped || k.fired != KindCompleted {
		return false
	}
	k.fired = kind
	terminate(k.cmd)
	return true
}

// reap marks the process as waited for and returns who killed it, or
// KindCompleted if nobody did.
func (k *killSwitch) reap() Kind {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.reaped = true
	return k.fired
}

// endedBy decides how a process ended. A kill only counts when the process
// actually died from the signal; one that exited on its own just before the
// timer fired is still completed.
func endedBy(fired Kind, state *os.ProcessState) Kind {
	if fired == KindCompleted || !killedBySignal(state) {
		return KindCompleted
	}
	return fired
}
