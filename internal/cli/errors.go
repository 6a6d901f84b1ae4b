package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitSuccess     = 0 // all tests passed
	ExitTestFailure = 1 // at least one test did not pass
	ExitRuntimeErr  = 2 // configuration, terminal or other operational errors
)

// RuntimeError is an operational failure: invalid configuration, missing
// file, unusable terminal.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// TestFailureError reports that a batch finished with non-passing tests.
type TestFailureError struct {
	Failed int
	Total  int
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %d of %d tests did not pass", e.Failed, e.Total)
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var testErr *TestFailureError
	if errors.As(err, &testErr) {
		return ExitTestFailure
	}
	return ExitRuntimeErr
}
