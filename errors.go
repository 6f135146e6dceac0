package acceptor

import (
	"errors"
	"fmt"
	"strings"
)

// RuntimeError is an operational failure that kept the suite from producing
// results, such as an unknown preset or an unreachable hub. It maps to exit code 2.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError wraps err as a RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// TestFailureError reports a completed run in which modules failed or
// errored. It maps to exit code 1.
type TestFailureError struct {
	RunID   string
	Modules []string
}

func (e *TestFailureError) Error() string {
	if len(e.Modules) == 0 {
		return fmt.Sprintf("test failure: run %s failed", e.RunID)
	}
	return fmt.Sprintf("test failure: run %s: %d module(s) failed: %s",
		e.RunID, len(e.Modules), strings.Join(e.Modules, ", "))
}

// NewTestFailureError creates a TestFailureError for the failed modules of a run
func NewTestFailureError(runID string, modules []string) *TestFailureError {
	return &TestFailureError{RunID: runID, Modules: modules}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}
