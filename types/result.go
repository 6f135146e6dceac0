// Package types contains shared types used across the qunit acceptance framework
package types

import (
	"strings"
	"time"
)

// ModuleStatus represents the possible states of a module execution
type ModuleStatus string

const (
	StatusPass  ModuleStatus = "pass"
	StatusFail  ModuleStatus = "fail"
	StatusSkip  ModuleStatus = "skip"
	StatusError ModuleStatus = "error"
)

// String implements the Stringer interface for ModuleStatus
func (s ModuleStatus) String() string {
	return string(s)
}

// QUnitTest is the outcome of one QUnit test case inside a module page
type QUnitTest struct {
	Module   string   `json:"module"`
	Name     string   `json:"name"`
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	Total    int      `json:"total"`
	Messages []string `json:"messages,omitempty"`
}

// Status derives the test status from its assertion counts
func (t QUnitTest) Status() ModuleStatus {
	switch {
	case t.Failed > 0:
		return StatusFail
	case t.Total == 0:
		return StatusSkip
	default:
		return StatusPass
	}
}

// FullName returns "<module> :: <name>", or just the name when QUnit did not report a module
func (t QUnitTest) FullName() string {
	if t.Module == "" {
		return t.Name
	}
	return t.Module + " :: " + t.Name
}

// ModuleResult captures the outcome of a single module run
type ModuleResult struct {
	Module   string
	URL      string
	Status   ModuleStatus
	Error    error
	Duration time.Duration
	TimedOut bool

	// Assertion counts as reported by the QUnit banner
	Passed int
	Failed int
	Total  int

	Tests []QUnitTest
}

// FailedTests returns the QUnit tests with failing assertions
func (r *ModuleResult) FailedTests() []QUnitTest {
	var failed []QUnitTest
	for _, t := range r.Tests {
		if t.Failed > 0 {
			failed = append(failed, t)
		}
	}
	return failed
}

// Summary returns the most useful one-line description of what went wrong, or ""
func (r *ModuleResult) Summary() string {
	if r.Error != nil {
		msg := r.Error.Error()
		if idx := strings.Index(msg, "\n"); idx != -1 {
			msg = msg[:idx]
		}
		return msg
	}
	for _, t := range r.FailedTests() {
		if len(t.Messages) > 0 {
			return t.FullName() + ": " + t.Messages[0]
		}
		return t.FullName()
	}
	return ""
}

// ResultStats tracks module statistics for a run
type ResultStats struct {
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	Errored   int
	StartTime time.Time
	EndTime   time.Time
}

// Add counts a module result into the stats
func (s *ResultStats) Add(status ModuleStatus) {
	s.Total++
	switch status {
	case StatusPass:
		s.Passed++
	case StatusFail:
		s.Failed++
	case StatusSkip:
		s.Skipped++
	case StatusError:
		s.Errored++
	}
}

// RunResult captures a complete suite run
type RunResult struct {
	RunID    string
	Preset   string
	Settings map[string]string
	Modules  []*ModuleResult
	Status   ModuleStatus
	Duration time.Duration
	Stats    ResultStats
}

// DetermineStatus computes the overall status: any failure or error fails the
// run, a run where every module skipped is skipped, anything else passes.
func DetermineStatus(modules []*ModuleResult) ModuleStatus {
	if len(modules) == 0 {
		return StatusSkip
	}
	allSkipped := true
	for _, m := range modules {
		switch m.Status {
		case StatusFail, StatusError:
			return StatusFail
		case StatusPass:
			allSkipped = false
		}
	}
	if allSkipped {
		return StatusSkip
	}
	return StatusPass
}
