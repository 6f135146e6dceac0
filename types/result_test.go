package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQUnitTest_Status(t *testing.T) {
	assert.Equal(t, StatusPass, QUnitTest{Passed: 3, Total: 3}.Status())
	assert.Equal(t, StatusFail, QUnitTest{Passed: 2, Failed: 1, Total: 3}.Status())
	assert.Equal(t, StatusSkip, QUnitTest{}.Status())
}

func TestQUnitTest_FullName(t *testing.T) {
	assert.Equal(t, "CommandTest :: bold", QUnitTest{Module: "CommandTest", Name: "bold"}.FullName())
	assert.Equal(t, "bold", QUnitTest{Name: "bold"}.FullName())
}

func TestDetermineStatus(t *testing.T) {
	mod := func(s ModuleStatus) *ModuleResult { return &ModuleResult{Status: s} }

	tests := []struct {
		name    string
		modules []*ModuleResult
		want    ModuleStatus
	}{
		{"empty", nil, StatusSkip},
		{"all pass", []*ModuleResult{mod(StatusPass), mod(StatusPass)}, StatusPass},
		{"pass and skip", []*ModuleResult{mod(StatusPass), mod(StatusSkip)}, StatusPass},
		{"all skip", []*ModuleResult{mod(StatusSkip), mod(StatusSkip)}, StatusSkip},
		{"one fail", []*ModuleResult{mod(StatusPass), mod(StatusFail)}, StatusFail},
		{"error fails the run", []*ModuleResult{mod(StatusSkip), mod(StatusError)}, StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.modules))
		})
	}
}

func TestResultStats_Add(t *testing.T) {
	var s ResultStats
	for _, st := range []ModuleStatus{StatusPass, StatusPass, StatusFail, StatusSkip, StatusError} {
		s.Add(st)
	}
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Errored)
}

func TestModuleResult_Summary(t *testing.T) {
	t.Run("error first line", func(t *testing.T) {
		r := &ModuleResult{Error: errors.New("page load failed\nstack trace")}
		assert.Equal(t, "page load failed", r.Summary())
	})

	t.Run("first failing test message", func(t *testing.T) {
		r := &ModuleResult{Tests: []QUnitTest{
			{Module: "CommandTest", Name: "ok", Passed: 1, Total: 1},
			{Module: "CommandTest", Name: "bold", Failed: 1, Total: 1, Messages: []string{"expected <b>a</b>"}},
		}}
		assert.Equal(t, "CommandTest :: bold: expected <b>a</b>", r.Summary())
		assert.Len(t, r.FailedTests(), 1)
	})

	t.Run("failing test without message", func(t *testing.T) {
		r := &ModuleResult{Tests: []QUnitTest{{Name: "bold", Failed: 2, Total: 2}}}
		assert.Equal(t, "bold", r.Summary())
	})

	t.Run("clean", func(t *testing.T) {
		assert.Equal(t, "", (&ModuleResult{Status: StatusPass}).Summary())
	})
}
