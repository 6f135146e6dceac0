package acceptor

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/alohaeditor/qunit-acceptor/runner"
	"github.com/alohaeditor/qunit-acceptor/types"
)

// SuiteExecutor runs the configured suite once.
type SuiteExecutor interface {
	RunSuite(ctx context.Context) (*types.RunResult, error)
}

// DefaultSuiteExecutor runs the suite through a runner.TestRunner.
type DefaultSuiteExecutor struct {
	runner runner.TestRunner
	logger log.Logger
}

// NewDefaultSuiteExecutor creates a new DefaultSuiteExecutor.
func NewDefaultSuiteExecutor(runner runner.TestRunner, logger log.Logger) *DefaultSuiteExecutor {
	return &DefaultSuiteExecutor{
		runner: runner,
		logger: logger,
	}
}

// RunSuite runs every module of the suite. An interrupted run returns its
// partial result together with the error.
func (e *DefaultSuiteExecutor) RunSuite(ctx context.Context) (*types.RunResult, error) {
	e.logger.Info("Running suite...")
	result, err := e.runner.RunAll(ctx)
	if err != nil {
		e.logger.Error("Error running suite", "error", err)
		return result, err
	}
	e.logger.Info("Suite run completed", "run_id", result.RunID, "status", result.Status)
	return result, nil
}
