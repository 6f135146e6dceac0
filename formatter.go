package acceptor

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"github.com/alohaeditor/qunit-acceptor/reporting"
	"github.com/alohaeditor/qunit-acceptor/types"
	"github.com/alohaeditor/qunit-acceptor/ui"
)

const failureTreeWidth = 120

// ResultFormatter displays the results of a suite run.
type ResultFormatter interface {
	FormatResults(result *types.RunResult) error
}

// ConsoleResultFormatter prints the results table to a writer, stdout by default.
type ConsoleResultFormatter struct {
	logger log.Logger
	out    io.Writer
}

// NewConsoleResultFormatter creates a formatter writing to stdout.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
		out:    os.Stdout,
	}
}

// FormatResults prints the module table, the failure tree when modules
// failed, and a one-line verdict.
func (f *ConsoleResultFormatter) FormatResults(result *types.RunResult) error {
	if result == nil {
		return fmt.Errorf("no results to format")
	}
	f.logger.Info("Printing results...")

	table := reporting.NewTableFormatter("QUnit Results", true).Format(result)
	if _, err := fmt.Fprintln(f.out, table); err != nil {
		return err
	}
	if tree := ui.FailureTree(result, failureTreeWidth); tree != "" {
		if _, err := fmt.Fprint(f.out, tree); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(f.out, verdict(result))
	return err
}

// verdict summarises a run in one line
func verdict(result *types.RunResult) string {
	s := result.Stats
	switch result.Status {
	case types.StatusPass:
		return fmt.Sprintf("PASS: %d/%d modules passed (%d skipped) in run %s", s.Passed, s.Total, s.Skipped, result.RunID)
	case types.StatusSkip:
		return fmt.Sprintf("SKIP: all %d modules skipped in run %s", s.Total, result.RunID)
	default:
		return fmt.Sprintf("FAIL: %d failed, %d errored, %d passed of %d modules in run %s",
			s.Failed, s.Errored, s.Passed, s.Total, result.RunID)
	}
}

// failedModules lists the modules that failed or errored, in run order
func failedModules(result *types.RunResult) []string {
	var failed []string
	for _, m := range result.Modules {
		if m.Status == types.StatusFail || m.Status == types.StatusError {
			failed = append(failed, m.Module)
		}
	}
	return failed
}
