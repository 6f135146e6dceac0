package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/acarl005/stripansi"

	"github.com/alohaeditor/qunit-acceptor/types"
)

const SummaryFilename = "summary.log"

// TextSummarySink writes the results table, without color codes, to summary.log
type TextSummarySink struct {
	formatter *TableFormatter
	outputDir string
}

// NewTextSummarySink creates a text summary sink writing into outputDir
func NewTextSummarySink(outputDir string) *TextSummarySink {
	return &TextSummarySink{
		formatter: NewTableFormatter("QUnit Results", true),
		outputDir: outputDir,
	}
}

// Consume is a no-op; the summary is rendered from the complete run
func (s *TextSummarySink) Consume(result *types.ModuleResult, runID string) error {
	return nil
}

// Complete renders the run table and writes it to summary.log
func (s *TextSummarySink) Complete(run *types.RunResult) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.outputDir, err)
	}

	content := stripansi.Strip(s.formatter.Format(run))

	summaryFile := filepath.Join(s.outputDir, SummaryFilename)
	if err := os.WriteFile(summaryFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
