package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alohaeditor/qunit-acceptor/types"
)

const ResultsJSONFilename = "results.json"

// ResultsJSONSink writes the complete run as results.json
type ResultsJSONSink struct {
	outputDir string
}

// NewResultsJSONSink creates a sink writing into outputDir
func NewResultsJSONSink(outputDir string) *ResultsJSONSink {
	return &ResultsJSONSink{outputDir: outputDir}
}

// RunRecord is the JSON document written for a run
type RunRecord struct {
	RunID     string            `json:"run_id"`
	Preset    string            `json:"preset"`
	Status    string            `json:"status"`
	Settings  map[string]string `json:"settings"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Duration  float64           `json:"duration_seconds"`
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Errored   int               `json:"errored"`
	Modules   []ModuleRecord    `json:"modules"`
}

// ModuleRecord is the JSON form of a module result
type ModuleRecord struct {
	Module   string            `json:"module"`
	URL      string            `json:"url,omitempty"`
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	TimedOut bool              `json:"timed_out,omitempty"`
	Duration float64           `json:"duration_seconds"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Total    int               `json:"total"`
	Tests    []types.QUnitTest `json:"tests,omitempty"`
}

// Consume is a no-op; the document is written from the complete run
func (s *ResultsJSONSink) Consume(result *types.ModuleResult, runID string) error {
	return nil
}

// Complete writes results.json
func (s *ResultsJSONSink) Complete(run *types.RunResult) error {
	data, err := json.MarshalIndent(NewRunRecord(run), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(s.outputDir, ResultsJSONFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// NewRunRecord converts a run result into its JSON record
func NewRunRecord(run *types.RunResult) RunRecord {
	rec := RunRecord{
		RunID:     run.RunID,
		Preset:    run.Preset,
		Status:    string(run.Status),
		Settings:  run.Settings,
		StartTime: run.Stats.StartTime,
		EndTime:   run.Stats.EndTime,
		Duration:  run.Duration.Seconds(),
		Total:     run.Stats.Total,
		Passed:    run.Stats.Passed,
		Failed:    run.Stats.Failed,
		Skipped:   run.Stats.Skipped,
		Errored:   run.Stats.Errored,
		Modules:   make([]ModuleRecord, 0, len(run.Modules)),
	}
	for _, m := range run.Modules {
		mr := ModuleRecord{
			Module:   m.Module,
			URL:      m.URL,
			Status:   string(m.Status),
			TimedOut: m.TimedOut,
			Duration: m.Duration.Seconds(),
			Passed:   m.Passed,
			Failed:   m.Failed,
			Total:    m.Total,
			Tests:    m.Tests,
		}
		if m.Error != nil {
			mr.Error = m.Error.Error()
		}
		rec.Modules = append(rec.Modules, mr)
	}
	return rec
}
