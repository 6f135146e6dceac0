package acceptor

import (
	"github.com/alohaeditor/qunit-acceptor/metrics"
	"github.com/alohaeditor/qunit-acceptor/types"
)

// MetricsReporter publishes the outcome of a suite run.
type MetricsReporter interface {
	ReportResults(result *types.RunResult)
}

// DefaultMetricsReporter records suite runs in the prometheus metrics.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults records the run. Errored modules count as failed.
func (r *DefaultMetricsReporter) ReportResults(result *types.RunResult) {
	if result == nil {
		return
	}
	metrics.RecordSuite(
		result.Preset,
		result.RunID,
		string(result.Status),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed+result.Stats.Errored,
		result.Duration,
	)
}
