// Package runner executes a preset's QUnit modules and collects the results.
//
// A run builds a suite through the suite builder, executes its modules in
// registration order and feeds every module result to:
//   - the file logger (per-module logs, results.json, summary.log, results.html)
//   - Prometheus metrics
//   - OpenTelemetry spans, one per run and one per module
//   - an optional progress indicator
package runner
