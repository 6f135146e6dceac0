package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alohaeditor/qunit-acceptor/types"
)

const (
	MetricsNamespace = "qunit_acceptor"
)

// Registry holds every collector of this package plus the process and Go
// runtime collectors. It is served on the metrics endpoint.
var Registry = opmetrics.NewRegistry()

var factory = promauto.With(Registry)

var (
	Debug                bool = true
	validResults              = []types.ModuleStatus{types.StatusPass, types.StatusFail, types.StatusSkip, types.StatusError}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	modulesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "modules_total",
		Help:      "Count of executed QUnit modules",
	}, []string{
		"preset",
		"module",
		"result",
	})

	moduleDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "module_duration_seconds",
		Help:      "Time taken by a QUnit module page to report",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{
		"preset",
		"module",
	})

	assertionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "assertions_total",
		Help:      "Count of QUnit assertions by outcome",
	}, []string{
		"preset",
		"module",
		"outcome",
	})

	suiteResults = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of suite runs",
	}, []string{
		"preset",
		"run_id",
		"result",
	})

	suiteModuleTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_module_total",
		Help:      "Total number of modules in suite runs",
	}, []string{
		"preset",
		"run_id",
	})

	suiteModulePassed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_module_passed",
		Help:      "Number of passed modules in suite runs",
	}, []string{
		"preset",
		"run_id",
	})

	suiteModuleFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_module_failed",
		Help:      "Number of failed modules in suite runs",
	}, []string{
		"preset",
		"run_id",
	})

	suiteDuration = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration",
		Help:      "Duration of suite runs in seconds",
	}, []string{
		"preset",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordModule records the outcome of one module run
func RecordModule(preset string, module string, result types.ModuleStatus, duration time.Duration) {
	if !isValidResult(result) {
		log.Error("RecordModule - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "modules_total",
			"preset", preset,
			"module", module,
			"result", result)
	}
	modulesTotal.WithLabelValues(preset, module, string(result)).Inc()
	moduleDuration.WithLabelValues(preset, module).Observe(duration.Seconds())
}

// RecordAssertions adds the QUnit assertion counts of a module run
func RecordAssertions(preset string, module string, passed int, failed int) {
	assertionsTotal.WithLabelValues(preset, module, "passed").Add(float64(passed))
	assertionsTotal.WithLabelValues(preset, module, "failed").Add(float64(failed))
}

func RecordSuite(
	preset string,
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	suiteResults.WithLabelValues(preset, runID, result).Set(1)
	suiteModuleTotal.WithLabelValues(preset, runID).Add(float64(total))
	suiteModulePassed.WithLabelValues(preset, runID).Add(float64(passed))
	suiteModuleFailed.WithLabelValues(preset, runID).Add(float64(failed))
	suiteDuration.WithLabelValues(preset, runID).Set(duration.Seconds())
}

func isValidResult(result types.ModuleStatus) bool {
	return slices.Contains(validResults, result)
}
