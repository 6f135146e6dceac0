package metrics

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/alohaeditor/qunit-acceptor/types"
)

func TestErrToLabel(t *testing.T) {
	validLabel := regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "nil"},
		{"hub unreachable", errors.New("dial tcp: connection refused"), "dial_tcp_connection_refused"},
		{"special chars", errors.New("page bold.html: 404"), "page_boldhtml_"},
		{"collapsed underscores", errors.New("timed  out"), "timed_out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errToLabel(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, validLabel, got)
		})
	}
}

func TestRecordErrorDetails(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("build.hub_down"))
	RecordErrorDetails("build", errors.New("hub down"))
	RecordErrorDetails("build", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal.WithLabelValues("build.hub_down")))
}

func TestRecordModule(t *testing.T) {
	counter := func(status types.ModuleStatus) float64 {
		return testutil.ToFloat64(modulesTotal.WithLabelValues("metrics-test", "indent", string(status)))
	}

	RecordModule("metrics-test", "indent", types.StatusPass, time.Second)
	RecordModule("metrics-test", "indent", types.StatusFail, 2*time.Second)
	RecordModule("metrics-test", "indent", types.StatusFail, 2*time.Second)
	assert.Equal(t, 1.0, counter(types.StatusPass))
	assert.Equal(t, 2.0, counter(types.StatusFail))

	// unknown statuses are dropped rather than creating new label values
	series := testutil.CollectAndCount(modulesTotal)
	RecordModule("metrics-test", "indent", types.ModuleStatus("flaky"), time.Second)
	assert.Equal(t, series, testutil.CollectAndCount(modulesTotal))
}

func TestRecordAssertions(t *testing.T) {
	RecordAssertions("metrics-test", "bold", 12, 0)
	RecordAssertions("metrics-test", "bold", 3, 2)

	assert.Equal(t, 15.0, testutil.ToFloat64(assertionsTotal.WithLabelValues("metrics-test", "bold", "passed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(assertionsTotal.WithLabelValues("metrics-test", "bold", "failed")))
}

func TestRecordSuite(t *testing.T) {
	RecordSuite("metrics-test", "run-2", "fail", 31, 29, 2, time.Minute)

	assert.Equal(t, 1.0, testutil.ToFloat64(suiteResults.WithLabelValues("metrics-test", "run-2", "fail")))
	assert.Equal(t, 31.0, testutil.ToFloat64(suiteModuleTotal.WithLabelValues("metrics-test", "run-2")))
	assert.Equal(t, 29.0, testutil.ToFloat64(suiteModulePassed.WithLabelValues("metrics-test", "run-2")))
	assert.Equal(t, 2.0, testutil.ToFloat64(suiteModuleFailed.WithLabelValues("metrics-test", "run-2")))
	assert.Equal(t, 60.0, testutil.ToFloat64(suiteDuration.WithLabelValues("metrics-test", "run-2")))
}

func TestIsValidResult(t *testing.T) {
	for _, status := range []types.ModuleStatus{types.StatusPass, types.StatusFail, types.StatusSkip, types.StatusError} {
		assert.True(t, isValidResult(status), status)
	}
	assert.False(t, isValidResult("flaky"))
}
