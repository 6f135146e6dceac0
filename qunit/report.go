package qunit

import (
	"encoding/json"
	"fmt"

	"github.com/alohaeditor/qunit-acceptor/types"
)

// resultsScript reads the QUnit result banner and test list from the page.
// It reports done=false until QUnit has written its final counts.
const resultsScript = `
var banner = document.getElementById("qunit-testresult");
if (!banner) { return JSON.stringify({done: false}); }
var count = function (root, cls) {
	var el = root.getElementsByClassName(cls)[0];
	return el ? (parseInt(el.textContent, 10) || 0) : null;
};
var total = count(banner, "total");
if (total === null) { return JSON.stringify({done: false}); }
var tests = [];
var items = document.querySelectorAll("#qunit-tests > li");
for (var i = 0; i < items.length; i++) {
	var li = items[i];
	var text = function (sel) { var el = li.querySelector(sel); return el ? el.textContent : ""; };
	var counts = li.querySelector(".counts") || li;
	var passed = count(counts, "passed") || 0;
	var failed = count(counts, "failed") || 0;
	var messages = [];
	var fails = li.querySelectorAll(".qunit-assert-list li.fail .test-message");
	for (var j = 0; j < fails.length; j++) { messages.push(fails[j].textContent); }
	tests.push({
		module: text(".module-name"),
		name: text(".test-name"),
		passed: passed,
		failed: failed,
		total: passed + failed,
		messages: messages
	});
}
return JSON.stringify({
	done: true,
	passed: count(banner, "passed") || 0,
	failed: count(banner, "failed") || 0,
	total: total,
	tests: tests
});
`

// report is what resultsScript returns
type report struct {
	Done   bool              `json:"done"`
	Passed int               `json:"passed"`
	Failed int               `json:"failed"`
	Total  int               `json:"total"`
	Tests  []types.QUnitTest `json:"tests"`
}

// status derives the module status from the banner counts
func (r *report) status() types.ModuleStatus {
	switch {
	case r.Failed > 0:
		return types.StatusFail
	case r.Total == 0:
		return types.StatusSkip
	default:
		return types.StatusPass
	}
}

// decodeReport turns the value returned by ExecuteScript into a report.
// The script returns a JSON string; decoded objects are accepted as well.
func decodeReport(v interface{}) (*report, error) {
	var data []byte
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("results script returned nothing")
	case string:
		data = []byte(val)
	case []byte:
		data = val
	default:
		var err error
		if data, err = json.Marshal(val); err != nil {
			return nil, fmt.Errorf("unexpected results value %T: %w", v, err)
		}
	}

	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode QUnit results: %w", err)
	}
	return &r, nil
}
