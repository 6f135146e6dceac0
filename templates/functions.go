// Package templates holds the HTML report template and the helper functions it uses.
package templates

import (
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/alohaeditor/qunit-acceptor/types"
)

//go:embed results.html.tmpl
var resultsHTML string

// ResultsTemplate parses the embedded results page template
func ResultsTemplate() (*template.Template, error) {
	tmpl, err := template.New("results").Funcs(GetTemplateFunc()).Parse(resultsHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results template: %w", err)
	}
	return tmpl, nil
}

// GetTemplateFunc returns the template functions used by the HTML report
func GetTemplateFunc() template.FuncMap {
	return template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			if d < time.Second {
				return fmt.Sprintf("%dms", d.Milliseconds())
			}
			return d.Truncate(time.Millisecond).String()
		},
		"getStatusClass": func(status types.ModuleStatus) string {
			return getStatusString(status)
		},
		"passRate": func(stats types.ResultStats) string {
			if stats.Total == 0 {
				return "0.0%"
			}
			return fmt.Sprintf("%.1f%%", float64(stats.Passed)*100/float64(stats.Total))
		},
		// module pages are often file:// URLs, which html/template would otherwise filter
		"pageURL": func(u string) template.URL {
			return template.URL(u)
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// getStatusString returns a consistent lowercase status string
func getStatusString(status types.ModuleStatus) string {
	switch status {
	case types.StatusPass:
		return "pass"
	case types.StatusFail:
		return "fail"
	case types.StatusSkip:
		return "skip"
	case types.StatusError:
		return "error"
	default:
		return "unknown"
	}
}
