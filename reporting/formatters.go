package reporting

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/alohaeditor/qunit-acceptor/suite"
	"github.com/alohaeditor/qunit-acceptor/types"
)

// StatusDisplay represents display information for a module status
type StatusDisplay struct {
	Text  string // Human-readable status text
	Class string // CSS class or style identifier
}

// getStatusDisplay returns human-readable status text and CSS class
func getStatusDisplay(status types.ModuleStatus) StatusDisplay {
	switch status {
	case types.StatusPass:
		return StatusDisplay{Text: "PASS", Class: "pass"}
	case types.StatusFail:
		return StatusDisplay{Text: "FAIL", Class: "fail"}
	case types.StatusSkip:
		return StatusDisplay{Text: "SKIP", Class: "skip"}
	case types.StatusError:
		return StatusDisplay{Text: "ERROR", Class: "error"}
	default:
		return StatusDisplay{Text: "UNKNOWN", Class: "unknown"}
	}
}

// getResultString returns a short marker for the module result
func getResultString(status types.ModuleStatus) string {
	switch status {
	case types.StatusPass:
		return "✓ pass"
	case types.StatusSkip:
		return "- skip"
	case types.StatusError:
		return "✗ error"
	default:
		return "✗ fail"
	}
}

// FormatDuration formats a duration to seconds with 1 decimal place
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// TableFormatter renders run results as a go-pretty table
type TableFormatter struct {
	title      string
	showErrors bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(title string, showErrors bool) *TableFormatter {
	return &TableFormatter{
		title:      title,
		showErrors: showErrors,
	}
}

// Format renders one row per module plus a TOTAL footer. The table style is
// colored by the overall run status.
func (tf *TableFormatter) Format(run *types.RunResult) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(fmt.Sprintf("%s (%s, %s)", tf.title, run.Preset, FormatDuration(run.Duration)))

	header := table.Row{"#", "Module", "Duration", "Assertions", "Passed", "Failed", "Status"}
	if tf.showErrors {
		header = append(header, "Error")
	}
	t.AppendHeader(header)

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Module", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Assertions", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	var assertions, passed, failed int
	for i, m := range run.Modules {
		row := table.Row{
			i + 1,
			m.Module,
			FormatDuration(m.Duration),
			m.Total,
			m.Passed,
			m.Failed,
			getResultString(m.Status),
		}
		if tf.showErrors {
			row = append(row, m.Summary())
		}
		t.AppendRow(row)

		assertions += m.Total
		passed += m.Passed
		failed += m.Failed
	}

	switch run.Status {
	case types.StatusPass:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case types.StatusSkip:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	footer := table.Row{
		"TOTAL",
		fmt.Sprintf("%d modules", run.Stats.Total),
		FormatDuration(run.Duration),
		assertions,
		passed,
		failed,
		getResultString(run.Status),
	}
	if tf.showErrors {
		footer = append(footer, "")
	}
	t.AppendFooter(footer)

	t.Render()
	return buf.String()
}

// FormatPlan renders the resolved configuration record and the modules a
// preset would register, without running anything.
func FormatPlan(preset suite.Preset, settings suite.Settings) string {
	var buf bytes.Buffer

	st := table.NewWriter()
	st.SetOutputMirror(&buf)
	st.SetTitle(fmt.Sprintf("Settings (%s)", preset.Name))
	st.AppendHeader(table.Row{"Key", "Value", "Preset default"})
	for _, key := range suite.Keys {
		def := preset.Defaults[key]
		if def == settings[key] {
			def = "="
		}
		st.AppendRow(table.Row{string(key), settings[key], def})
	}
	st.SetStyle(table.StyleLight)
	st.Render()

	included := preset.Included()
	mt := table.NewWriter()
	mt.SetOutputMirror(&buf)
	mt.SetTitle(fmt.Sprintf("Modules (%d of %d)", len(included), len(preset.Modules)))
	mt.AppendHeader(table.Row{"#", "Module"})
	mt.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
	})
	for i, m := range included {
		mt.AppendRow(table.Row{i + 1, m})
	}
	if excluded := excludedModules(preset); len(excluded) > 0 {
		mt.AppendFooter(table.Row{"excluded", strings.Join(excluded, ", ")})
	}
	mt.SetStyle(table.StyleLight)
	mt.Render()

	return buf.String()
}

// FormatPresets renders the available presets, marking the default one
func FormatPresets(presets []suite.Preset, defaultID string) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle("Presets")
	t.AppendHeader(table.Row{"ID", "Default", "Browser", "Platform", "Modules", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Modules", Align: text.AlignRight},
		{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, p := range presets {
		marker := ""
		if p.Name == defaultID {
			marker = "*"
		}
		t.AppendRow(table.Row{
			p.Name,
			marker,
			p.Defaults[suite.KeyBrowser],
			p.Defaults[suite.KeyPlatform],
			len(p.Included()),
			p.Description,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return buf.String()
}

// excludedModules lists excluded names that are part of the module list
func excludedModules(p suite.Preset) []string {
	var out []string
	for _, m := range p.Modules {
		if p.IsExcluded(m) {
			out = append(out, m)
		}
	}
	return out
}
