package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/alohaeditor/qunit-acceptor/templates"
	"github.com/alohaeditor/qunit-acceptor/types"
)

const HTMLResultsFilename = "results.html"

// HTMLSink renders the run as a standalone results.html page
type HTMLSink struct {
	tmpl      *template.Template
	title     string
	outputDir string
}

// NewHTMLSink creates an HTML sink writing into outputDir
func NewHTMLSink(outputDir string, title string) (*HTMLSink, error) {
	tmpl, err := templates.ResultsTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to create HTML sink: %w", err)
	}
	return &HTMLSink{
		tmpl:      tmpl,
		title:     title,
		outputDir: outputDir,
	}, nil
}

// Consume is a no-op; the page is rendered from the complete run
func (s *HTMLSink) Consume(result *types.ModuleResult, runID string) error {
	return nil
}

// Complete generates results.html
func (s *HTMLSink) Complete(run *types.RunResult) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.outputDir, err)
	}

	var buf bytes.Buffer
	data := struct {
		Title string
		Run   *types.RunResult
	}{
		Title: s.title,
		Run:   run,
	}
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}

	htmlFile := filepath.Join(s.outputDir, HTMLResultsFilename)
	if err := os.WriteFile(htmlFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
