package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alohaeditor/qunit-acceptor/reporting"
	"github.com/alohaeditor/qunit-acceptor/types"
)

const (
	RunDirectoryPrefix = "testrun-" // Standardized prefix for run directories
	AllLogsFilename    = "all.log"
	FailedDirname      = "failed"
	PassedDirname      = "passed"
)

// ResultSink is an interface for different ways of consuming module results
type ResultSink interface {
	// Consume processes a single module result
	Consume(result *types.ModuleResult, runID string) error
	// Complete is called once the run has finished
	Complete(run *types.RunResult) error
}

// FileLogger writes the results of one run below <baseDir>/testrun-<runID>
type FileLogger struct {
	baseDir      string                // Base directory for logs
	logDir       string                // Directory of this run
	failedDir    string                // Directory for failed modules
	passedDir    string                // Directory for passed and skipped modules
	mu           sync.Mutex            // Protects concurrent file operations
	sinks        []ResultSink          // Collection of result consumers
	asyncWriters map[string]*AsyncFile // Map of async file writers
	runID        string
}

// AsyncFile provides non-blocking file writing capabilities
type AsyncFile struct {
	file    *os.File
	queue   chan []byte
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewAsyncFile creates a new AsyncFile for non-blocking writes
func NewAsyncFile(path string) (*AsyncFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	af := &AsyncFile{
		file:  file,
		queue: make(chan []byte, 100),
	}

	af.wg.Add(1)
	go af.processQueue()

	return af, nil
}

// Write queues data to be written asynchronously
func (af *AsyncFile) Write(data []byte) error {
	af.mu.Lock()
	defer af.mu.Unlock()

	if af.stopped {
		return fmt.Errorf("async file is closed")
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	af.queue <- dataCopy
	return nil
}

func (af *AsyncFile) processQueue() {
	defer af.wg.Done()

	for data := range af.queue {
		if _, err := af.file.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
		}
	}
}

// Close stops the async writer and closes the file
func (af *AsyncFile) Close() error {
	af.mu.Lock()
	if !af.stopped {
		af.stopped = true
		close(af.queue)
	}
	af.mu.Unlock()

	af.wg.Wait()
	return af.file.Close()
}

// NewFileLogger creates the run directory and the default sinks: all.log,
// per-module logs, results.json, results.html and summary.log.
func NewFileLogger(baseDir string, runID string) (*FileLogger, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir cannot be empty")
	}

	logDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	failedDir := filepath.Join(logDir, FailedDirname)
	passedDir := filepath.Join(logDir, PassedDirname)

	for _, dir := range []string{baseDir, logDir, failedDir, passedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger := &FileLogger{
		baseDir:      baseDir,
		logDir:       logDir,
		failedDir:    failedDir,
		passedDir:    passedDir,
		asyncWriters: make(map[string]*AsyncFile),
		runID:        runID,
	}

	htmlSink, err := reporting.NewHTMLSink(logDir, "QUnit Results")
	if err != nil {
		return nil, err
	}

	logger.sinks = []ResultSink{
		&AllLogsFileSink{logger: logger},
		&PerModuleFileSink{logger: logger},
		NewResultsJSONSink(logDir),
		htmlSink,
		reporting.NewTextSummarySink(logDir),
	}

	return logger, nil
}

// AddSink registers an additional result consumer
func (l *FileLogger) AddSink(sink ResultSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink)
}

// getAsyncWriter gets or creates an AsyncFile for the given path
func (l *FileLogger) getAsyncWriter(path string) (*AsyncFile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if writer, exists := l.asyncWriters[path]; exists {
		return writer, nil
	}

	writer, err := NewAsyncFile(path)
	if err != nil {
		return nil, err
	}
	l.asyncWriters[path] = writer
	return writer, nil
}

func (l *FileLogger) closeAllWriters() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, writer := range l.asyncWriters {
		_ = writer.Close()
	}
	l.asyncWriters = make(map[string]*AsyncFile)
}

// LogModuleResult feeds a module result to all sinks
func (l *FileLogger) LogModuleResult(result *types.ModuleResult) error {
	l.mu.Lock()
	sinks := append([]ResultSink(nil), l.sinks...)
	l.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Consume(result, l.runID); err != nil {
			return fmt.Errorf("error in sink: %w", err)
		}
	}
	return nil
}

// Complete finalizes all sinks and closes all file writers. Every sink is
// completed even when an earlier one fails.
func (l *FileLogger) Complete(run *types.RunResult) error {
	if run == nil {
		return fmt.Errorf("run result cannot be nil")
	}

	l.mu.Lock()
	sinks := append([]ResultSink(nil), l.sinks...)
	l.mu.Unlock()

	var errs []error
	for _, sink := range sinks {
		if err := sink.Complete(run); err != nil {
			errs = append(errs, fmt.Errorf("error completing sink: %w", err))
		}
	}

	l.closeAllWriters()
	return errors.Join(errs...)
}

// GetRunID returns the run this logger writes for
func (l *FileLogger) GetRunID() string {
	return l.runID
}

// GetBaseDir returns the directory of this run
func (l *FileLogger) GetBaseDir() string {
	return l.logDir
}

// GetFailedDir returns the directory containing logs for failed modules
func (l *FileLogger) GetFailedDir() string {
	return l.failedDir
}

// GetPassedDir returns the directory containing logs for passed and skipped modules
func (l *FileLogger) GetPassedDir() string {
	return l.passedDir
}

// safeFilename converts a string to a safe filename by replacing problematic characters
func safeFilename(s string) string {
	s = strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
		"...", "",
	).Replace(s)
	return s
}

// AllLogsFileSink appends every module result to all.log
type AllLogsFileSink struct {
	logger *FileLogger
}

// Consume writes a module block to all.log
func (s *AllLogsFileSink) Consume(result *types.ModuleResult, runID string) error {
	writer, err := s.logger.getAsyncWriter(filepath.Join(s.logger.logDir, AllLogsFilename))
	if err != nil {
		return err
	}

	var content strings.Builder
	fmt.Fprintf(&content, "\n")
	fmt.Fprintf(&content, "┌─────────────────────────────────────────────────────────────────────┐\n")
	fmt.Fprintf(&content, "│ MODULE: %-62s │\n", truncateString(result.Module, 62))
	fmt.Fprintf(&content, "├─────────────────────────────────────────────────────────────────────┤\n")
	fmt.Fprintf(&content, "│ Status:   %-60s │\n", result.Status)
	fmt.Fprintf(&content, "│ Page:     %-60s │\n", truncateString(result.URL, 60))
	fmt.Fprintf(&content, "│ Counts:   %-60s │\n", fmt.Sprintf("%d passed, %d failed, %d total", result.Passed, result.Failed, result.Total))
	fmt.Fprintf(&content, "│ Duration: %-60s │\n", result.Duration)
	fmt.Fprintf(&content, "│ Time:     %-60s │\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&content, "└─────────────────────────────────────────────────────────────────────┘\n\n")
	writeModuleDetails(&content, result)

	return writer.Write([]byte(content.String()))
}

// Complete is a no-op for AllLogsFileSink
func (s *AllLogsFileSink) Complete(run *types.RunResult) error {
	return nil
}

// PerModuleFileSink writes one log per module into the passed/ or failed/ directory
type PerModuleFileSink struct {
	logger *FileLogger
}

// Consume writes <module>.log for the result
func (s *PerModuleFileSink) Consume(result *types.ModuleResult, runID string) error {
	dir := s.logger.passedDir
	if result.Status == types.StatusFail || result.Status == types.StatusError {
		dir = s.logger.failedDir
	}

	var content strings.Builder
	fmt.Fprintf(&content, "Module:   %s\n", result.Module)
	fmt.Fprintf(&content, "Run:      %s\n", runID)
	fmt.Fprintf(&content, "Page:     %s\n", result.URL)
	fmt.Fprintf(&content, "Status:   %s\n", result.Status)
	fmt.Fprintf(&content, "Duration: %s\n", result.Duration)
	fmt.Fprintf(&content, "Counts:   %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.TimedOut {
		fmt.Fprintf(&content, "Timed out waiting for QUnit to finish\n")
	}
	fmt.Fprintf(&content, "\n")
	writeModuleDetails(&content, result)

	path := filepath.Join(dir, safeFilename(result.Module)+".log")
	if err := os.WriteFile(path, []byte(content.String()), 0644); err != nil {
		return fmt.Errorf("failed to write module log %s: %w", path, err)
	}
	return nil
}

// Complete is a no-op for PerModuleFileSink
func (s *PerModuleFileSink) Complete(run *types.RunResult) error {
	return nil
}

// writeModuleDetails writes the error and the QUnit tests of a module
func writeModuleDetails(content *strings.Builder, result *types.ModuleResult) {
	if result.Error != nil {
		fmt.Fprintf(content, "ERROR:\n")
		fmt.Fprintf(content, "~~~~~~\n")
		fmt.Fprintf(content, "%s\n\n", result.Error.Error())
	}

	if len(result.Tests) == 0 {
		return
	}
	fmt.Fprintf(content, "TESTS:\n")
	fmt.Fprintf(content, "~~~~~~\n")
	for _, t := range result.Tests {
		fmt.Fprintf(content, "  [%s] %s (%d/%d)\n", t.Status(), t.FullName(), t.Passed, t.Total)
		for _, msg := range t.Messages {
			fmt.Fprintf(content, "%s\n", indentText(msg, "      "))
		}
	}
	fmt.Fprintf(content, "\n")
}

// indentText adds indentation to each line of text for better readability
func indentText(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// truncateString truncates a string to the specified max length
// and adds an ellipsis if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
