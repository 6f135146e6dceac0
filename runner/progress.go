package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/alohaeditor/qunit-acceptor/types"
)

// ProgressIndicator interface for progress updates during a run
type ProgressIndicator interface {
	StartSuite(preset string, totalModules int)
	StartModule(module string)
	UpdateModule(module string, status types.ModuleStatus)
	CompleteSuite(preset string)
}

// noOpProgressIndicator provides a no-op implementation of ProgressIndicator
type noOpProgressIndicator struct{}

// NewNoOpProgressIndicator creates a progress indicator that does nothing
func NewNoOpProgressIndicator() ProgressIndicator {
	return &noOpProgressIndicator{}
}

func (n *noOpProgressIndicator) StartSuite(preset string, totalModules int)            {}
func (n *noOpProgressIndicator) StartModule(module string)                             {}
func (n *noOpProgressIndicator) UpdateModule(module string, status types.ModuleStatus) {}
func (n *noOpProgressIndicator) CompleteSuite(preset string)                           {}

// ConsoleProgressIndicator logs a progress line on every tick while a suite runs
type ConsoleProgressIndicator struct {
	logger log.Logger
	ticker *time.Ticker
	stopCh chan struct{}
	once   sync.Once
	mu     sync.RWMutex

	preset           string
	totalModules     int
	completedModules int
	failedModules    int
	suiteStartTime   time.Time

	currentModule string
	moduleStart   time.Time
}

// NewConsoleProgressIndicator creates a progress indicator that shows updates in the console
func NewConsoleProgressIndicator(logger log.Logger, updateInterval time.Duration) *ConsoleProgressIndicator {
	if updateInterval == 0 {
		updateInterval = DefaultProgressInterval
	}

	indicator := &ConsoleProgressIndicator{
		logger: logger,
		ticker: time.NewTicker(updateInterval),
		stopCh: make(chan struct{}),
	}

	go indicator.progressReporter()

	return indicator
}

func (c *ConsoleProgressIndicator) StartSuite(preset string, totalModules int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.preset = preset
	c.totalModules = totalModules
	c.completedModules = 0
	c.failedModules = 0
	c.suiteStartTime = time.Now()
	c.currentModule = ""

	c.logger.Info("Starting suite", "preset", preset, "modules", totalModules)
}

func (c *ConsoleProgressIndicator) StartModule(module string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentModule = module
	c.moduleStart = time.Now()
}

func (c *ConsoleProgressIndicator) UpdateModule(module string, status types.ModuleStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.completedModules++
	if status == types.StatusFail || status == types.StatusError {
		c.failedModules++
	}
	if c.currentModule == module {
		c.currentModule = ""
	}

	c.logger.Debug("Module completed", "module", module, "status", status,
		"completed", c.completedModules, "total", c.totalModules)
}

func (c *ConsoleProgressIndicator) CompleteSuite(preset string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	duration := time.Since(c.suiteStartTime).Truncate(time.Second)
	c.logger.Info("Completed suite", "preset", preset, "modules", c.totalModules,
		"completed", c.completedModules, "failed", c.failedModules, "duration", duration)
	c.currentModule = ""
}

// progressReporter runs in a goroutine and periodically reports progress
func (c *ConsoleProgressIndicator) progressReporter() {
	for {
		select {
		case <-c.ticker.C:
			c.reportProgress()
		case <-c.stopCh:
			return
		}
	}
}

func (c *ConsoleProgressIndicator) reportProgress() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.totalModules == 0 {
		return
	}

	c.logger.Info("Progress update",
		"preset", c.preset,
		"completed", c.completedModules,
		"total", c.totalModules,
		"percent", percentComplete(c.completedModules, c.totalModules),
		"failed", c.failedModules,
		"running", formatRunningModule(c.currentModule, c.moduleStart, time.Now()),
	)
}

// Stop stops the progress indicator. It is safe to call more than once.
func (c *ConsoleProgressIndicator) Stop() {
	c.once.Do(func() {
		c.ticker.Stop()
		close(c.stopCh)
	})
}

func percentComplete(completed, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(completed)*100.0/float64(total))
}

// formatRunningModule formats the module in flight into a display string
func formatRunningModule(module string, start time.Time, now time.Time) string {
	if module == "" {
		return ""
	}
	return fmt.Sprintf("%s (%v)", module, now.Sub(start).Truncate(time.Second))
}
