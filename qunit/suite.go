package qunit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alohaeditor/qunit-acceptor/suite"
	"github.com/alohaeditor/qunit-acceptor/types"
)

var _ suite.Handle = (*Suite)(nil)

// Suite is a browser session plus the ordered list of modules to run in it
type Suite struct {
	cfg      Config
	settings suite.Settings
	pageBase string
	browser  Browser

	mu      sync.Mutex
	modules []string
	closed  bool
}

// AddModule appends a module to the execution plan
func (s *Suite) AddModule(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = append(s.modules, name)
}

// Modules returns the registered modules in registration order
func (s *Suite) Modules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.modules...)
}

// Settings returns the configuration record the suite was created with
func (s *Suite) Settings() suite.Settings {
	return s.settings.Clone()
}

// Run executes every registered module in order. It stops early and returns
// the context error when ctx is done; results gathered so far are returned.
func (s *Suite) Run(ctx context.Context) ([]*types.ModuleResult, error) {
	var results []*types.ModuleResult
	for _, module := range s.Modules() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.RunModule(ctx, module))
	}
	return results, nil
}

// RunModule loads the module page and waits for QUnit to report
func (s *Suite) RunModule(ctx context.Context, module string) *types.ModuleResult {
	start := time.Now()
	result := &types.ModuleResult{Module: module}
	defer func() {
		result.Duration = time.Since(start)
	}()

	pageURL, err := PageURL(s.pageBase, s.cfg.PagePattern, module)
	if err != nil {
		result.Status = types.StatusError
		result.Error = err
		return result
	}
	result.URL = pageURL

	s.cfg.Log.Debug("Loading module page", "module", module, "url", pageURL)
	if err := s.browser.Get(pageURL); err != nil {
		result.Status = types.StatusError
		result.Error = fmt.Errorf("failed to load %s: %w", pageURL, err)
		return result
	}

	rep, err := s.waitForReport(ctx)
	if err != nil {
		// A page that never reports counts as a failed module
		result.TimedOut = errors.Is(err, context.DeadlineExceeded)
		result.Status = types.StatusError
		if result.TimedOut {
			result.Status = types.StatusFail
		}
		result.Error = fmt.Errorf("module %s: %w", module, err)
		return result
	}

	result.Passed = rep.Passed
	result.Failed = rep.Failed
	result.Total = rep.Total
	result.Tests = rep.Tests
	result.Status = rep.status()

	s.cfg.Log.Info("Module finished", "module", module, "status", result.Status,
		"passed", rep.Passed, "failed", rep.Failed, "total", rep.Total)
	return result
}

// waitForReport polls the page until QUnit has finished or the module timeout expires
func (s *Suite) waitForReport(ctx context.Context) (*report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ModuleTimeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		// Script errors are expected while the page is still loading
		v, err := s.browser.ExecuteScript(resultsScript, nil)
		if err == nil {
			rep, decodeErr := decodeReport(v)
			if decodeErr != nil {
				return nil, decodeErr
			}
			if rep.Done {
				return rep, nil
			}
		} else {
			lastErr = err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("no results after %s (last script error: %v): %w", s.cfg.ModuleTimeout, lastErr, ctx.Err())
			}
			return nil, fmt.Errorf("no results after %s: %w", s.cfg.ModuleTimeout, ctx.Err())
		}
	}
}

// Close ends the browser session. It is safe to call more than once.
func (s *Suite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.browser.Quit()
}
