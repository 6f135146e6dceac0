package acceptor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// RunFunc runs the suite once. The context is cancelled when the scheduler stops.
type RunFunc func(ctx context.Context) error

// SuiteScheduler decides when suite runs happen.
type SuiteScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RegisterRun(run RunFunc)
	WaitForShutdown(ctx context.Context) error
	Stopped() bool
}

// IntervalScheduler runs the suite once, or once at start and then every interval.
type IntervalScheduler struct {
	interval time.Duration
	runOnce  bool
	logger   log.Logger
	run      RunFunc

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
}

var _ SuiteScheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler creates a scheduler. A zero interval means run-once.
func NewIntervalScheduler(interval time.Duration, logger log.Logger) *IntervalScheduler {
	if logger == nil {
		logger = log.New()
	}
	return &IntervalScheduler{
		interval: interval,
		runOnce:  interval <= 0,
		logger:   logger,
	}
}

// RegisterRun sets the function invoked for every run.
func (s *IntervalScheduler) RegisterRun(run RunFunc) {
	s.run = run
}

// Start performs the first run synchronously and returns its error. In
// periodic mode later runs happen in the background; their errors are logged.
func (s *IntervalScheduler) Start(ctx context.Context) error {
	if s.run == nil {
		return errors.New("run must be registered before starting scheduler")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	s.running.Store(true)

	if s.runOnce {
		s.logger.Info("Starting scheduler in run-once mode")
		return s.run(ctx)
	}

	s.logger.Info("Starting scheduler in continuous mode", "interval", s.interval)
	if err := s.run(ctx); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.running.Load() {
					return
				}
				s.logger.Info("Running scheduled suite")
				if err := s.run(ctx); err != nil {
					s.logger.Error("Scheduled suite run failed", "error", err)
				}
				s.logger.Info("Next suite run scheduled", "interval", s.interval)

			case <-ctx.Done():
				s.logger.Debug("Scheduler context done, stopping periodic runs")
				s.running.Store(false)
				return
			}
		}
	}()

	return nil
}

// Stop cancels the current run, if any, and prevents further runs. It is idempotent.
func (s *IntervalScheduler) Stop() error {
	if !s.running.Swap(false) {
		s.logger.Debug("Scheduler already stopped, nothing to do")
		return nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	return nil
}

// Stopped returns true if the scheduler is stopped.
func (s *IntervalScheduler) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until the periodic goroutine has exited or ctx is done.
func (s *IntervalScheduler) WaitForShutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Debug("Scheduler goroutines terminated")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for scheduler to terminate", "error", ctx.Err())
		return ctx.Err()
	}
}
