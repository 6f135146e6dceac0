// Package acceptor runs the Aloha Editor QUnit suites against a WebDriver
// hub, once or on an interval, and reports the results on the console, in
// run log files and as prometheus metrics.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/alohaeditor/qunit-acceptor/exitcodes"
	"github.com/alohaeditor/qunit-acceptor/metrics"
	"github.com/alohaeditor/qunit-acceptor/qunit"
	"github.com/alohaeditor/qunit-acceptor/registry"
	"github.com/alohaeditor/qunit-acceptor/runner"
	"github.com/alohaeditor/qunit-acceptor/service"
	"github.com/alohaeditor/qunit-acceptor/suite"
	"github.com/alohaeditor/qunit-acceptor/types"
)

var _ cliapp.Lifecycle = (*Acceptor)(nil)

// Acceptor runs the suite of one preset and reports the outcome.
type Acceptor struct {
	config   *Config
	version  string
	preset   suite.Preset
	settings suite.Settings
	service  *service.Service

	scheduler SuiteScheduler
	executor  SuiteExecutor
	formatter ResultFormatter
	reporter  MetricsReporter
	progress  *runner.ConsoleProgressIndicator

	mu     sync.Mutex
	result *types.RunResult

	shutdownCallback func(error) // signals the application to exit
}

// New resolves the preset and prepares the HTTP endpoints. Browser sessions
// are only opened once the acceptor starts. A ctx cancelled before setup
// finishes (e.g. an interrupt during startup) aborts New.
func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Acceptor, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acceptor setup interrupted: %w", err)
	}

	reg, err := registry.NewRegistry(registry.Config{
		Log:         config.Log,
		PresetsFile: config.PresetsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("acceptor setup interrupted: %w", err)
	}

	preset, err := reg.Get(config.PresetID)
	if err != nil {
		return nil, err
	}
	preset = preset.With(config.Include, config.Exclude)
	if len(preset.Included()) == 0 {
		return nil, fmt.Errorf("preset %s: %w", preset.Name, runner.ErrNoModules)
	}

	settings := suite.Resolve(preset.Defaults, config.Overrides)

	config.Log.Debug("Creating acceptor",
		"preset", preset.Name,
		"modules", len(preset.Included()),
		"hub", settings[suite.KeyHubLocation],
		"basePath", settings[suite.KeyBasePath],
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	svc := service.New(service.Config{
		HealthzAddr:        config.HealthzAddr,
		Metrics:            config.MetricsConfig,
		Registry:           metrics.Registry,
		AssetsAddr:         config.AssetsAddr,
		AssetsDir:          settings[suite.KeyBasePath],
		AssetsAdvertiseURL: config.AssetsAdvertiseURL,
	}, config.Log)

	if shutdownCallback == nil {
		shutdownCallback = func(error) {}
	}

	return &Acceptor{
		config:           config,
		version:          version,
		preset:           preset,
		settings:         settings,
		service:          svc,
		scheduler:        NewIntervalScheduler(config.RunInterval, config.Log),
		formatter:        NewConsoleResultFormatter(config.Log),
		reporter:         NewDefaultMetricsReporter(),
		shutdownCallback: shutdownCallback,
	}, nil
}

// newExecutor wires harness, builder and runner. It runs after the service
// started so module pages can be loaded from the assets server.
func (a *Acceptor) newExecutor() (SuiteExecutor, error) {
	dialOpts := qunit.DialOptions{
		Headless:    a.config.Headless,
		BrowserArgs: a.config.BrowserArgs,
	}
	dial := qunit.RemoteDialer(dialOpts)
	if a.config.LocalDriver {
		dial = qunit.LocalDialer(dialOpts)
	}

	harness := qunit.NewHarness(qunit.Config{
		Log:           a.config.Log,
		Dial:          dial,
		PageBase:      a.service.AssetsURL(),
		PagePattern:   a.config.PagePattern,
		ModuleTimeout: a.config.ModuleTimeout,
		PollInterval:  a.config.PollInterval,
	})

	builder, err := suite.NewBuilder[*qunit.Suite](suite.Config{
		Log:       a.config.Log,
		Overrides: a.config.Overrides,
	}, harness)
	if err != nil {
		return nil, fmt.Errorf("failed to create suite builder: %w", err)
	}

	var progress runner.ProgressIndicator
	if a.config.ShowProgress {
		a.progress = runner.NewConsoleProgressIndicator(a.config.Log, runner.DefaultProgressInterval)
		progress = a.progress
	}

	testRunner, err := runner.NewTestRunner(runner.Config{
		Builder:  builder,
		Preset:   a.preset,
		Log:      a.config.Log,
		LogDir:   a.config.LogDir,
		Progress: progress,
		Snapshot: a.configSnapshot(a.service.AssetsURL()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create test runner: %w", err)
	}
	return NewDefaultSuiteExecutor(testRunner, a.config.Log), nil
}

// configSnapshot captures the effective configuration for the run directory
func (a *Acceptor) configSnapshot(pageBase string) *types.EffectiveConfigSnapshot {
	return &types.EffectiveConfigSnapshot{
		Preset: types.PresetConfigSnapshot{
			Name:     a.preset.Name,
			Modules:  a.preset.Included(),
			Excluded: a.preset.Excluded,
			Settings: a.settings.StringMap(),
		},
		Browser: types.BrowserConfigSnapshot{
			LocalDriver:   a.config.LocalDriver,
			Headless:      a.config.Headless,
			BrowserArgs:   a.config.BrowserArgs,
			PageBase:      pageBase,
			PagePattern:   a.config.PagePattern,
			ModuleTimeout: a.config.ModuleTimeout,
			PollInterval:  a.config.PollInterval,
		},
		Execution: types.ExecutionConfigSnapshot{
			RunInterval:  a.config.RunInterval,
			RunOnce:      a.config.RunOnce,
			ShowProgress: a.config.ShowProgress,
		},
		Paths: types.PathsConfigSnapshot{
			PresetsFile: a.config.PresetsFile,
			LogDir:      a.config.LogDir,
		},
		Version: a.version,
	}
}

// Start runs the suite immediately and, outside run-once mode, schedules
// further runs. A run that could not produce results returns a RuntimeError,
// a run-once with failed modules returns a TestFailureError.
// Start implements the cliapp.Lifecycle interface.
func (a *Acceptor) Start(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			a.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	if a.config.RunOnce {
		a.config.Log.Info("Starting qunit-acceptor in run-once mode", "version", a.version, "preset", a.preset.Name)
	} else {
		a.config.Log.Info("Starting qunit-acceptor in continuous mode", "version", a.version,
			"preset", a.preset.Name, "interval", a.config.RunInterval)
	}

	if err := a.service.Start(ctx); err != nil {
		return NewRuntimeError(err)
	}

	if a.executor == nil {
		executor, err := a.newExecutor()
		if err != nil {
			return NewRuntimeError(err)
		}
		a.executor = executor
	}

	a.scheduler.RegisterRun(a.runSuite)
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	if a.config.RunOnce {
		a.config.Log.Info("Suite completed, exiting (run-once mode)")
		go a.shutdownCallback(nil)
	}
	return nil
}

// runSuite runs the suite once and reports the outcome
func (a *Acceptor) runSuite(ctx context.Context) error {
	result, err := a.executor.RunSuite(ctx)
	if result != nil {
		a.mu.Lock()
		a.result = result
		a.mu.Unlock()

		if ferr := a.formatter.FormatResults(result); ferr != nil {
			a.config.Log.Warn("Failed to print results", "error", ferr)
		}
		a.reporter.ReportResults(result)
	}
	if err != nil {
		return NewRuntimeError(err)
	}

	a.config.Log.Info("Suite run completed", "run_id", result.RunID, "status", result.Status)
	if result.Status == types.StatusFail {
		if a.config.RunOnce {
			a.config.Log.Warn("Run-once suite completed with failures, returning exit code 1")
			return NewTestFailureError(result.RunID, failedModules(result))
		}
		a.config.Log.Warn("Suite run failed", "run_id", result.RunID, "failed", failedModules(result))
	}
	return nil
}

// Result returns the result of the most recent run, if any
func (a *Acceptor) Result() *types.RunResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Stop cancels a running suite, waits for the scheduler and shuts the
// HTTP endpoints down.
// Stop implements the cliapp.Lifecycle interface.
func (a *Acceptor) Stop(ctx context.Context) error {
	a.config.Log.Info("Stopping qunit-acceptor")

	var errs []error
	errs = append(errs, a.scheduler.Stop())
	errs = append(errs, a.scheduler.WaitForShutdown(ctx))
	if a.progress != nil {
		a.progress.Stop()
	}
	errs = append(errs, a.service.Stop(ctx))

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.config.Log.Info("qunit-acceptor stopped successfully")
	return nil
}

// Stopped returns true once the acceptor no longer schedules runs.
// Stopped implements the cliapp.Lifecycle interface.
func (a *Acceptor) Stopped() bool {
	return a.scheduler.Stopped()
}
