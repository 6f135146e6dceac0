package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alohaeditor/qunit-acceptor/logging"
	"github.com/alohaeditor/qunit-acceptor/metrics"
	"github.com/alohaeditor/qunit-acceptor/qunit"
	"github.com/alohaeditor/qunit-acceptor/suite"
	"github.com/alohaeditor/qunit-acceptor/types"
)

// ErrNoModules is returned when a preset leaves nothing to run
var ErrNoModules = errors.New("no modules to run")

// TestRunner defines the interface for running a QUnit suite
type TestRunner interface {
	RunAll(ctx context.Context) (*types.RunResult, error)
}

// Config holds configuration for creating a new runner
type Config struct {
	Builder  *suite.Builder[*qunit.Suite]
	Preset   suite.Preset
	Log      log.Logger
	LogDir   string // parent of the testrun-<id> directories; empty disables file output
	Progress ProgressIndicator
	Snapshot *types.EffectiveConfigSnapshot // written to the run directory when set
}

// runner struct implements TestRunner interface
type runner struct {
	builder  *suite.Builder[*qunit.Suite]
	preset   suite.Preset
	log      log.Logger
	logDir   string
	progress ProgressIndicator
	snapshot *types.EffectiveConfigSnapshot
	tracer   trace.Tracer
}

// NewTestRunner creates a new test runner instance
func NewTestRunner(cfg Config) (TestRunner, error) {
	if cfg.Builder == nil {
		return nil, fmt.Errorf("suite builder is required")
	}
	if err := cfg.Preset.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}
	if len(cfg.Preset.Included()) == 0 {
		return nil, fmt.Errorf("preset %s: %w", cfg.Preset.Name, ErrNoModules)
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Progress == nil {
		cfg.Progress = NewNoOpProgressIndicator()
	}

	cfg.Log.Debug("NewTestRunner()", "preset", cfg.Preset.Name,
		"modules", len(cfg.Preset.Included()), "logDir", cfg.LogDir)

	return &runner{
		builder:  cfg.Builder,
		preset:   cfg.Preset,
		log:      cfg.Log,
		logDir:   cfg.LogDir,
		progress: cfg.Progress,
		snapshot: cfg.Snapshot,
		tracer:   otel.Tracer(tracerName),
	}, nil
}

// RunAll builds the suite for the preset and runs every registered module.
// A failure to build the suite (for example an unreachable hub) is returned
// as an error with no result. When ctx is cancelled mid-run the partial
// result is returned together with the context error.
func (r *runner) RunAll(ctx context.Context) (*types.RunResult, error) {
	runID := uuid.New().String()
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("run %s", r.preset.Name))
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.preset", r.preset.Name),
	)

	start := time.Now()
	r.log.Info("Building suite", "run_id", runID, "preset", r.preset.Name)
	s, err := r.builder.Build(ctx, r.preset)
	if err != nil {
		metrics.RecordErrorDetails("build", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "suite build failed")
		return nil, fmt.Errorf("failed to build suite for preset %s: %w", r.preset.Name, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			r.log.Warn("Failed to close browser session", "run_id", runID, "err", err)
		}
	}()

	// The run directory only exists for runs that got a browser session
	var fileLogger *logging.FileLogger
	if r.logDir != "" {
		fileLogger, err = logging.NewFileLogger(r.logDir, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
		if err := fileLogger.WriteConfigSnapshot(r.snapshot); err != nil {
			r.log.Warn("Failed to write config snapshot", "run_id", runID, "err", err)
		}
	}

	result := &types.RunResult{
		RunID:    runID,
		Preset:   r.preset.Name,
		Settings: s.Settings().StringMap(),
		Stats:    types.ResultStats{StartTime: start},
	}

	modules := s.Modules()
	r.progress.StartSuite(r.preset.Name, len(modules))

	var runErr error
	for _, module := range modules {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		res := r.runModule(ctx, s, module)
		result.Modules = append(result.Modules, res)
		result.Stats.Add(res.Status)

		if fileLogger != nil {
			if err := fileLogger.LogModuleResult(res); err != nil {
				r.log.Error("Failed to log module result", "module", module, "err", err)
			}
		}
	}
	r.progress.CompleteSuite(r.preset.Name)

	result.Duration = time.Since(start)
	result.Stats.EndTime = time.Now()
	result.Status = types.DetermineStatus(result.Modules)

	span.SetAttributes(attribute.String("run.status", string(result.Status)))
	if result.Status == types.StatusFail {
		span.SetStatus(codes.Error, "modules failed")
	}

	if fileLogger != nil {
		if err := fileLogger.Complete(result); err != nil {
			r.log.Error("Failed to write run results", "run_id", runID, "err", err)
		} else {
			r.log.Info("Results written", "dir", fileLogger.GetBaseDir())
		}
	}

	if runErr != nil {
		return result, fmt.Errorf("run %s interrupted: %w", runID, runErr)
	}
	return result, nil
}

// runModule runs one module inside its own span. A panic while running the
// module is turned into an errored result.
func (r *runner) runModule(ctx context.Context, s *qunit.Suite, module string) (result *types.ModuleResult) {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("module %s", module))
	defer span.End()

	r.progress.StartModule(module)
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Panic while running module", "module", module, "panic", rec)
			result = &types.ModuleResult{
				Module: module,
				Status: types.StatusError,
				Error:  fmt.Errorf("runtime error: %v", rec),
			}
		}

		r.progress.UpdateModule(module, result.Status)
		metrics.RecordModule(r.preset.Name, module, result.Status, result.Duration)
		metrics.RecordAssertions(r.preset.Name, module, result.Passed, result.Failed)

		span.SetAttributes(
			attribute.String("module.status", string(result.Status)),
			attribute.Int("module.assertions.failed", result.Failed),
		)
		if result.Error != nil {
			span.RecordError(result.Error)
		}
		if result.Status == types.StatusFail || result.Status == types.StatusError {
			span.SetStatus(codes.Error, result.Summary())
		}
	}()

	return s.RunModule(ctx, module)
}
