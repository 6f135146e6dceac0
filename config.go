package acceptor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"

	"github.com/alohaeditor/qunit-acceptor/flags"
	"github.com/alohaeditor/qunit-acceptor/suite"
)

// Config holds the application configuration
type Config struct {
	PresetID    string   // empty selects the presets file default
	PresetsFile string   // empty uses the built-in presets
	Include     []string // modules added on top of the preset
	Exclude     []string // modules removed from the preset
	Overrides   suite.Overrides

	PagePattern   string
	ModuleTimeout time.Duration
	PollInterval  time.Duration
	Headless      bool
	BrowserArgs   []string
	LocalDriver   bool // drive a local chromedriver instead of the hub

	RunInterval  time.Duration // Interval between suite runs
	RunOnce      bool          // Exit after one run
	LogDir       string        // Directory to store run logs, empty disables them
	ShowProgress bool

	HealthzAddr        string
	MetricsConfig      opmetrics.CLIConfig
	AssetsAddr         string
	AssetsAdvertiseURL string

	Log log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckValues(ctx); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	metricsCfg := opmetrics.ReadCLIConfig(ctx)
	if err := metricsCfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid metrics config: %w", err)
	}

	presetsFile := ctx.String(flags.PresetsFile.Name)
	if presetsFile != "" {
		abs, err := filepath.Abs(presetsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for presets file '%s': %w", presetsFile, err)
		}
		presetsFile = abs
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir != "" {
		abs, err := filepath.Abs(logDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
		}
		logDir = abs
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)

	return &Config{
		PresetID:           ctx.String(flags.Preset.Name),
		PresetsFile:        presetsFile,
		Include:            ctx.StringSlice(flags.Include.Name),
		Exclude:            ctx.StringSlice(flags.Exclude.Name),
		Overrides:          flags.Overrides(ctx),
		PagePattern:        ctx.String(flags.PagePattern.Name),
		ModuleTimeout:      ctx.Duration(flags.ModuleTimeout.Name),
		PollInterval:       ctx.Duration(flags.PollInterval.Name),
		Headless:           ctx.Bool(flags.Headless.Name),
		BrowserArgs:        ctx.StringSlice(flags.BrowserArgs.Name),
		LocalDriver:        ctx.Bool(flags.LocalDriver.Name),
		RunInterval:        runInterval,
		RunOnce:            runInterval == 0,
		LogDir:             logDir,
		ShowProgress:       ctx.Bool(flags.ShowProgress.Name),
		HealthzAddr:        ctx.String(flags.HealthzAddr.Name),
		MetricsConfig:      metricsCfg,
		AssetsAddr:         ctx.String(flags.AssetsAddr.Name),
		AssetsAdvertiseURL: ctx.String(flags.AssetsAdvertiseURL.Name),
		Log:                log,
	}, nil
}
