package acceptor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/alohaeditor/qunit-acceptor/flags"
	"github.com/alohaeditor/qunit-acceptor/suite"
)

func newConfigFromArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var (
		cfg    *Config
		cfgErr error
	)
	app := &cli.App{
		Flags: flags.Flags,
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = NewConfig(ctx, log.New())
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"qunit-acceptor"}, args...)))
	return cfg, cfgErr
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := newConfigFromArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.PresetID)
	assert.Equal(t, "", cfg.PresetsFile)
	assert.True(t, cfg.RunOnce)
	assert.True(t, filepath.IsAbs(cfg.LogDir))
	assert.Equal(t, "logs", filepath.Base(cfg.LogDir))
	assert.Equal(t, "%s.html", cfg.PagePattern)
	assert.Equal(t, 2*time.Minute, cfg.ModuleTimeout)
	assert.False(t, cfg.MetricsConfig.Enabled)
	assert.Equal(t, suite.MapOverrides{}, cfg.Overrides)
}

func TestNewConfig_Flags(t *testing.T) {
	cfg, err := newConfigFromArgs(t,
		"--preset", "aloha-table",
		"--presets", "presets.yaml",
		"--exclude", "undo",
		"--include", "table",
		"--hub-location", "http://grid:4444/wd/hub",
		"--run-interval", "1h",
		"--logdir", "",
		"--headless",
		"--metrics.enabled",
		"--metrics.addr", "127.0.0.1",
		"--metrics.port", "7300",
	)
	require.NoError(t, err)

	assert.Equal(t, "aloha-table", cfg.PresetID)
	assert.True(t, filepath.IsAbs(cfg.PresetsFile))
	assert.Equal(t, []string{"undo"}, cfg.Exclude)
	assert.Equal(t, []string{"table"}, cfg.Include)
	assert.Equal(t, suite.MapOverrides{suite.KeyHubLocation: "http://grid:4444/wd/hub"}, cfg.Overrides)
	assert.False(t, cfg.RunOnce)
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.Equal(t, "", cfg.LogDir, "empty logdir disables run logs")
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.MetricsConfig.Enabled)
	assert.Equal(t, "127.0.0.1", cfg.MetricsConfig.ListenAddr)
	assert.Equal(t, 7300, cfg.MetricsConfig.ListenPort)
}

func TestNewConfig_InvalidValues(t *testing.T) {
	_, err := newConfigFromArgs(t, "--module-timeout", "0s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module-timeout")
}
