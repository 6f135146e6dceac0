package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"

	"github.com/alohaeditor/qunit-acceptor/qunit"
	"github.com/alohaeditor/qunit-acceptor/suite"
)

const EnvVarPrefix = "ALOHA_QUNIT"

// settingEnvVar names the env var of a configuration record key, e.g.
// basePath -> ALOHA_QUNIT_BASEPATH
func settingEnvVar(key suite.Key) []string {
	return []string{suite.EnvVarName(EnvVarPrefix, key)}
}

var (
	// Configuration record overrides. Unset flags fall back to the preset defaults.
	HubLocation = &cli.StringFlag{
		Name:    "hub-location",
		EnvVars: settingEnvVar(suite.KeyHubLocation),
		Usage:   "WebDriver hub URL (overrides the preset's hub_location)",
	}
	Browser = &cli.StringFlag{
		Name:    "browser",
		EnvVars: settingEnvVar(suite.KeyBrowser),
		Usage:   "Browser name requested from the hub (overrides the preset's browser)",
	}
	Platform = &cli.StringFlag{
		Name:    "platform",
		EnvVars: settingEnvVar(suite.KeyPlatform),
		Usage:   "Platform requested from the hub (overrides the preset's platform)",
	}
	BasePath = &cli.StringFlag{
		Name:    "base-path",
		EnvVars: settingEnvVar(suite.KeyBasePath),
		Usage:   "Directory or URL holding the unit test pages (overrides the preset's basePath)",
	}
	ChromeDriver = &cli.StringFlag{
		Name:    "chrome-driver",
		EnvVars: settingEnvVar(suite.KeyChromeDriver),
		Usage:   "Path to the chromedriver binary (overrides the preset's webdriver.chrome.driver)",
	}

	Preset = &cli.StringFlag{
		Name:    "preset",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PRESET"),
		Usage:   "Preset to run (eg. 'aloha', 'aloha-table'). Defaults to the presets file default.",
	}
	PresetsFile = &cli.StringFlag{
		Name:    "presets",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PRESETS"),
		Usage:   "Path to a presets file (eg. 'presets.yaml'). Uses the built-in presets when empty.",
	}
	Include = &cli.StringSliceFlag{
		Name:    "include",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "INCLUDE"),
		Usage:   "Module to run even if the preset excludes it. Repeatable.",
	}
	Exclude = &cli.StringSliceFlag{
		Name:    "exclude",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "EXCLUDE"),
		Usage:   "Module to leave out of the run. Repeatable.",
	}

	PagePattern = &cli.StringFlag{
		Name:    "page-pattern",
		Value:   "%s.html",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PAGE_PATTERN"),
		Usage:   "Page path of a module relative to the base path; %s is replaced by the module name",
	}
	ModuleTimeout = &cli.DurationFlag{
		Name:    "module-timeout",
		Value:   2 * time.Minute,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MODULE_TIMEOUT"),
		Usage:   "How long to wait for a module page to report its results",
	}
	PollInterval = &cli.DurationFlag{
		Name:    "poll-interval",
		Value:   500 * time.Millisecond,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "POLL_INTERVAL"),
		Usage:   "Interval between polls of the QUnit result banner",
	}
	Headless = &cli.BoolFlag{
		Name:    "headless",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "HEADLESS"),
		Usage:   "Run chrome headless",
	}
	BrowserArgs = &cli.StringSliceFlag{
		Name:    "browser-arg",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "BROWSER_ARG"),
		Usage:   "Extra command line argument for the browser. Repeatable.",
	}
	LocalDriver = &cli.BoolFlag{
		Name:    "local-driver",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOCAL_DRIVER"),
		Usage:   "Start chromedriver from webdriver.chrome.driver instead of using the hub",
	}

	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between suite runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store run logs. Set to empty to disable file output.",
	}
	ShowProgress = &cli.BoolFlag{
		Name:    "show-progress",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SHOW_PROGRESS"),
		Usage:   "Log a progress line every 30s while a suite runs",
	}

	HealthzAddr = &cli.StringFlag{
		Name:    "healthz.addr",
		Value:   "0.0.0.0:8080",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "HEALTHZ_ADDR"),
		Usage:   "Address of the /healthz endpoint. Set to empty to disable.",
	}
	AssetsAddr = &cli.StringFlag{
		Name:    "assets.addr",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ASSETS_ADDR"),
		Usage:   "Serve the base path directory over HTTP on this address and load module pages from it",
	}
	AssetsAdvertiseURL = &cli.StringFlag{
		Name:    "assets.advertise-url",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ASSETS_ADVERTISE_URL"),
		Usage:   "Base URL the browser uses to reach the assets server (eg. when the hub runs elsewhere)",
	}
)

// SettingFlags maps every configuration record key to its override flag
var SettingFlags = map[suite.Key]*cli.StringFlag{
	suite.KeyHubLocation:  HubLocation,
	suite.KeyBrowser:      Browser,
	suite.KeyPlatform:     Platform,
	suite.KeyBasePath:     BasePath,
	suite.KeyChromeDriver: ChromeDriver,
}

var settingFlags = []cli.Flag{
	HubLocation,
	Browser,
	Platform,
	BasePath,
	ChromeDriver,
}

var optionalFlags = []cli.Flag{
	Preset,
	PresetsFile,
	Include,
	Exclude,
	PagePattern,
	ModuleTimeout,
	PollInterval,
	Headless,
	BrowserArgs,
	LocalDriver,
	RunInterval,
	LogDir,
	ShowProgress,
	HealthzAddr,
	AssetsAddr,
	AssetsAdvertiseURL,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(append([]cli.Flag{}, settingFlags...), optionalFlags...)
}

// Overrides returns the configuration record values set on the command line
// or through their env vars. Flags left unset are absent so the preset
// default applies.
func Overrides(ctx *cli.Context) suite.MapOverrides {
	overrides := suite.MapOverrides{}
	for key, flag := range SettingFlags {
		if ctx.IsSet(flag.Name) {
			overrides[key] = ctx.String(flag.Name)
		}
	}
	return overrides
}

// CheckValues validates flag combinations that urfave/cli cannot express
func CheckValues(ctx *cli.Context) error {
	if err := qunit.CheckPagePattern(ctx.String(PagePattern.Name)); err != nil {
		return fmt.Errorf("flag %s: %w", PagePattern.Name, err)
	}
	if ctx.Duration(ModuleTimeout.Name) <= 0 {
		return fmt.Errorf("flag %s must be positive", ModuleTimeout.Name)
	}
	if ctx.Duration(PollInterval.Name) <= 0 {
		return fmt.Errorf("flag %s must be positive", PollInterval.Name)
	}
	if ctx.Duration(RunInterval.Name) < 0 {
		return fmt.Errorf("flag %s must not be negative", RunInterval.Name)
	}
	if ctx.String(AssetsAdvertiseURL.Name) != "" && ctx.String(AssetsAddr.Name) == "" {
		return fmt.Errorf("flag %s requires %s", AssetsAdvertiseURL.Name, AssetsAddr.Name)
	}
	return nil
}
