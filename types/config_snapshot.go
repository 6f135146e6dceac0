package types

import "time"

// EffectiveConfigSnapshot is the configuration a run actually used, written
// next to its results.
type EffectiveConfigSnapshot struct {
	Preset    PresetConfigSnapshot    `json:"preset"`
	Browser   BrowserConfigSnapshot   `json:"browser"`
	Execution ExecutionConfigSnapshot `json:"execution"`
	Paths     PathsConfigSnapshot     `json:"paths"`

	Version string `json:"version,omitempty"`
	RunID   string `json:"runId,omitempty"`
}

type PresetConfigSnapshot struct {
	Name     string            `json:"name"`
	Modules  []string          `json:"modules"`
	Excluded []string          `json:"excluded,omitempty"`
	Settings map[string]string `json:"settings"`
}

type BrowserConfigSnapshot struct {
	LocalDriver   bool          `json:"localDriver"`
	Headless      bool          `json:"headless"`
	BrowserArgs   []string      `json:"browserArgs,omitempty"`
	PageBase      string        `json:"pageBase,omitempty"`
	PagePattern   string        `json:"pagePattern"`
	ModuleTimeout time.Duration `json:"moduleTimeout"`
	PollInterval  time.Duration `json:"pollInterval"`
}

type ExecutionConfigSnapshot struct {
	RunInterval  time.Duration `json:"runInterval"`
	RunOnce      bool          `json:"runOnce"`
	ShowProgress bool          `json:"showProgress"`
}

type PathsConfigSnapshot struct {
	PresetsFile string `json:"presetsFile,omitempty"`
	LogDir      string `json:"logDir"`
}
