package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	acceptor "github.com/alohaeditor/qunit-acceptor"
	"github.com/alohaeditor/qunit-acceptor/flags"
	"github.com/alohaeditor/qunit-acceptor/registry"
	"github.com/alohaeditor/qunit-acceptor/reporting"
	"github.com/alohaeditor/qunit-acceptor/suite"
)

// PlanCommand prints the configuration record and module list of a preset
// without opening a browser.
func PlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show the resolved settings and modules of a preset without running it",
		Description: `Resolves the preset selected with --preset (or the default preset),
applies --include/--exclude and the setting overrides from flags and env
vars, and prints the result.

Examples:
  qunit-acceptor --preset aloha-table plan
  qunit-acceptor --hub-location http://grid:4444/wd/hub --exclude undo plan`,
		Action: func(ctx *cli.Context) error {
			reg, err := loadRegistry(ctx)
			if err != nil {
				return acceptor.NewRuntimeError(err)
			}
			preset, err := reg.Get(ctx.String(flags.Preset.Name))
			if err != nil {
				return acceptor.NewRuntimeError(err)
			}
			preset = preset.With(ctx.StringSlice(flags.Include.Name), ctx.StringSlice(flags.Exclude.Name))
			settings := suite.Resolve(preset.Defaults, flags.Overrides(ctx))

			_, err = fmt.Fprintln(ctx.App.Writer, reporting.FormatPlan(preset, settings))
			return err
		},
	}
}

// PresetsCommand lists the presets of the presets file.
func PresetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "List the available presets",
		Action: func(ctx *cli.Context) error {
			reg, err := loadRegistry(ctx)
			if err != nil {
				return acceptor.NewRuntimeError(err)
			}
			_, err = fmt.Fprintln(ctx.App.Writer, reporting.FormatPresets(reg.Presets(), reg.DefaultID()))
			return err
		},
	}
}

func loadRegistry(ctx *cli.Context) (*registry.Registry, error) {
	presetsFile := ctx.String(flags.PresetsFile.Name)
	if presetsFile != "" {
		abs, err := filepath.Abs(presetsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for presets file '%s': %w", presetsFile, err)
		}
		presetsFile = abs
	}
	return registry.NewRegistry(registry.Config{
		Log:         newLogger(ctx),
		PresetsFile: presetsFile,
	})
}
