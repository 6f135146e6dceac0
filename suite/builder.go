// Package suite builds runnable test suites from presets.
//
// A Builder assembles the configuration record for a preset (overrides win
// over the preset's defaults), asks a Harness for a new suite handle and
// registers the preset's modules on it in order. Running the handle is the
// harness's business.
package suite

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/log"
)

// Handle is a suite owned by a harness that modules can be registered on.
type Handle interface {
	AddModule(name string)
}

// Harness creates suite handles from a configuration record.
type Harness[H Handle] interface {
	NewSuite(ctx context.Context, settings Settings) (H, error)
}

// HarnessFunc adapts a function to the Harness interface.
type HarnessFunc[H Handle] func(ctx context.Context, settings Settings) (H, error)

// NewSuite implements Harness.
func (f HarnessFunc[H]) NewSuite(ctx context.Context, settings Settings) (H, error) {
	return f(ctx, settings)
}

// Config contains builder configuration
type Config struct {
	Log       log.Logger
	Overrides Overrides
}

// Builder builds suites for presets against a single harness.
type Builder[H Handle] struct {
	harness   Harness[H]
	overrides Overrides
	log       log.Logger
}

// NewBuilder creates a new builder instance
func NewBuilder[H Handle](cfg Config, harness Harness[H]) (*Builder[H], error) {
	if harness == nil {
		return nil, errors.New("harness is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	return &Builder[H]{
		harness:   harness,
		overrides: cfg.Overrides,
		log:       cfg.Log,
	}, nil
}

// Settings returns the configuration record Build would pass to the harness.
func (b *Builder[H]) Settings(p Preset) Settings {
	return Resolve(p.Defaults, b.overrides)
}

// Build creates a suite handle for the preset and registers every included
// module on it in listed order. Errors from the harness constructor are
// returned as is.
func (b *Builder[H]) Build(ctx context.Context, p Preset) (H, error) {
	settings := b.Settings(p)
	b.log.Debug("Building suite", "preset", p.Name,
		"hub", settings[KeyHubLocation], "browser", settings[KeyBrowser], "platform", settings[KeyPlatform])

	handle, err := b.harness.NewSuite(ctx, settings)
	if err != nil {
		return handle, err
	}

	modules := p.Included()
	for _, name := range modules {
		handle.AddModule(name)
	}
	b.log.Info("Suite built", "preset", p.Name, "modules", len(modules), "excluded", len(p.Modules)-len(modules))
	return handle, nil
}
