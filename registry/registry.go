package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/alohaeditor/qunit-acceptor/suite"
	"github.com/alohaeditor/qunit-acceptor/types"
)

//go:embed presets.yaml
var builtinPresets []byte

// BuiltinPresets returns the embedded presets file content
func BuiltinPresets() []byte {
	return append([]byte(nil), builtinPresets...)
}

// Registry manages suite presets
type Registry struct {
	config    Config
	presets   map[string]suite.Preset
	defaultID string
	mu        sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log log.Logger
	// PresetsFile is a YAML presets file; the built-in presets are used when empty
	PresetsFile string
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{
		config: cfg,
	}

	var (
		presetsFile *types.PresetsFile
		err         error
	)
	if cfg.PresetsFile == "" {
		presetsFile, err = parseConfig(builtinPresets)
	} else {
		presetsFile, err = loadConfig(cfg.PresetsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	if err := r.loadPresets(presetsFile); err != nil {
		return nil, err
	}

	cfg.Log.Debug("Registry loaded", "len(presets)", len(r.presets), "default", r.defaultID, "file", cfg.PresetsFile)

	return r, nil
}

// loadPresets resolves inheritance and converts the file into suite presets
func (r *Registry) loadPresets(file *types.PresetsFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(file.Presets) == 0 {
		return fmt.Errorf("no presets defined")
	}

	if err := r.validatePresetInheritance(file); err != nil {
		return fmt.Errorf("failed to resolve preset inheritance: %w", err)
	}

	presets := make(map[string]suite.Preset, len(file.Presets))
	for _, cfg := range file.Presets {
		p, err := toPreset(cfg)
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid preset: %w", err)
		}
		presets[p.Name] = p
	}

	defaultID := file.Default
	if defaultID == "" && len(presets) == 1 {
		defaultID = file.Presets[0].ID
	}
	if defaultID != "" {
		if _, ok := presets[defaultID]; !ok {
			return fmt.Errorf("default preset %q is not defined", defaultID)
		}
	}

	r.presets = presets
	r.defaultID = defaultID
	return nil
}

// validatePresetInheritance checks IDs and resolves preset inheritance in place
func (r *Registry) validatePresetInheritance(file *types.PresetsFile) error {
	presetMap := make(map[string]types.PresetConfig, len(file.Presets))
	for _, p := range file.Presets {
		if p.ID == "" {
			return fmt.Errorf("preset without id")
		}
		if _, dup := presetMap[p.ID]; dup {
			return fmt.Errorf("preset %q is defined more than once", p.ID)
		}
		presetMap[p.ID] = p
	}

	// Check for circular inheritance before resolving
	for _, p := range file.Presets {
		if err := r.checkCircularInheritance(p.ID, p.Inherits, presetMap, make(map[string]bool)); err != nil {
			return fmt.Errorf("circular inheritance detected: %w", err)
		}
	}

	for i := range file.Presets {
		if err := file.Presets[i].ResolveInherited(presetMap); err != nil {
			return fmt.Errorf("invalid preset inheritance: %w", err)
		}
	}

	return nil
}

// checkCircularInheritance detects circular dependencies in preset inheritance
func (r *Registry) checkCircularInheritance(currentID string, inherits []string, presetMap map[string]types.PresetConfig, visited map[string]bool) error {
	if visited[currentID] {
		return fmt.Errorf("circular inheritance detected at preset %s", currentID)
	}

	visited[currentID] = true
	defer delete(visited, currentID)

	for _, inheritedID := range inherits {
		inherited, exists := presetMap[inheritedID]
		if !exists {
			return fmt.Errorf("preset %s inherits from non-existent preset %s", currentID, inheritedID)
		}

		if err := r.checkCircularInheritance(inheritedID, inherited.Inherits, presetMap, visited); err != nil {
			return err
		}
	}

	return nil
}

func toPreset(cfg types.PresetConfig) (suite.Preset, error) {
	defaults := make(suite.Settings, len(cfg.Settings))
	for k, v := range cfg.Settings {
		key := suite.Key(k)
		if !suite.IsKnownKey(key) {
			return suite.Preset{}, fmt.Errorf("preset %q: unknown setting %q", cfg.ID, k)
		}
		defaults[key] = v
	}
	return suite.Preset{
		Name:        cfg.ID,
		Description: cfg.Description,
		Defaults:    defaults,
		Modules:     cfg.Modules,
		Excluded:    cfg.Exclude,
	}, nil
}

// Get returns the preset with the given ID, or the default preset when id is empty
func (r *Registry) Get(id string) (suite.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == "" {
		id = r.defaultID
		if id == "" {
			return suite.Preset{}, fmt.Errorf("no preset selected and no default preset configured")
		}
	}
	p, ok := r.presets[id]
	if !ok {
		return suite.Preset{}, fmt.Errorf("preset %q not found", id)
	}
	return p, nil
}

// DefaultID returns the ID of the default preset, if any
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// Presets returns all presets sorted by ID
func (r *Registry) Presets() []suite.Preset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]suite.Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}

// loadConfig loads a presets file from disk
func loadConfig(path string) (*types.PresetsFile, error) {
	log.Debug("Reading presets file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*types.PresetsFile, error) {
	var cfg types.PresetsFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing presets file: %w", err)
	}
	return &cfg, nil
}
