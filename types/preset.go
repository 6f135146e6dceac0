package types

import "fmt"

// PresetsFile represents the complete preset configuration
type PresetsFile struct {
	Default string         `yaml:"default"`
	Presets []PresetConfig `yaml:"presets"`
}

// PresetConfig is one named suite configuration as written in a presets file
type PresetConfig struct {
	ID          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Inherits    []string          `yaml:"inherits,omitempty"`
	Settings    map[string]string `yaml:"settings,omitempty"`
	Modules     []string          `yaml:"modules,omitempty"`
	Exclude     []string          `yaml:"exclude,omitempty"`
	Include     []string          `yaml:"include,omitempty"`
}

// ResolveInherited merges configuration from the presets named in Inherits
// into p, recursively.
//
// The rules are:
// - Settings: the child's values win, missing keys come from parents
// - Modules: the child's modules come first, then parent modules not yet listed
// - Exclude: the union of the child's and the parents' exclusions, minus Include
// - Include: names not listed anywhere are appended to Modules
// - Inheritance is depth-first: more distant ancestors are processed first
func (p *PresetConfig) ResolveInherited(presets map[string]PresetConfig) error {
	processed := make(map[string]bool)
	return p.resolveInheritedRecursive(presets, processed)
}

func (p *PresetConfig) resolveInheritedRecursive(presets map[string]PresetConfig, processed map[string]bool) error {
	mergedSettings := make(map[string]string, len(p.Settings))
	for k, v := range p.Settings {
		mergedSettings[k] = v
	}

	var mergedModules []string
	seenModules := make(map[string]bool)
	for _, m := range p.Modules {
		if !seenModules[m] {
			mergedModules = append(mergedModules, m)
			seenModules[m] = true
		}
	}

	var mergedExclude []string
	seenExclude := make(map[string]bool)
	addExclude := func(names []string) {
		for _, name := range names {
			if !seenExclude[name] {
				mergedExclude = append(mergedExclude, name)
				seenExclude[name] = true
			}
		}
	}
	addExclude(p.Exclude)

	for _, inheritFrom := range p.Inherits {
		if processed[inheritFrom] {
			return fmt.Errorf("circular inheritance detected for preset %q", inheritFrom)
		}

		parent, ok := presets[inheritFrom]
		if !ok {
			return fmt.Errorf("preset %q inherits from non-existent preset %q", p.ID, inheritFrom)
		}

		processed[inheritFrom] = true

		if err := parent.resolveInheritedRecursive(presets, processed); err != nil {
			return fmt.Errorf("resolving inheritance for parent preset %q: %w", inheritFrom, err)
		}

		for k, v := range parent.Settings {
			if _, exists := mergedSettings[k]; !exists {
				mergedSettings[k] = v
			}
		}
		for _, m := range parent.Modules {
			if !seenModules[m] {
				mergedModules = append(mergedModules, m)
				seenModules[m] = true
			}
		}
		addExclude(parent.Exclude)

		processed[inheritFrom] = false
	}

	// Lift included names out of the exclusion set
	lifted := make(map[string]bool, len(p.Include))
	for _, name := range p.Include {
		lifted[name] = true
		if !seenModules[name] {
			mergedModules = append(mergedModules, name)
			seenModules[name] = true
		}
	}
	exclude := mergedExclude[:0]
	for _, name := range mergedExclude {
		if !lifted[name] {
			exclude = append(exclude, name)
		}
	}

	p.Settings = mergedSettings
	p.Modules = mergedModules
	p.Exclude = exclude
	return nil
}
