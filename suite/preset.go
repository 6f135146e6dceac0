package suite

import (
	"errors"
	"fmt"
)

// Preset is a named configuration of the suite: default settings plus the
// ordered module list and the names deliberately left out of it.
type Preset struct {
	Name        string
	Description string
	Defaults    Settings
	Modules     []string
	Excluded    []string
}

// Included returns Modules without the excluded names, preserving order.
func (p Preset) Included() []string {
	excluded := make(map[string]bool, len(p.Excluded))
	for _, name := range p.Excluded {
		excluded[name] = true
	}

	included := make([]string, 0, len(p.Modules))
	for _, name := range p.Modules {
		if excluded[name] {
			continue
		}
		included = append(included, name)
	}
	return included
}

// IsExcluded reports whether name is in the exclusion set.
func (p Preset) IsExcluded(name string) bool {
	for _, ex := range p.Excluded {
		if ex == name {
			return true
		}
	}
	return false
}

// With returns a copy of the preset with extra exclusions applied and the
// given names lifted out of the exclusion set. Included names that are not
// listed yet are appended to the module list.
func (p Preset) With(include, exclude []string) Preset {
	out := Preset{
		Name:        p.Name,
		Description: p.Description,
		Defaults:    p.Defaults.Clone(),
		Modules:     append([]string(nil), p.Modules...),
	}

	lifted := make(map[string]bool, len(include))
	for _, name := range include {
		lifted[name] = true
	}

	seen := make(map[string]bool)
	for _, name := range append(append([]string(nil), p.Excluded...), exclude...) {
		if lifted[name] || seen[name] {
			continue
		}
		seen[name] = true
		out.Excluded = append(out.Excluded, name)
	}

	listed := make(map[string]bool, len(out.Modules))
	for _, name := range out.Modules {
		listed[name] = true
	}
	for _, name := range include {
		if !listed[name] {
			out.Modules = append(out.Modules, name)
			listed[name] = true
		}
	}
	return out
}

// Validate checks the preset is usable by the builder: it has a name, every
// record key has a default and module names are non-empty and unique.
func (p Preset) Validate() error {
	if p.Name == "" {
		return errors.New("preset name is required")
	}
	if missing := p.Defaults.Missing(); len(missing) > 0 {
		return fmt.Errorf("preset %q has no default for %v", p.Name, missing)
	}

	seen := make(map[string]bool, len(p.Modules))
	for i, name := range p.Modules {
		if name == "" {
			return fmt.Errorf("preset %q: module at index %d has an empty name", p.Name, i)
		}
		if seen[name] {
			return fmt.Errorf("preset %q: module %q is listed more than once", p.Name, name)
		}
		seen[name] = true
	}
	return nil
}
