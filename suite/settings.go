package suite

import (
	"os"
	"strings"
)

// Key names an option of the configuration record handed to the harness.
type Key string

// String implements the Stringer interface for Key
func (k Key) String() string {
	return string(k)
}

// Configuration record keys
const (
	KeyHubLocation  Key = "hub_location"
	KeyBrowser      Key = "browser"
	KeyPlatform     Key = "platform"
	KeyBasePath     Key = "basePath"
	KeyChromeDriver Key = "webdriver.chrome.driver"
)

// Keys lists every key of the configuration record in a stable order.
var Keys = []Key{
	KeyHubLocation,
	KeyBrowser,
	KeyPlatform,
	KeyBasePath,
	KeyChromeDriver,
}

// IsKnownKey reports whether k is one of the configuration record keys.
func IsKnownKey(k Key) bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}
	return false
}

// Settings is the configuration record: option name to string value.
type Settings map[Key]string

// Get returns the value stored for key, or the empty string.
func (s Settings) Get(key Key) string {
	return s[key]
}

// Clone returns a copy of the settings that shares no state with s.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Missing returns the record keys that have no entry in s, in Keys order.
func (s Settings) Missing() []Key {
	var missing []Key
	for _, k := range Keys {
		if _, ok := s[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// StringMap converts the record into a plain map, e.g. for logging or JSON output.
func (s Settings) StringMap() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[string(k)] = v
	}
	return out
}

// Overrides supplies externally provided values for record keys.
type Overrides interface {
	Lookup(key Key) (string, bool)
}

// MapOverrides is an Overrides backed by a map. A present key overrides the
// default even when its value is empty.
type MapOverrides map[Key]string

// Lookup implements Overrides.
func (m MapOverrides) Lookup(key Key) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvOverrides reads overrides from environment variables named
// <Prefix>_<KEY>, where KEY is the upper-cased key with every
// non-alphanumeric character replaced by '_' (basePath -> BASEPATH,
// webdriver.chrome.driver -> WEBDRIVER_CHROME_DRIVER).
type EnvOverrides struct {
	Prefix string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Lookup implements Overrides.
func (e EnvOverrides) Lookup(key Key) (string, bool) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(EnvVarName(e.Prefix, key))
}

// EnvVarName returns the environment variable consulted for key.
func EnvVarName(prefix string, key Key) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, string(key))
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// OverrideChain consults each source in order and returns the first hit.
type OverrideChain []Overrides

// Lookup implements Overrides.
func (c OverrideChain) Lookup(key Key) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Resolve assembles the configuration record: for every key in Keys the
// override is used verbatim when present, otherwise the default literal.
// Keys in defaults that are not record keys are carried over unchanged.
func Resolve(defaults Settings, overrides Overrides) Settings {
	out := defaults.Clone()
	for _, k := range Keys {
		if overrides != nil {
			if v, ok := overrides.Lookup(k); ok {
				out[k] = v
				continue
			}
		}
		out[k] = defaults[k]
	}
	return out
}
