package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alohaeditor/qunit-acceptor/suite"
)

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalSettings = `
    settings:
      hub_location: "http://hub:4444/wd/hub"
      browser: "chrome"
      platform: "LINUX"
      basePath: "/tests"
      webdriver.chrome.driver: "/bin/chromedriver"
`

func TestBuiltinPresets(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)
	require.Equal(t, "aloha", r.DefaultID())

	t.Run("aloha is the default", func(t *testing.T) {
		p, err := r.Get("")
		require.NoError(t, err)
		assert.Equal(t, "aloha", p.Name)

		assert.Equal(t, suite.Settings{
			suite.KeyHubLocation:  "http://localhost:4444/wd/hub",
			suite.KeyBrowser:      "chrome",
			suite.KeyPlatform:     "LINUX",
			suite.KeyBasePath:     "/src/test/unit",
			suite.KeyChromeDriver: "/opt/selenium/chromedriver",
		}, p.Defaults)

		included := p.Included()
		assert.Len(t, included, 31)
		assert.Len(t, p.Modules, 34)
		assert.ElementsMatch(t, []string{"core", "editable", "table"}, p.Excluded)
		assert.Equal(t, "bold", included[0])
		assert.Equal(t, "selection2", included[len(included)-1])
	})

	t.Run("aloha-table adds table", func(t *testing.T) {
		p, err := r.Get("aloha-table")
		require.NoError(t, err)
		included := p.Included()
		assert.Len(t, included, 32)
		assert.Equal(t, "table", included[len(included)-1])
		assert.Equal(t, "chrome", p.Defaults[suite.KeyBrowser])
	})

	t.Run("aloha-legacy", func(t *testing.T) {
		p, err := r.Get("aloha-legacy")
		require.NoError(t, err)
		assert.Len(t, p.Included(), 30)
		assert.NotContains(t, p.Included(), "selection2")
		assert.Equal(t, "firefox", p.Defaults[suite.KeyBrowser])
		assert.Equal(t, "WINDOWS", p.Defaults[suite.KeyPlatform])
		assert.Equal(t, "http://localhost:4444/wd/hub", p.Defaults[suite.KeyHubLocation])
	})

	t.Run("presets sorted", func(t *testing.T) {
		var names []string
		for _, p := range r.Presets() {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"aloha", "aloha-legacy", "aloha-table"}, names)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := r.Get("nope")
		require.Error(t, err)
	})
}

func TestNewRegistry_FromFile(t *testing.T) {
	path := writePresets(t, `
presets:
  - id: only`+minimalSettings+`
    modules: [bold, italic]
`)

	r, err := NewRegistry(Config{PresetsFile: path})
	require.NoError(t, err)
	assert.Equal(t, path, r.GetConfig().PresetsFile)
	assert.Equal(t, "only", r.DefaultID(), "a single preset becomes the default")

	p, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, []string{"bold", "italic"}, p.Included())
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		wantError string
	}{
		{
			name:      "empty",
			config:    `presets: []`,
			wantError: "no presets defined",
		},
		{
			name: "invalid yaml",
			config: `
presets:
  - id: [unclosed
`,
			wantError: "parsing presets file",
		},
		{
			name: "duplicate ids",
			config: `
presets:
  - id: a` + minimalSettings + `
  - id: a` + minimalSettings,
			wantError: "defined more than once",
		},
		{
			name: "circular inheritance",
			config: `
presets:
  - id: a
    inherits: [b]
  - id: b
    inherits: [a]
`,
			wantError: "circular inheritance",
		},
		{
			name: "missing parent",
			config: `
presets:
  - id: a
    inherits: [ghost]
`,
			wantError: "non-existent preset",
		},
		{
			name: "unknown setting",
			config: `
presets:
  - id: a
    settings:
      webdriver.gecko.driver: "/bin/geckodriver"
`,
			wantError: "unknown setting",
		},
		{
			name: "incomplete settings",
			config: `
presets:
  - id: a
    settings:
      browser: chrome
    modules: [bold]
`,
			wantError: "has no default",
		},
		{
			name: "duplicate module",
			config: `
presets:
  - id: a` + minimalSettings + `
    modules: [bold, bold]
`,
			wantError: "listed more than once",
		},
		{
			name: "undefined default",
			config: `
default: b
presets:
  - id: a` + minimalSettings,
			wantError: `default preset "b" is not defined`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(Config{PresetsFile: writePresets(t, tt.config)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(Config{PresetsFile: "nonexistent.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading presets file")
}

func TestNoDefaultWithSeveralPresets(t *testing.T) {
	path := writePresets(t, `
presets:
  - id: a`+minimalSettings+`
  - id: b
    inherits: [a]
`)
	r, err := NewRegistry(Config{PresetsFile: path})
	require.NoError(t, err)
	assert.Equal(t, "", r.DefaultID())

	_, err = r.Get("")
	require.Error(t, err)

	b, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "/tests", b.Defaults[suite.KeyBasePath])
}

func TestBuiltinPresetsBytesAreCopied(t *testing.T) {
	data := BuiltinPresets()
	require.NotEmpty(t, data)
	data[0] = 'X'
	assert.NotEqual(t, byte('X'), BuiltinPresets()[0])
}

// moduleSuite records the modules registered by the builder
type moduleSuite struct {
	modules []string
}

func (s *moduleSuite) AddModule(name string) {
	s.modules = append(s.modules, name)
}

func TestBuiltinDefaultPreset_Build(t *testing.T) {
	r, err := NewRegistry(Config{Log: log.New()})
	require.NoError(t, err)
	p, err := r.Get("")
	require.NoError(t, err)

	var record suite.Settings
	harness := suite.HarnessFunc[*moduleSuite](func(_ context.Context, settings suite.Settings) (*moduleSuite, error) {
		record = settings
		return &moduleSuite{}, nil
	})
	b, err := suite.NewBuilder[*moduleSuite](suite.Config{Log: log.New(), Overrides: suite.MapOverrides{}}, harness)
	require.NoError(t, err)

	s, err := b.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, suite.Settings{
		suite.KeyHubLocation:  "http://localhost:4444/wd/hub",
		suite.KeyBrowser:      "chrome",
		suite.KeyPlatform:     "LINUX",
		suite.KeyBasePath:     "/src/test/unit",
		suite.KeyChromeDriver: "/opt/selenium/chromedriver",
	}, record)

	assert.Equal(t, []string{
		"bold", "italic", "underline", "strikethrough", "subscript", "superscript",
		"removeformat", "createlink", "unlink", "formatblock",
		"fontname", "fontsize", "forecolor", "hilitecolor",
		"justifyleft", "justifycenter", "justifyright", "justifyfull",
		"indent", "outdent", "insertorderedlist", "insertunorderedlist",
		"insertparagraph", "insertlinebreak", "inserthtml", "inserthorizontalrule", "inserttext",
		"delete", "forwarddelete",
		"selection1", "selection2",
	}, s.modules)
}
