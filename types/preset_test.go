package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInherited(t *testing.T) {
	tests := []struct {
		name        string
		presets     map[string]PresetConfig
		target      string
		wantErr     string
		wantModules []string
		wantExclude []string
		wantSetting map[string]string
	}{
		{
			name: "no inheritance",
			presets: map[string]PresetConfig{
				"a": {ID: "a", Modules: []string{"bold", "core"}, Exclude: []string{"core"}},
			},
			target:      "a",
			wantModules: []string{"bold", "core"},
			wantExclude: []string{"core"},
		},
		{
			name: "child inherits modules and settings",
			presets: map[string]PresetConfig{
				"parent": {
					ID:       "parent",
					Settings: map[string]string{"browser": "chrome", "platform": "LINUX"},
					Modules:  []string{"core", "bold", "table"},
					Exclude:  []string{"core", "table"},
				},
				"child": {
					ID:       "child",
					Inherits: []string{"parent"},
					Settings: map[string]string{"browser": "firefox"},
				},
			},
			target:      "child",
			wantModules: []string{"core", "bold", "table"},
			wantExclude: []string{"core", "table"},
			wantSetting: map[string]string{"browser": "firefox", "platform": "LINUX"},
		},
		{
			name: "include lifts parent exclusion",
			presets: map[string]PresetConfig{
				"parent": {ID: "parent", Modules: []string{"core", "bold", "table"}, Exclude: []string{"core", "table"}},
				"child":  {ID: "child", Inherits: []string{"parent"}, Include: []string{"table"}},
			},
			target:      "child",
			wantModules: []string{"core", "bold", "table"},
			wantExclude: []string{"core"},
		},
		{
			name: "include appends unknown module",
			presets: map[string]PresetConfig{
				"parent": {ID: "parent", Modules: []string{"bold"}},
				"child":  {ID: "child", Inherits: []string{"parent"}, Include: []string{"selection3"}},
			},
			target:      "child",
			wantModules: []string{"bold", "selection3"},
		},
		{
			name: "child modules come first",
			presets: map[string]PresetConfig{
				"parent": {ID: "parent", Modules: []string{"bold", "italic"}},
				"child":  {ID: "child", Inherits: []string{"parent"}, Modules: []string{"italic", "indent"}},
			},
			target:      "child",
			wantModules: []string{"italic", "indent", "bold"},
		},
		{
			name: "multi-level inheritance",
			presets: map[string]PresetConfig{
				"grand":  {ID: "grand", Modules: []string{"bold"}, Exclude: []string{"bold"}, Settings: map[string]string{"basePath": "/a"}},
				"parent": {ID: "parent", Inherits: []string{"grand"}, Modules: []string{"italic"}},
				"child":  {ID: "child", Inherits: []string{"parent"}, Exclude: []string{"italic"}},
			},
			target:      "child",
			wantModules: []string{"italic", "bold"},
			wantExclude: []string{"italic", "bold"},
			wantSetting: map[string]string{"basePath": "/a"},
		},
		{
			name: "missing parent",
			presets: map[string]PresetConfig{
				"child": {ID: "child", Inherits: []string{"ghost"}},
			},
			target:  "child",
			wantErr: `inherits from non-existent preset "ghost"`,
		},
		{
			name: "circular",
			presets: map[string]PresetConfig{
				"a": {ID: "a", Inherits: []string{"b"}},
				"b": {ID: "b", Inherits: []string{"a"}},
			},
			target:  "a",
			wantErr: "circular inheritance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.presets[tt.target]
			err := p.ResolveInherited(tt.presets)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModules, p.Modules)
			if tt.wantExclude == nil {
				assert.Empty(t, p.Exclude)
			} else {
				assert.Equal(t, tt.wantExclude, p.Exclude)
			}
			for k, v := range tt.wantSetting {
				assert.Equal(t, v, p.Settings[k], "setting %s", k)
			}
		})
	}
}

func TestResolveInherited_DoesNotMutateParents(t *testing.T) {
	presets := map[string]PresetConfig{
		"parent": {ID: "parent", Modules: []string{"bold"}, Exclude: []string{"bold"}},
		"child":  {ID: "child", Inherits: []string{"parent"}, Include: []string{"bold"}},
	}
	child := presets["child"]
	require.NoError(t, child.ResolveInherited(presets))

	assert.Equal(t, []string{"bold"}, presets["parent"].Exclude)
	assert.Empty(t, child.Exclude)
}
