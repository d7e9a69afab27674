package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Generate.Placeholders)
	assert.Equal(t, "low", cfg.Generate.FallbackLevel)
	assert.Empty(t, cfg.Generate.Output, "front matter must be able to name the output root")
	assert.Zero(t, cfg.Export.Concurrency)
}

func TestLoadFromFile(t *testing.T) {
	tomlContent := `
[generate]
output = "scaffold_out"
placeholders = false
strip_hints = true
ignore = ["**/*.tmp"]
fallback_level = "high"
conflict_strategy = "longest"

[generate.placeholder_stubs]
py = "# stub\n"

[export]
concurrency = 4
max_depth = 10
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "scaffold_out", cfg.Generate.Output)
	assert.False(t, cfg.Generate.Placeholders)
	assert.True(t, cfg.Generate.StripHints)
	assert.Equal(t, []string{"**/*.tmp"}, cfg.Generate.Ignore)
	assert.Equal(t, "high", cfg.Generate.FallbackLevel)
	assert.Equal(t, "longest", cfg.Generate.ConflictStrategy)
	assert.Equal(t, "# stub\n", cfg.Generate.PlaceholderStubs["py"])
	assert.Equal(t, 4, cfg.Export.Concurrency)
	assert.Equal(t, 10, cfg.Export.MaxDepth)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	tomlContent := `
[generate]
strip_hints = true
`
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(tomlContent), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.True(t, cfg.Generate.StripHints)
	assert.True(t, cfg.Generate.Placeholders, "unset fields keep their defaults")
	assert.Equal(t, "low", cfg.Generate.FallbackLevel)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.True(t, cfg.Generate.Placeholders)
	assert.Equal(t, "low", cfg.Generate.FallbackLevel)
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[invalid toml..."), 0644))

	_, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoadRejectsBadEnums(t *testing.T) {
	cases := []string{
		"[generate]\nfallback_level = \"extreme\"\n",
		"[generate]\nconflict_strategy = \"coin_flip\"\n",
	}
	for _, content := range cases {
		tmpFile := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

		_, err := Load(tmpFile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	}
}

func TestLoadRejectsBadPattern(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("[generate]\nignore = [\"[\"]\n"), 0644))

	_, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Generate.Output = "out"
	cfg.Generate.SetExec = []string{"**/*.sh"}
	cfg.Export.Concurrency = 3

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPath(t *testing.T) {
	t.Setenv("HOME", "/home/someone")

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/home/someone/.config/mdscaffold/config.toml", p)
}
