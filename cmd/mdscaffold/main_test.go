package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/mdscaffold/internal/config"
	"github.com/julianshen/mdscaffold/internal/generate"
)

func TestVersionString(t *testing.T) {
	s := versionString()
	assert.Contains(t, s, "mdscaffold")
	assert.Contains(t, s, version)
	assert.Contains(t, s, commit)
	assert.Contains(t, s, date)
}

func TestVersionStringDefaults(t *testing.T) {
	s := versionString()
	assert.Contains(t, s, "dev")
	assert.Contains(t, s, "none")
	assert.Contains(t, s, "unknown")
}

func TestApplyConfigFlagsWin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("output", "", "")
	cmd.Flags().Bool("placeholders", true, "")
	require.NoError(t, cmd.Flags().Set("output", "cli_out"))
	require.NoError(t, cmd.Flags().Set("placeholders", "false"))

	cfg := config.DefaultConfig()
	cfg.Generate.Output = "cfg_out"
	cfg.Generate.Placeholders = true

	opts := generate.Options{Output: "cli_out", Placeholders: false}
	applyConfig(cmd.Flags(), cfg, &opts)

	assert.Equal(t, "cli_out", opts.Output)
	assert.False(t, opts.Placeholders)
}

func TestApplyConfigFileFillsUnset(t *testing.T) {
	cmd := &cobra.Command{}

	cfg := config.DefaultConfig()
	cfg.Generate.Output = "cfg_out"
	cfg.Generate.Placeholders = false
	cfg.Generate.StripHints = true
	cfg.Generate.Ignore = []string{"**/*.tmp"}
	cfg.Generate.FallbackLevel = "high"
	cfg.Generate.PlaceholderStubs = map[string]string{"py": "# stub\n"}

	opts := generate.Options{Placeholders: true, FallbackLevel: "low"}
	applyConfig(cmd.Flags(), cfg, &opts)

	assert.Equal(t, "cfg_out", opts.Output)
	assert.False(t, opts.Placeholders)
	assert.True(t, opts.StripHints)
	assert.Equal(t, []string{"**/*.tmp"}, opts.Ignore)
	assert.Equal(t, "high", opts.FallbackLevel)
	assert.Equal(t, "# stub\n", opts.PlaceholderOverrides["py"])
}

func TestApplyConfigEmptyFileKeepsFrontMatterPath(t *testing.T) {
	cmd := &cobra.Command{}

	opts := generate.Options{Placeholders: true}
	applyConfig(cmd.Flags(), config.DefaultConfig(), &opts)

	assert.Empty(t, opts.Output, "an unset output must fall through to the document")
	assert.True(t, opts.Placeholders)
}

func TestLoadConfigUsesFlagPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[generate]\noutput = \"from_file\"\n"), 0644))

	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.Generate.Output)
}

func TestSetupLoggingNoFile(t *testing.T) {
	old := logFile
	logFile = ""
	t.Cleanup(func() { logFile = old })

	assert.NoError(t, setupLogging())
}
