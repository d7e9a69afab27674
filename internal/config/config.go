// Package config loads and saves the persisted tool configuration.
// Precedence is flags over file over a document's front matter; the file
// only fills in what the command line left unset.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/julianshen/mdscaffold/internal/resolve"
)

// Config represents the top-level tool configuration.
type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Export   ExportConfig   `toml:"export"`
}

// GenerateConfig holds defaults for the Markdown-to-scaffold direction.
type GenerateConfig struct {
	Output           string            `toml:"output"`
	Placeholders     bool              `toml:"placeholders"`
	PlaceholderStubs map[string]string `toml:"placeholder_stubs"`
	StripHints       bool              `toml:"strip_hints"`
	SkipEmpty        bool              `toml:"skip_empty"`
	NoOverwrite      bool              `toml:"no_overwrite"`
	Incremental      bool              `toml:"incremental"`
	Zip              bool              `toml:"zip"`
	Tar              bool              `toml:"tar"`
	Ignore           []string          `toml:"ignore"`
	FilesAlways      []string          `toml:"files_always"`
	DirsAlways       []string          `toml:"dirs_always"`
	SetExec          []string          `toml:"set_exec"`
	FallbackLevel    string            `toml:"fallback_level"`
	ConflictStrategy string            `toml:"conflict_strategy"`
}

// ExportConfig holds defaults for the folder-to-Markdown direction. Zero
// limits mean the export package's built-in caps.
type ExportConfig struct {
	Ignore      []string `toml:"ignore"`
	Concurrency int      `toml:"concurrency"`
	MaxDepth    int      `toml:"max_depth"`
	MaxFileSize int64    `toml:"max_file_size"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
// Output stays empty so a document's front matter can still name one.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			Placeholders:  true,
			FallbackLevel: "low",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mdscaffold", "config.toml"), nil
}

// Load reads the TOML file at path, layered over DefaultConfig. A missing
// file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as TOML at path, creating parent directories as
// needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the enum and pattern valued fields.
func (c *Config) Validate() error {
	strategies := make([]interface{}, 0, len(resolve.Strategies()))
	for _, s := range resolve.Strategies() {
		strategies = append(strategies, s)
	}

	if err := validation.ValidateStruct(&c.Generate,
		validation.Field(&c.Generate.FallbackLevel, validation.In("low", "medium", "high")),
		validation.Field(&c.Generate.ConflictStrategy, validation.In(strategies...)),
		validation.Field(&c.Generate.Ignore, validation.Each(validation.By(validPattern))),
		validation.Field(&c.Generate.SetExec, validation.Each(validation.By(validPattern))),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Export,
		validation.Field(&c.Export.Concurrency, validation.Min(0)),
		validation.Field(&c.Export.MaxDepth, validation.Min(0)),
		validation.Field(&c.Export.Ignore, validation.Each(validation.By(validPattern))),
	)
}

func validPattern(value interface{}) error {
	pat, _ := value.(string)
	if !doublestar.ValidatePattern(pat) {
		return fmt.Errorf("invalid glob pattern %q", pat)
	}
	return nil
}
