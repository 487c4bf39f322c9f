// Package config loads the domctx CLI configuration from YAML with
// strict unknown-field rejection, applying defaults for anything the
// file leaves out.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Log level and format names accepted in configuration.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatConsole = "console"
	LogFormatText    = "text"
	LogFormatJSON    = "json"
)

// Config is the full CLI configuration.
type Config struct {
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Filters   FiltersConfig   `yaml:"filters"`
	Log       LogConfig       `yaml:"log"`
}

// TokenizerConfig selects the token counting implementation.
type TokenizerConfig struct {
	// Encoding is a tiktoken encoding name; "approx" selects the
	// heuristic estimator instead of BPE counting.
	Encoding string `yaml:"encoding"`
}

// ChunkingConfig holds the default chunking parameters.
type ChunkingConfig struct {
	MaxTokens  int  `yaml:"max_tokens"`
	Overlap    int  `yaml:"overlap"`
	ParentPath bool `yaml:"parent_path"`
}

// FiltersConfig toggles the filter pipeline passes.
type FiltersConfig struct {
	NonVisibleTags   bool `yaml:"non_visible_tags"`
	CSSHidden        bool `yaml:"css_hidden"`
	ZeroDimensions   bool `yaml:"zero_dimensions"`
	Attributes       bool `yaml:"attributes"`
	Empty            bool `yaml:"empty"`
	CollapseWrappers bool `yaml:"collapse_wrappers"`
}

// LogConfig configures console and file logging.
type LogConfig struct {
	Level   string           `yaml:"level"`
	Console ConsoleLogConfig `yaml:"console"`
	File    FileLogConfig    `yaml:"file"`
}

// ConsoleLogConfig configures the stderr output.
type ConsoleLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
}

// FileLogConfig configures the rotated file output.
type FileLogConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Path     string         `yaml:"path"`
	Format   string         `yaml:"format"`
	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig maps onto lumberjack rotation settings.
type RotationConfig struct {
	MaxSize    int  `yaml:"max_size"` // megabytes
	MaxAge     int  `yaml:"max_age"`  // days
	MaxBackups int  `yaml:"max_backups"`
	Compress   bool `yaml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Tokenizer: TokenizerConfig{Encoding: "cl100k_base"},
		Chunking:  ChunkingConfig{MaxTokens: 500, Overlap: 50, ParentPath: true},
		Filters: FiltersConfig{
			NonVisibleTags:   true,
			CSSHidden:        true,
			ZeroDimensions:   true,
			Attributes:       true,
			Empty:            true,
			CollapseWrappers: true,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
			Console: ConsoleLogConfig{
				Enabled: true,
				Format:  LogFormatConsole,
			},
		},
	}
}

// Load reads and validates a YAML configuration file. Absent keys keep
// their defaults; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Chunking.MaxTokens <= 0 {
		return fmt.Errorf("chunking.max_tokens must be positive, got %d", c.Chunking.MaxTokens)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must not be negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.MaxTokens {
		return fmt.Errorf("chunking.overlap (%d) must be smaller than chunking.max_tokens (%d)",
			c.Chunking.Overlap, c.Chunking.MaxTokens)
	}
	if c.Log.File.Enabled && c.Log.File.Path == "" {
		return fmt.Errorf("log.file.path must be specified when file logging is enabled")
	}
	return nil
}

// unmarshalStrict decodes YAML rejecting unknown fields, so typos in
// configuration files fail loudly instead of being ignored.
func unmarshalStrict(data []byte, v interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("unknown configuration field (check for typos): %w", err)
		}
		return err
	}
	return nil
}
