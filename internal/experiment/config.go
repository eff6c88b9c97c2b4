// Package experiment sets up a run: configuration, log directory, commit id,
// logger and random source.
package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of one run.
type Config struct {
	// Identifier names the run directory; "default" when empty.
	Identifier string `yaml:"identifier"`
	// Message is appended to the identifier: <identifier>-<message>.
	Message string `yaml:"message"`
	// LogDir overrides ./log/<date>/<identifier>[-<message>]/<time>.
	LogDir string `yaml:"log_dir"`
	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string `yaml:"log_level"`
	// RandomSeed seeds the run's random source.
	RandomSeed int64 `yaml:"random_seed"`
	// CommitID is filled from git HEAD when empty.
	CommitID string `yaml:"commit_id"`

	Model ModelConfig `yaml:"model"`
}

// ModelConfig holds the settings of the tagger model.
type ModelConfig struct {
	Encoding   string   `yaml:"encoding"` // tiktoken encoding name
	VocabSize  int      `yaml:"vocab_size"`
	EmbedDim   int      `yaml:"embed_dim"`
	NumHeads   int      `yaml:"num_heads"`
	MaxLength  int      `yaml:"max_length"` // tokens kept per text
	Labels     []string `yaml:"labels"`
	LeakySlope float64  `yaml:"leaky_slope"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Identifier: "tagger",
		LogLevel:   "INFO",
		RandomSeed: 1234,
		Model: ModelConfig{
			Encoding:   "cl100k_base",
			VocabSize:  4096,
			EmbedDim:   32,
			NumHeads:   4,
			MaxLength:  64,
			Labels:     []string{"noun", "verb", "other"},
			LeakySlope: 0.01,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Validate checks the configuration for values a run cannot start with.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	m := c.Model
	if m.VocabSize <= 0 {
		return fmt.Errorf("invalid config: model.vocab_size must be positive, got %d", m.VocabSize)
	}
	if m.EmbedDim <= 0 || m.NumHeads <= 0 || m.EmbedDim%m.NumHeads != 0 {
		return fmt.Errorf("invalid config: model.embed_dim (%d) must be a positive multiple of model.num_heads (%d)",
			m.EmbedDim, m.NumHeads)
	}
	if m.MaxLength <= 0 {
		return fmt.Errorf("invalid config: model.max_length must be positive, got %d", m.MaxLength)
	}
	if len(m.Labels) == 0 {
		return fmt.Errorf("invalid config: model.labels must not be empty")
	}
	return nil
}

// RunName returns <identifier>[-<message>], the run directory's name.
func (c *Config) RunName() string {
	name := strings.TrimSpace(c.Identifier)
	if name == "" {
		name = "default"
	}
	if c.Message != "" {
		name += "-" + c.Message
	}
	return name
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: config is not secret.
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitConfig writes the default configuration to path unless it exists.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Default().Save(path)
}
