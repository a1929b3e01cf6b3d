package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("no API key: set GOOGLE_API_KEY or ai.api_key")

type Config struct {
	AI       AIConfig       `yaml:"ai" validate:"required"`
	Paths    PathsConfig    `yaml:"paths" validate:"required"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	LogLevel string         `yaml:"log_level" validate:"oneof=debug info warn error"`
}

type AIConfig struct {
	APIKey      string `yaml:"api_key"`
	TextModel   string `yaml:"text_model" validate:"required"`
	ImageModel  string `yaml:"image_model" validate:"required"`
	AspectRatio string `yaml:"aspect_ratio" validate:"oneof=1:1 3:4 4:3 9:16 16:9"`
}

type PathsConfig struct {
	Library   string `yaml:"library" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`
}

type PipelineConfig struct {
	// Spacing between consecutive generation calls.
	Spacing           time.Duration `yaml:"spacing"`
	MaxPortraitHeight int           `yaml:"max_portrait_height" validate:"min=0"`
}

func Default() Config {
	return Config{
		AI: AIConfig{
			TextModel:   "gemini-2.5-flash",
			ImageModel:  "gemini-2.5-flash-image",
			AspectRatio: "3:4",
		},
		Paths: PathsConfig{
			Library:   filepath.Join(dataDir(), "library.db"),
			OutputDir: ".",
		},
		Pipeline: PipelineConfig{
			Spacing: 4 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads .env, then the config file, then environment overrides. A
// missing config file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(Path())
}

func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.Paths.Library = expandTilde(cfg.Paths.Library)
	cfg.Paths.OutputDir = expandTilde(cfg.Paths.OutputDir)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Path resolves the config file location.
func Path() string {
	if path := os.Getenv("VNFORGE_CONFIG"); path != "" {
		return path
	}
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "vnforge", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vnforge", "config.yaml")
}

func dataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "vnforge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "vnforge")
}

func (c *Config) applyEnv() {
	if strings.HasPrefix(c.AI.APIKey, "${") {
		c.AI.APIKey = os.ExpandEnv(c.AI.APIKey)
	}
	for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.AI.APIKey = key
			break
		}
	}
	if library := os.Getenv("VNFORGE_LIBRARY"); library != "" {
		c.Paths.Library = library
	}
}

// APIKey returns the configured key or ErrMissingAPIKey.
func (c *Config) APIKey() (string, error) {
	if strings.TrimSpace(c.AI.APIKey) == "" {
		return "", ErrMissingAPIKey
	}
	return c.AI.APIKey, nil
}

// Level maps LogLevel to a slog level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Save writes the config to path, never persisting a literal API key.
func (c *Config) Save(path string) error {
	out := *c
	out.AI.APIKey = "${GOOGLE_API_KEY}"

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// expandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	if c.Pipeline.Spacing < 0 {
		return fmt.Errorf("pipeline.spacing cannot be negative")
	}
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
