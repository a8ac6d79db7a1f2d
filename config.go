package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const minContentMaxTokens = 2000

//go:embed config/settings.yaml
var defaultSettings string

// Settings holds the summarization request knobs, loadable from an optional
// YAML file. The embedded defaults match the provider's smallest model.
type Settings struct {
	Model            string  `yaml:"model"`
	MaxTokens        int     `yaml:"max_tokens"`
	Temperature      float64 `yaml:"temperature"`
	ContentMaxTokens int     `yaml:"content_max_tokens"`
}

// Config carries everything the two clients need. Values come from the
// environment; command-line flags override them in main.
type Config struct {
	Cookie string `env:"MEDIUM_COOKIE"`
	APIKey string `env:"CLAUDE_API"`
	APIURL string `env:"CLAUDE_URL"`

	Settings *Settings `env:"-"`
}

// LoadConfig reads the environment and the optional settings file.
// settingsPath may be empty, in which case the embedded defaults apply.
func LoadConfig(settingsPath string) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	settings, err := loadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	cfg.Settings = settings

	return &cfg, nil
}

// loadSettings parses the settings file at path, or the embedded defaults
// when path is empty. An explicitly given file must exist.
func loadSettings(path string) (*Settings, error) {
	data := []byte(defaultSettings)
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		}
		data = fileData
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	if settings.Model == "" {
		settings.Model = "claude-3-haiku-20240307"
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = 1024
	}
	if settings.ContentMaxTokens < minContentMaxTokens {
		log.Printf("Warning: content_max_tokens is %d, defaulting to %d (minimum)", settings.ContentMaxTokens, minContentMaxTokens)
		settings.ContentMaxTokens = minContentMaxTokens
	}

	return &settings, nil
}
