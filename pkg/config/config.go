package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"minibrowser/pkg/browser"
	"minibrowser/pkg/text"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	ViewportConfig struct {
		Width  int `yaml:"width" validate:"min=100"`
		Height int `yaml:"height" validate:"min=100"`
	}

	LayoutConfig struct {
		HStep      float64 `yaml:"hstep" validate:"gte=0"`
		VStep      float64 `yaml:"vstep" validate:"gte=0"`
		ScrollStep float64 `yaml:"scroll_step" validate:"gt=0"`
	}

	FontsConfig struct {
		Regular    string `yaml:"regular" validate:"omitempty,file"`
		Bold       string `yaml:"bold" validate:"omitempty,file"`
		Italic     string `yaml:"italic" validate:"omitempty,file"`
		BoldItalic string `yaml:"bold_italic" validate:"omitempty,file"`
	}

	Config struct {
		Version  int            `yaml:"version" validate:"eq=1"`
		Home     string         `yaml:"home" validate:"required"`
		Viewport ViewportConfig `yaml:"viewport"`
		Layout   LayoutConfig   `yaml:"layout"`
		Fonts    FontsConfig    `yaml:"fonts"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func unmarshalConfig(data []byte, cfg *Config) error {
	// Only fields we defined are accepted, so yaml.Unmarshal cannot be used
	// directly.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// Load reads the configuration file at path, superimposes its values on top
// of the embedded defaults and validates the result. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := unmarshalConfig(defaultConfig, cfg); err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the embedded configuration document.
func Default() []byte {
	return bytes.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Width:      float64(c.Viewport.Width),
		Height:     float64(c.Viewport.Height),
		HStep:      c.Layout.HStep,
		VStep:      c.Layout.VStep,
		ScrollStep: c.Layout.ScrollStep,
	}
}

func (c *Config) FontConfig() text.FontConfig {
	return text.FontConfig{
		Regular:    c.Fonts.Regular,
		Bold:       c.Fonts.Bold,
		Italic:     c.Fonts.Italic,
		BoldItalic: c.Fonts.BoldItalic,
	}
}
