// Package config loads run settings from flags, environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultTargetURL = "https://help.moengage.com/hc/en-us/articles/18060739634580-Understanding-Count-Differences-in-Behavior-and-Funnel-Analyses"
	DefaultSelector  = "div.article__body.markdown"
	DefaultModelID   = "qwen2.5:0.5b"

	envPrefix = "DOC_REVIEWER"
)

// Config holds everything one review run needs.
type Config struct {
	TargetURL string        `mapstructure:"target_url" validate:"required,url"`
	Selector  string        `mapstructure:"selector"`
	Model     ModelConfig   `mapstructure:"model"`
	Browser   BrowserConfig `mapstructure:"browser"`
	Output    OutputConfig  `mapstructure:"output"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// ModelConfig 描述调用哪个模型以及如何调用。
type ModelConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=ollama-cli ollama openai mock"`
	ID       string        `mapstructure:"id" validate:"required_unless=Provider mock"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey   string        `mapstructure:"api_key"`
	Command  string        `mapstructure:"command"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// BrowserConfig controls the rendering browser.
type BrowserConfig struct {
	Bin               string        `mapstructure:"bin"`
	ControlURL        string        `mapstructure:"control_url"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" validate:"gt=0"`
	SelectorTimeout   time.Duration `mapstructure:"selector_timeout" validate:"gt=0"`
}

// OutputConfig controls console output.
type OutputConfig struct {
	Colors       bool   `mapstructure:"colors"`
	Format       string `mapstructure:"format" validate:"oneof=text html"`
	PreviewChars int    `mapstructure:"preview_chars" validate:"gte=0"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load reads configuration from cfgFile (or the default search paths), the
// environment and whatever flags were bound to v. A missing default config
// file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".doc_reviewer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/doc_reviewer")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults reproduces the reference run: one fixed article, a small local
// model through the ollama CLI, 60 second browser waits.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("target_url", DefaultTargetURL)
	v.SetDefault("selector", DefaultSelector)

	v.SetDefault("model.provider", "ollama-cli")
	v.SetDefault("model.id", DefaultModelID)
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.command", "ollama")
	v.SetDefault("model.timeout", 5*time.Minute)

	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.control_url", "")
	v.SetDefault("browser.navigation_timeout", 60*time.Second)
	v.SetDefault("browser.selector_timeout", 60*time.Second)

	v.SetDefault("output.colors", true)
	v.SetDefault("output.format", "text")
	v.SetDefault("output.preview_chars", 1000)

	v.SetDefault("logging.level", "info")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
