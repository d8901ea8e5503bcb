// Package config loads the CLI configuration from .ghaflow.yml, GHAFLOW_*
// environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/opnlabs/ghaflow/pkg/generate"
	"github.com/spf13/viper"
)

const (
	AppName   = "ghaflow"
	EnvPrefix = "GHAFLOW"
	FileName  = ".ghaflow"

	DefaultWorkflowDir = ".github/workflows"
)

type Config struct {
	Debug     bool             `mapstructure:"debug"`
	LogFormat string           `mapstructure:"log_format" validate:"oneof=human json"`
	Header    string           `mapstructure:"header"`
	Workflows []WorkflowConfig `mapstructure:"workflows" validate:"dive"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// WorkflowConfig describes one preset workflow to generate.
type WorkflowConfig struct {
	Name      string   `mapstructure:"name"`
	Path      string   `mapstructure:"path" validate:"required"`
	Preset    string   `mapstructure:"preset" validate:"required,oneof=go rust"`
	Branches  []string `mapstructure:"branches"`
	GoVersion string   `mapstructure:"go_version"`
	Runner    string   `mapstructure:"runner"`
	Race      bool     `mapstructure:"race"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New returns a viper instance with defaults, search paths and environment
// binding set up. Flags can be bound to it before Load.
func New(file string) *viper.Viper {
	v := viper.New()
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("header", generate.DefaultHeader)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if there is one and decodes the settings. A
// missing file is not an error unless it was named explicitly.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
