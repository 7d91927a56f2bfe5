// Package config resolves the run configuration from defaults, an optional
// YAML file, AUTOFILL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "AUTOFILL"

const (
	OperatorConsole = "console"
	OperatorHTTP    = "http"
)

type Config struct {
	App         AppConfig         `mapstructure:"app" yaml:"app"`
	Profile     ProfileConfig     `mapstructure:"profile" yaml:"profile"`
	Browser     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	Flow        FlowConfig        `mapstructure:"flow" yaml:"flow"`
	Operator    OperatorConfig    `mapstructure:"operator" yaml:"operator"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics" yaml:"diagnostics"`
	Logger      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
}

type AppConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type ProfileConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type BrowserConfig struct {
	Headless   bool          `mapstructure:"headless" yaml:"headless"`
	NoSandbox  bool          `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	Bin        string        `mapstructure:"bin" yaml:"bin"`
	SlowMotion time.Duration `mapstructure:"slow_motion" yaml:"slow_motion"`
	// Timeout bounds every required element lookup.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type FlowConfig struct {
	MaxAttempts      int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	StallLimit       int           `mapstructure:"stall_limit" yaml:"stall_limit"`
	PassDelay        time.Duration `mapstructure:"pass_delay" yaml:"pass_delay"`
	ForceSubmitDelay time.Duration `mapstructure:"force_submit_delay" yaml:"force_submit_delay"`
}

type OperatorConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type DiagnosticsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults initializes default values for every key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Application --
	v.SetDefault("app.url", "")
	v.SetDefault("profile.path", "profile.yaml")

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.slow_motion", "100ms")
	v.SetDefault("browser.timeout", "2s")

	// -- Flow --
	v.SetDefault("flow.max_attempts", 10)
	v.SetDefault("flow.stall_limit", 3)
	v.SetDefault("flow.pass_delay", "3s")
	v.SetDefault("flow.force_submit_delay", "3s")

	// -- Operator --
	v.SetDefault("operator.mode", OperatorConsole)
	v.SetDefault("operator.addr", "127.0.0.1:8089")

	v.SetDefault("diagnostics.dir", "diagnostics")
}

// Bind points v at cfgFile (or ./config.yaml when empty) and at the
// AUTOFILL_* environment. A missing default config file is not an error.
func Bind(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.URL) == "" {
		return errors.New("app.url is required")
	}
	if strings.TrimSpace(c.Profile.Path) == "" {
		return errors.New("profile.path is required")
	}
	if c.Flow.MaxAttempts <= 0 {
		return errors.New("flow.max_attempts must be a positive integer")
	}
	if c.Flow.StallLimit <= 0 {
		return errors.New("flow.stall_limit must be a positive integer")
	}
	if c.Flow.PassDelay < 0 || c.Flow.ForceSubmitDelay < 0 {
		return errors.New("flow delays must not be negative")
	}
	if c.Browser.Timeout <= 0 {
		return errors.New("browser.timeout must be a positive duration")
	}
	switch c.Operator.Mode {
	case OperatorConsole:
	case OperatorHTTP:
		if c.Operator.Addr == "" {
			return errors.New("operator.addr is required for the http operator")
		}
	default:
		return fmt.Errorf("operator.mode must be %q or %q, got %q", OperatorConsole, OperatorHTTP, c.Operator.Mode)
	}
	return nil
}
