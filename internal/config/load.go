package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the service reads,
// e.g. TASKS_SERVER_PORT or TASKS_DATABASE_URL.
const EnvPrefix = "TASKS"

// Default values applied before any file or environment override.
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultDriver            = DriverPostgres
	DefaultMaxOpenConns      = 10
	DefaultMaxIdleConns      = 5
	DefaultConnMaxLifetime   = 5 * time.Minute
	DefaultGeneratorInterval = 15 * time.Second
)

// Option customizes how Load reads configuration.
type Option func(*loadOptions)

type loadOptions struct {
	configFile string
	overrides  map[string]any
}

// WithConfigFile makes Load read the given file before applying environment
// variables. A missing file is an error when set explicitly.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithOverride sets a key (e.g. "server.port") with the highest precedence.
// It is used to apply command-line flags.
func WithOverride(key string, value any) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]any)
		}
		o.overrides[key] = value
	}
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	setDefaults(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", o.configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.taskmanager")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range o.overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tag constraints.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Generator.Enabled && cfg.Generator.Interval <= 0 {
		return fmt.Errorf("config validation failed: generator.interval must be positive when the generator is enabled")
	}
	return nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it during
// Unmarshal, even when no config file mentions it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("generator.enabled", true)
	v.SetDefault("generator.interval", DefaultGeneratorInterval)
}
