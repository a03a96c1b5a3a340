package config

import "time"

// Supported values for DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Generator GeneratorConfig `mapstructure:"generator"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig selects the task store backend and tunes its connection pool.
// URL is ignored by the memory driver.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"            validate:"required,oneof=postgres sqlite memory"`
	URL             string        `mapstructure:"url"               validate:"required_unless=Driver memory"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// GeneratorConfig controls the background job that creates synthetic tasks.
type GeneratorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}
