// Package config provides configuration management for the odds aggregation service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Racing    RacingConfig    `mapstructure:"racing" validate:"required"`
	Bookmaker BookmakerConfig `mapstructure:"bookmaker" validate:"required"`
	Form      FormConfig      `mapstructure:"form" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the inbound HTTP server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents the performance store connection
// configuration. Like the provider base URLs, an absent store is
// accepted at load time; form scores then degrade to zero instead of
// blocking boot.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// RacingConfig represents the primary race-data provider configuration.
// An empty base URL is accepted at load time; every fetch through the
// provider then fails and degrades to an empty result.
type RacingConfig struct {
	BaseURL             string  `mapstructure:"base_url" validate:"omitempty,url"`
	CountryCode         string  `mapstructure:"country_code" validate:"required,len=2"`
	CacheTTLSeconds     int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	OddsCacheTTLSeconds int     `mapstructure:"odds_cache_ttl_seconds" validate:"gte=0"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit           float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// BookmakerConfig represents the secondary odds provider configuration
type BookmakerConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// FormConfig represents the trainer form scorer configuration
type FormConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents the card-cache prewarm scheduler configuration
type SchedulerConfig struct {
	PrewarmEnabled  bool   `mapstructure:"prewarm_enabled"`
	PrewarmSchedule string `mapstructure:"prewarm_schedule"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RacingCacheTTL returns the racing metadata cache TTL
func (c *Config) RacingCacheTTL() time.Duration {
	return time.Duration(c.Racing.CacheTTLSeconds) * time.Second
}

// RacingOddsCacheTTL returns the per-pool odds cache TTL, zero meaning uncached
func (c *Config) RacingOddsCacheTTL() time.Duration {
	return time.Duration(c.Racing.OddsCacheTTLSeconds) * time.Second
}

// BookmakerCacheTTL returns the bookmaker event cache TTL
func (c *Config) BookmakerCacheTTL() time.Duration {
	return time.Duration(c.Bookmaker.CacheTTLSeconds) * time.Second
}

// FormCacheTTL returns the trainer form score cache TTL
func (c *Config) FormCacheTTL() time.Duration {
	return time.Duration(c.Form.CacheTTLSeconds) * time.Second
}
