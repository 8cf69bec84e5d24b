// Package config provides configuration management for the Pitwall service.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Strategy   StrategyConfig   `mapstructure:"strategy" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Client     ClientConfig     `mapstructure:"client"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Host                   string   `mapstructure:"host"`
	Port                   int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds     int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds    int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
}

// PredictionConfig holds the pit-window prediction defaults applied when a
// request omits the corresponding fields.
type PredictionConfig struct {
	DefaultDegradationThreshold float64 `mapstructure:"default_degradation_threshold" validate:"required,gt=0"`
	DefaultMaxStintLength       int     `mapstructure:"default_max_stint_length" validate:"required,gt=0"`
	MedianFilterRatio           float64 `mapstructure:"median_filter_ratio" validate:"required,gt=1"`
}

// StrategyConfig holds the strategy projection defaults.
type StrategyConfig struct {
	DefaultPitStopTime        float64 `mapstructure:"default_pit_stop_time" validate:"required,gt=0"`
	DefaultFreshTireAdvantage float64 `mapstructure:"default_fresh_tire_advantage" validate:"gte=0"`
	DefaultFreshTireLaps      int     `mapstructure:"default_fresh_tire_laps" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ClientConfig configures the pitwall-cli client side.
type ClientConfig struct {
	BaseURL               string  `mapstructure:"base_url"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds"`
	RetryAttempts         int     `mapstructure:"retry_attempts"`
	RateLimit             float64 `mapstructure:"rate_limit"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds"`
	CacheMaxSize          int     `mapstructure:"cache_max_size"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddr returns the host:port the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
