// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DBURL           string        `mapstructure:"DB_URL"`
	GithubToken     string        `mapstructure:"GITHUB_TOKEN"`
	GithubBaseURL   string        `mapstructure:"GITHUB_API_BASE_URL"`
	GithubTimeout   time.Duration `mapstructure:"GITHUB_API_TIMEOUT"`
	GithubRateLimit int           `mapstructure:"GITHUB_RATE_LIMIT"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	MetricsAddr     string        `mapstructure:"METRICS_ADDR"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(".")
}

func load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GITHUB_API_BASE_URL", "https://api.github.com")
	v.SetDefault("GITHUB_API_TIMEOUT", "30s")
	v.SetDefault("GITHUB_RATE_LIMIT", 0)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":2112")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(configPath)
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables. Keys without a default need an explicit
	// binding or Unmarshal never sees them. An empty METRICS_ADDR disables
	// the metrics listener, so empty values count as set.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	for _, key := range []string{"DB_URL", "GITHUB_TOKEN"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is a required configuration field")
	}
	if c.GithubTimeout <= 0 {
		return errors.New("GITHUB_API_TIMEOUT must be a positive duration")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be a positive duration")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	if c.GithubRateLimit < 0 {
		return errors.New("GITHUB_RATE_LIMIT must not be negative")
	}
	u, err := url.Parse(c.GithubBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GITHUB_API_BASE_URL %q is not an absolute URL", c.GithubBaseURL)
	}
	return nil
}
