package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all Sentinel configuration.
type Config struct {
	Sources SourcesConfig `mapstructure:"sources"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Server  ServerConfig  `mapstructure:"server"`
	History HistoryConfig `mapstructure:"history"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourcesConfig defines where the storefront collections are fetched from.
// Each explicit URL wins over the base URL + default path.
type SourcesConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	ProductsURL string `mapstructure:"products_url"`
	SalesURL    string `mapstructure:"sales_url"`
	UsersURL    string `mapstructure:"users_url"`
	Timeout     string `mapstructure:"timeout"`
}

// ProductsEndpoint returns the effective products URL.
func (s SourcesConfig) ProductsEndpoint() string {
	if s.ProductsURL != "" {
		return s.ProductsURL
	}
	return strings.TrimRight(s.BaseURL, "/") + "/products/getAll"
}

// SalesEndpoint returns the effective sales URL.
func (s SourcesConfig) SalesEndpoint() string {
	if s.SalesURL != "" {
		return s.SalesURL
	}
	return strings.TrimRight(s.BaseURL, "/") + "/sales/getsales"
}

// UsersEndpoint returns the effective users CSV export URL.
func (s SourcesConfig) UsersEndpoint() string {
	if s.UsersURL != "" {
		return s.UsersURL
	}
	return strings.TrimRight(s.BaseURL, "/") + "/api/csv/users/export"
}

// FetchTimeout parses the per-request timeout, falling back to 15s.
func (s SourcesConfig) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// EngineConfig defines the computation cycle settings.
type EngineConfig struct {
	RefreshInterval string `mapstructure:"refresh_interval"`
	RulesFile       string `mapstructure:"rules_file"`
}

// Interval parses the refresh interval, falling back to 5m.
func (e EngineConfig) Interval() time.Duration {
	d, err := time.ParseDuration(e.RefreshInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// HistoryConfig defines the alert history log settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AlertsConfig defines outbound alerting integrations.
type AlertsConfig struct {
	Slack   SlackConfig   `mapstructure:"slack"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".sentinel"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("sources.base_url", "http://localhost:8080")
	v.SetDefault("sources.timeout", "15s")
	v.SetDefault("engine.refresh_interval", "5m")
	v.SetDefault("server.listen", ":8090")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(home, ".sentinel", "history.db"))
	v.SetDefault("alerts.slack.channel", "#store-alerts")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Environment variables
	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
