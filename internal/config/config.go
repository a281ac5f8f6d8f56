// Package config loads departwise configuration from defaults, an optional
// YAML file and DEPARTWISE_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides: DEPARTWISE_SERVER_PORT → server.port.
const EnvPrefix = "DEPARTWISE"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	TomTom    TomTomConfig    `mapstructure:"tomtom"`
	OpenMeteo OpenMeteoConfig `mapstructure:"openmeteo"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type TomTomConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenMeteoConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ProviderConfig applies to every outbound provider call.
type ProviderConfig struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	ReverseTimeout time.Duration `mapstructure:"reverse_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

type PlannerConfig struct {
	QueryTimeout      time.Duration `mapstructure:"query_timeout"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	DefaultEfficiency float64       `mapstructure:"default_efficiency"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Environment  string `mapstructure:"environment"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. configFile may be empty, in which case config.yaml
// is looked up in the working directory and ./configs and is optional.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare TOMTOM_API_KEY is honoured for existing .env files.
	_ = v.BindEnv("tomtom.api_key", EnvPrefix+"_TOMTOM_API_KEY", "TOMTOM_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("tomtom.api_key", "")
	v.SetDefault("tomtom.base_url", "https://api.tomtom.com")
	v.SetDefault("openmeteo.base_url", "https://api.open-meteo.com")
	v.SetDefault("provider.timeout", 10*time.Second)
	v.SetDefault("provider.reverse_timeout", 5*time.Second)
	v.SetDefault("provider.max_retries", 0)
	v.SetDefault("planner.query_timeout", 5*time.Second)
	v.SetDefault("planner.max_concurrency", 4)
	v.SetDefault("planner.default_efficiency", 15.0)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("log.level", "info")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.TomTom.APIKey == "" {
		errs = append(errs, "tomtom.api_key is required")
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, "provider.timeout must be positive")
	}
	if c.Provider.ReverseTimeout <= 0 {
		errs = append(errs, "provider.reverse_timeout must be positive")
	}
	if c.Provider.MaxRetries < 0 {
		errs = append(errs, "provider.max_retries must not be negative")
	}
	if c.Planner.QueryTimeout <= 0 {
		errs = append(errs, "planner.query_timeout must be positive")
	}
	if c.Planner.MaxConcurrency <= 0 {
		errs = append(errs, "planner.max_concurrency must be positive")
	}
	if c.Planner.DefaultEfficiency <= 0 {
		errs = append(errs, "planner.default_efficiency must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
