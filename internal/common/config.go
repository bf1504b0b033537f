package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"required"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	API         APIConfig       `toml:"api"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Analytics   AnalyticsConfig `toml:"analytics"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host"`
}

// APIConfig describes the remote financial-data API
type APIConfig struct {
	BaseURL   string  `toml:"base_url" validate:"required,url"`
	Timeout   string  `toml:"timeout"`    // e.g. "30s"; empty means no client-side timeout
	RateLimit float64 `toml:"rate_limit" validate:"gte=0"` // requests per second, 0 disables limiting
	CacheTTL  string  `toml:"cache_ttl"`                   // directory lookup freshness window, empty or "0" disables
}

type StorageConfig struct {
	Type   string       `toml:"type" validate:"oneof=memory badger none"` // session store backend
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory; empty keeps sessions in memory
	ResetOnStartup bool   `toml:"reset_on_startup"` // Sessions are cleared on restart unless disabled
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
}

type AnalyticsConfig struct {
	Sink string `toml:"sink" validate:"oneof=log none"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		API: APIConfig{
			BaseURL:   "http://localhost:5000/api",
			Timeout:   "30s",
			RateLimit: 10,
			CacheTTL:  "10m",
		},
		Storage: StorageConfig{
			Type: "memory",
			Badger: BadgerConfig{
				Path:           "./data",
				ResetOnStartup: true,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Analytics: AnalyticsConfig{
			Sink: "none",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. CLI flags are applied afterwards via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies MULTIPLES_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MULTIPLES_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("MULTIPLES_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("MULTIPLES_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Remote API
	if baseURL := os.Getenv("MULTIPLES_API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if timeout := os.Getenv("MULTIPLES_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}
	if rateLimit := os.Getenv("MULTIPLES_API_RATE_LIMIT"); rateLimit != "" {
		if r, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			config.API.RateLimit = r
		}
	}

	if cacheTTL := os.Getenv("MULTIPLES_API_CACHE_TTL"); cacheTTL != "" {
		config.API.CacheTTL = cacheTTL
	}

	// Storage configuration
	if storageType := os.Getenv("MULTIPLES_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if badgerPath := os.Getenv("MULTIPLES_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if reset := os.Getenv("MULTIPLES_BADGER_RESET_ON_STARTUP"); reset != "" {
		if b, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = b
		}
	}

	// Logging configuration
	if level := os.Getenv("MULTIPLES_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MULTIPLES_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if sink := os.Getenv("MULTIPLES_ANALYTICS_SINK"); sink != "" {
		config.Analytics.Sink = sink
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks field constraints and that the API timeout parses
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.APITimeout(); err != nil {
		return fmt.Errorf("invalid configuration: api.timeout: %w", err)
	}
	if _, err := c.APICacheTTL(); err != nil {
		return fmt.Errorf("invalid configuration: api.cache_ttl: %w", err)
	}
	return nil
}

// APITimeout returns the parsed API timeout; zero means none
func (c *Config) APITimeout() (time.Duration, error) {
	if strings.TrimSpace(c.API.Timeout) == "" {
		return 0, nil
	}
	return time.ParseDuration(c.API.Timeout)
}

// APICacheTTL returns the parsed directory cache window; zero disables caching
func (c *Config) APICacheTTL() (time.Duration, error) {
	ttl := strings.TrimSpace(c.API.CacheTTL)
	if ttl == "" || ttl == "0" {
		return 0, nil
	}
	return time.ParseDuration(ttl)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
