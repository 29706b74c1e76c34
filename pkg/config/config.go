package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Storage string        `yaml:"storage" json:"storage" jsonschema:"default=./storage,description=Storage root with feeds/ and user_data.json and import.json"`
	Server  ServerConfig  `yaml:"server" json:"server" jsonschema:"description=HTTP API configuration"`
	Refresh RefreshConfig `yaml:"refresh" json:"refresh" jsonschema:"description=Feed refresh configuration"`
	Import  ImportConfig  `yaml:"import" json:"import" jsonschema:"description=Import list processing"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Run the HTTP API"`
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for links in generated RSS"`
}

// RefreshConfig holds refresh cycle settings
type RefreshConfig struct {
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=1h,description=Time between periodic refresh cycles"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Feeds fetched concurrently"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Timeout of a single fetch attempt"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=feed-bouncer/1.0,description=User agent for feed requests"`
	Retry      RetryConfig   `yaml:"retry" json:"retry" jsonschema:"description=Fetch retry policy"`
}

// RetryConfig holds the fetch retry policy. Zero initial delay retries right away.
type RetryConfig struct {
	Attempts     int           `yaml:"attempts" json:"attempts" jsonschema:"default=5,minimum=1,description=Fetch attempts per feed and cycle"`
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay" jsonschema:"default=500ms,description=Delay before the second attempt"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay" jsonschema:"default=5s,description=Upper bound of the backoff delay"`
	Jitter       float64       `yaml:"jitter" json:"jitter" jsonschema:"default=0.3,minimum=0,maximum=1,description=Backoff jitter factor"`
}

// ImportConfig holds import list settings
type ImportConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Process import.json on startup"`
}

// Default returns the configuration used without a config file
func Default() *Config {
	return &Config{
		Storage: "./storage",
		Server: ServerConfig{
			Enabled: true,
			Listen:  ":8080",
			Timeout: 30 * time.Second,
			BaseURL: "http://localhost:8080",
		},
		Refresh: RefreshConfig{
			Interval:   time.Hour,
			MaxWorkers: 5,
			Timeout:    30 * time.Second,
			UserAgent:  "feed-bouncer/1.0",
			Retry: RetryConfig{
				Attempts:     5,
				InitialDelay: 500 * time.Millisecond,
				MaxDelay:     5 * time.Second,
				Jitter:       0.3,
			},
		},
		Import: ImportConfig{Enabled: true},
	}
}

// Load reads configuration from a YAML file on top of the defaults. Empty path means defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// keys set to empty values fall back to defaults
	def := Default()
	if cfg.Storage == "" {
		cfg.Storage = def.Storage
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = def.Server.Listen
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = def.Server.Timeout
	}
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = def.Refresh.Interval
	}
	if cfg.Refresh.MaxWorkers == 0 {
		cfg.Refresh.MaxWorkers = def.Refresh.MaxWorkers
	}
	if cfg.Refresh.Timeout == 0 {
		cfg.Refresh.Timeout = def.Refresh.Timeout
	}
	if cfg.Refresh.UserAgent == "" {
		cfg.Refresh.UserAgent = def.Refresh.UserAgent
	}
	if cfg.Refresh.Retry.Attempts == 0 {
		cfg.Refresh.Retry.Attempts = def.Refresh.Retry.Attempts
	}

	// validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute")
	}
	if cfg.Refresh.MaxWorkers < 1 {
		return fmt.Errorf("refresh max_workers must be at least 1")
	}
	if cfg.Refresh.Timeout < time.Second {
		return fmt.Errorf("refresh timeout must be at least 1 second")
	}
	if cfg.Refresh.Retry.Attempts < 1 {
		return fmt.Errorf("refresh retry attempts must be at least 1")
	}
	if cfg.Refresh.Retry.InitialDelay < 0 || cfg.Refresh.Retry.MaxDelay < 0 {
		return fmt.Errorf("refresh retry delays must be non-negative")
	}
	if cfg.Refresh.Retry.Jitter < 0 || cfg.Refresh.Retry.Jitter > 1 {
		return fmt.Errorf("refresh retry jitter must be between 0 and 1")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns the public base url of the server
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
