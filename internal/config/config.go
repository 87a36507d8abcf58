package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the nearbite API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Places     PlacesConfig     `yaml:"places"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	CORS       CORSConfig       `yaml:"cors"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys means the API is open.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	StaticDir       string `yaml:"static_dir"` // front-end files served at /, empty disables
}

// PlacesConfig holds Google Places provider settings.
type PlacesConfig struct {
	APIKey           string   `yaml:"api_key"`
	BaseURL          string   `yaml:"base_url"`
	Language         string   `yaml:"language"`
	TimeoutSec       int      `yaml:"timeout_sec"`
	RateLimit        float64  `yaml:"rate_limit"` // requests per second
	MaxPages         int      `yaml:"max_pages"`
	PageTokenDelayMs int      `yaml:"page_token_delay_ms"`
	SearchTypes      []string `yaml:"search_types"`
	Keywords         []string `yaml:"keywords"`
}

// Timeout returns the per-call deadline.
func (p PlacesConfig) Timeout() time.Duration { return time.Duration(p.TimeoutSec) * time.Second }

// PageTokenDelay returns the wait before a continuation page request.
func (p PlacesConfig) PageTokenDelay() time.Duration {
	return time.Duration(p.PageTokenDelayMs) * time.Millisecond
}

// ClassifierConfig holds the text generation provider and batching settings.
type ClassifierConfig struct {
	Provider    string  `yaml:"provider"` // gemini (default), openai
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"` // openai-compatible endpoints only
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	ChunkSize   int     `yaml:"chunk_size"`
	Workers     int     `yaml:"workers"`
}

// Timeout returns the per-call deadline.
func (c ClassifierConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// DiscoveryConfig holds discovery pipeline settings.
type DiscoveryConfig struct {
	DefaultRadius int `yaml:"default_radius"` // meters
	MaxRadius     int `yaml:"max_radius"`     // meters
	DetailWorkers int `yaml:"detail_workers"`
}

// CORSConfig holds cross-origin settings for the browser client.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Classifier providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// a detailed discovery runs ~27 sequential search pages plus details
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Places.Language == "" {
		c.Places.Language = "zh-TW"
	}
	if c.Places.TimeoutSec <= 0 {
		c.Places.TimeoutSec = 10
	}
	if c.Places.RateLimit <= 0 {
		c.Places.RateLimit = 50
	}
	if c.Places.MaxPages <= 0 {
		c.Places.MaxPages = 3
	}
	if c.Places.PageTokenDelayMs <= 0 {
		c.Places.PageTokenDelayMs = 2000
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = ProviderGemini
	}
	if c.Classifier.Model == "" {
		switch c.Classifier.Provider {
		case ProviderGemini:
			c.Classifier.Model = "gemini-2.0-flash"
		case ProviderOpenAI:
			c.Classifier.Model = "gpt-4o-mini"
		}
	}
	if c.Classifier.TimeoutSec <= 0 {
		c.Classifier.TimeoutSec = 60
	}
	if c.Classifier.ChunkSize <= 0 {
		c.Classifier.ChunkSize = 30
	}
	if c.Classifier.Workers <= 0 {
		c.Classifier.Workers = 10
	}
	if c.Discovery.DefaultRadius <= 0 {
		c.Discovery.DefaultRadius = 500
	}
	if c.Discovery.MaxRadius <= 0 {
		c.Discovery.MaxRadius = 50000
	}
	if c.Discovery.DetailWorkers <= 0 {
		c.Discovery.DetailWorkers = 15
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Places.APIKey == "" {
		return errors.New("places.api_key is required")
	}
	switch c.Classifier.Provider {
	case ProviderGemini, ProviderOpenAI:
		// ok
	default:
		return fmt.Errorf(
			"classifier.provider must be %q or %q, got %q",
			ProviderGemini, ProviderOpenAI, c.Classifier.Provider,
		)
	}
	if c.Classifier.APIKey == "" {
		return errors.New("classifier.api_key is required")
	}
	if c.Discovery.DefaultRadius > c.Discovery.MaxRadius {
		return fmt.Errorf(
			"discovery.default_radius (%d) exceeds discovery.max_radius (%d)",
			c.Discovery.DefaultRadius, c.Discovery.MaxRadius,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
