package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Generation providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the revisor service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Generation GenerationConfig `yaml:"generation"`
	Cache      CacheConfig      `yaml:"cache"`
	Locator    LocatorConfig    `yaml:"locator"`
	Workspaces WorkspacesConfig `yaml:"workspaces"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// GenerationConfig selects and configures the generation provider.
type GenerationConfig struct {
	Provider    string   `yaml:"provider"` // gemini (default), openai
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url"`
	TimeoutSec  int      `yaml:"timeout_sec"`
	Temperature float32  `yaml:"temperature"`
	Credentials []string `yaml:"credentials"` // entries may hold comma-separated lists
	HealthCheck bool     `yaml:"health_check"`
}

// CacheConfig holds completion cache settings. No addrs disables the cache.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// LocatorConfig holds region locator settings.
type LocatorConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// WorkspacesConfig bounds in-memory workspaces.
type WorkspacesConfig struct {
	MaxOpen int `yaml:"max_open"` // 0 = unbounded
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates YAML configuration.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
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

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 180
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = ProviderGemini
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 60
	}
	c.Generation.Credentials = splitList(c.Generation.Credentials)
	c.Auth.APIKeys = splitList(c.Auth.APIKeys)
	c.Cache.Addrs = splitList(c.Cache.Addrs)
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "revisor:completion:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Locator.Threshold <= 0 {
		c.Locator.Threshold = 0.05
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HTTP),
		validation.Field(&c.Generation),
		validation.Field(&c.Cache),
		validation.Field(&c.Locator),
		validation.Field(&c.Workspaces),
	)
}

// Validate checks HTTP settings.
func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Validate checks generation settings.
func (c GenerationConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Provider, validation.Required, validation.In(ProviderGemini, ProviderOpenAI)),
		validation.Field(&c.Model, validation.When(c.Provider == ProviderOpenAI, validation.Required)),
		validation.Field(&c.Temperature, validation.Min(float32(0)), validation.Max(float32(2))),
	)
}

// Validate checks cache settings.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TTLSec, validation.Min(0)),
		validation.Field(&c.DB, validation.Min(0)),
	)
}

// Validate checks locator settings.
func (c LocatorConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Threshold, validation.Max(1.0)),
	)
}

// Validate checks workspace settings.
func (c WorkspacesConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxOpen, validation.Min(0)),
	)
}

// splitList expands comma-separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, entry := range in {
		for part := range strings.SplitSeq(entry, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
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
