package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override file configuration.
const (
	EnvAPIHost      = "WDIW_API_HOST"
	EnvDatabasePath = "WDIW_DATABASE_PATH"
	EnvLogLevel     = "WDIW_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Profile  ProfileConfig  `toml:"profile"`
	Polling  PollingConfig  `toml:"polling"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
	Stub     StubConfig     `toml:"stub"`
}

// APIConfig contains remote recommendation service settings.
type APIConfig struct {
	Host      string        `toml:"host"`
	Timeout   time.Duration `toml:"timeout"`
	RateLimit float64       `toml:"rate_limit"`
	RateBurst int           `toml:"rate_burst"`
}

// ProfileConfig controls how profile URLs are recognised.
type ProfileConfig struct {
	Host string `toml:"host"`
}

// PollingConfig contains the status poll cadence.
type PollingConfig struct {
	Interval time.Duration `toml:"interval"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig contains presentation defaults.
type UIConfig struct {
	DefaultSort string `toml:"default_sort"`
}

// StubConfig contains settings for the local stand-in API.
type StubConfig struct {
	Host  string `toml:"host"`
	Port  int    `toml:"port"`
	Steps int    `toml:"steps"`
}

// Addr returns the stub listen address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports settings that would leave the client unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Host) == "" {
		return fmt.Errorf("%w: api.host is required", ErrInvalidConfig)
	}
	if c.Polling.Interval < 0 {
		return fmt.Errorf("%w: polling.interval must not be negative", ErrInvalidConfig)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv loads a .env file when present and applies WDIW_* overrides on top of the file configuration.
func (c *Config) ApplyEnv(envFiles ...string) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	if v := os.Getenv(EnvAPIHost); v != "" {
		c.API.Host = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
