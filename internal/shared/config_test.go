package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.Host != "https://api.whatdoi.watch" {
			t.Errorf("expected api host https://api.whatdoi.watch, got %s", config.API.Host)
		}
		if config.Polling.Interval != 2*time.Second {
			t.Errorf("expected polling interval 2s, got %v", config.Polling.Interval)
		}
		if config.API.Timeout != 0 {
			t.Errorf("expected no request timeout, got %v", config.API.Timeout)
		}
		if config.Profile.Host != "letterboxd.com" {
			t.Errorf("expected profile host letterboxd.com, got %s", config.Profile.Host)
		}
		if config.Database.Path != "./wdiw.db" {
			t.Errorf("expected database path ./wdiw.db, got %s", config.Database.Path)
		}
		if config.Stub.Addr() != "127.0.0.1:8787" {
			t.Errorf("expected stub addr 127.0.0.1:8787, got %s", config.Stub.Addr())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("overrides and defaults", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			testConfig := `[api]
host = "http://localhost:9999"
timeout = "15s"
rate_limit = 4.5

[polling]
interval = "500ms"
`
			if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if config.API.Host != "http://localhost:9999" {
				t.Errorf("expected api host override, got %s", config.API.Host)
			}
			if config.API.Timeout != 15*time.Second {
				t.Errorf("expected timeout 15s, got %v", config.API.Timeout)
			}
			if config.API.RateLimit != 4.5 {
				t.Errorf("expected rate limit 4.5, got %v", config.API.RateLimit)
			}
			if config.Polling.Interval != 500*time.Millisecond {
				t.Errorf("expected interval 500ms, got %v", config.Polling.Interval)
			}
			if config.Profile.Host != "letterboxd.com" {
				t.Errorf("expected default profile host to survive, got %s", config.Profile.Host)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("invalid values", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[api]\nhost = \"\"\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := LoadConfig(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("malformed toml", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[api\nhost ="), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Run("environment wins over file", func(t *testing.T) {
			t.Setenv(EnvAPIHost, "http://env-host")
			t.Setenv(EnvDatabasePath, "/tmp/env.db")
			t.Setenv(EnvLogLevel, "debug")

			config := DefaultConfig()
			config.ApplyEnv(filepath.Join(t.TempDir(), "absent.env"))

			if config.API.Host != "http://env-host" {
				t.Errorf("expected env api host, got %s", config.API.Host)
			}
			if config.Database.Path != "/tmp/env.db" {
				t.Errorf("expected env database path, got %s", config.Database.Path)
			}
			if config.Log.Level != "debug" {
				t.Errorf("expected env log level, got %s", config.Log.Level)
			}
		})

		t.Run("dotenv file", func(t *testing.T) {
			t.Setenv(EnvAPIHost, "")
			os.Unsetenv(EnvAPIHost)
			envPath := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envPath, []byte(EnvAPIHost+"=http://dotenv-host\n"), 0644); err != nil {
				t.Fatalf("failed to write env file: %v", err)
			}

			config := DefaultConfig()
			config.ApplyEnv(envPath)

			if config.API.Host != "http://dotenv-host" {
				t.Errorf("expected dotenv api host, got %s", config.API.Host)
			}
		})
	})
}
