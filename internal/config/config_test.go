package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `
[server]
port = 9090
host = "127.0.0.1"
additional_ports = [9091]

[logging]
level = "debug"
format = "json"

[storage]
type = "sqlite"
sqlite_path = "test.db"

[cache]
backend = "memory"
capacity = 16
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesFileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Server.Port != 9090 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Cache.Capacity != 16 {
		t.Errorf("cache capacity = %d, want 16", cfg.Cache.Capacity)
	}
	// Untouched sections keep their defaults
	if cfg.Cache.TTLSeconds != 3600 {
		t.Errorf("cache ttl = %d, want 3600", cfg.Cache.TTLSeconds)
	}
	if cfg.Server.MaxBatchPoints != 1000 {
		t.Errorf("max batch points = %d, want 1000", cfg.Server.MaxBatchPoints)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics path = %q, want /metrics", cfg.Metrics.Path)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COMAG_PORT", "7000")
	t.Setenv("COMAG_REDIS_ADDR", "redis:6379")
	t.Setenv("COMAG_GEOIP_DB", "/data/city.mmdb")

	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("redis addr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.GeoIP.DatabasePath != "/data/city.mmdb" {
		t.Errorf("geoip path = %q", cfg.GeoIP.DatabasePath)
	}
}

func TestLoadWithFallbackMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	_, err := LoadWithFallback(missing)
	if err == nil {
		t.Fatal("LoadWithFallback succeeded with no config present")
	}
	if !strings.Contains(err.Error(), "nope.toml") {
		t.Errorf("error %q does not name the requested path", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"duplicate port", func(c *Config) { c.Server.AdditionalPorts = []int{c.Server.Port} }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres"; c.Storage.PostgresDSN = "" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "" }},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"negative step", func(c *Config) { c.Reference.ValidationStepDeg = -1 }},
		{"lat out of range", func(c *Config) { c.Reference.ValidationMaxAbsLat = 95 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate succeeded, want error")
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}
