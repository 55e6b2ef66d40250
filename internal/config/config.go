package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server    ServerConfig    `toml:"server"`    // HTTP server settings
	Logging   LoggingConfig   `toml:"logging"`   // Application logging settings
	Storage   StorageConfig   `toml:"storage"`   // Site persistence settings
	Cache     CacheConfig     `toml:"cache"`     // Reference model result cache
	Reference ReferenceConfig `toml:"reference"` // Full WMM model comparison settings
	GeoIP     GeoIPConfig     `toml:"geoip"`     // IP geolocation database
	Metrics   MetricsConfig   `toml:"metrics"`   // Prometheus exposition
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // Primary HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // List of origins allowed for CORS requests (use ["*"] for all origins)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request (0 = no timeout)
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response (0 = no timeout)
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	AdditionalPorts    []int    `toml:"additional_ports"`      // Additional HTTP ports to listen on (useful for multiple interfaces)
	MaxBatchPoints     int      `toml:"max_batch_points"`      // Upper bound on points accepted by the batch endpoint
	StaticDir          string   `toml:"static_dir"`            // Directory served at / (empty disables static files)
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains site persistence configuration
type StorageConfig struct {
	Type          string `toml:"type"`             // Storage backend type: "sqlite" or "postgres"
	SQLitePath    string `toml:"sqlite_path"`      // Path of the SQLite database file
	PostgresDSN   string `toml:"postgres_dsn"`     // Connection string when type is postgres
	MaxSitesInAPI int    `toml:"max_sites_in_api"` // Default page size for the sites listing
}

// CacheConfig contains reference model cache configuration
type CacheConfig struct {
	Backend          string  `toml:"backend"`            // "memory" or "redis"
	TTLSeconds       int     `toml:"ttl_seconds"`        // How long a cached reference result stays valid
	Capacity         int     `toml:"capacity"`           // Maximum entries held by the memory backend
	ResolutionDeg    float64 `toml:"resolution_deg"`     // Coordinates are rounded to this step when building keys
	RedisAddr        string  `toml:"redis_addr"`         // host:port of the Redis server
	RedisPassword    string  `toml:"redis_password"`     // Redis AUTH password
	RedisDB          int     `toml:"redis_db"`           // Redis logical database
	RedisKeyPrefix   string  `toml:"redis_key_prefix"`   // Prefix for every key written to Redis
	ConnectRetrySecs int     `toml:"connect_retry_secs"` // Total time spent retrying the initial Redis ping
}

// ReferenceConfig contains settings for the full-model comparison endpoints
type ReferenceConfig struct {
	DefaultAltitudeFt   float64 `toml:"default_altitude_ft"`    // Altitude used when a request omits alt_ft
	ValidationStepDeg   float64 `toml:"validation_step_deg"`    // Default sweep spacing
	ValidationMaxAbsLat float64 `toml:"validation_max_abs_lat"` // Sweep skips points poleward of this latitude
	MinValidationStep   float64 `toml:"min_validation_step"`    // Smallest step a client may request
}

// GeoIPConfig contains IP geolocation settings
type GeoIPConfig struct {
	DatabasePath string `toml:"database_path"` // Path to a GeoLite2/GeoIP2 City .mmdb file (empty disables geoip)
}

// MetricsConfig contains Prometheus settings
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"` // Expose metrics
	Path    string `toml:"path"`    // HTTP path for the metrics handler
}

// Default returns a configuration usable without a file
func Default() *Config {
	c := &Config{
		Server: ServerConfig{
			Port:               8080,
			Host:               "0.0.0.0",
			CORSAllowedOrigins: []string{"*"},
			ReadTimeoutSecs:    15,
			WriteTimeoutSecs:   30,
			IdleTimeoutSecs:    60,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Storage: StorageConfig{Type: "sqlite", SQLitePath: "data/co-mag.db"},
		Cache:   CacheConfig{Backend: "memory"},
		Metrics: MetricsConfig{Enabled: true},
	}
	// Validate only fills defaults here
	_ = c.Validate()
	return c
}

// Load loads the configuration from a TOML file
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyEnvOverrides()

	return config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	// Secrets may live in a .env next to the binary
	_ = godotenv.Load(".env")

	// List of paths to check in order of preference
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			// File exists, try to load it
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

// applyEnvOverrides lets COMAG_* environment variables replace addresses and secrets
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("COMAG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("COMAG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("COMAG_POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("COMAG_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("COMAG_REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv("COMAG_GEOIP_DB"); v != "" {
		c.GeoIP.DatabasePath = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	// Validate AdditionalPorts
	portsSeen := make(map[int]bool)
	portsSeen[c.Server.Port] = true
	for _, p := range c.Server.AdditionalPorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid additional server port: %d", p)
		}
		if portsSeen[p] {
			return fmt.Errorf("duplicate port configured: %d (primary or additional)", p)
		}
		portsSeen[p] = true
	}
	if c.Server.MaxBatchPoints <= 0 {
		c.Server.MaxBatchPoints = 1000
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid log level
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
		// Valid log format
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if err := c.ValidateCache(); err != nil {
		return err
	}
	if err := c.ValidateReference(); err != nil {
		return err
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	return nil
}

// ValidateStorage validates the storage configuration
func (c *Config) ValidateStorage() error {
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required when storage type is sqlite")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required when storage type is postgres")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be 'sqlite' or 'postgres')", c.Storage.Type)
	}

	// Set default value for MaxSitesInAPI if not specified
	if c.Storage.MaxSitesInAPI <= 0 {
		c.Storage.MaxSitesInAPI = 100
	}
	return nil
}

// ValidateCache validates the cache configuration
func (c *Config) ValidateCache() error {
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 3600
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 4096
	}
	if c.Cache.ResolutionDeg <= 0 {
		c.Cache.ResolutionDeg = 0.01
	}
	if c.Cache.RedisKeyPrefix == "" {
		c.Cache.RedisKeyPrefix = "co-mag:ref:"
	}
	if c.Cache.ConnectRetrySecs <= 0 {
		c.Cache.ConnectRetrySecs = 10
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required when cache backend is redis")
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("invalid redis_db: %d", c.Cache.RedisDB)
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be 'memory' or 'redis')", c.Cache.Backend)
	}
	return nil
}

// ValidateReference validates the reference model configuration
func (c *Config) ValidateReference() error {
	if c.Reference.ValidationStepDeg == 0 {
		c.Reference.ValidationStepDeg = 5
	}
	if c.Reference.ValidationMaxAbsLat == 0 {
		c.Reference.ValidationMaxAbsLat = 80
	}
	if c.Reference.MinValidationStep == 0 {
		c.Reference.MinValidationStep = 1
	}

	if c.Reference.ValidationStepDeg < 0 {
		return fmt.Errorf("validation_step_deg must be positive: %f", c.Reference.ValidationStepDeg)
	}
	if c.Reference.MinValidationStep < 0 {
		return fmt.Errorf("min_validation_step must be positive: %f", c.Reference.MinValidationStep)
	}
	if c.Reference.ValidationMaxAbsLat < 0 || c.Reference.ValidationMaxAbsLat > 90 {
		return fmt.Errorf("validation_max_abs_lat must be between 0 and 90: %f", c.Reference.ValidationMaxAbsLat)
	}
	if c.Reference.DefaultAltitudeFt < -2000 || c.Reference.DefaultAltitudeFt > 60000 {
		return fmt.Errorf("default_altitude_ft out of range: %f", c.Reference.DefaultAltitudeFt)
	}
	return nil
}
