package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Matching  MatchingConfig  `yaml:"matching"`
	Directory DirectoryConfig `yaml:"directory"`
	Stats     StatsConfig     `yaml:"stats"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool          `yaml:"enabled"`
	RequestsPerMinute int           `yaml:"requestsPerMinute"`
	Burst             int           `yaml:"burst"`
	IdleTTL           time.Duration `yaml:"idleTtl"`
}

// MatchingConfig tunes the ranking defaults.
type MatchingConfig struct {
	DefaultRadiusKm  float64     `yaml:"defaultRadiusKm"`
	DefaultLimit     int         `yaml:"defaultLimit"`
	MaxLimit         int         `yaml:"maxLimit"`
	FallbackLocation Coordinates `yaml:"fallbackLocation"`
	TrendingLimit    int         `yaml:"trendingLimit"`
}

// Coordinates is a lat/lng pair in degrees.
type Coordinates struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// DirectoryConfig selects the technician directory backend.
type DirectoryConfig struct {
	SeedFile string         `yaml:"seedFile"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// StatsConfig controls where category search counts are kept.
type StatsConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the stats store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName"`
	Environment  string  `yaml:"environment"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("MATCHING_DEFAULT_RADIUS_KM"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matching.DefaultRadiusKm = parsed
		}
	}
	if v := os.Getenv("MATCHING_DEFAULT_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Matching.DefaultLimit = parsed
		}
	}
	if v := os.Getenv("MATCHING_MAX_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Matching.MaxLimit = parsed
		}
	}
	if v := os.Getenv("MATCHING_FALLBACK_LAT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matching.FallbackLocation.Lat = parsed
		}
	}
	if v := os.Getenv("MATCHING_FALLBACK_LNG"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matching.FallbackLocation.Lng = parsed
		}
	}
	if v := os.Getenv("DIRECTORY_SEED_FILE"); v != "" {
		cfg.Directory.SeedFile = v
	}
	if v := os.Getenv("DIRECTORY_POSTGRES_DSN"); v != "" {
		cfg.Directory.Postgres.DSN = v
	}
	if v := os.Getenv("DIRECTORY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Directory.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("DIRECTORY_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Directory.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("STATS_VALKEY_ENABLED"); v != "" {
		cfg.Stats.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("STATS_VALKEY_ADDR"); v != "" {
		cfg.Stats.Valkey.Addr = v
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = parseBool(v)
	}
	if v := os.Getenv("TRACING_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("TRACING_SAMPLING_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tracing.SamplingRate = parsed
		}
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
				IdleTTL:           5 * time.Minute,
			},
		},
		Matching: MatchingConfig{
			DefaultRadiusKm: 10,
			DefaultLimit:    50,
			MaxLimit:        100,
			FallbackLocation: Coordinates{
				Lat: 12.9716,
				Lng: 77.5946,
			},
			TrendingLimit: 5,
		},
		Directory: DirectoryConfig{
			SeedFile: "",
			Postgres: PostgresConfig{
				DSN:      "",
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Stats: StatsConfig{
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
				Prefix:  "matching",
			},
		},
		Tracing: TracingConfig{
			Enabled:      false,
			ServiceName:  "technician-matching",
			Environment:  "development",
			SamplingRate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
		if c.HTTP.RateLimit.IdleTTL < 0 {
			return errors.New("http.rateLimit.idleTtl cannot be negative")
		}
	}
	if c.Matching.DefaultRadiusKm < 0 || math.IsNaN(c.Matching.DefaultRadiusKm) {
		return errors.New("matching.defaultRadiusKm must be non-negative")
	}
	if c.Matching.DefaultLimit <= 0 {
		return errors.New("matching.defaultLimit must be positive")
	}
	if c.Matching.MaxLimit <= 0 {
		return errors.New("matching.maxLimit must be positive")
	}
	if c.Matching.DefaultLimit > c.Matching.MaxLimit {
		return errors.New("matching.defaultLimit cannot exceed matching.maxLimit")
	}
	if lat := c.Matching.FallbackLocation.Lat; lat < -90 || lat > 90 {
		return errors.New("matching.fallbackLocation.lat must be within [-90, 90]")
	}
	if lng := c.Matching.FallbackLocation.Lng; lng < -180 || lng > 180 {
		return errors.New("matching.fallbackLocation.lng must be within [-180, 180]")
	}
	if c.Matching.TrendingLimit < 0 {
		return errors.New("matching.trendingLimit cannot be negative")
	}
	if c.Stats.Valkey.Enabled && strings.TrimSpace(c.Stats.Valkey.Addr) == "" {
		return errors.New("stats.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Tracing.Enabled {
		if strings.TrimSpace(c.Tracing.ServiceName) == "" {
			return errors.New("tracing.serviceName cannot be empty when tracing is enabled")
		}
		if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
			return errors.New("tracing.samplingRate must be between 0 and 1")
		}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	return nil
}
