package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig indicates a configuration that fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Content source backends.
const (
	SourceFS    = "fs"
	SourceMongo = "mongo"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Defaults applied before the YAML file and environment overrides.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultContentDir      = "content"
	DefaultPackID          = "classic"
	DefaultSessionDir      = "sessions"
	DefaultSQLitePath      = "sessions.db"
	DefaultAutosaveSeconds = 30
	DefaultCleanupInterval = time.Hour
	DefaultSessionMaxAge   = 24 * time.Hour
)

// Config is the application configuration, assembled in three layers:
// built-in defaults, then the YAML file, then LOBE_* environment
// variables. Later layers override earlier ones field by field.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Content  ContentConfig  `yaml:"content"`
	Sessions SessionsConfig `yaml:"sessions"`
	Debug    bool           `yaml:"debug" env:"LOBE_DEBUG"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host" env:"LOBE_HOST"`
	Port int    `yaml:"port" env:"LOBE_PORT"`
}

// ListenAddr returns the host:port the HTTP server binds to.
func (s ServerConfig) ListenAddr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ContentConfig selects where content packs come from.
type ContentConfig struct {
	Source      string      `yaml:"source" env:"LOBE_CONTENT_SOURCE"`
	Dir         string      `yaml:"dir" env:"LOBE_CONTENT_DIR"`
	DefaultPack string      `yaml:"default_pack" env:"LOBE_DEFAULT_PACK"`
	CacheTTL    string      `yaml:"cache_ttl" env:"LOBE_CONTENT_CACHE_TTL"`
	Mongo       MongoConfig `yaml:"mongo"`
}

// CacheTTLDuration returns the parsed pack cache TTL. Zero means packs
// are cached until invalidated.
func (c ContentConfig) CacheTTLDuration() time.Duration {
	return durationOr(c.CacheTTL, 0)
}

// MongoConfig holds settings for the mongo content source.
type MongoConfig struct {
	URI        string `yaml:"uri" env:"LOBE_MONGO_URI"`
	Database   string `yaml:"database" env:"LOBE_MONGO_DATABASE"`
	Collection string `yaml:"collection" env:"LOBE_MONGO_COLLECTION"`
}

// SessionsConfig controls session persistence and retention.
type SessionsConfig struct {
	Store           string      `yaml:"store" env:"LOBE_SESSION_STORE"`
	Dir             string      `yaml:"dir" env:"LOBE_SESSION_DIR"`
	SQLitePath      string      `yaml:"sqlite_path" env:"LOBE_SQLITE_PATH"`
	Redis           RedisConfig `yaml:"redis"`
	AutosaveSeconds int         `yaml:"autosave_seconds" env:"LOBE_AUTOSAVE_SECONDS"`
	CleanupInterval string      `yaml:"cleanup_interval" env:"LOBE_CLEANUP_INTERVAL"`
	MaxAge          string      `yaml:"max_age" env:"LOBE_SESSION_MAX_AGE"`
}

// CleanupIntervalDuration returns how often the expiry sweep runs.
func (s SessionsConfig) CleanupIntervalDuration() time.Duration {
	return durationOr(s.CleanupInterval, DefaultCleanupInterval)
}

// MaxAgeDuration returns how long an idle session stays in memory.
func (s SessionsConfig) MaxAgeDuration() time.Duration {
	return durationOr(s.MaxAge, DefaultSessionMaxAge)
}

// RedisConfig holds settings for the redis snapshot store.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"LOBE_REDIS_ADDR"`
	Password string `yaml:"password" env:"LOBE_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"LOBE_REDIS_DB"`
	TTL      string `yaml:"ttl" env:"LOBE_REDIS_TTL"`
}

// TTLDuration returns the parsed snapshot TTL. Zero means snapshots
// never expire.
func (r RedisConfig) TTLDuration() time.Duration {
	return durationOr(r.TTL, 0)
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Server.Host = DefaultHost
	cfg.Server.Port = DefaultPort
	cfg.Content.Source = SourceFS
	cfg.Content.Dir = DefaultContentDir
	cfg.Content.DefaultPack = DefaultPackID
	cfg.Sessions.Store = StoreFile
	cfg.Sessions.Dir = DefaultSessionDir
	cfg.Sessions.SQLitePath = DefaultSQLitePath
	cfg.Sessions.AutosaveSeconds = DefaultAutosaveSeconds
	return cfg
}

// Load assembles and validates the configuration. path may be empty, in
// which case only defaults and environment overrides apply. A path that
// cannot be read or parsed is an error, never silently skipped.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration for contradictions before
// anything is constructed from it.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Content.Source {
	case SourceFS:
		if c.Content.Dir == "" {
			return fmt.Errorf("%w: content dir is required for the fs source", ErrInvalidConfig)
		}
	case SourceMongo:
		if c.Content.Mongo.URI == "" {
			return fmt.Errorf("%w: mongo uri is required for the mongo source", ErrInvalidConfig)
		}
		if c.Content.Mongo.Database == "" {
			return fmt.Errorf("%w: mongo database is required for the mongo source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown content source %q (available: %s, %s)",
			ErrInvalidConfig, c.Content.Source, SourceFS, SourceMongo)
	}

	switch c.Sessions.Store {
	case StoreMemory:
	case StoreFile:
		if c.Sessions.Dir == "" {
			return fmt.Errorf("%w: session dir is required for the file store", ErrInvalidConfig)
		}
	case StoreRedis:
		if c.Sessions.Redis.Addr == "" {
			return fmt.Errorf("%w: redis addr is required for the redis store", ErrInvalidConfig)
		}
	case StoreSQLite:
		if c.Sessions.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite path is required for the sqlite store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown session store %q (available: %s, %s, %s, %s)",
			ErrInvalidConfig, c.Sessions.Store, StoreMemory, StoreFile, StoreRedis, StoreSQLite)
	}

	if c.Sessions.AutosaveSeconds < 1 {
		return fmt.Errorf("%w: autosave interval must be at least 1 second", ErrInvalidConfig)
	}

	durations := []struct {
		field string
		raw   string
	}{
		{"content.cache_ttl", c.Content.CacheTTL},
		{"sessions.cleanup_interval", c.Sessions.CleanupInterval},
		{"sessions.max_age", c.Sessions.MaxAge},
		{"sessions.redis.ttl", c.Sessions.Redis.TTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		if _, err := time.ParseDuration(d.raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.field, err)
		}
	}

	return nil
}

// durationOr parses a duration string or returns the fallback if empty.
func durationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
