// Package config reads service configuration from the environment (and an
// optional file named by CONFIG_FILE) through viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	pstrings "atproto-handle/pkg/platform/strings"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type Config struct {
	Server   Server
	Auth     Auth
	Claims   Claims
	OAuth    OAuth
	Redis    RedisConfig
	Identity Identity
	Audit    Audit
	Log      Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Auth holds the admin credential. Exactly one of APIKey or APIKeyHash is
// used; IsPublic opens admin routes to everyone.
type Auth struct {
	APIKey     string
	APIKeyHash string
	IsPublic   bool
}

type Claims struct {
	AllowedDomains []string
	Backend        string
	File           string
	DatabaseURL    string
}

type OAuth struct {
	PublicURL    string
	StateTTL     time.Duration
	SessionTTL   time.Duration
	StoreBackend string
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Identity struct {
	ResolveTimeout   time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

type Audit struct {
	KafkaBrokers []string
	KafkaTopic   string
}

type Log struct {
	Level  string
	Format string
}

// New returns a viper instance bound to the environment with defaults set.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("IS_PUBLIC", false)
	v.SetDefault("BINDINGS_BACKEND", BackendFile)
	v.SetDefault("BINDINGS_FILE", "./data/db.json")
	v.SetDefault("OAUTH_STATE_TTL", "1h")
	v.SetDefault("OAUTH_SESSION_TTL", "1h")
	v.SetDefault("TTL_STORE_BACKEND", BackendMemory)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")
	v.SetDefault("RESOLVE_TIMEOUT", "10s")
	v.SetDefault("RESOLVE_BREAKER_THRESHOLD", 5)
	v.SetDefault("RESOLVE_BREAKER_COOLDOWN", "30s")
	v.SetDefault("AUDIT_KAFKA_TOPIC", "atproto-handle.audit")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	return v
}

// Load reads configuration from the environment, merging CONFIG_FILE first
// when set, and validates it.
func Load() (*Config, error) {
	v := New()
	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: Server{
			Addr:            v.GetString("ADDR"),
			RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Auth: Auth{
			APIKey:     v.GetString("API_KEY"),
			APIKeyHash: v.GetString("API_KEY_HASH"),
			IsPublic:   v.GetBool("IS_PUBLIC"),
		},
		Claims: Claims{
			AllowedDomains: pstrings.DedupeAndTrimLower(strings.Split(v.GetString("ALLOWED_DOMAINS"), ",")),
			Backend:        strings.ToLower(v.GetString("BINDINGS_BACKEND")),
			File:           v.GetString("BINDINGS_FILE"),
			DatabaseURL:    v.GetString("DATABASE_URL"),
		},
		OAuth: OAuth{
			PublicURL:    strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
			StateTTL:     v.GetDuration("OAUTH_STATE_TTL"),
			SessionTTL:   v.GetDuration("OAUTH_SESSION_TTL"),
			StoreBackend: strings.ToLower(v.GetString("TTL_STORE_BACKEND")),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
		},
		Identity: Identity{
			ResolveTimeout:   v.GetDuration("RESOLVE_TIMEOUT"),
			BreakerThreshold: v.GetInt("RESOLVE_BREAKER_THRESHOLD"),
			BreakerCooldown:  v.GetDuration("RESOLVE_BREAKER_COOLDOWN"),
		},
		Audit: Audit{
			KafkaBrokers: pstrings.SplitCSV(v.GetString("AUDIT_KAFKA_BROKERS")),
			KafkaTopic:   v.GetString("AUDIT_KAFKA_TOPIC"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.APIKey == "" && c.Auth.APIKeyHash == "" {
		errs = append(errs, errors.New("API_KEY or API_KEY_HASH is required"))
	}
	if c.Auth.APIKey != "" && c.Auth.APIKeyHash != "" {
		errs = append(errs, errors.New("set only one of API_KEY and API_KEY_HASH"))
	}
	if c.OAuth.StateTTL <= 0 {
		errs = append(errs, errors.New("OAUTH_STATE_TTL must be positive"))
	}
	if c.OAuth.SessionTTL <= 0 {
		errs = append(errs, errors.New("OAUTH_SESSION_TTL must be positive"))
	}
	switch c.OAuth.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when TTL_STORE_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("TTL_STORE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.OAuth.StoreBackend))
	}
	switch c.Claims.Backend {
	case BackendFile:
		if c.Claims.File == "" {
			errs = append(errs, errors.New("BINDINGS_FILE is required when BINDINGS_BACKEND=file"))
		}
	case BackendPostgres:
		if c.Claims.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when BINDINGS_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("BINDINGS_BACKEND must be %q or %q, got %q", BackendFile, BackendPostgres, c.Claims.Backend))
	}
	if c.OAuth.PublicURL != "" {
		u, err := url.Parse(c.OAuth.PublicURL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PUBLIC_URL must be an absolute https URL, got %q", c.OAuth.PublicURL))
		}
	}
	if c.Identity.ResolveTimeout < 0 {
		errs = append(errs, errors.New("RESOLVE_TIMEOUT must not be negative"))
	}
	if len(c.Audit.KafkaBrokers) > 0 && c.Audit.KafkaTopic == "" {
		errs = append(errs, errors.New("AUDIT_KAFKA_TOPIC is required when AUDIT_KAFKA_BROKERS is set"))
	}
	return errors.Join(errs...)
}
