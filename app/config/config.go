// Package config loads server settings from the environment, an optional .env file and flags.
package config

import (
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBadger   = "badger"
	StoragePostgres = "postgres"

	CacheRistretto = "ristretto"
	CacheMemory    = "memory"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr          string
	Storage       string
	BadgerPath    string
	DatabaseURL   string
	MediaRoot     string
	HomeCacheTTL  time.Duration
	CacheBackend  string
	SessionTTL    time.Duration
	CSRFKey       []byte
	SecureCookies bool
	Debug         bool
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Addr:         ":8080",
		Storage:      StorageBadger,
		BadgerPath:   "data/badger",
		MediaRoot:    "data/media",
		HomeCacheTTL: 20 * time.Second,
		CacheBackend: CacheRistretto,
		SessionTTL:   14 * 24 * time.Hour,
	}
}

// Load reads .env (if present), then the environment, then args.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return parse(os.LookupEnv, args)
}

func parse(lookup func(string) (string, bool), args []string) (*Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("ADDR", &cfg.Addr)
	str("STORAGE", &cfg.Storage)
	str("BADGER_PATH", &cfg.BadgerPath)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("MEDIA_ROOT", &cfg.MediaRoot)
	str("CACHE_BACKEND", &cfg.CacheBackend)
	dur("HOME_CACHE_TTL", &cfg.HomeCacheTTL)
	dur("SESSION_TTL", &cfg.SessionTTL)
	boolean("SECURE_COOKIES", &cfg.SecureCookies)
	boolean("DEBUG", &cfg.Debug)
	var csrfKey string
	str("CSRF_KEY", &csrfKey)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	fset := flag.NewFlagSet("serve", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fset.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: badger or postgres")
	fset.StringVar(&cfg.BadgerPath, "badger-path", cfg.BadgerPath, "badger data directory")
	fset.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres DSN")
	fset.StringVar(&cfg.MediaRoot, "media-root", cfg.MediaRoot, "directory for uploaded images")
	fset.StringVar(&cfg.CacheBackend, "cache", cfg.CacheBackend, "home feed cache: ristretto or memory")
	fset.DurationVar(&cfg.HomeCacheTTL, "home-cache-ttl", cfg.HomeCacheTTL, "home feed cache lifetime")
	fset.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if csrfKey != "" {
		cfg.CSRFKey = []byte(csrfKey)
	} else {
		cfg.CSRFKey = make([]byte, 32)
		if _, err := rand.Read(cfg.CSRFKey); err != nil {
			return nil, fmt.Errorf("failed to generate csrf key: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and non-positive lifetimes.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageBadger:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	switch c.CacheBackend {
	case CacheRistretto, CacheMemory:
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.HomeCacheTTL <= 0 {
		return errors.New("HOME_CACHE_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if len(c.CSRFKey) != 32 {
		return errors.New("CSRF_KEY must be 32 bytes")
	}
	return nil
}
