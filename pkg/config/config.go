// Package config loads structboard settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, normally $XDG_CONFIG_HOME/structboard/config.toml
//  3. environment variables, optionally seeded from a .env file
//
// A missing file is not an error. Unknown keys in the file are, so that a
// typo does not silently fall back to a default.
//
//	cfg, err := config.Load(path)
//	s, err := store.Open(ctx, cfg.Store.Options())
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/structboard/pkg/cache"
	"github.com/matzehuels/structboard/pkg/errors"
	"github.com/matzehuels/structboard/pkg/store"
)

// AppName names the config, data and cache directories.
const AppName = "structboard"

// Environment variables that override file values.
const (
	EnvConfig    = "STRUCTBOARD_CONFIG"
	EnvStore     = "STRUCTBOARD_STORE"
	EnvMongoURI  = "STRUCTBOARD_MONGO_URI"
	EnvRedisAddr = "STRUCTBOARD_REDIS_ADDR"
	EnvAddr      = "STRUCTBOARD_ADDR"
)

// Config is the full settings tree.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// StoreConfig selects where named diagrams live.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	DSN           string `toml:"dsn"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects the render cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	TTL           Duration `toml:"ttl"`
}

// RenderConfig holds render defaults for the CLI.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Grid    bool     `toml:"grid"`
	Scale   float64  `toml:"scale"`
}

// ServerConfig configures "structboard serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings. Paths follow the XDG base
// directory layout under the user's home.
func Default() Config {
	data := dataDir()
	return Config{
		Store: StoreConfig{
			Backend:       store.BackendFile,
			Dir:           filepath.Join(data, "diagrams"),
			DSN:           filepath.Join(data, AppName+".db"),
			MongoDatabase: store.DefaultMongoDatabase,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Dir:     cacheDir(),
			TTL:     Duration{cache.TTLArtifact},
		},
		Render: RenderConfig{
			Formats: []string{"svg"},
			Scale:   1,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Path returns the config file location: $STRUCTBOARD_CONFIG if set,
// otherwise config.toml in the XDG config directory.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), AppName, "config.toml")
}

// Load reads path on top of the defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Store.MongoURI = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Cache.RedisAddr = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

var (
	storeBackends = []string{store.BackendFile, store.BackendSQLite, store.BackendMongo}
	cacheBackends = []string{cache.BackendFile, cache.BackendRedis, cache.BackendNone}
)

// Validate checks backend names and numeric ranges.
func (c Config) Validate() error {
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend %q (want %s)", c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (want %s)", c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Store.Backend == store.BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend (or set %s)", EnvMongoURI)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend (or set %s)", EnvRedisAddr)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive")
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Options converts to store.Open settings.
func (s StoreConfig) Options() store.Config {
	return store.Config{
		Backend:       s.Backend,
		Dir:           s.Dir,
		DSN:           s.DSN,
		MongoURI:      s.MongoURI,
		MongoDatabase: s.MongoDatabase,
	}
}

// Options converts to cache.Open settings.
func (c CacheConfig) Options() cache.OpenOptions {
	return cache.OpenOptions{
		Backend: c.Backend,
		Dir:     c.Dir,
		Redis:   cache.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPassword},
	}
}
