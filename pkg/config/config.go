// Package config loads settings for the idef0 server and CLI.
//
// Settings are layered, later layers winning:
//
//  1. [Default] values
//  2. a TOML file (optional)
//  3. variables from a .env file (loaded into the environment, never
//     overriding variables that are already set)
//  4. environment variables
//
// Command-line flags are applied by the caller after Load returns.
//
// Example file:
//
//	[server]
//	addr = ":8000"
//	cors_origins = ["http://localhost:5173"]
//
//	[store]
//	backend = "file"
//	data_dir = "data"
//	variants = ["simple", "complex", "empty"]
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
	"github.com/PigStep/vibe-idef0-front/pkg/render/mxgraph"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
	"github.com/PigStep/vibe-idef0-front/pkg/store"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAddr         = ":8000"
	DefaultDataDir      = "data"
	DefaultEnvFile      = ".env"
	DefaultMaxBodyBytes = 1 << 20
	DefaultLogLevel     = "info"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// DefaultVariants are the stored diagrams the API serves.
var DefaultVariants = []string{"simple", "complex", "empty"}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
	Document DocumentConfig `toml:"document"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	CORSOrigins  []string      `toml:"cors_origins"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// StoreConfig selects and configures the stored-diagram backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
	// Variants restricts which names GET /api/v1/diagram accepts. Empty
	// allows every syntactically valid name.
	Variants []string          `toml:"variants"`
	Mongo    store.MongoConfig `toml:"mongo"`
	// CacheTTL enables a read-through cache in front of the store when the
	// cache backend is not "none".
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// CacheConfig selects the render cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	// Scope prefixes every cache key so deployments sharing a Redis
	// instance keep separate entries.
	Scope string            `toml:"scope"`
	Redis cache.RedisConfig `toml:"redis"`
}

// DocumentConfig holds document defaults for conversions served by the API.
type DocumentConfig struct {
	Indent      string        `toml:"indent"`
	Declaration bool          `toml:"declaration"`
	Layout      layout.Params `toml:"layout"`
	StandOff    float64       `toml:"stand_off"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         DefaultAddr,
			CORSOrigins:  []string{"*"},
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Store: StoreConfig{
			Backend:  store.BackendFile,
			DataDir:  DefaultDataDir,
			Variants: slices.Clone(DefaultVariants),
			Mongo: store.MongoConfig{
				Database:   store.DefaultMongoDatabase,
				Collection: store.DefaultMongoCollection,
			},
		},
		Cache: CacheConfig{Backend: CacheNone},
		Document: DocumentConfig{
			Indent:   mxgraph.DefaultIndent,
			Layout:   layout.DefaultParams(),
			StandOff: route.DefaultStandOff,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load builds a Config from the defaults, the TOML file at path (skipped
// when path is empty), the env files (".env" when none are given; missing
// files are ignored) and the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFiles loads each existing file into the process environment.
// Variables that are already set keep their value.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from IDEF0_* variables. DATA_DIR is honored as
// an alias of IDEF0_DATA_DIR.
func (c *Config) ApplyEnv() {
	c.Server.Addr = getEnv("IDEF0_ADDR", c.Server.Addr)
	if v := os.Getenv("IDEF0_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	c.Store.Backend = getEnv("IDEF0_STORE", c.Store.Backend)
	c.Store.DataDir = getEnv("IDEF0_DATA_DIR", getEnv("DATA_DIR", c.Store.DataDir))
	if v := os.Getenv("IDEF0_VARIANTS"); v != "" {
		c.Store.Variants = splitList(v)
	}
	c.Store.Mongo.URI = getEnv("IDEF0_MONGO_URI", c.Store.Mongo.URI)
	c.Store.Mongo.Database = getEnv("IDEF0_MONGO_DATABASE", c.Store.Mongo.Database)
	c.Store.Mongo.Collection = getEnv("IDEF0_MONGO_COLLECTION", c.Store.Mongo.Collection)

	c.Cache.Backend = getEnv("IDEF0_CACHE", c.Cache.Backend)
	c.Cache.Dir = getEnv("IDEF0_CACHE_DIR", c.Cache.Dir)
	c.Cache.Scope = getEnv("IDEF0_CACHE_SCOPE", c.Cache.Scope)
	c.Cache.Redis.Addr = getEnv("IDEF0_REDIS_ADDR", c.Cache.Redis.Addr)
	c.Cache.Redis.Password = getEnv("IDEF0_REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvInt("IDEF0_REDIS_DB", c.Cache.Redis.DB)

	c.Log.Level = getEnv("IDEF0_LOG_LEVEL", c.Log.Level)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}

	switch c.Store.Backend {
	case store.BackendFile:
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required for the file store")
		}
	case store.BackendMongo:
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("store.mongo.uri is required for the mongo store")
		}
	default:
		return fmt.Errorf("invalid store.backend: %q (must be one of: file, mongo)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis cache")
		}
	default:
		return fmt.Errorf("invalid cache.backend: %q (must be one of: none, file, redis)", c.Cache.Backend)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}
	if c.Document.StandOff < 0 {
		return fmt.Errorf("document.stand_off must not be negative")
	}
	return nil
}

// AllowsVariant reports whether the API may serve variant.
func (c *Config) AllowsVariant(variant string) bool {
	return len(c.Store.Variants) == 0 || slices.Contains(c.Store.Variants, variant)
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// PipelineOptions returns conversion options seeded with the document defaults.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Indent:      c.Document.Indent,
		Declaration: c.Document.Declaration,
		Layout:      c.Document.Layout,
		StandOff:    route.StandOff(c.Document.StandOff),
	}
}

// =============================================================================
// Environment Helpers
// =============================================================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
