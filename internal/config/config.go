// Package config loads the sortviz command configuration from a YAML file and
// SORTVIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/sortviz/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file read when no --config flag is given.
const DefaultPath = "sortviz.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// MaxArrayLengthLimit is the largest input length the HTTP schema admits.
const MaxArrayLengthLimit = 256

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	MCP      MCPConfig      `yaml:"mcp"`
	Store    StoreConfig    `yaml:"store"`
	Engine   EngineConfig   `yaml:"engine"`
	Counting CountingConfig `yaml:"counting"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	Metrics         bool          `yaml:"metrics"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MCPConfig struct {
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

type StoreConfig struct {
	Backend string        `yaml:"backend"`
	Path    string        `yaml:"path"`
	Redis   RedisConfig   `yaml:"redis"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type EngineConfig struct {
	MaxArrayLength int `yaml:"max_array_length"`
}

// CountingConfig tunes the counting sort engine. A nil Min or Max leaves the
// counter range computed from each input.
type CountingConfig struct {
	Min      *int `yaml:"min"`
	Max      *int `yaml:"max"`
	MaxSlots int  `yaml:"max_slots"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Metrics:         true,
			ShutdownTimeout: 5 * time.Second,
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Port:      8080,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "sortviz:",
			},
			LockTTL: 10 * time.Second,
		},
		Engine: EngineConfig{
			MaxArrayLength: 128,
		},
		Counting: CountingConfig{
			MaxSlots: 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates
// the result. A missing file at DefaultPath is not an error; any other missing
// path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = d
		return nil
	}

	str("SORTVIZ_SERVER_ADDR", &c.Server.Addr)
	if v, ok := lookup("SORTVIZ_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("SORTVIZ_METRICS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: SORTVIZ_METRICS: %v", ErrInvalidConfig, err)
		}
		c.Server.Metrics = b
	}
	str("SORTVIZ_MCP_TRANSPORT", &c.MCP.Transport)
	str("SORTVIZ_STORE_BACKEND", &c.Store.Backend)
	str("SORTVIZ_STORE_PATH", &c.Store.Path)
	str("SORTVIZ_REDIS_ADDR", &c.Store.Redis.Addr)
	str("SORTVIZ_REDIS_PASSWORD", &c.Store.Redis.Password)
	str("SORTVIZ_REDIS_PREFIX", &c.Store.Redis.Prefix)
	str("SORTVIZ_LOG_LEVEL", &c.Log.Level)
	str("SORTVIZ_LOG_FORMAT", &c.Log.Format)

	for _, err := range []error{
		num("SORTVIZ_MCP_PORT", &c.MCP.Port),
		num("SORTVIZ_REDIS_DB", &c.Store.Redis.DB),
		num("SORTVIZ_MAX_ARRAY_LENGTH", &c.Engine.MaxArrayLength),
		num("SORTVIZ_COUNTING_MAX_SLOTS", &c.Counting.MaxSlots),
		dur("SORTVIZ_REDIS_TTL", &c.Store.Redis.TTL),
		dur("SORTVIZ_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout),
	} {
		if err != nil {
			return err
		}
	}
	return nil
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

// Validate checks cross-field constraints. Paths for the file and sqlite
// backends get defaults here when left empty.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Path == "" {
			c.Store.Path = ".sortviz/runs"
		}
	case BackendSQLite:
		if c.Store.Path == "" {
			c.Store.Path = "sortviz.db"
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("%w: store.redis.addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalidConfig, c.Store.Backend)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}

	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("%w: unknown mcp transport %q", ErrInvalidConfig, c.MCP.Transport)
	}
	if c.MCP.Port <= 0 || c.MCP.Port > 65535 {
		return fmt.Errorf("%w: mcp port %d out of range", ErrInvalidConfig, c.MCP.Port)
	}

	if c.Engine.MaxArrayLength < 1 || c.Engine.MaxArrayLength > MaxArrayLengthLimit {
		return fmt.Errorf("%w: engine.max_array_length must be between 1 and %d", ErrInvalidConfig, MaxArrayLengthLimit)
	}

	if (c.Counting.Min == nil) != (c.Counting.Max == nil) {
		return fmt.Errorf("%w: counting.min and counting.max must be set together", ErrInvalidConfig)
	}
	if c.Counting.Min != nil && *c.Counting.Min > *c.Counting.Max {
		return fmt.Errorf("%w: counting.min %d exceeds counting.max %d", ErrInvalidConfig, *c.Counting.Min, *c.Counting.Max)
	}
	if c.Counting.MaxSlots < 0 {
		return fmt.Errorf("%w: counting.max_slots must not be negative", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	return nil
}
