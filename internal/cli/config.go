package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mbertsch/ioflow/pkg/analysis"
	"github.com/mbertsch/ioflow/pkg/backoff"
	"github.com/mbertsch/ioflow/pkg/cache"
	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// configFileName is the config file looked up in the working directory
// and the XDG config directory.
const configFileName = "ioflow.toml"

// Config is the TOML configuration file schema.
//
//	[classifier]
//	markers = ["FF", "DLATCH", "DLE", "SR", "mem"]
//
//	[gates]
//	annotations = ["$scopeinfo"]
//	[gates.primitives."$_NAND_"]
//	inputs = ["A", "B"]
//	output = "Y"
//
//	[cache]
//	backend = "file"   # file | redis | mongo | none
//	ttl_hours = 720
//
//	[server]
//	addr = ":8080"
//
// Every section is optional; omitted sections keep built-in defaults.
type Config struct {
	Classifier ClassifierConfig `toml:"classifier"`
	Gates      GatesConfig      `toml:"gates"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
}

// ClassifierConfig controls sequential module detection.
type ClassifierConfig struct {
	// Markers replaces the default sequential cell-name markers when
	// non-empty.
	Markers []string `toml:"markers"`
}

// GatesConfig controls which cell types the analyzer understands.
type GatesConfig struct {
	// Annotations replaces the default list of skipped annotation cell
	// types when non-empty.
	Annotations []string `toml:"annotations"`

	// Primitives adds gate types on top of the built-in primitives.
	// A key reusing a built-in type overrides its role layout.
	Primitives map[string]GateConfig `toml:"primitives"`
}

// GateConfig describes one gate type's port roles.
type GateConfig struct {
	Inputs []string `toml:"inputs"`
	Output string   `toml:"output"`
}

// CacheConfig selects and configures the report cache backend.
type CacheConfig struct {
	// Backend is one of "file" (default), "redis", "mongo", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// TTLHours bounds cached report lifetime. Zero keeps the default.
	TTLHours int `toml:"ttl_hours"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo cache backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoadConfig reads the TOML config from path. An empty path triggers the
// default lookup: ./ioflow.toml, then $XDG_CONFIG_HOME/ioflow/ioflow.toml.
// A missing file yields the zero config (all defaults apply).
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = findConfig()
		if path == "" {
			return &Config{}, nil
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return &cfg, nil
}

func findConfig() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, appName, configFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "mongo", "none":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	for typ, gate := range c.Gates.Primitives {
		if len(gate.Inputs) == 0 {
			return fmt.Errorf("primitive %s has no inputs", typ)
		}
		if gate.Output == "" {
			return fmt.Errorf("primitive %s has no output", typ)
		}
	}
	return nil
}

// AnalysisConfig builds the analysis policy: built-in defaults with the
// config file's overrides applied.
func (c *Config) AnalysisConfig() analysis.Config {
	cfg := analysis.DefaultConfig()
	if len(c.Classifier.Markers) > 0 {
		cfg.SequentialMarkers = c.Classifier.Markers
	}
	if len(c.Gates.Annotations) > 0 {
		cfg.Annotations = make(map[string]bool, len(c.Gates.Annotations))
		for _, typ := range c.Gates.Annotations {
			cfg.Annotations[typ] = true
		}
	}
	for typ, gate := range c.Gates.Primitives {
		cfg.Primitives[typ] = analysis.Gate{Inputs: gate.Inputs, Output: gate.Output}
	}
	return cfg
}

// TTL returns the configured report lifetime, or the pipeline default.
func (c *Config) TTL() time.Duration {
	if c.Cache.TTLHours > 0 {
		return time.Duration(c.Cache.TTLHours) * time.Hour
	}
	return pipeline.DefaultCacheTTL
}

// OpenCache opens the configured cache backend. Remote backends are
// connected with retry, since a cache that is briefly unreachable at
// startup should not fail the command.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil

	case "redis":
		var backend cache.Cache
		err := backoff.RetryWithDefaults(ctx, func() error {
			rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
				Addr:     c.Cache.Redis.Addr,
				Password: c.Cache.Redis.Password,
				DB:       c.Cache.Redis.DB,
			})
			if err != nil {
				return backoff.Transient(err)
			}
			backend = rc
			return nil
		})
		return backend, err

	case "mongo":
		var backend cache.Cache
		err := backoff.RetryWithDefaults(ctx, func() error {
			mc, err := cache.NewMongoCache(ctx, cache.MongoOptions{
				URI:        c.Cache.Mongo.URI,
				Database:   c.Cache.Mongo.Database,
				Collection: c.Cache.Mongo.Collection,
			})
			if err != nil {
				return backoff.Transient(err)
			}
			backend = mc
			return nil
		})
		return backend, err

	default: // "file" and ""
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

// ServerAddr returns the configured listen address, or the default.
func (c *Config) ServerAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return ":8080"
}
