// Package config loads floorplan settings from a TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/floorplan/config.toml (or
// ~/.config/floorplan/config.toml) unless --config names another one:
//
//	[store]
//	backend = "redis"          # file, memory, redis, mongo, null
//	prefix = "staging:"
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[export]
//	padding = 20
//
//	[templates.storage]
//	type = "horizontal_rack"
//	width = 120
//	height = 45
//	columns = 4
//
// Environment variables override the file: FLOORPLAN_STORE,
// FLOORPLAN_REDIS_ADDR, FLOORPLAN_MONGO_URI and FLOORPLAN_ADDR.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "floorplan"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNull   = "null"
)

// Config is the complete settings file.
type Config struct {
	Store     StoreConfig            `toml:"store"`
	Server    ServerConfig           `toml:"server"`
	Export    ExportConfig           `toml:"export"`
	Designer  DesignerConfig         `toml:"designer"`
	Templates map[string]batch.Entry `toml:"templates"`
}

// StoreConfig selects the layout blob store.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Prefix  string      `toml:"prefix"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig locates the Redis server.
type RedisConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig locates the MongoDB collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures `floorplan serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Padding int     `toml:"padding"`
	Scale   float64 `toml:"scale"`
}

// DesignerConfig holds session defaults.
type DesignerConfig struct {
	UndoDepth int `toml:"undo_depth"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: AppName, Collection: "layouts"},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Export:   ExportConfig{Padding: 20, Scale: 2.0},
		Designer: DesignerConfig{UndoDepth: 50},
	}
}

// Load reads path on top of the defaults and applies environment
// overrides. An empty path means DefaultPath; a missing default file is not
// an error, a missing explicit one is.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			switch {
			case os.IsNotExist(err) && !explicit:
			case os.IsNotExist(err):
				return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
			default:
				return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
			}
		}
	}
	cfg.applyEnv(getenv)
	return cfg, cfg.Validate()
}

// Decode parses TOML settings on top of the defaults. No environment
// overrides are applied.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("FLOORPLAN_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := getenv("FLOORPLAN_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := getenv("FLOORPLAN_MONGO_URI"); v != "" {
		c.Store.Mongo.URI = v
	}
	if v := getenv("FLOORPLAN_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNull:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Export.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "export padding must be non-negative")
	}
	if c.Designer.UndoDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "undo depth must be non-negative")
	}
	_, err := c.Catalog()
	return err
}

// Catalog returns the default fill catalog with the file's template
// overrides applied.
func (c Config) Catalog() (batch.Catalog, error) {
	return batch.DefaultCatalog().Merge(c.Templates)
}

// DefaultPath returns the config file location following XDG.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file store directory using XDG (~/.cache/floorplan/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
