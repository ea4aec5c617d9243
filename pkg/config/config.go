// Package config loads kklayout settings from TOML or YAML files.
//
// Files are decoded on top of [Default], so a file only needs the keys it
// changes. Command-line flags are applied by the caller after loading.
//
// Example config.toml:
//
//	[layout]
//	seed = 7
//	max_iterations = 2000
//	kkconst = 20.0
//
//	[cache]
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	shutdown_timeout = "10s"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/pipeline"
)

const appName = "kklayout"

// Environment variables that override file values.
const (
	EnvCacheURL = "KKLAYOUT_CACHE"
	EnvAddr     = "KKLAYOUT_ADDR"
)

// fileNames are the config files looked up in [Dir], in order.
var fileNames = []string{"config.toml", "config.yaml", "config.yml"}

var validate = validator.New()

// Config holds every setting read from a config file.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// LayoutConfig holds solver defaults.
type LayoutConfig struct {
	Seed          uint64  `toml:"seed" yaml:"seed"`
	MaxIterations int     `toml:"max_iterations" yaml:"max_iterations" validate:"gte=0,lte=10000000"`
	Epsilon       float64 `toml:"epsilon" yaml:"epsilon" validate:"gte=0"`
	KKConst       float64 `toml:"kkconst" yaml:"kkconst" validate:"gt=0"`
}

// CacheConfig selects the cache backend. URL takes the forms accepted by
// cache.Open; empty means the per-user cache directory.
type CacheConfig struct {
	URL      string `toml:"url" yaml:"url"`
	Disabled bool   `toml:"disabled" yaml:"disabled"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr" yaml:"addr" validate:"required"`
	MaxNodes        int      `toml:"max_nodes" yaml:"max_nodes" validate:"gte=0"`
	MaxBodyBytes    int64    `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"gte=0"`
	RequestTimeout  Duration `toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Seed:          pipeline.DefaultSeed,
			MaxIterations: pipeline.DefaultMaxIterations,
			Epsilon:       pipeline.DefaultEpsilon,
			KKConst:       pipeline.DefaultKKConst,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxNodes:        5000,
			MaxBodyBytes:    8 << 20,
			RequestTimeout:  Duration(time.Minute),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Options converts the layout section to pipeline options.
func (c LayoutConfig) Options() pipeline.Options {
	return pipeline.Options{
		Seed:          c.Seed,
		MaxIterations: c.MaxIterations,
		Epsilon:       c.Epsilon,
		KKConst:       c.KKConst,
	}
}

// Validate checks value ranges. Failures carry the INVALID_VALUE code.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidValue, err, "config")
	}
	return nil
}

// Load reads the config file at path on top of [Default]. The format is
// chosen by extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "config %s", path)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return Config{}, errors.New(errors.ErrCodeUnsupported, "config %s: unsupported format %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the first config file found in [Dir], falling back to
// [Default] when there is none. Environment overrides are applied last.
func LoadDefault() (Config, error) {
	cfg := Default()
	if path := Find(); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides file values with KKLAYOUT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCacheURL); v != "" {
		c.Cache.URL = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Dir returns the config directory using XDG standard (~/.config/kklayout/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Find returns the path of the first existing config file in [Dir], or ""
// if there is none.
func Find() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	for _, name := range fileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
