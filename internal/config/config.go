// Package config holds the runtime settings of the crucible service and CLI.
//
// Settings come from three layers, later ones winning:
//
//  1. Default()
//  2. a YAML or JSON file passed to Load
//  3. CRUCIBLE_* environment variables (and a .env file) applied by ApplyEnv
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/crucible/internal/logging"
	"github.com/katalvlaran/crucible/transition"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CRUCIBLE_"

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full runtime configuration.
type Config struct {
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
	Engine    Engine `yaml:"engine" json:"engine"`
	Server    Server `yaml:"server" json:"server"`
	Redis     Redis  `yaml:"redis" json:"redis"`
}

// Engine holds the default search parameters.
type Engine struct {
	MinRun  int    `yaml:"min_run" json:"min_run"`
	MaxRun  int    `yaml:"max_run" json:"max_run"`
	Mode    string `yaml:"mode" json:"mode"`
	Workers int    `yaml:"workers" json:"workers"`
	MaxPops int    `yaml:"max_pops" json:"max_pops"` // 0 disables the budget
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `yaml:"addr" json:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// Redis configures the optional result cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// Default returns the built-in settings: unconstrained runs of 1..3 in step
// mode, a sequential build and no cache.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: logging.FormatText,
		Engine: Engine{
			MinRun:  1,
			MaxRun:  3,
			Mode:    transition.ModeStep.String(),
			Workers: 1,
		},
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Redis: Redis{
			Prefix: "crucible:result:",
			TTL:    time.Hour,
		},
	}
}

// Load reads path over Default(). Files ending in .json are decoded as JSON,
// everything else as YAML. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads a .env file from the working directory when present and
// overrides fields from CRUCIBLE_* variables.
func (c *Config) ApplyEnv() error {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s must be an integer: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s must be a duration: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	num("MIN_RUN", &c.Engine.MinRun)
	num("MAX_RUN", &c.Engine.MaxRun)
	str("MODE", &c.Engine.Mode)
	num("WORKERS", &c.Engine.Workers)
	num("MAX_POPS", &c.Engine.MaxPops)
	str("ADDR", &c.Server.Addr)
	dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	num("REDIS_DB", &c.Redis.DB)
	str("REDIS_PREFIX", &c.Redis.Prefix)
	dur("REDIS_TTL", &c.Redis.TTL)

	return errors.Join(errs...)
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != logging.FormatText && f != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("log_format %q is not text or json", c.LogFormat))
	}
	if c.Engine.MinRun < 0 || c.Engine.MaxRun < 0 {
		errs = append(errs, fmt.Errorf("engine run bounds must be non-negative (min_run=%d, max_run=%d)", c.Engine.MinRun, c.Engine.MaxRun))
	} else if c.Engine.MinRun > c.Engine.MaxRun {
		errs = append(errs, fmt.Errorf("engine min_run=%d exceeds max_run=%d", c.Engine.MinRun, c.Engine.MaxRun))
	}
	if _, err := transition.ParseMode(c.Engine.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Engine.Workers < 1 {
		errs = append(errs, fmt.Errorf("engine workers=%d must be at least 1", c.Engine.Workers))
	}
	if c.Engine.MaxPops < 0 {
		errs = append(errs, fmt.Errorf("engine max_pops=%d must be non-negative", c.Engine.MaxPops))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server shutdown_timeout=%s must be positive", c.Server.ShutdownTimeout))
	}
	if c.Redis.DB < 0 || c.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis db and ttl must be non-negative"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
