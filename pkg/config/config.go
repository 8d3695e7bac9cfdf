package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "HUB_"

// Config is the effective hub configuration.
type Config struct {
	App       AppConfig       `koanf:"app" yaml:"app"`
	Server    ServerConfig    `koanf:"server" yaml:"server"`
	Dispatch  DispatchConfig  `koanf:"dispatch" yaml:"dispatch"`
	Log       LogConfig       `koanf:"log" yaml:"log"`
	Sentry    SentryConfig    `koanf:"sentry" yaml:"sentry"`
	Telemetry TelemetryConfig `koanf:"telemetry" yaml:"telemetry"`
}

type AppConfig struct {
	Name string `koanf:"name" yaml:"name"`
}

type ServerConfig struct {
	Address         string        `koanf:"address" yaml:"address"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout" yaml:"request_timeout"`
}

// DispatchConfig holds route defaults and the module whitelist.
// An empty Modules list allows every module with a registered controller.
type DispatchConfig struct {
	DefaultModule     string   `koanf:"default_module" yaml:"default_module"`
	DefaultController string   `koanf:"default_controller" yaml:"default_controller"`
	DefaultAction     string   `koanf:"default_action" yaml:"default_action"`
	Modules           []string `koanf:"modules" yaml:"modules,omitempty"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

type SentryConfig struct {
	DSN         string `koanf:"dsn" yaml:"dsn,omitempty"`
	Environment string `koanf:"environment" yaml:"environment"`
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
}

var defaults = map[string]any{
	"app.name":                    "hub",
	"server.address":              ":8080",
	"server.shutdown_timeout":     "30s",
	"server.request_timeout":      "15s",
	"dispatch.default_module":     "home",
	"dispatch.default_controller": "index",
	"dispatch.default_action":     "index",
	"log.level":                   "info",
	"log.format":                  "json",
	"sentry.environment":          "production",
	"telemetry.enabled":           false,
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and HUB_ environment variables, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("config: set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps HUB_DISPATCH__DEFAULT_MODULE to dispatch.default_module.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate checks the values a server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("server.request_timeout must be positive"))
	}
	if c.Dispatch.DefaultModule == "" || c.Dispatch.DefaultController == "" || c.Dispatch.DefaultAction == "" {
		errs = append(errs, errors.New("dispatch defaults must not be empty"))
	}
	if strings.Contains(c.Dispatch.DefaultModule, "/") {
		errs = append(errs, errors.New("dispatch.default_module must not contain '/'"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or text", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Dump renders cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	out, err := yamlv3.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: dump: %w", err)
	}
	return out, nil
}
