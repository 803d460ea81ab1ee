// Package config loads the server configuration: code-level defaults,
// overridden by an optional YAML file, overridden by environment
// variables with the FORTRESS_ prefix (FORTRESS_JWT__SECRET maps to
// jwt.secret).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FORTRESS_"

// AppConfig is the full server configuration tree.
type AppConfig struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Storage   StorageConfig   `koanf:"storage"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text or json
}

type StorageConfig struct {
	Path string `koanf:"path"` // CSV snapshot file
}

type JWTConfig struct {
	Secret        string        `koanf:"secret"`
	RefreshSecret string        `koanf:"refresh_secret"`
	AccessTTL     time.Duration `koanf:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"`
}

type RateLimitConfig struct {
	Rate   int           `koanf:"rate"`   // token endpoint requests per window
	Window time.Duration `koanf:"window"` // rate limit window
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Path: "users.csv",
		},
		JWT: JWTConfig{
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Rate:   10,
			Window: time.Minute,
		},
	}
}

// Load reads the configuration. A missing config file is not an error,
// the defaults plus the environment still make a complete configuration.
// A .env file in the working directory is read into the environment first.
func Load(configPath string) (AppConfig, error) {
	// Best effort, running without a .env file is the normal case
	_ = godotenv.Load()

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return AppConfig{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	// FORTRESS_SERVER__PORT -> server.port
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the server cannot run without.
func (c AppConfig) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required (FORTRESS_JWT__SECRET)")
	}
	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("jwt.refresh_secret is required (FORTRESS_JWT__REFRESH_SECRET)")
	}
	if c.JWT.Secret == c.JWT.RefreshSecret {
		return fmt.Errorf("jwt.secret and jwt.refresh_secret must differ")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}
