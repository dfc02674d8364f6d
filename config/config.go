// Package config loads the console configuration from an optional YAML
// file plus BACKOFFICE_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full console configuration.
type Config struct {
	Listen  string        `mapstructure:"listen"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig locates the remote bakery API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig selects and parameterizes the session store backend.
type SessionConfig struct {
	Backend string      `mapstructure:"backend"`
	File    string      `mapstructure:"file"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig parameterizes the redis session backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load reads configuration from path (optional; defaults apply without a
// file) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":8080")
	v.SetDefault("api.base_url", "http://127.0.0.1:8000/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.file", "backoffice-auth.json")
	v.SetDefault("session.redis.addr", "127.0.0.1:6379")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("session.redis.prefix", "backoffice")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	switch cfg.Session.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url required")
	}

	return &cfg, nil
}
