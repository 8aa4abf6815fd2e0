// Package config resolves CLI settings from flags, KEYBOARD_* environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. KEYBOARD_REDIS_URL.
const EnvPrefix = "KEYBOARD"

// Config holds the settings of the keyboard CLI.
type Config struct {
	// Menu is the YAML or JSON menu document.
	Menu string `mapstructure:"menu"`

	Log   LogConfig   `mapstructure:"log"`
	Redis RedisConfig `mapstructure:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RedisConfig enables the shared session store. An empty URL keeps sessions in memory.
type RedisConfig struct {
	URL    string        `mapstructure:"url"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
	Lock   bool          `mapstructure:"lock"`
}

// HTTPConfig configures "keyboard serve".
type HTTPConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"menu":         "menu",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"redis-url":    "redis.url",
	"redis-prefix": "redis.prefix",
	"redis-ttl":    "redis.ttl",
	"redis-lock":   "redis.lock",
	"addr":         "http.addr",
	"metrics":      "http.metrics",
}

func defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("redis.prefix", "keyboard:")
	v.SetDefault("redis.lock", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.metrics", true)
}

// Load resolves the configuration. flags may be nil; only flags that exist in
// the set are bound. file may be empty.
func Load(flags *pflag.FlagSet, file string) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only answers keys viper already knows about.
	for _, key := range flagKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.Log.Format)
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis ttl must not be negative")
	}
	return nil
}
