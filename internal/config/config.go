// Package config loads server settings from defaults, an optional YAML file
// and PERSONAS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PERSONAS_DB_PATH.
const EnvPrefix = "PERSONAS"

// Config holds the runtime settings.
type Config struct {
	Port        int           `mapstructure:"port"`
	DBPath      string        `mapstructure:"db_path"`
	LogLevel    string        `mapstructure:"log_level"`
	CatalogPath string        `mapstructure:"catalog_path"`
	ShareSecret string        `mapstructure:"share_secret"`
	ShareTTL    time.Duration `mapstructure:"share_ttl"`
	CacheSize   int           `mapstructure:"cache_size"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:      8080,
		DBPath:    "./data/personas.db",
		LogLevel:  "info",
		ShareTTL:  72 * time.Hour,
		CacheSize: 128,
	}
}

// New returns a viper instance with defaults and environment binding
// applied. Commands bind their flags onto it before calling Decode.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("port", d.Port)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("catalog_path", d.CatalogPath)
	v.SetDefault("share_secret", d.ShareSecret)
	v.SetDefault("share_ttl", d.ShareTTL)
	v.SetDefault("cache_size", d.CacheSize)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path and decodes the result.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.ShareTTL <= 0 {
		errs = append(errs, fmt.Errorf("share_ttl must be positive, got %s", c.ShareTTL))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
