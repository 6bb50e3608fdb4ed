// Package config loads runtime settings from defaults, an optional config
// file, DISCMAN_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DISCMAN"

// Keys.
const (
	KeyDatabase    = "database"
	KeyLogLevel    = "log_level"
	KeyFormat      = "format"
	KeyListen      = "listen"
	KeyCORSOrigins = "cors_origins"
)

// Config holds every runtime setting.
type Config struct {
	Database    string   `mapstructure:"database"`
	LogLevel    string   `mapstructure:"log_level"`
	Format      string   `mapstructure:"format"`
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:    "discman.db",
		LogLevel:    "info",
		Format:      "text",
		Listen:      ":8080",
		CORSOrigins: []string{"*"},
	}
}

// Load builds a Config. path names an optional config file (any format
// viper reads); an empty path skips it. Flags in fs whose names match a key,
// with dashes for underscores, override everything else when set.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyDatabase, def.Database)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyFormat, def.Format)
	v.SetDefault(KeyListen, def.Listen)
	v.SetDefault(KeyCORSOrigins, def.CORSOrigins)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if fs != nil {
		for _, key := range []string{KeyDatabase, KeyLogLevel, KeyFormat, KeyListen, KeyCORSOrigins} {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// ValidFormats are the accepted output formats.
var ValidFormats = []string{"text", "json"}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Database, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("text", "json")),
		validation.Field(&c.Listen, validation.Required),
	)
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger returns a text logger writing to w at the configured level.
// verbose forces debug.
func (c Config) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := c.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
