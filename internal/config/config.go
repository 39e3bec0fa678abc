package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	ErrInvalidBaseURL  = errors.New("invalid server base url")
	ErrInvalidTimeout  = errors.New("invalid server timeout")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidProxy    = errors.New("invalid proxy address")
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" toml:"server"`
	Database DatabaseConfig `mapstructure:"database" toml:"database"`
	UI       UIConfig       `mapstructure:"ui" toml:"ui"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`
}

// ServerConfig locates the remote user API.
type ServerConfig struct {
	BaseURL       string        `mapstructure:"base_url" toml:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout" toml:"timeout"`
	Proxy         string        `mapstructure:"proxy" toml:"proxy"`
	Authorization string        `mapstructure:"authorization" toml:"authorization"`
}

// DatabaseConfig holds sqlite settings. An empty path disables fetch history.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DefaultUserID uint32 `mapstructure:"default_user_id" toml:"default_user_id"`
	AltScreen     bool   `mapstructure:"alt_screen" toml:"alt_screen"`
}

// LogConfig controls the slog setup. An empty file disables the file handler.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"base-url":  "server.base_url",
	"timeout":   "server.timeout",
	"proxy":     "server.proxy",
	"db":        "database.path",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("base-url", "", "user API base url")
	fs.Duration("timeout", 0, "per-call timeout")
	fs.String("proxy", "", "socks5 or http proxy for non-local servers")
	fs.String("db", "", "fetch history database path")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-file", "", "log file path")
}

// Load reads configuration from defaults, file, env and flags, in increasing
// precedence. Env var overrides use prefix COMPLETEINFO_. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("server.base_url", "http://localhost:8081")
	v.SetDefault("server.timeout", 10*time.Second)
	v.SetDefault("server.proxy", "")
	v.SetDefault("server.authorization", "")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "completeinfo", "completeinfo.db"))
	v.SetDefault("ui.default_user_id", 1)
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "completeinfo", "completeinfo.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("COMPLETEINFO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "completeinfo"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("COMPLETEINFO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate checks the values the client cannot run without.
func (c Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Server.BaseURL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Server.Timeout)
	}
	if c.Server.Proxy != "" {
		if _, err := url.Parse(c.Server.Proxy); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProxy, err)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// Encode writes cfg as TOML. The authorization value is masked.
func Encode(w io.Writer, cfg Config) error {
	if cfg.Server.Authorization != "" {
		cfg.Server.Authorization = "********"
	}
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
