// Package config loads tennismetrics settings from a TOML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Duration is a time.Duration that decodes from strings such as "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// Config is the resolved configuration.
type Config struct {
	DataDir  string        `toml:"data_dir"`
	LogLevel string        `toml:"log_level"`
	Cache    CacheConfig   `toml:"cache"`
	Live     LiveConfig    `toml:"live"`
	Analyze  AnalyzeConfig `toml:"analyze"`
}

// CacheConfig sizes the match-table cache. Size 0 disables it.
type CacheConfig struct {
	Size int      `toml:"size"`
	TTL  Duration `toml:"ttl"`
}

// LiveConfig points at the live tennis feed.
type LiveConfig struct {
	APIKey  string   `toml:"api_key"`
	Host    string   `toml:"host"`
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// AnalyzeConfig selects the model used by the analyze command.
type AnalyzeConfig struct {
	Model string `toml:"model"`
}

const (
	DefaultHost  = "tennisapi1.p.rapidapi.com"
	DefaultModel = "claude-haiku-4-5-20251001"
)

// HomeDir returns ~/.tennismetrics, or ./.tennismetrics when the home
// directory cannot be resolved.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".tennismetrics"
	}
	return filepath.Join(home, ".tennismetrics")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.toml")
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:  filepath.Join(HomeDir(), "data"),
		LogLevel: "info",
		Cache:    CacheConfig{Size: 256, TTL: Duration{5 * time.Minute}},
		Live: LiveConfig{
			Host:    DefaultHost,
			Timeout: Duration{15 * time.Second},
		},
		Analyze: AnalyzeConfig{Model: DefaultModel},
	}
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
	}

	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Cache.Size < 0 {
		return Config{}, fmt.Errorf("cache size must be >= 0, got %d", cfg.Cache.Size)
	}
	// An explicit base_url wins; otherwise follow the host.
	if cfg.Live.BaseURL == "" {
		cfg.Live.BaseURL = "https://" + cfg.Live.Host
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TENNIS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TENNIS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TENNIS_API_KEY"); v != "" {
		cfg.Live.APIKey = v
	}
	if v := os.Getenv("TENNIS_API_HOST"); v != "" {
		cfg.Live.Host = v
	}
	if v := os.Getenv("TENNIS_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TENNIS_CACHE_SIZE: %w", err)
		}
		cfg.Cache.Size = n
	}
	return nil
}
