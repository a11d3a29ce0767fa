// Package config resolves settings from defaults, an optional YAML file,
// .env and MBADMIN_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyAPIURL         = "api_url"
	KeyTimeout        = "timeout"
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyPageSize       = "table.page_size"
	KeyMetricsAddr    = "metrics.addr"
)

// Config is the resolved configuration.
type Config struct {
	APIURL   string
	Timeout  time.Duration
	Storage  StorageConfig
	Log      LogConfig
	PageSize int
	// MetricsAddr enables the /metrics endpoint when non-empty.
	MetricsAddr string
	// File is the config file that was read, if any.
	File string
}

type StorageConfig struct {
	Backend string
	Path    string
}

type LogConfig struct {
	Level string
	File  string
}

// Dir returns ~/.mbadmin.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mbadmin"
	}
	return filepath.Join(home, ".mbadmin")
}

// NewViper returns a viper instance with defaults and environment binding
// applied. Flags are bound by the caller before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MBADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, "http://localhost:3000")
	v.SetDefault(KeyTimeout, "10s")
	v.SetDefault(KeyStorageBackend, "file")
	v.SetDefault(KeyStoragePath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, filepath.Join(Dir(), "mbadmin.log"))
	v.SetDefault(KeyPageSize, 10)
	v.SetDefault(KeyMetricsAddr, "")
	return v
}

// Load reads .env, the config file (cfgFile, or config.yaml in . and
// ~/.mbadmin) and returns the validated configuration.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		APIURL:  strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		Timeout: v.GetDuration(KeyTimeout),
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString(KeyStorageBackend)),
			Path:    v.GetString(KeyStoragePath),
		},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
		},
		PageSize:    v.GetInt(KeyPageSize),
		MetricsAddr: v.GetString(KeyMetricsAddr),
		File:        v.ConfigFileUsed(),
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath(cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultStoragePath(backend string) string {
	if backend == "sqlite" {
		return filepath.Join(Dir(), "storage.db")
	}
	return filepath.Join(Dir(), "storage.json")
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute http(s) URL, got %q", KeyAPIURL, c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: %s must be positive", KeyTimeout)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: %s must be at least 1", KeyPageSize)
	}
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("config: %s must be file, sqlite or memory, got %q", KeyStorageBackend, c.Storage.Backend)
	}
	return nil
}
