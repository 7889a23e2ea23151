// Package config resolves application settings from flags, config files,
// the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyAPIBaseURL       = "api.base_url"
	KeyAPITimeout       = "api.timeout"
	KeyAPICACert        = "api.ca_cert"
	KeyProgressInterval = "progress.interval"
	KeyReportDir        = "report.dir"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
)

// EnvPrefix is prepended to every environment override, e.g.
// AGRICARBON_API_BASE_URL.
const EnvPrefix = "AGRICARBON"

// Config is the resolved application configuration.
type Config struct {
	APIBaseURL       string
	APICACert        string
	ReportDir        string
	LogLevel         string
	LogFormat        string
	APITimeout       time.Duration
	ProgressInterval time.Duration
}

// SetDefaults registers default values and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, "http://localhost:8000")
	v.SetDefault(KeyAPITimeout, 90*time.Second)
	v.SetDefault(KeyProgressInterval, 500*time.Millisecond)
	v.SetDefault(KeyReportDir, ".")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(ExpandPath(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIBaseURL:       strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/"),
		APICACert:        ExpandPath(v.GetString(KeyAPICACert)),
		APITimeout:       v.GetDuration(KeyAPITimeout),
		ProgressInterval: v.GetDuration(KeyProgressInterval),
		ReportDir:        ExpandPath(v.GetString(KeyReportDir)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyAPIBaseURL)
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", common.ErrInvalidConfig, KeyAPIBaseURL, c.APIBaseURL)
	}

	if c.APITimeout < 0 {
		return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyAPITimeout)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyProgressInterval)
	}

	return nil
}

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
