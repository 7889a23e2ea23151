package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 90*time.Second, cfg.APITimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ProgressInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("AGRICARBON_API_BASE_URL", "https://carbon.example.com/")
	t.Setenv("AGRICARBON_PROGRESS_INTERVAL", "250ms")
	t.Setenv("AGRICARBON_API_CA_CERT", "$HOME/certs/localhost.crt")
	t.Setenv("HOME", "/home/farmer")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://carbon.example.com", cfg.APIBaseURL, "trailing slash is trimmed")
	assert.Equal(t, 250*time.Millisecond, cfg.ProgressInterval)
	assert.Equal(t, "/home/farmer/certs/localhost.crt", cfg.APICACert)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		want  error
		name  string
		key   string
		value any
	}{
		{name: "empty url", key: KeyAPIBaseURL, value: "", want: common.ErrMissingConfig},
		{name: "no scheme", key: KeyAPIBaseURL, value: "localhost:8000", want: common.ErrInvalidConfig},
		{name: "ftp scheme", key: KeyAPIBaseURL, value: "ftp://example.com", want: common.ErrInvalidConfig},
		{name: "zero interval", key: KeyProgressInterval, value: 0, want: common.ErrInvalidConfig},
		{name: "negative timeout", key: KeyAPITimeout, value: -time.Second, want: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AGRICARBON_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("AGRICARBON_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("AGRICARBON_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("AGRICARBON_TEST_DOTENV"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("AGRICARBON_TEST_DIR", "/srv/reports")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "reports"), ExpandPath("~/reports"))
	assert.Equal(t, "/srv/reports/out", ExpandPath("$AGRICARBON_TEST_DIR/out"))
}
