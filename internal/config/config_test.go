package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, ttl)
	assert.False(t, cfg.ReviewEnabled())
	assert.Equal(t, 2000, cfg.MaxEditRunes)
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, `{
		"port": 9090,
		"gemini_model": "gemini-2.5-pro",
		"shortlist_concurrency": 4,
		"debug": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, 4, cfg.ShortlistConcurrency)
	assert.True(t, cfg.Debug)
	// untouched fields keep defaults
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, `{ invalid json }`))
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":                  "3000",
		"DATABASE_URL":          "postgres://localhost/placify",
		"GEMINI_KEY":            "legacy-key",
		"MAX_UPLOAD_BYTES":      "1024",
		"SHORTLIST_CONCURRENCY": "8",
		"MAX_EDIT_RUNES":        "500",
		"REVIEW_CACHE_TTL":      "1h",
		"LOG_JSON":              "true",
		"DEBUG":                 "",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "postgres://localhost/placify", cfg.DatabaseURL)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, 8, cfg.ShortlistConcurrency)
	assert.Equal(t, 500, cfg.MaxEditRunes)
	assert.Equal(t, "1h", cfg.ReviewCacheTTL)
	assert.True(t, cfg.LogJSON)
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.ReviewEnabled())
}

func TestApplyEnv_PrimaryKeyWins(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"GEMINI_API_KEY": "primary",
		"GEMINI_KEY":     "legacy",
	})))
	assert.Equal(t, "primary", cfg.GeminiAPIKey)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":     "eighty",
		"LOG_JSON": "maybe",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "LOG_JSON")
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port too high", func(c *Config) { c.Port = 70000 }, "'Port' failed on 'max'"},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, "'MaxUploadBytes' failed on 'min'"},
		{"negative concurrency", func(c *Config) { c.ShortlistConcurrency = -1 }, "'ShortlistConcurrency'"},
		{"negative edit runes", func(c *Config) { c.MaxEditRunes = -1 }, "'MaxEditRunes' failed on 'min'"},
		{"bad ttl", func(c *Config) { c.ReviewCacheTTL = "soon" }, "review_cache_ttl"},
		{"negative ttl", func(c *Config) { c.ReviewCacheTTL = "-1h" }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(writeFile(t, `{"port": 9090, "max_shortlist": 10}`))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, 10, cfg.MaxShortlist)

	t.Setenv("PORT", "0")
	_, err = Load("")
	assert.Error(t, err)
}
