// Package config loads service configuration from a JSON file and the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the service configuration. Environment variables override
// values read from a config file, which override Default.
type Config struct {
	Port                 int    `json:"port" validate:"min=1,max=65535"`
	DatabaseURL          string `json:"database_url,omitempty"`
	GeminiAPIKey         string `json:"gemini_api_key,omitempty"`
	GeminiModel          string `json:"gemini_model,omitempty"`
	ScoringConfigPath    string `json:"scoring_config,omitempty"`
	MaxUploadBytes       int64  `json:"max_upload_bytes" validate:"min=1"`
	ShortlistConcurrency int    `json:"shortlist_concurrency" validate:"min=0,max=256"`
	MaxShortlist         int    `json:"max_shortlist" validate:"min=1"`
	MaxEditRunes         int    `json:"max_edit_runes" validate:"min=0"`
	ReviewCacheTTL       string `json:"review_cache_ttl,omitempty"` // Go duration, e.g. "168h"
	LogJSON              bool   `json:"log_json,omitempty"`
	Debug                bool   `json:"debug,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           8080,
		MaxUploadBytes: 2 << 20,
		MaxShortlist:   200,
		MaxEditRunes:   2000,
		ReviewCacheTTL: "168h",
	}
}

// LoadConfig reads a JSON config file on top of Default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Load builds the configuration from an optional file plus the environment,
// then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fromFile, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *fromFile
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	var errs []error
	integer := func(dst *int, key string) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(dst *bool, key string) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	integer(&c.Port, "PORT")
	str(&c.DatabaseURL, "DATABASE_URL")
	str(&c.GeminiAPIKey, "GEMINI_API_KEY", "GEMINI_KEY")
	str(&c.GeminiModel, "GEMINI_MODEL")
	str(&c.ScoringConfigPath, "ATS_SCORING_CONFIG")
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err))
		} else {
			c.MaxUploadBytes = n
		}
	}
	integer(&c.ShortlistConcurrency, "SHORTLIST_CONCURRENCY")
	integer(&c.MaxShortlist, "MAX_SHORTLIST")
	integer(&c.MaxEditRunes, "MAX_EDIT_RUNES")
	str(&c.ReviewCacheTTL, "REVIEW_CACHE_TTL")
	boolean(&c.LogJSON, "LOG_JSON")
	boolean(&c.Debug, "DEBUG")

	if len(errs) > 0 {
		return fmt.Errorf("config error: invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

var configValidator = validator.New()

// Validate checks field ranges and that the cache TTL parses.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses ReviewCacheTTL. An empty value means zero.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.ReviewCacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ReviewCacheTTL)
	if err != nil {
		return 0, fmt.Errorf("config error: 'review_cache_ttl': %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: 'review_cache_ttl' must not be negative")
	}
	return d, nil
}

// ReviewEnabled reports whether an LLM key is configured.
func (c *Config) ReviewEnabled() bool {
	return c.GeminiAPIKey != ""
}
