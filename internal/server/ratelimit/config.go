package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Rule limits one endpoint. Paths ending in "/" match by prefix.
type Rule struct {
	Method string
	Path   string
	Limit  int // requests per Window; <= 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity; 0 means Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Default         Rule
	Rules           []Rule
	IdleTTL         time.Duration // buckets unused this long are dropped
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Default:         Rule{Limit: 600, Window: time.Minute},
		Rules:           DefaultRules(),
		IdleTTL:         time.Hour,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
	}
}

// DefaultRules returns the per-endpoint limits. LLM reviews are the
// expensive call; shortlists fan out over many resumes.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "POST", Path: "/ats/review", Limit: 10, Window: time.Hour, Burst: 2},
		{Method: "POST", Path: "/ats/shortlist", Limit: 30, Window: time.Hour, Burst: 5},
		{Method: "POST", Path: "/ats/score/upload", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "GET", Path: "/health", Limit: 0},
	}
}

// FromEnv builds a Config from environment variables found by lookup,
// starting from DefaultConfig. Malformed values are ignored.
func FromEnv(lookup func(string) (string, bool)) *Config {
	cfg := DefaultConfig()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v, err := strconv.ParseBool(get("RATE_LIMIT_ENABLED")); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(get("RATE_LIMIT_DEFAULT_LIMIT")); err == nil {
		cfg.Default.Limit = v
	}
	if v, err := time.ParseDuration(get("RATE_LIMIT_DEFAULT_WINDOW")); err == nil && v > 0 {
		cfg.Default.Window = v
	}
	if v, err := time.ParseDuration(get("RATE_LIMIT_CLEANUP_INTERVAL")); err == nil && v > 0 {
		cfg.CleanupInterval = v
	}
	if v, err := strconv.Atoi(get("RATE_LIMIT_REVIEW_PER_HOUR")); err == nil {
		for i := range cfg.Rules {
			if cfg.Rules[i].Path == "/ats/review" {
				cfg.Rules[i].Limit = v
			}
		}
	}
	cfg.Whitelist = parseIPList(get("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(get("RATE_LIMIT_BLACKLIST"))
	return cfg
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
