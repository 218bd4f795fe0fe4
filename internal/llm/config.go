// Package llm wraps the Gemini API behind a small client interface so
// callers can pick a model by capability tier and tests can swap in fakes.
package llm

import "fmt"

// ModelTier selects a model by capability.
type ModelTier string

const (
	// TierLite is for cheap, fast calls.
	TierLite ModelTier = "lite"
	// TierStandard is for structured analysis such as resume reviews.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long, reasoning-heavy prompts.
	TierAdvanced ModelTier = "advanced"
)

// Config holds model selection and generation settings.
type Config struct {
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default Gemini model set.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:     0.1,
		MaxOutputTokens: 2048,
	}
}

// Model returns the model for tier, falling back to the standard then the
// lite model. It returns "" when nothing is configured.
func (c *Config) Model(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if m := c.Models[t]; m != "" {
			return m
		}
	}
	return ""
}

// WithModel returns a copy of c that uses model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return &out
}

// Validate reports configuration that would make every call fail.
func (c *Config) Validate() error {
	if c.Model(TierStandard) == "" {
		return fmt.Errorf("no model configured")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0,2]", c.Temperature)
	}
	return nil
}
