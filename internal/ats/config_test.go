package ats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	path := writeConfig(t, `{"weights": {"keyword": 0.5}, "recommendation_threshold": 60}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Weights.Keyword)
	assert.Equal(t, 0.30, cfg.Weights.Experience)
	assert.Equal(t, 60.0, cfg.RecommendationThreshold)
	assert.Equal(t, DefaultConfig().Vocabulary, cfg.Vocabulary)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"weight out of range", `{"weights": {"keyword": 2}}`},
		{"bad match mode", `{"list_match": "fuzzy"}`},
		{"bad group", `{"vocabulary": {"categories": [{"name": "x", "group": "misc", "terms": ["a"]}]}}`},
		{"empty terms", `{"vocabulary": {"categories": [{"name": "x", "group": "soft", "terms": []}]}}`},
		{"word limits out of order", `{"format": {"thin_words": 50}}`},
		{"malformed json", `{"weights": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultVocabulary_Copy(t *testing.T) {
	v := DefaultVocabulary()
	v.Categories[0].Terms[0] = "mutated"

	assert.NotEqual(t, "mutated", DefaultVocabulary().Categories[0].Terms[0])
}

func TestVocabulary_GroupTerms(t *testing.T) {
	v := Vocabulary{Categories: []Category{
		{Name: "a", Group: GroupSoft, Terms: []string{"x"}},
		{Name: "b", Group: GroupCritical, Terms: []string{"y", "z"}},
		{Name: "c", Group: GroupSoft, Terms: []string{"x"}},
	}}

	assert.Equal(t, []string{"x", "x"}, v.GroupTerms(GroupSoft))
	assert.Equal(t, []string{"y", "z", "x", "x"}, v.Terms())
	assert.Empty(t, v.GroupTerms(GroupTechnical))
}
