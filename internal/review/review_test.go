package review

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClient struct {
	response string
	err      error
	calls    int
	prompts  []string
	tiers    []llm.ModelTier
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeClient) Model(tier llm.ModelTier) string { return "test-model-" + string(tier) }
func (f *fakeClient) Close() error                    { return nil }

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	putErr  error
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) GetReview(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *memoryCache) PutReview(_ context.Context, key, _ string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[key] = payload
	return nil
}

const validAnswer = "```json\n{\"score\": 78, \"recommendations\": [\"Quantify impact\"], \"missingKeywords\": [\"kubernetes\"]}\n```"

func TestReview_Success(t *testing.T) {
	client := &fakeClient{response: validAnswer}
	r := New(client)

	res, err := r.Review(context.Background(), "Go developer resume", "Go and Kubernetes role")
	require.NoError(t, err)

	assert.Equal(t, 78, res.Score)
	assert.Equal(t, []string{"Quantify impact"}, res.Recommendations)
	assert.Equal(t, []string{"kubernetes"}, res.MissingKeywords)
	assert.Equal(t, "test-model-standard", res.Model)
	assert.False(t, res.Cached)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Resume:\nGo developer resume")
	assert.Contains(t, client.prompts[0], "Job Description:\nGo and Kubernetes role")
	assert.Equal(t, llm.TierStandard, client.tiers[0])
}

func TestReview_Tier(t *testing.T) {
	client := &fakeClient{response: validAnswer}
	r := New(client, WithTier(llm.TierAdvanced))

	res, err := r.Review(context.Background(), "resume", "job")
	require.NoError(t, err)
	assert.Equal(t, "test-model-advanced", res.Model)
	assert.Equal(t, llm.TierAdvanced, client.tiers[0])
}

func TestReview_ScoreClamped(t *testing.T) {
	tests := []struct {
		answer string
		want   int
	}{
		{`{"score": 140, "recommendations": [], "missingKeywords": []}`, 100},
		{`{"score": -3, "recommendations": [], "missingKeywords": []}`, 0},
		{`{"score": 66.6, "recommendations": [], "missingKeywords": []}`, 67},
	}
	for _, tt := range tests {
		res, err := New(&fakeClient{response: tt.answer}).Review(context.Background(), "resume", "job")
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Score)
		assert.NotNil(t, res.Recommendations)
		assert.NotNil(t, res.MissingKeywords)
	}
}

func TestReview_ParseError(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"not json", "I think the resume is good"},
		{"missing field", `{"score": 50, "recommendations": []}`},
		{"wrong type", `{"score": "high", "recommendations": [], "missingKeywords": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&fakeClient{response: tt.answer}).Review(context.Background(), "resume", "job")

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			var validationErr *schemas.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestReview_APICallError(t *testing.T) {
	cause := errors.New("quota exceeded")
	_, err := New(&fakeClient{err: cause}).Review(context.Background(), "resume", "job")

	var apiErr *APICallError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "test-model-standard", apiErr.Model)
	assert.ErrorIs(t, err, cause)
}

func TestReview_EmptyResume(t *testing.T) {
	client := &fakeClient{response: validAnswer}
	_, err := New(client).Review(context.Background(), "   ", "job")

	var invalid *ats.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "resumeText", invalid.Field)
	assert.Zero(t, client.calls)
}

func TestReview_CacheHit(t *testing.T) {
	client := &fakeClient{response: validAnswer}
	cache := newMemoryCache()
	r := New(client, WithCache(cache))

	first, err := r.Review(context.Background(), "resume", "job")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := r.Review(context.Background(), "resume", "job")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.MissingKeywords, second.MissingKeywords)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, 1, cache.puts)
}

func TestReview_CacheFailuresNotFatal(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.putErr = errors.New("connection refused")

	client := &fakeClient{response: validAnswer}
	res, err := New(client, WithCache(cache), WithLogger(zap.New(core))).
		Review(context.Background(), "resume", "job")
	require.NoError(t, err)
	assert.Equal(t, 78, res.Score)

	assert.Equal(t, 1, observed.FilterMessage("review cache lookup failed").Len())
	assert.Equal(t, 1, observed.FilterMessage("review cache write failed").Len())
}

func TestReview_CorruptCacheEntry(t *testing.T) {
	client := &fakeClient{response: validAnswer}
	cache := newMemoryCache()
	r := New(client, WithCache(cache))
	cache.entries[CacheKey(r.Model(), "resume", "job")] = []byte("{not json")

	res, err := r.Review(context.Background(), "resume", "job")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 1, client.calls)
}

func TestCacheKey(t *testing.T) {
	k := CacheKey("m", "resume", "job")
	assert.Len(t, k, 64)
	assert.Equal(t, k, CacheKey("m", "resume", "job"))
	assert.NotEqual(t, k, CacheKey("other", "resume", "job"))
	// field boundaries are part of the key
	assert.NotEqual(t, CacheKey("m", "ab", "c"), CacheKey("m", "a", "bc"))
}
