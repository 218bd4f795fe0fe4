// Package review asks an LLM for an ATS-style review of a resume against a
// job description. Answers are schema-checked and optionally cached.
package review

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"strings"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/logging"
	"github.com/jonathan/placify/internal/prompts"
	"github.com/jonathan/placify/internal/schemas"
	"go.uber.org/zap"
)

const promptKey = "ats_review"

// Review is the model's assessment of a resume.
type Review struct {
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
	MissingKeywords []string `json:"missingKeywords"`
	Model           string   `json:"model"`
	Cached          bool     `json:"cached"`
}

// Cache stores serialized reviews by key.
type Cache interface {
	GetReview(ctx context.Context, key string) ([]byte, bool, error)
	PutReview(ctx context.Context, key, model string, payload []byte) error
}

// Reviewer produces reviews. It is safe for concurrent use.
type Reviewer struct {
	client llm.Client
	tier   llm.ModelTier
	cache  Cache
	logger *zap.Logger
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(r *Reviewer) { r.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reviewer) { r.logger = l }
}

// WithTier selects the model tier. The default is llm.TierStandard.
func WithTier(t llm.ModelTier) Option {
	return func(r *Reviewer) { r.tier = t }
}

// New creates a Reviewer backed by client.
func New(client llm.Client, opts ...Option) *Reviewer {
	r := &Reviewer{client: client, tier: llm.TierStandard}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.Component(r.logger, "review")
	return r
}

// Model returns the model that serves reviews.
func (r *Reviewer) Model() string {
	return r.client.Model(r.tier)
}

// CacheKey identifies a review of resume against jobDescription by model.
func CacheKey(model, resume, jobDescription string) string {
	h := sha256.New()
	for _, part := range []string{model, resume, jobDescription} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Review scores resume against jobDescription. Cache failures are logged
// and otherwise ignored.
func (r *Reviewer) Review(ctx context.Context, resume, jobDescription string) (*Review, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, &ats.InvalidInputError{Field: "resumeText", Reason: "must not be empty"}
	}

	model := r.Model()
	key := CacheKey(model, resume, jobDescription)
	log := logging.WithFields(r.logger, logging.StringFields(
		logging.StringField{Key: logging.FieldModel, Value: model},
		logging.StringField{Key: logging.FieldCacheKey, Value: key[:12]},
	)...)

	if cached := r.lookup(ctx, log, key); cached != nil {
		return cached, nil
	}

	prompt, err := prompts.Render(prompts.ReviewFile, promptKey, struct {
		Resume         string
		JobDescription string
	}{resume, jobDescription})
	if err != nil {
		return nil, err
	}

	log.Debug("requesting review", zap.Int("prompt_chars", len(prompt)))
	raw, err := r.client.GenerateJSON(ctx, prompt, r.tier)
	if err != nil {
		return nil, &APICallError{Model: model, Cause: err}
	}

	res, err := decode(raw)
	if err != nil {
		log.Warn("model returned invalid review",
			zap.Error(err),
			zap.String("payload", logging.TruncateForLog(raw, 200)))
		return nil, err
	}
	res.Model = model

	r.store(ctx, log, key, model, res)
	return res, nil
}

func (r *Reviewer) lookup(ctx context.Context, log *zap.Logger, key string) *Review {
	if r.cache == nil {
		return nil
	}
	payload, ok, err := r.cache.GetReview(ctx, key)
	if err != nil {
		log.Warn("review cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var res Review
	if err := json.Unmarshal(payload, &res); err != nil {
		log.Warn("discarding corrupt cached review", zap.Error(err))
		return nil
	}
	res.Cached = true
	log.Debug("review cache hit")
	return &res
}

func (r *Reviewer) store(ctx context.Context, log *zap.Logger, key, model string, res *Review) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		log.Warn("failed to encode review for cache", zap.Error(err))
		return
	}
	if err := r.cache.PutReview(ctx, key, model, payload); err != nil {
		log.Warn("review cache write failed", zap.Error(err))
	}
}

// decode validates a raw model answer and normalizes it.
func decode(raw string) (*Review, error) {
	payload := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Review, payload); err != nil {
		return nil, &ParseError{Payload: payload, Cause: err}
	}

	var body struct {
		Score           float64  `json:"score"`
		Recommendations []string `json:"recommendations"`
		MissingKeywords []string `json:"missingKeywords"`
	}
	if err := json.Unmarshal([]byte(payload), &body); err != nil {
		return nil, &ParseError{Payload: payload, Cause: err}
	}

	res := &Review{
		Score:           int(math.Round(math.Max(0, math.Min(100, body.Score)))),
		Recommendations: nonNil(body.Recommendations),
		MissingKeywords: nonNil(body.MissingKeywords),
	}
	return res, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
