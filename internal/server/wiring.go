package server

import (
	"context"
	"fmt"

	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/llm"
	"github.com/jonathan/placify/internal/logging"
	"github.com/jonathan/placify/internal/review"
	"go.uber.org/zap"
)

// OpenDatabase connects, applies the schema and prunes expired reviews.
func OpenDatabase(ctx context.Context, databaseURL string, logger *zap.Logger) (*db.DB, error) {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	logger.Info("database ready")
	return database, nil
}

// NewReviewer builds the LLM reviewer from cfg. A non-nil database enables
// the review cache. The returned func releases the LLM client.
func NewReviewer(ctx context.Context, cfg *config.Config, database *db.DB, logger *zap.Logger) (*review.Reviewer, func(), error) {
	llmConfig := llm.DefaultConfig()
	if cfg.GeminiModel != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.GeminiModel)
	}

	client, err := llm.NewGeminiClient(ctx, llmConfig, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close LLM client", zap.Error(err))
		}
	}

	opts := []review.Option{
		review.WithLogger(logging.Component(logger, "review")),
	}
	if database != nil {
		ttl, err := cfg.CacheTTL()
		if err != nil {
			closeClient()
			return nil, nil, err
		}
		cache := db.NewReviewCache(database, ttl)
		if removed, err := cache.Prune(ctx); err != nil {
			logger.Warn("failed to prune review cache", zap.Error(err))
		} else if removed > 0 {
			logger.Info("pruned expired reviews", zap.Int64("removed", removed))
		}
		opts = append(opts, review.WithCache(cache))
	}

	reviewer := review.New(client, opts...)
	logger.Info("LLM review enabled", zap.String(logging.FieldModel, reviewer.Model()))
	return reviewer, closeClient, nil
}
