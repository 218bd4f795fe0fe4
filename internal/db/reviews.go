package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultReviewTTL is how long a cached review stays valid.
const DefaultReviewTTL = 7 * 24 * time.Hour

// ReviewCache stores LLM review payloads in ats_review_cache.
type ReviewCache struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

// NewReviewCache returns a cache whose entries expire after ttl.
// A non-positive ttl selects DefaultReviewTTL.
func NewReviewCache(db *DB, ttl time.Duration) *ReviewCache {
	if ttl <= 0 {
		ttl = DefaultReviewTTL
	}
	return &ReviewCache{db: db, ttl: ttl, now: time.Now}
}

func (c *ReviewCache) cutoff() time.Time {
	return c.now().Add(-c.ttl)
}

// GetReview returns the payload stored under key if it has not expired.
func (c *ReviewCache) GetReview(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := c.db.pool.QueryRow(ctx,
		`SELECT payload FROM ats_review_cache WHERE cache_key = $1 AND created_at > $2`,
		key, c.cutoff(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached review: %w", err)
	}
	return payload, true, nil
}

// PutReview stores payload under key, replacing any earlier entry.
func (c *ReviewCache) PutReview(ctx context.Context, key, model string, payload []byte) error {
	_, err := c.db.pool.Exec(ctx,
		`INSERT INTO ats_review_cache (cache_key, model, payload)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (cache_key) DO UPDATE SET model = $2, payload = $3, created_at = NOW()`,
		key, model, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save cached review: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *ReviewCache) Prune(ctx context.Context) (int64, error) {
	tag, err := c.db.pool.Exec(ctx,
		`DELETE FROM ats_review_cache WHERE created_at <= $1`,
		c.cutoff(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune review cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
