// Package shortlist ranks many resumes against one job description.
package shortlist

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/jonathan/placify/internal/ats"
	"golang.org/x/sync/errgroup"
)

// Scorer scores one resume against a job description.
type Scorer interface {
	Score(resume, jobDescription string) (*ats.MatchResult, error)
}

// Candidate is a resume to rank.
type Candidate struct {
	ID         string `json:"id"`
	ResumeText string `json:"resumeText"`
}

// Ranked is a scored candidate. Rank is 1-based.
type Ranked struct {
	ID          string      `json:"id"`
	Rank        int         `json:"rank"`
	Score       int         `json:"score"`
	Details     ats.Details `json:"details"`
	Shortlisted bool        `json:"shortlisted"`
}

// Options control ranking.
type Options struct {
	// MinScore is the lowest score that is shortlisted.
	MinScore int
	// Limit truncates the result when positive.
	Limit int
	// Concurrency bounds parallel scoring; zero uses GOMAXPROCS.
	Concurrency int
}

// ValidationError reports unusable input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (o Options) validate() error {
	switch {
	case o.MinScore < 0 || o.MinScore > 100:
		return &ValidationError{Field: "minScore", Message: "must be between 0 and 100"}
	case o.Limit < 0:
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	case o.Concurrency < 0:
		return &ValidationError{Field: "concurrency", Message: "must not be negative"}
	}
	return nil
}

func validateCandidates(candidates []Candidate) error {
	seen := make(map[string]struct{}, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("candidates[%d].id", i), Message: "must not be empty"}
		}
		if _, dup := seen[c.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("candidates[%d].id", i), Message: fmt.Sprintf("duplicate id %q", c.ID)}
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// Rank scores every candidate against jobDescription, orders them by score
// descending then id ascending, and marks those at or above MinScore.
// The first scoring error cancels the remaining work.
func Rank(ctx context.Context, scorer Scorer, jobDescription string, candidates []Candidate, opts Options) ([]Ranked, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}

	limit := opts.Concurrency
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]Ranked, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := scorer.Score(c.ResumeText, jobDescription)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", c.ID, err)
			}
			results[i] = Ranked{
				ID:          c.ID,
				Score:       res.Score,
				Details:     res.Details,
				Shortlisted: res.Score >= opts.MinScore,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].ID < results[b].ID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}
