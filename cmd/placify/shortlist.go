package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jonathan/placify/internal/ingestion"
	"github.com/jonathan/placify/internal/shortlist"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	shortlistJob         string
	shortlistDir         string
	shortlistMinScore    int
	shortlistLimit       int
	shortlistConcurrency int
	shortlistConfigPath  string
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Rank every resume in a directory against one job description",
	Long: `Score each resume file in --dir with the rule-based scorer and print them
ranked by score. Candidate ids are file names. Files of unsupported types
are skipped with a warning.`,
	RunE: runShortlist,
}

func init() {
	shortlistCmd.Flags().StringVar(&shortlistJob, "job", "", "Path to the job description file (required)")
	shortlistCmd.Flags().StringVar(&shortlistDir, "dir", "", "Directory of resume files (required)")
	shortlistCmd.Flags().IntVar(&shortlistMinScore, "min-score", 0, "Lowest score that is shortlisted")
	shortlistCmd.Flags().IntVar(&shortlistLimit, "limit", 0, "Print at most this many candidates (0 prints all)")
	shortlistCmd.Flags().IntVar(&shortlistConcurrency, "concurrency", 0, "Parallel scorers (0 uses GOMAXPROCS)")
	shortlistCmd.Flags().StringVar(&shortlistConfigPath, "config", "", "Path to a JSON file of scoring tunables (env ATS_SCORING_CONFIG)")
	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, _ []string) error {
	if shortlistDir == "" {
		return fmt.Errorf("--dir is required")
	}
	job, err := readText("job", shortlistJob)
	if err != nil {
		return err
	}
	scorer, err := loadScorer(shortlistConfigPath)
	if err != nil {
		return err
	}
	candidates, err := loadCandidates(shortlistDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := shortlist.Rank(ctx, scorer, job, candidates, shortlist.Options{
		MinScore:    shortlistMinScore,
		Limit:       shortlistLimit,
		Concurrency: shortlistConcurrency,
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), map[string]any{"results": results})
}

// loadCandidates reads the regular, non-hidden files of dir in name order.
func loadCandidates(dir string) ([]shortlist.Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	candidates := make([]shortlist.Candidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		text, _, err := ingestion.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			var unsupported *ingestion.UnsupportedTypeError
			if errors.As(err, &unsupported) {
				logger.Warn("skipping resume", zap.String("file", entry.Name()), zap.Error(err))
				continue
			}
			return nil, err
		}
		candidates = append(candidates, shortlist.Candidate{ID: entry.Name(), ResumeText: text})
	}
	logger.Debug("loaded candidates", zap.Int("count", len(candidates)), zap.String("dir", dir))
	return candidates, nil
}
