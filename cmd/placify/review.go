package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/server"
	"github.com/spf13/cobra"
)

var (
	reviewResume     string
	reviewJob        string
	reviewConfigPath string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Ask the LLM to review a resume against a job description",
	Long: `Ask Gemini for a score, recommendations and missing keywords.

Requires GEMINI_API_KEY. When DATABASE_URL is set, reviews are cached in
PostgreSQL and repeated requests are answered from the cache.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewResume, "resume", "", "Path to the resume file (required)")
	reviewCmd.Flags().StringVar(&reviewJob, "job", "", "Path to the job description file (required)")
	reviewCmd.Flags().StringVar(&reviewConfigPath, "config", "", "Path to a JSON service config file")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(reviewConfigPath)
	if err != nil {
		return err
	}
	if !cfg.ReviewEnabled() {
		return server.ErrReviewDisabled
	}

	resume, err := readText("resume", reviewResume)
	if err != nil {
		return err
	}
	job, err := readText("job", reviewJob)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = server.OpenDatabase(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	reviewer, closeClient, err := server.NewReviewer(ctx, cfg, database, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	result, err := reviewer.Review(ctx, resume, job)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
