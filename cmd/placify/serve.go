package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the scoring endpoints.

Configuration comes from an optional JSON file (--config) overridden by the
environment: PORT, DATABASE_URL, GEMINI_API_KEY, GEMINI_MODEL,
ATS_SCORING_CONFIG, MAX_UPLOAD_BYTES, SHORTLIST_CONCURRENCY, MAX_SHORTLIST,
REVIEW_CACHE_TTL and the RATE_LIMIT_* variables. Without GEMINI_API_KEY the
review endpoint answers 503; without DATABASE_URL reviews are not cached.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON service config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(ctx)
}
