// Package main provides the placify command: resume scoring from the
// command line and as an HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/placify/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logJSON  bool
	logDebug bool

	// logger is built in the root PersistentPreRunE.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "placify",
	Short: "Resume match scoring for applicant tracking",
	Long: `Placify rates resumes against job descriptions with a rule-based ATS scorer,
a quick keyword scorer, a TF-IDF similarity scorer and an optional LLM review.
Results are printed as JSON; logs go to stderr.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "Enable debug logging")
}

func setupLogger(_ *cobra.Command, _ []string) error {
	l, err := logging.New(logJSON || envBool("LOG_JSON"), logDebug || envBool("DEBUG"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	return nil
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	}
	return false
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
