package main

import (
	"os"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/similarity"
	"github.com/spf13/cobra"
)

var (
	scoreResume     string
	scoreJob        string
	scoreConfigPath string

	similarityA string
	similarityB string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Long: `Score a resume with the rule-based ATS scorer: keywords, experience,
education and format, weighted into a 0-100 match score.

Resumes and job descriptions may be plain text, markdown or HTML files.`,
	RunE: runScore,
}

var quickScoreCmd = &cobra.Command{
	Use:   "quick-score",
	Short: "Score a resume with the four-category keyword scorer",
	RunE:  runQuickScore,
}

var similarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Compare two texts with TF-IDF cosine and edit distance",
	RunE:  runSimilarity,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreResume, "resume", "", "Path to the resume file (required)")
	scoreCmd.Flags().StringVar(&scoreJob, "job", "", "Path to the job description file")
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to a JSON file of scoring tunables (env ATS_SCORING_CONFIG)")

	quickScoreCmd.Flags().StringVar(&scoreResume, "resume", "", "Path to the resume file (required)")
	quickScoreCmd.Flags().StringVar(&scoreJob, "job", "", "Path to the job description file")

	similarityCmd.Flags().StringVar(&similarityA, "a", "", "Path to the first text (required)")
	similarityCmd.Flags().StringVar(&similarityB, "b", "", "Path to the second text (required)")

	rootCmd.AddCommand(scoreCmd, quickScoreCmd, similarityCmd)
}

// readPair reads the resume and, when given, the job description.
func readPair() (string, string, error) {
	resume, err := readText("resume", scoreResume)
	if err != nil {
		return "", "", err
	}
	if scoreJob == "" {
		return resume, "", nil
	}
	job, err := readText("job", scoreJob)
	if err != nil {
		return "", "", err
	}
	return resume, job, nil
}

func loadScorer(path string) (*ats.Scorer, error) {
	if path == "" {
		path = os.Getenv("ATS_SCORING_CONFIG")
	}
	cfg, err := ats.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ats.New(cfg)
}

func runScore(cmd *cobra.Command, _ []string) error {
	scorer, err := loadScorer(scoreConfigPath)
	if err != nil {
		return err
	}
	resume, job, err := readPair()
	if err != nil {
		return err
	}

	result, err := scorer.Score(resume, job)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func runQuickScore(cmd *cobra.Command, _ []string) error {
	resume, job, err := readPair()
	if err != nil {
		return err
	}

	result, err := ats.QuickScore(resume, job)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func runSimilarity(cmd *cobra.Command, _ []string) error {
	a, err := readText("a", similarityA)
	if err != nil {
		return err
	}
	b, err := readText("b", similarityB)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), similarity.Compare(a, b))
}
