package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/ingestion"
	"github.com/jonathan/placify/internal/server"
	"github.com/jonathan/placify/internal/shortlist"
	"github.com/jonathan/placify/internal/similarity"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	strongResume = `John Smith
Experience
- Developed Python and Go services deployed with Docker and Kubernetes
- Led migration to AWS, reducing costs by 25%
Education
Master of Science in Computer Science
Skills: Python, Go, SQL, Git`
	weakResume = "Retail cashier. Friendly and punctual."
	jobText    = "Senior backend engineer with Python, Go, Kubernetes and AWS experience."
)

// execute runs the root command in-process with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", strongResume)
	job := writeFile(t, dir, "job.txt", jobText)

	out, err := execute(t, "score", "--resume", resume, "--job", job)
	require.NoError(t, err)

	var got ats.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	want, err := ats.Score(ingestion.CleanText(strongResume), ingestion.CleanText(jobText))
	require.NoError(t, err)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Details, got.Details)
}

func TestScoreCommand_WithoutJob(t *testing.T) {
	resume := writeFile(t, t.TempDir(), "resume.md", strongResume)

	out, err := execute(t, "score", "--resume", resume)
	require.NoError(t, err)

	var got ats.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.MissingKeywords)
	assert.Empty(t, got.Matches)
}

func TestScoreCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", strongResume)
	badConfig := writeFile(t, dir, "scoring.json", "{not json")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing resume", []string{"score"}, "--resume is required"},
		{"resume not found", []string{"score", "--resume", filepath.Join(dir, "nope.txt")}, "--resume"},
		{"bad scoring config", []string{"score", "--resume", resume, "--config", badConfig}, "scoring.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestQuickScoreCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", strongResume)
	job := writeFile(t, dir, "job.txt", jobText)

	out, err := execute(t, "quick-score", "--resume", resume, "--job", job)
	require.NoError(t, err)

	var got ats.QuickResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want, err := ats.QuickScore(ingestion.CleanText(strongResume), ingestion.CleanText(jobText))
	require.NoError(t, err)
	assert.Equal(t, want.Score, got.Score)
}

func TestSimilarityCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", jobText)
	b := writeFile(t, dir, "b.txt", jobText)

	out, err := execute(t, "similarity", "--a", a, "--b", b)
	require.NoError(t, err)

	var got similarity.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 1.0, got.Score, 1e-9)

	_, err = execute(t, "similarity", "--a", a)
	assert.ErrorContains(t, err, "--b is required")
}

func TestShortlistCommand(t *testing.T) {
	dir := t.TempDir()
	resumes := filepath.Join(dir, "resumes")
	require.NoError(t, os.Mkdir(resumes, 0o755))
	writeFile(t, resumes, "alice.txt", strongResume)
	writeFile(t, resumes, "bob.txt", weakResume)
	writeFile(t, resumes, "carol.html", "<html><body><p>"+strongResume+"</p></body></html>")
	writeFile(t, resumes, "photo.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	writeFile(t, resumes, ".hidden.txt", strongResume)
	job := writeFile(t, dir, "job.txt", jobText)

	out, err := execute(t, "shortlist", "--job", job, "--dir", resumes, "--min-score", "40", "--concurrency", "2")
	require.NoError(t, err)

	var got struct {
		Results []shortlist.Ranked `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 3)

	last := got.Results[2]
	assert.Equal(t, "bob.txt", last.ID)
	assert.False(t, last.Shortlisted)
	assert.True(t, got.Results[0].Shortlisted)
	assert.Greater(t, got.Results[0].Score, last.Score)

	out, err = execute(t, "shortlist", "--job", job, "--dir", resumes, "--limit", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got.Results, 1)
}

func TestShortlistCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", jobText)

	_, err := execute(t, "shortlist", "--job", job)
	assert.ErrorContains(t, err, "--dir is required")

	_, err = execute(t, "shortlist", "--job", job, "--dir", filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "failed to read directory")

	_, err = execute(t, "shortlist", "--job", job, "--dir", dir, "--min-score", "101")
	var vErr *shortlist.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestReviewCommand_Disabled(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_KEY", "")
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", strongResume)
	job := writeFile(t, dir, "job.txt", jobText)

	_, err := execute(t, "review", "--resume", resume, "--job", job)
	assert.ErrorIs(t, err, server.ErrReviewDisabled)
}

func TestServeCommand_InvalidPort(t *testing.T) {
	_, err := execute(t, "serve", "--port", "70000")
	assert.ErrorContains(t, err, "Port")
}
