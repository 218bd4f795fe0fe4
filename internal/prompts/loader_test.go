package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewData struct {
	Resume         string
	JobDescription string
}

func TestGet_ReviewPrompt(t *testing.T) {
	prompt, err := Get(ReviewFile, "ats_review")
	require.NoError(t, err)
	assert.Contains(t, prompt, "missingKeywords")
	assert.Contains(t, prompt, "{{.Resume}}")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(ReviewFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRender(t *testing.T) {
	out, err := Render(ReviewFile, "ats_review", reviewData{
		Resume:         "Go developer {{not a template}}",
		JobDescription: "Backend role <b>",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Resume:\nGo developer {{not a template}}\n")
	assert.Contains(t, out, "Job Description:\nBackend role <b>\n")
	assert.NotContains(t, out, "{{.")
}

func TestRender_MissingField(t *testing.T) {
	_, err := Render(ReviewFile, "ats_review", map[string]string{"Resume": "x"})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys, err := Keys(ReviewFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"ats_review"}, keys)
}
