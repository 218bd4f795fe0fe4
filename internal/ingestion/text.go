package ingestion

import (
	"regexp"
	"strings"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted resume text: line endings become LF,
// runs of spaces collapse, trailing whitespace is dropped and at most one
// blank line separates paragraphs. Bullets and leading indentation survive.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}
	indent := len(line) - len(trimmed)
	// tabs in the indent count as one column each
	return strings.Repeat(" ", indent) + spaceRun.ReplaceAllString(strings.TrimSpace(trimmed), " ")
}
