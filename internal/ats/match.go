package ats

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// wordBoundary mirrors \b without requiring the term itself to start or end
// with a word character, so terms like "c++" still match.
const wordBoundary = `[^\pL\pN_]`

// compileWordPattern builds a case-insensitive whole-word matcher for term.
// Callers match against lowercased text.
func compileWordPattern(term string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.ToLower(term))
	return regexp.MustCompile(`(?:^|` + wordBoundary + `)` + quoted + `(?:` + wordBoundary + `|$)`)
}

// termMatcher answers whole-word presence questions for a fixed term set.
type termMatcher struct {
	patterns map[string]*regexp.Regexp
}

func newTermMatcher(terms []string) *termMatcher {
	m := &termMatcher{patterns: make(map[string]*regexp.Regexp, len(terms))}
	for _, t := range terms {
		key := strings.ToLower(t)
		if _, ok := m.patterns[key]; !ok {
			m.patterns[key] = compileWordPattern(key)
		}
	}
	return m
}

// present reports whether term occurs as a whole word in lower.
func (m *termMatcher) present(lower, term string) bool {
	key := strings.ToLower(term)
	re, ok := m.patterns[key]
	if !ok {
		re = compileWordPattern(key)
	}
	return re.MatchString(lower)
}

// containsAny reports whether lower contains any of terms as a substring.
func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// countContained counts the terms that appear in lower as substrings.
func countContained(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			n++
		}
	}
	return n
}

// appendUnique appends s to list unless seen already holds it.
func appendUnique(list []string, seen map[string]struct{}, s string) []string {
	if _, ok := seen[s]; ok {
		return list
	}
	seen[s] = struct{}{}
	return append(list, s)
}

func checkText(field, text string, maxBytes int) error {
	if !utf8.ValidString(text) {
		return &InvalidInputError{Field: field, Reason: "not valid UTF-8"}
	}
	if maxBytes > 0 && len(text) > maxBytes {
		return &InvalidInputError{Field: field, Reason: "exceeds maximum size"}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
