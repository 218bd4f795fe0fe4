// Package ats scores resumes against job descriptions with deterministic,
// rule-based heuristics in the style of applicant tracking systems.
package ats

import (
	"math"
	"regexp"
	"strings"
)

// Details holds the rounded sub-scores.
type Details struct {
	KeywordMatch    int `json:"keywordMatch"`
	ExperienceMatch int `json:"experienceMatch"`
	EducationMatch  int `json:"educationMatch"`
	FormatMatch     int `json:"formatMatch"`
}

// MatchResult is the outcome of scoring one resume against one job description.
type MatchResult struct {
	Score           int            `json:"score"`
	Details         Details        `json:"details"`
	CategoryScores  map[string]int `json:"categoryScores"`
	Matches         []string       `json:"matches"`
	MissingKeywords []string       `json:"missingKeywords"`
	Recommendations []string       `json:"recommendations"`
}

// Scorer is an immutable, compiled rule set. It is safe for concurrent use.
type Scorer struct {
	cfg      Config
	words    *termMatcher
	metrics  *regexp.Regexp
	dates    *regexp.Regexp
	allTerms []string
}

// New validates cfg and compiles its patterns.
func New(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics, err := regexp.Compile(cfg.Experience.MetricPattern)
	if err != nil {
		return nil, &ConfigError{Field: "experience.metric_pattern", Message: "invalid pattern", Cause: err}
	}
	dates, err := regexp.Compile(cfg.Format.DatePattern)
	if err != nil {
		return nil, &ConfigError{Field: "format.date_pattern", Message: "invalid pattern", Cause: err}
	}

	allTerms := cfg.Vocabulary.Terms()
	return &Scorer{
		cfg:      cfg,
		words:    newTermMatcher(allTerms),
		metrics:  metrics,
		dates:    dates,
		allTerms: allTerms,
	}, nil
}

// MustNew is New for configurations known to be valid.
func MustNew(cfg Config) *Scorer {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

var defaultScorer = MustNew(DefaultConfig())

// Score rates resumeText against jobDescription using the default rules.
func Score(resumeText, jobDescription string) (*MatchResult, error) {
	return defaultScorer.Score(resumeText, jobDescription)
}

// Config returns the rules this scorer was built with.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score rates resumeText against jobDescription. The only error is
// *InvalidInputError; empty text yields low scores.
func (s *Scorer) Score(resumeText, jobDescription string) (*MatchResult, error) {
	if err := checkText("resumeText", resumeText, s.cfg.MaxInputBytes); err != nil {
		return nil, err
	}
	if err := checkText("jobDescription", jobDescription, s.cfg.MaxInputBytes); err != nil {
		return nil, err
	}

	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobDescription)

	keyword, categories := s.keywordScore(resumeLower)
	experience := s.experienceScore(resumeLower)
	education := s.educationScore(resumeLower)
	format := s.formatScore(resumeText)

	w := s.cfg.Weights
	final := keyword*w.Keyword + experience*w.Experience + education*w.Education + format*w.Format

	matches, missing := s.keywordLists(resumeLower, jobLower)

	return &MatchResult{
		Score: round(clamp(final, 0, 100)),
		Details: Details{
			KeywordMatch:    round(keyword),
			ExperienceMatch: round(experience),
			EducationMatch:  round(education),
			FormatMatch:     round(format),
		},
		CategoryScores:  categories,
		Matches:         matches,
		MissingKeywords: missing,
		Recommendations: s.recommendations(keyword, experience, education, format),
	}, nil
}

// keywordScore returns the weighted group score and per-category percentages.
// Presence is boolean per keyword, so repeated mentions never raise the score.
func (s *Scorer) keywordScore(resumeLower string) (float64, map[string]int) {
	found := make(map[string]bool)
	isPresent := func(term string) bool {
		key := strings.ToLower(term)
		if v, ok := found[key]; ok {
			return v
		}
		v := s.words.present(resumeLower, key)
		found[key] = v
		return v
	}

	ratio := func(terms []string) float64 {
		if len(terms) == 0 {
			return 0
		}
		n := 0
		for _, t := range terms {
			if isPresent(t) {
				n++
			}
		}
		return float64(n) / float64(len(terms)) * 100
	}

	total := 0.0
	for _, g := range Groups {
		total += ratio(s.cfg.Vocabulary.GroupTerms(g)) * s.cfg.GroupWeights.weight(g)
	}

	categories := make(map[string]int, len(s.cfg.Vocabulary.Categories))
	for _, c := range s.cfg.Vocabulary.Categories {
		categories[c.Name] = round(ratio(c.Terms))
	}

	return clamp(total, 0, 100), categories
}

// keywordLists builds the deduplicated matches and missingKeywords lists.
// Only terms present in the job description can appear in either list.
func (s *Scorer) keywordLists(resumeLower, jobLower string) ([]string, []string) {
	in := func(text, term string) bool {
		if s.cfg.ListMatch == MatchWholeWord {
			return s.words.present(text, term)
		}
		return strings.Contains(text, strings.ToLower(term))
	}

	matches := make([]string, 0)
	missing := make([]string, 0)
	seenMatch := make(map[string]struct{})
	seenMissing := make(map[string]struct{})

	for _, term := range s.allTerms {
		if !in(jobLower, term) {
			continue
		}
		if in(resumeLower, term) {
			matches = appendUnique(matches, seenMatch, term)
		} else {
			missing = appendUnique(missing, seenMissing, term)
		}
	}
	return matches, missing
}

func (s *Scorer) experienceScore(resumeLower string) float64 {
	r := s.cfg.Experience
	score := r.Base + float64(countContained(resumeLower, r.Phrases))*r.PhraseBonus

	metrics := len(s.metrics.FindAllStringIndex(resumeLower, -1))
	score += math.Min(float64(metrics)*r.MetricBonus, r.MetricCap)

	return clamp(score, 0, 100)
}

func (s *Scorer) educationScore(resumeLower string) float64 {
	r := s.cfg.Education
	score := r.Base

	for _, d := range r.Degrees {
		if strings.Contains(resumeLower, strings.ToLower(d.Term)) {
			score += d.Bonus
			break
		}
	}

	score += float64(countContained(resumeLower, r.Majors)) * r.MajorBonus
	score += float64(countContained(resumeLower, r.Certifications)) * r.CertificationBonus

	return clamp(score, 0, 100)
}

// formatScore inspects the original text, since bullet and date checks are
// sensitive to characters lowercasing could change.
func (s *Scorer) formatScore(resumeText string) float64 {
	r := s.cfg.Format
	lower := strings.ToLower(resumeText)
	score := r.Base

	sections := 0
	for _, m := range r.Sections {
		if strings.Contains(lower, strings.ToLower(m.Term)) {
			sections++
		} else {
			score -= m.Penalty
		}
	}
	if sections >= r.SectionBonusMin {
		score += r.SectionBonus
	}

	contacts := 0
	for _, m := range r.Contacts {
		if strings.Contains(lower, strings.ToLower(m.Term)) {
			contacts++
		} else {
			score -= m.Penalty
		}
	}
	if contacts >= r.ContactBonusMin {
		score += r.ContactBonus
	}

	words := len(strings.Fields(resumeText))
	switch {
	case words < r.ShortWords:
		score -= r.ShortPenalty
	case words < r.ThinWords:
		score -= r.ThinPenalty
	}
	if words > r.LongWords {
		score -= r.LongPenalty
	}

	bullets := 0
	for _, ch := range resumeText {
		if strings.ContainsRune(r.BulletChars, ch) {
			bullets++
		}
	}
	if bullets < r.MinBullets {
		score -= r.BulletPenalty
	}

	if !s.dates.MatchString(resumeText) {
		score -= r.DatePenalty
	}

	if containsAny(lower, r.ActionVerbs) {
		score += r.ActionVerbBonus
	}
	if bullets >= r.BulletBonusMin {
		score += r.BulletBonus
	}
	if words >= r.IdealMinWords && words <= r.IdealMaxWords {
		score += r.IdealLengthBonus
	}

	return clamp(score, r.Floor, 100)
}

// recommendations concatenates the advice block of every sub-score below the
// threshold, in keyword, experience, education, format order.
func (s *Scorer) recommendations(keyword, experience, education, format float64) []string {
	out := make([]string, 0)
	limit := s.cfg.RecommendationThreshold
	a := s.cfg.Advice

	if keyword < limit {
		out = append(out, a.Keyword...)
	}
	if experience < limit {
		out = append(out, a.Experience...)
	}
	if education < limit {
		out = append(out, a.Education...)
	}
	if format < limit {
		out = append(out, a.Format...)
	}
	return out
}

func round(v float64) int {
	return int(math.Round(v))
}
