package ats

import "strings"

// QuickCategory is one weighted bucket of the quick keyword scorer.
type QuickCategory struct {
	Name      string   `json:"name" validate:"required"`
	DetailKey string   `json:"detail_key" validate:"required"`
	Weight    float64  `json:"weight" validate:"gte=0,lte=1"`
	Terms     []string `json:"terms" validate:"min=1,dive,required"`
}

// QuickBonus adds Points once when any of Terms appears in the resume.
type QuickBonus struct {
	Terms  []string `json:"terms" validate:"min=1,dive,required"`
	Points float64  `json:"points" validate:"gte=0"`
}

// QuickConfig tunes the quick keyword scorer.
type QuickConfig struct {
	Categories    []QuickCategory `json:"categories" validate:"min=1,dive"`
	Bonuses       []QuickBonus    `json:"bonuses" validate:"dive"`
	MissingLimit  int             `json:"missing_limit" validate:"gte=0"`
	MaxInputBytes int             `json:"max_input_bytes" validate:"gte=0"`
}

// DefaultQuickConfig returns the stock quick-scoring categories.
func DefaultQuickConfig() QuickConfig {
	return QuickConfig{
		Categories: []QuickCategory{
			{
				Name:      "technicalSkills",
				DetailKey: "technicalMatch",
				Weight:    0.4,
				Terms: []string{
					"SQL", "Python", "Java", "software", "engineering", "developer", "architecture",
					"ETL", "data", "algorithms", "debugging", "code", "technical", "design",
					"REST", "API", "database", "development", "programming",
				},
			},
			{
				Name:      "tools",
				DetailKey: "toolsMatch",
				Weight:    0.2,
				Terms:     []string{"Tableau", "Power BI", "OAC", "SQL", "PySpark", "Business Intelligence"},
			},
			{
				Name:      "concepts",
				DetailKey: "conceptsMatch",
				Weight:    0.25,
				Terms: []string{
					"architecture", "requirements", "design", "documentation", "analysis",
					"quality", "performance", "implementation", "enhancement",
				},
			},
			{
				Name:      "softSkills",
				DetailKey: "softSkillsMatch",
				Weight:    0.15,
				Terms:     []string{"collaboration", "learning", "development", "teamwork", "communication"},
			},
		},
		Bonuses: []QuickBonus{
			{Terms: []string{"computer science", "information technology", "engineering"}, Points: 10},
			{Terms: []string{"internship", "project", "experience"}, Points: 10},
		},
		MissingLimit: 5,
	}
}

// QuickResult is the outcome of the quick keyword scorer.
type QuickResult struct {
	Score           int                `json:"score"`
	CategoryScores  map[string]float64 `json:"categoryScores"`
	Matches         []string           `json:"matches"`
	MissingKeywords []string           `json:"missingKeywords"`
	Details         map[string]int     `json:"details"`
}

// QuickScorer is a flat substring scorer over a handful of categories plus
// education/experience bonuses. It is independent of Scorer.
type QuickScorer struct {
	cfg QuickConfig
}

// NewQuickScorer validates cfg.
func NewQuickScorer(cfg QuickConfig) (*QuickScorer, error) {
	if err := configValidator.Struct(cfg); err != nil {
		return nil, &ConfigError{Field: "quick", Message: "invalid quick configuration", Cause: err}
	}
	return &QuickScorer{cfg: cfg}, nil
}

// MustNewQuickScorer is NewQuickScorer for configurations known to be valid.
func MustNewQuickScorer(cfg QuickConfig) *QuickScorer {
	q, err := NewQuickScorer(cfg)
	if err != nil {
		panic(err)
	}
	return q
}

var defaultQuick = MustNewQuickScorer(DefaultQuickConfig())

// QuickScore rates resumeText against jobDescription with the default categories.
func QuickScore(resumeText, jobDescription string) (*QuickResult, error) {
	return defaultQuick.Score(resumeText, jobDescription)
}

// Score rates resumeText against jobDescription.
func (q *QuickScorer) Score(resumeText, jobDescription string) (*QuickResult, error) {
	if err := checkText("resumeText", resumeText, q.cfg.MaxInputBytes); err != nil {
		return nil, err
	}
	if err := checkText("jobDescription", jobDescription, q.cfg.MaxInputBytes); err != nil {
		return nil, err
	}

	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobDescription)

	res := &QuickResult{
		CategoryScores:  make(map[string]float64, len(q.cfg.Categories)),
		Matches:         make([]string, 0),
		MissingKeywords: make([]string, 0),
		Details:         make(map[string]int, len(q.cfg.Categories)),
	}
	seenMatch := make(map[string]struct{})
	seenMissing := make(map[string]struct{})

	weighted := 0.0
	for _, c := range q.cfg.Categories {
		hits := 0
		for _, term := range c.Terms {
			lower := strings.ToLower(term)
			switch {
			case strings.Contains(resumeLower, lower):
				hits++
				res.Matches = appendUnique(res.Matches, seenMatch, term)
			case strings.Contains(jobLower, lower):
				res.MissingKeywords = appendUnique(res.MissingKeywords, seenMissing, term)
			}
		}
		pct := float64(hits) / float64(len(c.Terms)) * 100
		res.CategoryScores[c.Name] = pct
		res.Details[c.DetailKey] = round(pct)
		weighted += pct * c.Weight
	}

	for _, b := range q.cfg.Bonuses {
		if containsAny(resumeLower, b.Terms) {
			weighted += b.Points
		}
	}

	if q.cfg.MissingLimit > 0 && len(res.MissingKeywords) > q.cfg.MissingLimit {
		res.MissingKeywords = res.MissingKeywords[:q.cfg.MissingLimit]
	}
	res.Score = round(clamp(weighted, 0, 100))
	return res, nil
}
