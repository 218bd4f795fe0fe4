package ats

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// MatchMode selects how vocabulary terms are matched when building the
// matches and missingKeywords lists.
type MatchMode string

const (
	// MatchSubstring reports a term when it appears anywhere in the text.
	MatchSubstring MatchMode = "substring"
	// MatchWholeWord reports a term only at word boundaries.
	MatchWholeWord MatchMode = "word"
)

// Weights combine the four sub-scores into the final score.
type Weights struct {
	Keyword    float64 `json:"keyword" validate:"gte=0,lte=1"`
	Experience float64 `json:"experience" validate:"gte=0,lte=1"`
	Education  float64 `json:"education" validate:"gte=0,lte=1"`
	Format     float64 `json:"format" validate:"gte=0,lte=1"`
}

// GroupWeights combine the keyword group percentages into the keyword score.
type GroupWeights struct {
	Critical  float64 `json:"critical" validate:"gte=0,lte=1"`
	Technical float64 `json:"technical" validate:"gte=0,lte=1"`
	Soft      float64 `json:"soft" validate:"gte=0,lte=1"`
}

func (w GroupWeights) weight(g Group) float64 {
	switch g {
	case GroupCritical:
		return w.Critical
	case GroupTechnical:
		return w.Technical
	case GroupSoft:
		return w.Soft
	default:
		return 0
	}
}

// ExperienceRules tune the experience sub-score.
type ExperienceRules struct {
	Base          float64  `json:"base" validate:"gte=0,lte=100"`
	PhraseBonus   float64  `json:"phrase_bonus" validate:"gte=0"`
	Phrases       []string `json:"phrases" validate:"dive,required"`
	MetricPattern string   `json:"metric_pattern" validate:"required"`
	MetricBonus   float64  `json:"metric_bonus" validate:"gte=0"`
	MetricCap     float64  `json:"metric_cap" validate:"gte=0"`
}

// DegreeTier credits the highest degree mentioned. Tiers are checked in order
// and only the first one found counts.
type DegreeTier struct {
	Term  string  `json:"term" validate:"required"`
	Bonus float64 `json:"bonus" validate:"gte=0"`
}

// EducationRules tune the education sub-score.
type EducationRules struct {
	Base               float64      `json:"base" validate:"gte=0,lte=100"`
	Degrees            []DegreeTier `json:"degrees" validate:"dive"`
	MajorBonus         float64      `json:"major_bonus" validate:"gte=0"`
	Majors             []string     `json:"majors" validate:"dive,required"`
	CertificationBonus float64      `json:"certification_bonus" validate:"gte=0"`
	Certifications     []string     `json:"certifications" validate:"dive,required"`
}

// Marker is a term whose absence costs Penalty points.
type Marker struct {
	Term    string  `json:"term" validate:"required"`
	Penalty float64 `json:"penalty" validate:"gte=0"`
}

// FormatRules tune the format sub-score.
type FormatRules struct {
	Base float64 `json:"base" validate:"gte=0,lte=100"`

	Sections        []Marker `json:"sections" validate:"dive"`
	SectionBonus    float64  `json:"section_bonus" validate:"gte=0"`
	SectionBonusMin int      `json:"section_bonus_min" validate:"gte=0"`

	Contacts        []Marker `json:"contacts" validate:"dive"`
	ContactBonus    float64  `json:"contact_bonus" validate:"gte=0"`
	ContactBonusMin int      `json:"contact_bonus_min" validate:"gte=0"`

	ShortWords       int     `json:"short_words" validate:"gte=0"`
	ShortPenalty     float64 `json:"short_penalty" validate:"gte=0"`
	ThinWords        int     `json:"thin_words" validate:"gtefield=ShortWords"`
	ThinPenalty      float64 `json:"thin_penalty" validate:"gte=0"`
	LongWords        int     `json:"long_words" validate:"gtefield=ThinWords"`
	LongPenalty      float64 `json:"long_penalty" validate:"gte=0"`
	IdealMinWords    int     `json:"ideal_min_words" validate:"gte=0"`
	IdealMaxWords    int     `json:"ideal_max_words" validate:"gtefield=IdealMinWords"`
	IdealLengthBonus float64 `json:"ideal_length_bonus" validate:"gte=0"`

	BulletChars    string  `json:"bullet_chars" validate:"required"`
	MinBullets     int     `json:"min_bullets" validate:"gte=0"`
	BulletPenalty  float64 `json:"bullet_penalty" validate:"gte=0"`
	BulletBonusMin int     `json:"bullet_bonus_min" validate:"gte=0"`
	BulletBonus    float64 `json:"bullet_bonus" validate:"gte=0"`

	DatePattern string  `json:"date_pattern" validate:"required"`
	DatePenalty float64 `json:"date_penalty" validate:"gte=0"`

	ActionVerbs     []string `json:"action_verbs" validate:"dive,required"`
	ActionVerbBonus float64  `json:"action_verb_bonus" validate:"gte=0"`

	Floor float64 `json:"floor" validate:"gte=0,lte=100"`
}

// Advice holds the static recommendation blocks, one per sub-score.
type Advice struct {
	Keyword    []string `json:"keyword"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Format     []string `json:"format"`
}

// Config carries every tunable of the rule-based scorer.
type Config struct {
	Weights      Weights         `json:"weights"`
	GroupWeights GroupWeights    `json:"group_weights"`
	Experience   ExperienceRules `json:"experience"`
	Education    EducationRules  `json:"education"`
	Format       FormatRules     `json:"format"`
	Vocabulary   Vocabulary      `json:"vocabulary"`
	Advice       Advice          `json:"advice"`

	// RecommendationThreshold gates each advice block: a sub-score below it
	// adds the block.
	RecommendationThreshold float64   `json:"recommendation_threshold" validate:"gte=0,lte=100"`
	ListMatch               MatchMode `json:"list_match" validate:"oneof=substring word"`
	// MaxInputBytes rejects larger inputs when positive.
	MaxInputBytes int `json:"max_input_bytes" validate:"gte=0"`
}

// DefaultConfig returns the stock scoring rules.
func DefaultConfig() Config {
	return Config{
		Weights:      Weights{Keyword: 0.35, Experience: 0.30, Education: 0.20, Format: 0.15},
		GroupWeights: GroupWeights{Critical: 0.5, Technical: 0.3, Soft: 0.2},
		Experience: ExperienceRules{
			Base:        60,
			PhraseBonus: 5,
			Phrases: []string{
				"years experience", "year experience",
				"project", "developed", "implemented", "managed",
				"lead", "team", "production", "deployed",
				"architected", "designed", "optimized", "reduced",
				"increased", "improved", "launched", "delivered",
			},
			MetricPattern: `\d+%|\$\d+|\d+ years|\d+ users|\d+ projects`,
			MetricBonus:   5,
			MetricCap:     20,
		},
		Education: EducationRules{
			Base: 50,
			Degrees: []DegreeTier{
				{Term: "phd", Bonus: 50},
				{Term: "master", Bonus: 40},
				{Term: "bachelor", Bonus: 30},
			},
			MajorBonus: 10,
			Majors: []string{
				"computer science", "software engineering",
				"information technology", "computer engineering",
				"data science", "artificial intelligence",
				"cybersecurity", "information systems",
			},
			CertificationBonus: 5,
			Certifications: []string{
				"aws certified", "azure certified", "google certified",
				"cissp", "ceh", "comptia", "pmp", "agile", "scrum",
			},
		},
		Format: FormatRules{
			Base: 100,
			Sections: []Marker{
				{Term: "experience", Penalty: 15},
				{Term: "education", Penalty: 10},
				{Term: "skills", Penalty: 10},
				{Term: "projects", Penalty: 5},
			},
			SectionBonus:    10,
			SectionBonusMin: 3,
			Contacts: []Marker{
				{Term: "email", Penalty: 5},
				{Term: "phone", Penalty: 5},
				{Term: "linkedin", Penalty: 3},
				{Term: "github", Penalty: 3},
			},
			ContactBonus:     5,
			ContactBonusMin:  2,
			ShortWords:       100,
			ShortPenalty:     15,
			ThinWords:        200,
			ThinPenalty:      10,
			LongWords:        2000,
			LongPenalty:      10,
			IdealMinWords:    300,
			IdealMaxWords:    1000,
			IdealLengthBonus: 5,
			BulletChars:      "•-*",
			MinBullets:       3,
			BulletPenalty:    5,
			BulletBonusMin:   10,
			BulletBonus:      5,
			DatePattern:      `(?i)\d{4}|\d{2}/\d{2}|\d{2}-\d{2}|jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec`,
			DatePenalty:      5,
			ActionVerbs: []string{
				"developed", "implemented", "created", "managed", "led",
				"designed", "built", "improved", "achieved", "increased",
				"decreased", "coordinated", "organized", "analyzed",
			},
			ActionVerbBonus: 5,
			Floor:           30,
		},
		Vocabulary: DefaultVocabulary(),
		Advice: Advice{
			Keyword: []string{
				"Add more relevant technical skills and keywords from the job description",
				"Include specific technologies and tools mentioned in the job posting",
				"Add industry-standard certifications and qualifications",
				"Highlight technical proficiencies that align with the role",
			},
			Experience: []string{
				"Quantify your achievements with specific metrics and numbers",
				"Use strong action verbs to describe your responsibilities",
				"Include specific project details and outcomes",
				"Highlight leadership and team collaboration experiences",
			},
			Education: []string{
				"Emphasize your educational qualifications",
				"Include relevant certifications or additional training",
				"List any specialized courses or bootcamps",
				"Mention academic projects relevant to the position",
			},
			Format: []string{
				"Ensure your resume has clear sections for experience, education, and skills",
				"Include bullet points for better readability",
				"Add proper contact information and professional links",
				"Keep resume length between 1-2 pages",
			},
		},
		RecommendationThreshold: 70,
		ListMatch:               MatchSubstring,
	}
}

// LoadConfig reads a JSON file on top of DefaultConfig. Fields absent from the
// file keep their defaults; lists present in the file replace the default list.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ConfigError{Message: fmt.Sprintf("failed to parse %s", path), Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var configValidator = validator.New()

// Validate checks value ranges and list shapes.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigError{Field: fe.Namespace(), Message: "failed on '" + fe.Tag() + "'"}
		}
		return &ConfigError{Message: "invalid configuration", Cause: err}
	}
	return nil
}
