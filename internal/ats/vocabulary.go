package ats

// Group is one of the three weighted keyword buckets.
type Group string

// Keyword groups, in weighting order.
const (
	GroupCritical  Group = "critical"
	GroupTechnical Group = "technical"
	GroupSoft      Group = "soft"
)

// Groups lists the keyword groups in the order their terms are reported.
var Groups = []Group{GroupCritical, GroupTechnical, GroupSoft}

// Category is a named list of domain terms that rolls up into a Group.
type Category struct {
	Name  string   `json:"name" validate:"required"`
	Group Group    `json:"group" validate:"oneof=critical technical soft"`
	Terms []string `json:"terms" validate:"min=1,dive,required"`
}

// Vocabulary is the fixed keyword set used for keyword scoring and for the
// matches/missing keyword lists. It is not derived from the job description.
type Vocabulary struct {
	Categories []Category `json:"categories" validate:"min=1,dive"`
}

// GroupTerms returns the concatenated terms of every category in group g.
// Terms listed in more than one category are kept, so they count once per listing.
func (v Vocabulary) GroupTerms(g Group) []string {
	var terms []string
	for _, c := range v.Categories {
		if c.Group == g {
			terms = append(terms, c.Terms...)
		}
	}
	return terms
}

// Terms returns every term in group order, duplicates included.
func (v Vocabulary) Terms() []string {
	var terms []string
	for _, g := range Groups {
		terms = append(terms, v.GroupTerms(g)...)
	}
	return terms
}

// clone returns a deep copy so callers cannot mutate shared defaults.
func (v Vocabulary) clone() Vocabulary {
	out := Vocabulary{Categories: make([]Category, len(v.Categories))}
	for i, c := range v.Categories {
		out.Categories[i] = Category{Name: c.Name, Group: c.Group, Terms: append([]string(nil), c.Terms...)}
	}
	return out
}

// DefaultVocabulary returns a fresh copy of the built-in keyword set.
func DefaultVocabulary() Vocabulary {
	return defaultVocabulary.clone()
}

var defaultVocabulary = Vocabulary{
	Categories: []Category{
		{
			Name:  "languages",
			Group: GroupCritical,
			Terms: []string{
				"javascript", "python", "java", "react", "node", "angular", "vue",
				"typescript", "c++", "csharp", "ruby", "php", "swift", "kotlin",
				"golang", "rust", "scala", "perl", "r", "matlab",
			},
		},
		{
			Name:  "frameworks",
			Group: GroupCritical,
			Terms: []string{
				"express", "django", "flask", "spring", "laravel", "rails",
				"nextjs", "gatsby", "nuxt", "fastapi", "nestjs",
			},
		},
		{
			Name:  "databases",
			Group: GroupCritical,
			Terms: []string{
				"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
				"dynamodb", "cassandra", "oracle", "firebase",
			},
		},
		{
			Name:  "cloud_devops",
			Group: GroupCritical,
			Terms: []string{
				"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "gitlab",
				"terraform", "ansible", "prometheus", "grafana", "cicd",
			},
		},
		{
			Name:  "dev_tools",
			Group: GroupTechnical,
			Terms: []string{
				"git", "github", "gitlab", "bitbucket", "jira", "confluence",
				"swagger", "postman", "webpack", "babel", "vite", "npm", "yarn",
			},
		},
		{
			Name:  "testing",
			Group: GroupTechnical,
			Terms: []string{
				"jest", "mocha", "cypress", "selenium", "junit", "pytest",
				"tdd", "bdd", "unit testing", "integration testing", "e2e testing",
			},
		},
		{
			Name:  "architecture",
			Group: GroupTechnical,
			Terms: []string{
				"mvc", "mvvm", "rest", "graphql", "microservices", "serverless",
				"api", "soap", "oauth", "jwt", "design patterns",
			},
		},
		{
			Name:  "security",
			Group: GroupTechnical,
			Terms: []string{
				"oauth", "jwt", "authentication", "authorization", "encryption",
				"csrf", "xss", "sql injection", "security", "penetration testing",
			},
		},
		{
			Name:  "soft_skills",
			Group: GroupSoft,
			Terms: []string{
				"leadership", "team management", "project management", "mentoring",
				"strategic thinking", "decision making", "conflict resolution",
				"communication", "presentation", "documentation", "collaboration",
				"interpersonal skills", "stakeholder management",
				"problem solving", "analytical", "critical thinking", "troubleshooting",
				"debugging", "root cause analysis",
				"time management", "organization", "multitasking", "deadline",
				"attention to detail", "self-motivated", "initiative",
				"teamwork", "collaboration", "cross-functional", "team player",
				"agile", "scrum", "remote work",
			},
		},
	},
}
