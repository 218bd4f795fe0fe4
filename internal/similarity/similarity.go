// Package similarity compares two free texts with a vector-space model
// (TF-IDF weighted cosine) blended with normalized edit distance.
package similarity

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Options tune the comparer.
type Options struct {
	// CosineWeight and EditWeight blend the two similarity signals.
	CosineWeight float64
	EditWeight   float64
	// StopWords are dropped after tokenization. Nil selects the English list.
	StopWords []string
	// MaxEditRunes truncates both texts before edit distance when positive.
	// Zero means no limit. Edit distance is quadratic in text length.
	MaxEditRunes int
}

// DefaultMaxEditRunes bounds edit distance to a few million cell updates.
const DefaultMaxEditRunes = 2000

// DefaultOptions blends cosine and edit similarity 80/20 and bounds the edit
// distance input to DefaultMaxEditRunes.
func DefaultOptions() Options {
	return Options{CosineWeight: 0.8, EditWeight: 0.2, MaxEditRunes: DefaultMaxEditRunes}
}

// Result is the similarity of two texts.
type Result struct {
	Score         float64  `json:"score"`
	MatchingTerms []string `json:"matchingTerms"`
}

// Comparer is safe for concurrent use.
type Comparer struct {
	opts Options
	stop map[string]struct{}
}

// New builds a Comparer.
func New(opts Options) *Comparer {
	words := opts.StopWords
	if words == nil {
		words = englishStopWords
	}
	return &Comparer{opts: opts, stop: stopWordSet(words)}
}

var defaultComparer = New(DefaultOptions())

// Compare scores a against b with the default options.
func Compare(a, b string) Result {
	return defaultComparer.Compare(a, b)
}

// Compare scores a against b. MatchingTerms lists, in order of first
// appearance, the tokens of a that also occur in b.
func (c *Comparer) Compare(a, b string) Result {
	tokensA := c.Tokenize(a)
	tokensB := c.Tokenize(b)

	cos := cosine(newCorpus(tokensA, tokensB))
	edit := c.editSimilarity(a, b)

	inB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		inB[t] = struct{}{}
	}
	matching := make([]string, 0)
	seen := make(map[string]struct{})
	for _, t := range tokensA {
		if _, ok := inB[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		matching = append(matching, t)
	}

	return Result{
		Score:         cos*c.opts.CosineWeight + edit*c.opts.EditWeight,
		MatchingTerms: matching,
	}
}

// Tokenize lowercases text, splits it on anything that is not a letter,
// digit or underscore, and drops stop words.
func (c *Comparer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := c.stop[f]; !stop {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// editSimilarity is 1 - distance/longer length, over runes of the raw texts.
func (c *Comparer) editSimilarity(a, b string) float64 {
	if n := c.opts.MaxEditRunes; n > 0 {
		a = truncateRunes(a, n)
		b = truncateRunes(b, n)
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// cosine is the cosine of the two documents' weight vectors, aligned by term.
func cosine(c *corpus) float64 {
	wa := c.weights(0)
	wb := c.weights(1)

	var dot, normA, normB float64
	for term, x := range wa {
		normA += x * x
		if y, ok := wb[term]; ok {
			dot += x * y
		}
	}
	for _, y := range wb {
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
