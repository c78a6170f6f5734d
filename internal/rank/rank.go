package rank

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baba2413/HaruNews/internal/article"
)

// Tokenizer turns headlines into word sets. The zero value lower-cases with
// language-neutral rules.
type Tokenizer struct {
	Language language.Tag
}

// DefaultTokenizer lower-cases with Korean rules, which are identical to the
// neutral rules for Hangul and Latin text.
var DefaultTokenizer = Tokenizer{Language: language.Korean}

// ParseLanguage parses a BCP 47 tag such as "ko" or "en-US".
func ParseLanguage(s string) (language.Tag, error) {
	return language.Parse(strings.TrimSpace(s))
}

// NewTokenizer returns a Tokenizer for lang, or DefaultTokenizer when lang
// is empty.
func NewTokenizer(lang string) (Tokenizer, error) {
	if strings.TrimSpace(lang) == "" {
		return DefaultTokenizer, nil
	}
	tag, err := ParseLanguage(lang)
	if err != nil {
		return Tokenizer{}, err
	}
	return Tokenizer{Language: tag}, nil
}

// WordSet lower-cases s, blanks every rune that is not a letter, digit,
// combining mark or space, and returns the distinct tokens.
func (t Tokenizer) WordSet(s string) map[string]struct{} {
	// A Caser keeps state, so each call gets its own.
	lower := cases.Lower(t.Language).String(s)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lower)
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard returns |A∩B|/|A∪B| of the word sets of a and b, or 0 when either
// set is empty.
func (t Tokenizer) Jaccard(a, b string) float64 {
	return jaccardSets(t.WordSet(a), t.WordSet(b))
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// WordSet and Jaccard use DefaultTokenizer.
func WordSet(s string) map[string]struct{} { return DefaultTokenizer.WordSet(s) }

func Jaccard(a, b string) float64 { return DefaultTokenizer.Jaccard(a, b) }

// Ranked pairs an article with its personalization score.
type Ranked struct {
	Article article.Article `json:"article"`
	Score   float64         `json:"score"`
}

// Score computes, for every candidate, the highest similarity between its
// title and any history entry. Order matches candidates.
func (t Tokenizer) Score(candidates []article.Article, history []string) []Ranked {
	sets := make([]map[string]struct{}, 0, len(history))
	for _, h := range history {
		if s := t.WordSet(h); len(s) > 0 {
			sets = append(sets, s)
		}
	}
	out := make([]Ranked, len(candidates))
	for i, c := range candidates {
		out[i].Article = c
		if len(sets) == 0 {
			continue
		}
		title := t.WordSet(c.Title)
		for _, h := range sets {
			if s := jaccardSets(h, title); s > out[i].Score {
				out[i].Score = s
			}
		}
	}
	return out
}

// RankScored stably orders candidates by descending score and returns the
// scored list. With an empty history every score is 0 and input order is kept.
func (t Tokenizer) RankScored(candidates []article.Article, history []string) []Ranked {
	scored := t.Score(candidates, history)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Rank reorders candidates by similarity to history. An empty history
// returns candidates itself, untouched.
func (t Tokenizer) Rank(candidates []article.Article, history []string) []article.Article {
	if len(history) == 0 || len(candidates) == 0 {
		return candidates
	}
	scored := t.RankScored(candidates, history)
	out := make([]article.Article, len(scored))
	for i, r := range scored {
		out[i] = r.Article
	}
	return out
}

// Rank uses DefaultTokenizer.
func Rank(candidates []article.Article, history []string) []article.Article {
	return DefaultTokenizer.Rank(candidates, history)
}
