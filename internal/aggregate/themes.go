package aggregate

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/crossreview/internal/agent"
)

// DefaultKeywords is the fixed keyword list searched for consensus themes,
// in English with Chinese equivalents.
var DefaultKeywords = []string{
	"bug", "错误", "error", "issue", "问题",
	"security", "安全", "performance", "性能",
	"optimize", "优化", "improve", "改进",
}

// DefaultMinMentions is how many distinct reviews must mention a keyword
// before it counts as a theme.
const DefaultMinMentions = 2

// Theme is a keyword mentioned independently by several reviews.
type Theme struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

func (t Theme) String() string {
	return fmt.Sprintf("%s (mentioned %d times)", t.Keyword, t.Count)
}

// ThemeScorer derives consensus themes from a set of reviews.
type ThemeScorer interface {
	Score(reviews []agent.Response) []Theme
}

var _ ThemeScorer = KeywordScorer{}

// KeywordScorer matches a fixed keyword list against each review's raw
// output with case-insensitive substring search. There is no stemming and no
// synonym handling.
type KeywordScorer struct {
	Keywords    []string
	MinMentions int
}

// NewKeywordScorer returns a scorer using DefaultKeywords and
// DefaultMinMentions.
func NewKeywordScorer() KeywordScorer {
	return KeywordScorer{Keywords: DefaultKeywords, MinMentions: DefaultMinMentions}
}

// Score returns one Theme per keyword found in at least MinMentions reviews,
// in keyword list order.
func (k KeywordScorer) Score(reviews []agent.Response) []Theme {
	threshold := k.MinMentions
	if threshold <= 0 {
		threshold = DefaultMinMentions
	}

	lowered := make([]string, len(reviews))
	for i, r := range reviews {
		lowered[i] = strings.ToLower(r.Output)
	}

	var themes []Theme
	for _, kw := range k.Keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}
		count := 0
		for _, text := range lowered {
			if strings.Contains(text, needle) {
				count++
			}
		}
		if count >= threshold {
			themes = append(themes, Theme{Keyword: kw, Count: count})
		}
	}
	return themes
}

// FindCommonThemes scores reviews with the default keyword scorer and
// returns each theme annotated with its match count.
func FindCommonThemes(reviews []agent.Response) []string {
	themes := NewKeywordScorer().Score(reviews)
	out := make([]string, len(themes))
	for i, t := range themes {
		out[i] = t.String()
	}
	return out
}
