package aggregate

import (
	"testing"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCommonThemes_SecurityTwicePerformanceOnce(t *testing.T) {
	reviews := []agent.Response{
		ok("claude", "There is a Security hole in the parser."),
		ok("gemini", "security: input is not validated"),
		ok("codex", "performance could be better"),
	}

	themes := FindCommonThemes(reviews)

	assert.Contains(t, themes, "security (mentioned 2 times)")
	for _, th := range themes {
		assert.NotContains(t, th, "performance")
	}
}

func TestKeywordScorer_FollowsKeywordOrder(t *testing.T) {
	reviews := []agent.Response{
		ok("a", "improve error handling; a bug here"),
		ok("b", "BUG: error path, please improve"),
	}

	themes := NewKeywordScorer().Score(reviews)

	require.Len(t, themes, 3)
	assert.Equal(t, Theme{Keyword: "bug", Count: 2}, themes[0])
	assert.Equal(t, Theme{Keyword: "error", Count: 2}, themes[1])
	assert.Equal(t, Theme{Keyword: "improve", Count: 2}, themes[2])
}

func TestKeywordScorer_SecondaryLocale(t *testing.T) {
	reviews := []agent.Response{
		ok("a", "存在安全问题"),
		ok("b", "有一个安全隐患"),
	}

	themes := NewKeywordScorer().Score(reviews)

	require.Len(t, themes, 1)
	assert.Equal(t, "安全", themes[0].Keyword)
}

func TestKeywordScorer_CountsEachReviewOnce(t *testing.T) {
	reviews := []agent.Response{
		ok("a", "bug bug bug bug"),
		ok("b", "no findings"),
	}

	assert.Empty(t, NewKeywordScorer().Score(reviews))
}

func TestKeywordScorer_CustomThreshold(t *testing.T) {
	scorer := KeywordScorer{Keywords: []string{"latency", ""}, MinMentions: 1}

	themes := scorer.Score([]agent.Response{ok("a", "Latency spikes")})

	require.Len(t, themes, 1)
	assert.Equal(t, "latency (mentioned 1 times)", themes[0].String())
}

func TestKeywordScorer_ZeroThresholdUsesDefault(t *testing.T) {
	scorer := KeywordScorer{Keywords: []string{"bug"}}
	assert.Empty(t, scorer.Score([]agent.Response{ok("a", "bug")}))
}
