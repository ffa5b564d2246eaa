package aggregate

import (
	"testing"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/stretchr/testify/assert"
)

func ok(name, output string) agent.Response {
	return agent.Succeeded(name, "m", output, 0)
}

func TestAggregate_TwoSuccesses(t *testing.T) {
	s := Aggregate([]agent.Response{ok("claude", "looks fine"), ok("gemini", "one bug")})

	assert.Equal(t, 2, s.TotalRequested)
	assert.Equal(t, 2, s.TotalSucceeded)
	assert.Len(t, s.OutputsByAgent, 2)
	assert.Equal(t, "one bug", s.OutputsByAgent["gemini"])
	assert.Equal(t, "reviews complete: 2/2 succeeded", s.String())
}

func TestAggregate_DropsFailures(t *testing.T) {
	s := Aggregate([]agent.Response{
		ok("claude", "fine"),
		agent.Failed("codex", "codex", "", "disabled", 0),
	})

	assert.Equal(t, 2, s.TotalRequested)
	assert.Equal(t, 1, s.TotalSucceeded)
	assert.NotContains(t, s.OutputsByAgent, "codex")
	assert.LessOrEqual(t, s.TotalSucceeded, s.TotalRequested)
}

func TestAggregate_DuplicateAgentLaterWins(t *testing.T) {
	s := Aggregate([]agent.Response{ok("claude", "first"), ok("claude", "second")})

	assert.Equal(t, 2, s.TotalRequested)
	assert.Equal(t, 1, s.TotalSucceeded)
	assert.Equal(t, "second", s.OutputsByAgent["claude"])
}

func TestAggregate_OrderIndependent(t *testing.T) {
	in := []agent.Response{
		ok("a", "alpha"),
		agent.Failed("b", "m", "", "boom", 0),
		ok("c", "gamma"),
	}
	reversed := []agent.Response{in[2], in[1], in[0]}

	assert.Equal(t, Aggregate(in), Aggregate(reversed))
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)
	assert.Zero(t, s.TotalRequested)
	assert.Zero(t, s.TotalSucceeded)
	assert.Empty(t, s.OutputsByAgent)
}
