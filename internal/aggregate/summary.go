// Package aggregate reduces a set of review responses into a summary and
// derives naive consensus signals from their raw text.
package aggregate

import (
	"fmt"

	"github.com/dusk-indust/crossreview/internal/agent"
)

// Summary is a snapshot of a review batch. OutputsByAgent holds only
// successful reviews, so TotalSucceeded never exceeds TotalRequested.
type Summary struct {
	TotalRequested int               `json:"totalRequested"`
	TotalSucceeded int               `json:"totalSucceeded"`
	OutputsByAgent map[string]string `json:"outputsByAgent"`
}

// String renders the "N/M succeeded" line used in reports and logs.
func (s Summary) String() string {
	return fmt.Sprintf("reviews complete: %d/%d succeeded", s.TotalSucceeded, s.TotalRequested)
}

// Aggregate counts reviews and keeps successful outputs keyed by agent name.
// A later entry for the same agent overwrites an earlier one.
func Aggregate(reviews []agent.Response) Summary {
	byAgent := make(map[string]string, len(reviews))
	for _, r := range reviews {
		if r.Success {
			byAgent[r.Agent] = r.Output
		}
	}
	return Summary{
		TotalRequested: len(reviews),
		TotalSucceeded: len(byAgent),
		OutputsByAgent: byAgent,
	}
}
