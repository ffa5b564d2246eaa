package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/telemetry"
)

// ImprovementStep records the artifact content around one agent's edit.
type ImprovementStep struct {
	Agent   string `json:"agent"`
	Before  string `json:"before"`
	After   string `json:"after"`
	Changed bool   `json:"changed"`

	// ReadError is set when the artifact could not be read before or after
	// the call. Changed is false in that case.
	ReadError string `json:"readError,omitempty"`
}

// ImprovementOutcome is the result of the improvement phase.
type ImprovementOutcome struct {
	// Log maps agent name to the response of its improvement call, whether
	// or not the call succeeded.
	Log map[string]agent.Response `json:"log"`

	// Steps lists each invocation in execution order.
	Steps []ImprovementStep `json:"steps"`

	// FinalContent is the artifact as read back after the last step. It is
	// meaningful only when FinalAvailable is true.
	FinalContent   string `json:"finalContent,omitempty"`
	FinalAvailable bool   `json:"finalAvailable"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// ImprovementCoordinator lets reviewers edit the shared artifact one at a
// time.
type ImprovementCoordinator struct {
	onProgress func(ProgressEvent)
	metrics    *telemetry.Recorder
}

// NewImprovementCoordinator creates an ImprovementCoordinator. Both
// arguments may be nil.
func NewImprovementCoordinator(onProgress func(ProgressEvent), metrics *telemetry.Recorder) *ImprovementCoordinator {
	return &ImprovementCoordinator{
		onProgress: onProgress,
		metrics:    metrics,
	}
}

// Improve walks reviews in the order they were received and, for each
// reviewer exposing agent.Improver, asks it to apply its own findings to the
// artifact. Calls are strictly sequential: each one sees the cumulative
// edits of the ones before it. Reviewers without the capability are skipped
// and get no log entry. A failed call is logged and reported, and the
// artifact is left as the agent left it.
func (c *ImprovementCoordinator) Improve(
	ctx context.Context,
	artifact *Artifact,
	reviews []agent.Response,
	task string,
	reviewers []agent.Agent,
) ImprovementOutcome {
	out := ImprovementOutcome{Log: make(map[string]agent.Response)}

	for _, review := range reviews {
		if err := ctx.Err(); err != nil {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{
				Kind:   DiagImproveFailure,
				Detail: fmt.Sprintf("improvement phase stopped: %v", err),
			})
			break
		}
		if !review.Success {
			continue
		}

		reviewer, ok := reviewerByName(reviewers, review.Agent)
		if !ok {
			slog.Debug("no reviewer for review", "agent", review.Agent)
			continue
		}
		improver, ok := reviewer.(agent.Improver)
		if !ok {
			c.emit(ProgressEvent{Phase: PhaseImprove, Agent: review.Agent, Status: ProgressSkipped, Message: "no improve capability"})
			continue
		}

		name := reviewer.Name()
		before, beforeErr := artifact.Read()
		c.emit(ProgressEvent{Phase: PhaseImprove, Agent: name, Status: ProgressWorking})

		resp := invoke(name, func() agent.Response {
			return improver.ImproveArtifact(ctx, artifact.Path(), review.Output, task)
		})
		c.metrics.AgentCall(ctx, name, string(PhaseImprove), resp.Success, resp.Elapsed)

		after, afterErr := artifact.Read()
		out.Log[name] = resp
		step := ImprovementStep{Agent: name, Before: before, After: after}
		if readErr := errors.Join(beforeErr, afterErr); readErr != nil {
			slog.Warn("artifact unreadable around improvement", "agent", name, "err", readErr)
			step.ReadError = readErr.Error()
		} else {
			step.Changed = before != after
		}
		out.Steps = append(out.Steps, step)

		if !resp.Success {
			slog.Warn("improvement failed; artifact left as is", "agent", name, "detail", resp.ErrorDetail)
			out.Diagnostics = append(out.Diagnostics, Diagnostic{Kind: DiagImproveFailure, Agent: name, Detail: resp.ErrorDetail})
			c.emit(ProgressEvent{Phase: PhaseImprove, Agent: name, Status: ProgressFailed, Message: resp.ErrorDetail})
			continue
		}
		c.emit(ProgressEvent{Phase: PhaseImprove, Agent: name, Status: ProgressComplete, Message: resp.Elapsed.Round(time.Millisecond).String()})
	}

	final, err := artifact.Read()
	if err != nil {
		slog.Warn("final artifact unavailable", "err", err)
		out.Diagnostics = append(out.Diagnostics, Diagnostic{Kind: DiagArtifactUnavailable, Detail: err.Error()})
		return out
	}
	out.FinalContent = final
	out.FinalAvailable = true
	return out
}

func (c *ImprovementCoordinator) emit(ev ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(ev)
	}
}
