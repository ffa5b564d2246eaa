package orchestrator

import (
	"context"

	"github.com/dusk-indust/crossreview/internal/agent"
)

// Phase identifies a workflow phase.
type Phase string

const (
	PhaseImplement Phase = "implement"
	PhaseReview    Phase = "review"
	PhaseImprove   Phase = "improve"
	PhaseAggregate Phase = "aggregate"
)

// ProgressEvent is emitted to the user during workflow execution.
type ProgressEvent struct {
	Phase   Phase
	Agent   string
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of one agent call within a phase.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
	ProgressSkipped  ProgressStatus = "skipped"
)

// Runner executes one complete review workflow.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request describes one run.
type Request struct {
	Task         string
	ContextFiles []string
	Improve      bool
}

// reviewerByName finds the reviewer whose Name matches name.
func reviewerByName(reviewers []agent.Agent, name string) (agent.Agent, bool) {
	for _, r := range reviewers {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}
