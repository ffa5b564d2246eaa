package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/aggregate"
	"github.com/google/uuid"
)

// ErrImplementationFailed is returned by Workflow.Run when the implementer
// produced no usable artifact. The review phase never starts in that case.
var ErrImplementationFailed = errors.New("implementation failed")

// Compile-time interface check.
var _ Runner = (*Workflow)(nil)

// Result is everything one run produced, passed by value to renderers.
type Result struct {
	RunID          string              `json:"runId"`
	Task           string              `json:"task"`
	ContextFiles   []string            `json:"contextFiles,omitempty"`
	Implementer    string              `json:"implementer"`
	Reviewers      []string            `json:"reviewers"`
	Implementation agent.Response      `json:"implementation"`
	Batch          ReviewBatch         `json:"batch"`
	Summary        aggregate.Summary   `json:"summary"`
	Themes         []aggregate.Theme   `json:"themes"`
	Improvement    *ImprovementOutcome `json:"improvement,omitempty"`
	Diagnostics    []Diagnostic        `json:"diagnostics,omitempty"`
	StartedAt      time.Time           `json:"startedAt"`
	FinishedAt     time.Time           `json:"finishedAt"`
}

// Outcome summarizes the review phase for users.
func (r *Result) Outcome() string {
	return r.Batch.Outcome()
}

// Workflow runs implement, parallel review, sequential improvement and
// aggregation for one implementer and a fixed reviewer set.
type Workflow struct {
	implementer agent.Agent
	reviewers   []agent.Agent
	opts        Options
	progress    *ProgressReporter
	reviews     *ReviewCoordinator
	improver    *ImprovementCoordinator
}

// NewWorkflow creates a Workflow. reviewers must already exclude disabled or
// unavailable agents.
func NewWorkflow(implementer agent.Agent, reviewers []agent.Agent, opts Options) *Workflow {
	opts = opts.withDefaults()
	progress := NewProgressReporter()

	return &Workflow{
		implementer: implementer,
		reviewers:   reviewers,
		opts:        opts,
		progress:    progress,
		reviews:     NewReviewCoordinator(progress.Emit, opts.Metrics),
		improver:    NewImprovementCoordinator(progress.Emit, opts.Metrics),
	}
}

// Progress returns a channel that emits progress events.
func (w *Workflow) Progress() <-chan ProgressEvent {
	return w.progress.Subscribe()
}

// Close shuts down the progress reporter.
func (w *Workflow) Close() {
	w.progress.Close()
}

// Run executes the workflow. The only error returned after validation is
// ErrImplementationFailed, wrapped with the implementer's detail; the partial
// Result is returned alongside it. Every later failure degrades the Result
// and is listed in Result.Diagnostics.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Task == "" {
		return nil, errors.New("workflow: task is required")
	}
	if w.implementer == nil {
		return nil, errors.New("workflow: implementer is required")
	}

	res := &Result{
		RunID:        uuid.NewString(),
		Task:         req.Task,
		ContextFiles: req.ContextFiles,
		Implementer:  w.implementer.Name(),
		Reviewers:    agentNames(w.reviewers),
		StartedAt:    time.Now(),
	}
	defer func() { res.FinishedAt = time.Now() }()

	// Phase 1: implement.
	slog.Info("implementing", "run", res.RunID, "agent", res.Implementer)
	w.progress.Emit(ProgressEvent{Phase: PhaseImplement, Agent: res.Implementer, Status: ProgressWorking})

	impl := invoke(res.Implementer, func() agent.Response {
		return w.implementer.Implement(ctx, req.Task, req.ContextFiles)
	})
	w.opts.Metrics.AgentCall(ctx, res.Implementer, string(PhaseImplement), impl.Success, impl.Elapsed)
	res.Implementation = impl

	if !impl.Success {
		w.progress.Emit(ProgressEvent{Phase: PhaseImplement, Agent: res.Implementer, Status: ProgressFailed, Message: impl.ErrorDetail})
		return res, fmt.Errorf("workflow: %w: %s: %s", ErrImplementationFailed, res.Implementer, impl.ErrorDetail)
	}
	w.progress.Emit(ProgressEvent{Phase: PhaseImplement, Agent: res.Implementer, Status: ProgressComplete, Message: impl.Elapsed.Round(time.Millisecond).String()})

	// Phase 2: parallel review.
	slog.Info("reviewing", "run", res.RunID, "reviewers", res.Reviewers, "timeout", w.opts.Timeout)
	res.Batch = w.reviews.ReviewAll(ctx, impl, w.reviewers, req.Task, agent.ListContext(req.ContextFiles), w.opts.Timeout)
	res.Diagnostics = append(res.Diagnostics, res.Batch.Diagnostics...)

	// Phase 3: sequential improvement.
	if req.Improve && len(res.Batch.Reviews) > 0 {
		outcome, err := w.improve(ctx, impl.Output, req.Task, res.Batch.Reviews)
		if err != nil {
			slog.Warn("improvement phase skipped", "run", res.RunID, "err", err)
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: DiagArtifactUnavailable, Detail: err.Error()})
		} else {
			res.Improvement = outcome
			res.Diagnostics = append(res.Diagnostics, outcome.Diagnostics...)
		}
	}

	// Phase 4: aggregate.
	w.progress.Emit(ProgressEvent{Phase: PhaseAggregate, Status: ProgressWorking})
	res.Summary = aggregate.Aggregate(res.Batch.Reviews)
	res.Themes = w.opts.Scorer.Score(res.Batch.Reviews)
	w.progress.Emit(ProgressEvent{Phase: PhaseAggregate, Status: ProgressComplete, Message: res.Outcome()})

	slog.Info("workflow complete", "run", res.RunID, "outcome", res.Outcome(), "themes", len(res.Themes))
	return res, nil
}

// improve materializes the implementation as the shared artifact, runs the
// improvement coordinator over it and removes it again on every path.
func (w *Workflow) improve(ctx context.Context, content, task string, reviews []agent.Response) (*ImprovementOutcome, error) {
	art, err := NewArtifact(w.opts.ArtifactDir, w.opts.ArtifactSuffix, content)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := art.Remove(); err != nil {
			slog.Warn("artifact cleanup failed", "path", art.Path(), "err", err)
		}
	}()

	slog.Info("improving", "artifact", art.Path(), "reviews", len(reviews))
	outcome := w.improver.Improve(ctx, art, reviews, task, w.reviewers)
	return &outcome, nil
}

func agentNames(agents []agent.Agent) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
	}
	return names
}
