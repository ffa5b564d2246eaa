package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/crossreview/internal/history"
	"github.com/dusk-indust/crossreview/internal/orchestrator"
	"github.com/dusk-indust/crossreview/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

// RunnerFactory builds a runner for one review_code call. Empty arguments
// select the configured defaults.
type RunnerFactory func(implementer string, reviewers []string, timeout time.Duration) (orchestrator.Runner, error)

// RunStore persists finished runs. A nil RunStore disables history.
type RunStore interface {
	SaveRun(r history.Run) error
	ListRuns(limit int) ([]history.Run, error)
}

// ReviewService handles MCP tool calls for the review server mode.
type ReviewService struct {
	newRunner      RunnerFactory
	store          RunStore
	improveDefault bool
}

// NewReviewService creates a ReviewService. store may be nil.
func NewReviewService(newRunner RunnerFactory, store RunStore, improveDefault bool) *ReviewService {
	return &ReviewService{
		newRunner:      newRunner,
		store:          store,
		improveDefault: improveDefault,
	}
}

// ReviewCode runs one implement, review and improve cycle and returns its
// summary with the rendered report.
func (s *ReviewService) ReviewCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReviewCodeInput,
) (*mcp.CallToolResult, ReviewCodeOutput, error) {
	if input.Task == "" {
		return nil, ReviewCodeOutput{}, errors.New("task is required")
	}
	if input.TimeoutSeconds < 0 {
		return nil, ReviewCodeOutput{}, fmt.Errorf("timeoutSeconds must not be negative, got %d", input.TimeoutSeconds)
	}

	runner, err := s.newRunner(input.Implementer, input.Reviewers, time.Duration(input.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, ReviewCodeOutput{}, err
	}
	if c, ok := runner.(interface{ Close() }); ok {
		defer c.Close()
	}

	improve := s.improveDefault
	if input.Improve != nil {
		improve = *input.Improve
	}

	res, runErr := runner.Run(ctx, orchestrator.Request{
		Task:         input.Task,
		ContextFiles: input.ContextFiles,
		Improve:      improve,
	})
	if res == nil {
		return nil, ReviewCodeOutput{}, runErr
	}

	run := history.RunFromResult(res, "", runErr)
	s.save(run)

	out := ReviewCodeOutput{
		RunID:     res.RunID,
		Status:    run.Status,
		Outcome:   res.Outcome(),
		Succeeded: res.Summary.TotalSucceeded,
		Requested: res.Batch.Requested,
		TimedOut:  res.Batch.TimedOut,
		Themes:    run.Themes,
	}
	if out.Themes == nil {
		out.Themes = []string{}
	}
	if runErr != nil {
		out.Message = runErr.Error()
		return nil, out, nil
	}
	out.Report = report.Markdown(res)
	return nil, out, nil
}

// ListRuns returns recent runs from the history store.
func (s *ReviewService) ListRuns(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	if s.store == nil {
		return nil, ListRunsOutput{}, errors.New("run history is disabled")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}
	out := ListRunsOutput{Runs: make([]RunSummary, 0, len(runs))}
	for _, r := range runs {
		out.Runs = append(out.Runs, RunSummary{
			ID:          r.ID,
			Task:        r.Task,
			Implementer: r.Implementer,
			Reviewers:   r.Reviewers,
			Succeeded:   r.Succeeded,
			Requested:   r.Requested,
			Status:      r.Status,
			Themes:      r.Themes,
			StartedAt:   r.StartedAt.Format(time.RFC3339),
			Duration:    r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
		})
	}
	return nil, out, nil
}

func (s *ReviewService) save(run history.Run) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveRun(run); err != nil {
		slog.Warn("failed to record run", "run", run.ID, "err", err)
	}
}
