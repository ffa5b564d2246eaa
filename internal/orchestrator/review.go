package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// ReviewBatch is the outcome of one parallel review fan-out.
type ReviewBatch struct {
	// Reviews holds successful reviews in completion order. It is empty
	// whenever the batch timed out or was canceled.
	Reviews []agent.Response `json:"reviews"`

	// Requested is the number of reviewers the batch was sent to.
	Requested int `json:"requested"`

	// TimedOut reports that the global deadline elapsed before every
	// reviewer settled.
	TimedOut bool `json:"timedOut"`

	// Canceled reports that the caller's context ended the batch.
	Canceled bool `json:"canceled"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Outcome describes the batch for users, distinguishing partial success from
// a timed-out batch.
func (b ReviewBatch) Outcome() string {
	switch {
	case b.TimedOut:
		return fmt.Sprintf("0 of %d reviewers responded in time (review batch timed out)", b.Requested)
	case b.Canceled:
		return fmt.Sprintf("0 of %d reviews kept (review batch canceled)", b.Requested)
	default:
		return fmt.Sprintf("%d of %d reviewers succeeded", len(b.Reviews), b.Requested)
	}
}

// ReviewCoordinator sends one artifact to many reviewers concurrently and
// collects the successful reviews.
type ReviewCoordinator struct {
	onProgress func(ProgressEvent)
	metrics    *telemetry.Recorder
}

// NewReviewCoordinator creates a ReviewCoordinator. onProgress is called from
// reviewer goroutines and may be nil; so may metrics.
func NewReviewCoordinator(onProgress func(ProgressEvent), metrics *telemetry.Recorder) *ReviewCoordinator {
	return &ReviewCoordinator{
		onProgress: onProgress,
		metrics:    metrics,
	}
}

// ReviewAll issues one Review call per reviewer in parallel and waits for all
// of them or for timeout, whichever comes first.
//
// A reviewer that fails is excluded from the result and reported as a
// diagnostic; its siblings keep running. If the timeout elapses first, every
// pending call is canceled and the batch returns no reviews at all, including
// those that had already completed. The timeout is evaluated for the batch,
// never per reviewer.
func (c *ReviewCoordinator) ReviewAll(
	ctx context.Context,
	artifact agent.Response,
	reviewers []agent.Agent,
	task, reviewContext string,
	timeout time.Duration,
) ReviewBatch {
	batch := ReviewBatch{Requested: len(reviewers)}
	if len(reviewers) == 0 {
		batch.Diagnostics = []Diagnostic{{Kind: DiagInvalidInput, Detail: "no reviewers"}}
		return batch
	}
	if timeout <= 0 {
		batch.Diagnostics = []Diagnostic{{Kind: DiagInvalidInput, Detail: fmt.Sprintf("timeout must be positive, got %s", timeout)}}
		return batch
	}

	bctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		reviews []agent.Response
		diags   []Diagnostic
	)

	var g errgroup.Group
	for _, reviewer := range reviewers {
		name := reviewer.Name()
		c.emit(ProgressEvent{Phase: PhaseReview, Agent: name, Status: ProgressPending})

		g.Go(func() error {
			c.emit(ProgressEvent{Phase: PhaseReview, Agent: name, Status: ProgressWorking})

			resp := invoke(name, func() agent.Response {
				return reviewer.Review(bctx, artifact.Output, task, reviewContext)
			})
			c.metrics.AgentCall(bctx, name, string(PhaseReview), resp.Success, resp.Elapsed)

			mu.Lock()
			defer mu.Unlock()
			if !resp.Success && bctx.Err() != nil {
				// Cut off by the batch deadline or the caller; abandon reports it.
				c.emit(ProgressEvent{Phase: PhaseReview, Agent: name, Status: ProgressFailed, Message: resp.ErrorDetail})
				return nil
			}
			if !resp.Success {
				slog.Warn("reviewer failed", "agent", name, "detail", resp.ErrorDetail)
				diags = append(diags, Diagnostic{Kind: DiagAgentFailure, Agent: name, Detail: resp.ErrorDetail})
				c.emit(ProgressEvent{Phase: PhaseReview, Agent: name, Status: ProgressFailed, Message: resp.ErrorDetail})
				return nil
			}
			reviews = append(reviews, resp)
			c.emit(ProgressEvent{Phase: PhaseReview, Agent: name, Status: ProgressComplete, Message: resp.Elapsed.Round(time.Millisecond).String()})
			return nil
		})
	}

	// late is written before done is closed and read only after.
	var late bool
	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		late = bctx.Err() != nil
		close(done)
	}()

	select {
	case <-done:
	case <-bctx.Done():
	}
	settled := false
	select {
	case <-done:
		settled = !late
	default:
	}
	if !settled {
		cancel()
		return c.abandon(ctx, batch, timeout, &mu, &reviews, &diags)
	}

	batch.Reviews = reviews
	batch.Diagnostics = diags
	c.metrics.ReviewBatch(ctx, telemetry.BatchComplete)
	slog.Info("review batch complete", "requested", batch.Requested, "succeeded", len(reviews))
	return batch
}

// abandon builds the empty result for a batch whose deadline or parent
// context ended before every reviewer settled. Reviewer goroutines may still
// be running, so the shared slices are read under mu.
func (c *ReviewCoordinator) abandon(
	ctx context.Context,
	batch ReviewBatch,
	timeout time.Duration,
	mu *sync.Mutex,
	reviews *[]agent.Response,
	diags *[]Diagnostic,
) ReviewBatch {
	mu.Lock()
	completed := len(*reviews)
	batch.Diagnostics = append([]Diagnostic(nil), *diags...)
	mu.Unlock()

	if ctx.Err() != nil {
		batch.Canceled = true
		batch.Diagnostics = append(batch.Diagnostics, Diagnostic{
			Kind:   DiagBatchCanceled,
			Detail: fmt.Sprintf("review batch canceled: %v; discarded %d completed reviews", ctx.Err(), completed),
		})
		c.metrics.ReviewBatch(ctx, telemetry.BatchCanceled)
		slog.Error("review batch canceled", "requested", batch.Requested, "discarded", completed, "err", ctx.Err())
		return batch
	}

	batch.TimedOut = true
	batch.Diagnostics = append(batch.Diagnostics, Diagnostic{
		Kind:   DiagBatchTimeout,
		Detail: fmt.Sprintf("review batch exceeded %s; discarded %d completed reviews", timeout, completed),
	})
	c.metrics.ReviewBatch(ctx, telemetry.BatchTimeout)
	slog.Error("review batch timed out", "timeout", timeout, "requested", batch.Requested, "discarded", completed)
	return batch
}

// emit sends a progress event if a callback is registered.
func (c *ReviewCoordinator) emit(ev ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(ev)
	}
}
