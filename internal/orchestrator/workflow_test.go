package orchestrator

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(w *Workflow) {
	ch := w.Progress()
	go func() {
		for range ch {
		}
	}()
}

func TestWorkflow_Run_FullPipeline(t *testing.T) {
	dir := t.TempDir()
	impl := &fakeAgent{name: "claude"}
	a := appendingImprover("claude", "\n// reviewed")
	a.reviewFn = reviewWith("claude", "Possible security issue in input handling", time.Millisecond)
	b := &fakeAgent{name: "gemini", reviewFn: reviewWith("gemini", "SECURITY: validate input", 2*time.Millisecond)}

	w := NewWorkflow(impl, asAgents(a, b), Options{Timeout: time.Second, ArtifactDir: dir, ArtifactSuffix: ".go"})
	drain(w)
	defer w.Close()

	res, err := w.Run(context.Background(), Request{Task: "write add", Improve: true})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "claude", res.Implementer)
	assert.Equal(t, []string{"claude", "gemini"}, res.Reviewers)
	assert.True(t, res.Implementation.Success)
	assert.Equal(t, 2, res.Summary.TotalSucceeded)
	assert.Equal(t, "2 of 2 reviewers succeeded", res.Outcome())
	assert.Contains(t, res.Themes, aggregate.Theme{Keyword: "security", Count: 2})
	assert.False(t, res.FinishedAt.Before(res.StartedAt))

	require.NotNil(t, res.Improvement)
	assert.Equal(t, int32(1), a.improveCalls.Load())
	assert.True(t, res.Improvement.FinalAvailable)
	assert.Equal(t, "func Add(a, b int) int { return a + b }\n// reviewed", res.Improvement.FinalContent)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "artifact must be removed after the run")
}

func TestWorkflow_Run_ImplementationFailure(t *testing.T) {
	impl := &fakeAgent{
		name: "claude",
		implementFn: func(context.Context, string, []string) agent.Response {
			return agent.Failed("claude", "fake", "", "not logged in", 0)
		},
	}
	reviewer := &fakeAgent{name: "gemini"}

	w := NewWorkflow(impl, asAgents(reviewer), Options{})
	drain(w)
	defer w.Close()

	res, err := w.Run(context.Background(), Request{Task: "write add", Improve: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImplementationFailed))
	assert.Contains(t, err.Error(), "not logged in")
	require.NotNil(t, res)
	assert.False(t, res.Implementation.Success)
	assert.Zero(t, reviewer.reviewCalls.Load())
}

func TestWorkflow_Run_ImproveDisabled(t *testing.T) {
	impl := &fakeAgent{name: "claude"}
	a := appendingImprover("gemini", "+x")

	w := NewWorkflow(impl, asAgents(a), Options{Timeout: time.Second})
	drain(w)
	defer w.Close()

	res, err := w.Run(context.Background(), Request{Task: "write add"})
	require.NoError(t, err)
	assert.Nil(t, res.Improvement)
	assert.Zero(t, a.improveCalls.Load())
	assert.Equal(t, 1, res.Summary.TotalSucceeded)
}

func TestWorkflow_Run_ReviewTimeoutSkipsImprovement(t *testing.T) {
	release := hangRelease(t)
	impl := &fakeAgent{name: "claude"}
	stuck := &fakeImprover{fakeAgent: &fakeAgent{name: "stuck", reviewFn: reviewHangs(release)}}

	w := NewWorkflow(impl, asAgents(stuck), Options{Timeout: 30 * time.Millisecond})
	drain(w)
	defer w.Close()

	res, err := w.Run(context.Background(), Request{Task: "write add", Improve: true})
	require.NoError(t, err)
	assert.True(t, res.Batch.TimedOut)
	assert.Nil(t, res.Improvement)
	assert.Empty(t, res.Themes)
	assert.Equal(t, 0, res.Summary.TotalSucceeded)
	assert.Equal(t, []DiagnosticKind{DiagBatchTimeout}, diagKinds(res.Diagnostics))
	assert.Zero(t, stuck.improveCalls.Load())
}

func TestWorkflow_Run_Validation(t *testing.T) {
	w := NewWorkflow(nil, nil, Options{})
	defer w.Close()

	_, err := w.Run(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task is required")

	_, err = w.Run(context.Background(), Request{Task: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "implementer is required")
}

func TestWorkflow_Run_ContextFilesReachAgents(t *testing.T) {
	var gotFiles []string
	var gotContext string
	impl := &fakeAgent{
		name: "claude",
		implementFn: func(_ context.Context, _ string, files []string) agent.Response {
			gotFiles = files
			return agent.Succeeded("claude", "fake", "code", 0)
		},
	}
	reviewer := &fakeAgent{
		name: "gemini",
		reviewFn: func(_ context.Context, _, _, reviewContext string) agent.Response {
			gotContext = reviewContext
			return agent.Succeeded("gemini", "fake", "ok", 0)
		},
	}

	w := NewWorkflow(impl, asAgents(reviewer), Options{Timeout: time.Second})
	drain(w)
	defer w.Close()

	_, err := w.Run(context.Background(), Request{Task: "t", ContextFiles: []string{"a.go", "b.go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, gotFiles)
	assert.Equal(t, "File: a.go\nFile: b.go", gotContext)
}
