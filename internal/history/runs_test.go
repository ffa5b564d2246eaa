package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/aggregate"
	"github.com/dusk-indust/crossreview/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:          id,
		Task:        "write add",
		Implementer: "claude",
		Reviewers:   []string{"claude", "gemini"},
		Requested:   2,
		Succeeded:   2,
		Improved:    true,
		Themes:      []string{"security"},
		ReportPath:  "review.md",
		Status:      StatusComplete,
		StartedAt:   started,
		FinishedAt:  started.Add(3 * time.Second),
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	want := sampleRun("run-1", started)

	require.NoError(t, s.SaveRun(want))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, want.Task, got.Task)
	assert.Equal(t, want.Reviewers, got.Reviewers)
	assert.Equal(t, want.Themes, got.Themes)
	assert.Equal(t, 2, got.Succeeded)
	assert.True(t, got.Improved)
	assert.False(t, got.TimedOut)
	assert.Equal(t, "review.md", got.ReportPath)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.True(t, want.FinishedAt.Equal(got.FinishedAt))
}

func TestSaveRun_Upsert(t *testing.T) {
	s := newTestStore(t)
	r := sampleRun("run-1", time.Now())
	require.NoError(t, s.SaveRun(r))

	r.Status = StatusTimeout
	r.TimedOut = true
	r.Succeeded = 0
	r.Themes = nil
	require.NoError(t, s.SaveRun(r))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, StatusTimeout, got.Status)
	assert.True(t, got.TimedOut)
	assert.Empty(t, got.Themes)

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSaveRun_RequiresID(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveRun(Run{Task: "x"})
	require.Error(t, err)
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRun(sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := s.ListRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)
	assert.Equal(t, "run-2", runs[2].ID)

	all, err := s.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(sampleRun("run-1", time.Now())))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.GetRun("run-1")
	require.NoError(t, err)
}

func TestRunFromResult(t *testing.T) {
	started := time.Now()
	res := &orchestrator.Result{
		RunID:       "abc",
		Task:        "write add",
		Implementer: "claude",
		Reviewers:   []string{"gemini", "claude"},
		Batch: orchestrator.ReviewBatch{
			Requested: 2,
			Reviews:   []agent.Response{agent.Succeeded("gemini", "m", "ok", 0)},
		},
		Summary:     aggregate.Summary{TotalRequested: 1, TotalSucceeded: 1},
		Themes:      []aggregate.Theme{{Keyword: "bug", Count: 2}},
		Improvement: &orchestrator.ImprovementOutcome{},
		StartedAt:   started,
		FinishedAt:  started.Add(time.Second),
	}

	run := RunFromResult(res, "out.md", nil)
	assert.Equal(t, "abc", run.ID)
	assert.Equal(t, 2, run.Requested)
	assert.Equal(t, 1, run.Succeeded)
	assert.True(t, run.Improved)
	assert.Equal(t, []string{"bug"}, run.Themes)
	assert.Equal(t, StatusComplete, run.Status)

	res.Batch.TimedOut = true
	assert.Equal(t, StatusTimeout, RunFromResult(res, "", nil).Status)

	res.Batch.TimedOut = false
	res.Batch.Canceled = true
	assert.Equal(t, StatusCanceled, RunFromResult(res, "", nil).Status)

	assert.Equal(t, StatusFailed, RunFromResult(res, "", orchestrator.ErrImplementationFailed).Status)
}
