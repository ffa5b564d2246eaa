package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dusk-indust/crossreview/internal/orchestrator"
)

// ErrNotFound is returned by GetRun when no run has the given id.
var ErrNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusComplete = "complete"
	StatusTimeout  = "timeout"
	StatusCanceled = "canceled"
	StatusFailed   = "failed"
)

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one row of the runs table.
type Run struct {
	ID          string    `json:"id"`
	Task        string    `json:"task"`
	Implementer string    `json:"implementer"`
	Reviewers   []string  `json:"reviewers"`
	Requested   int       `json:"requested"`
	Succeeded   int       `json:"succeeded"`
	TimedOut    bool      `json:"timed_out"`
	Improved    bool      `json:"improved"`
	Themes      []string  `json:"themes,omitempty"`
	ReportPath  string    `json:"report_path,omitempty"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RunFromResult summarizes res for storage. runErr is the error Workflow.Run
// returned alongside res, if any.
func RunFromResult(res *orchestrator.Result, reportPath string, runErr error) Run {
	run := Run{
		ID:          res.RunID,
		Task:        res.Task,
		Implementer: res.Implementer,
		Reviewers:   res.Reviewers,
		Requested:   res.Batch.Requested,
		Succeeded:   res.Summary.TotalSucceeded,
		TimedOut:    res.Batch.TimedOut,
		Improved:    res.Improvement != nil,
		ReportPath:  reportPath,
		StartedAt:   res.StartedAt,
		FinishedAt:  res.FinishedAt,
	}
	for _, th := range res.Themes {
		run.Themes = append(run.Themes, th.Keyword)
	}

	switch {
	case runErr != nil:
		run.Status = StatusFailed
	case res.Batch.TimedOut:
		run.Status = StatusTimeout
	case res.Batch.Canceled:
		run.Status = StatusCanceled
	default:
		run.Status = StatusComplete
	}
	return run
}

const runColumns = `id, task, implementer, reviewers, requested, succeeded, timed_out, improved, themes, report_path, status, started_at, finished_at`

func scanRun(scanner interface {
	Scan(dest ...any) error
}) (*Run, error) {
	r := &Run{}
	var reviewers string
	var themes, reportPath sql.NullString
	var startedAt, finishedAt string
	err := scanner.Scan(&r.ID, &r.Task, &r.Implementer, &reviewers, &r.Requested, &r.Succeeded,
		&r.TimedOut, &r.Improved, &themes, &reportPath, &r.Status, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(reviewers), &r.Reviewers); err != nil {
		return nil, fmt.Errorf("decode reviewers: %w", err)
	}
	if themes.Valid && themes.String != "" {
		if err := json.Unmarshal([]byte(themes.String), &r.Themes); err != nil {
			return nil, fmt.Errorf("decode themes: %w", err)
		}
	}
	r.ReportPath = reportPath.String
	if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("decode started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
		return nil, fmt.Errorf("decode finished_at: %w", err)
	}
	return r, nil
}

// SaveRun inserts r, replacing any earlier row with the same id.
func (s *Store) SaveRun(r Run) error {
	if r.ID == "" {
		return errors.New("history: save run: id is required")
	}
	reviewers, err := json.Marshal(nonNil(r.Reviewers))
	if err != nil {
		return fmt.Errorf("history: save run: %w", err)
	}
	var themes []byte
	if len(r.Themes) > 0 {
		if themes, err = json.Marshal(r.Themes); err != nil {
			return fmt.Errorf("history: save run: %w", err)
		}
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			succeeded = excluded.succeeded,
			timed_out = excluded.timed_out,
			improved = excluded.improved,
			themes = excluded.themes,
			report_path = excluded.report_path,
			status = excluded.status,
			finished_at = excluded.finished_at`,
		r.ID, r.Task, r.Implementer, string(reviewers), r.Requested, r.Succeeded,
		r.TimedOut, r.Improved, nullString(themes), r.ReportPath, r.Status,
		r.StartedAt.UTC().Format(timeLayout), r.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("history: save run %s: %w", r.ID, err)
	}
	return nil
}

// GetRun returns the run with id, or ErrNotFound.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullString(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
