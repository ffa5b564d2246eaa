package orchestrator

import (
	"fmt"
	"sync"
)

// ProgressReporter emits progress events through a buffered channel.
// Emit is safe after Close because abandoned reviewer goroutines may still
// report once the workflow has finished.
type ProgressReporter struct {
	mu     sync.RWMutex
	closed bool
	ch     chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event without blocking. Events are dropped when the
// channel is full. A nil reporter drops everything.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	if pr == nil {
		return
	}
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	if pr.closed {
		return
	}
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel. Subsequent calls are no-ops.
func (pr *ProgressReporter) Close() {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if !pr.closed {
		pr.closed = true
		close(pr.ch)
	}
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	label := string(event.Phase)
	if event.Agent != "" {
		label = fmt.Sprintf("%s/%s", event.Phase, event.Agent)
	}
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  \u25cb %s (pending)", label)
	case ProgressWorking:
		return fmt.Sprintf("  \u25cf %s...", label)
	case ProgressComplete:
		if event.Message != "" {
			return fmt.Sprintf("  \u2713 %s complete (%s)", label, event.Message)
		}
		return fmt.Sprintf("  \u2713 %s complete", label)
	case ProgressFailed:
		return fmt.Sprintf("  \u2717 %s failed: %s", label, event.Message)
	case ProgressSkipped:
		return fmt.Sprintf("  - %s skipped: %s", label, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", label)
	}
}
