package orchestrator

import "fmt"

// DiagnosticKind classifies a non-fatal degradation.
type DiagnosticKind string

const (
	// DiagAgentFailure is a single reviewer fault; siblings are unaffected.
	DiagAgentFailure DiagnosticKind = "agent-failure"
	// DiagBatchTimeout means the review batch exceeded its deadline and all
	// of its reviews were discarded.
	DiagBatchTimeout DiagnosticKind = "batch-timeout"
	// DiagBatchCanceled means the caller's context ended the review batch.
	DiagBatchCanceled DiagnosticKind = "batch-canceled"
	// DiagImproveFailure is a failed improvement; the artifact keeps
	// whatever state the agent left it in.
	DiagImproveFailure DiagnosticKind = "improve-failure"
	// DiagArtifactUnavailable means the final artifact could not be read.
	DiagArtifactUnavailable DiagnosticKind = "artifact-unavailable"
	// DiagInvalidInput is a violated precondition of a coordinator call.
	DiagInvalidInput DiagnosticKind = "invalid-input"
)

// Diagnostic pairs a degradation with the agent and detail that caused it.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Agent  string         `json:"agent,omitempty"`
	Detail string         `json:"detail"`
}

func (d Diagnostic) String() string {
	if d.Agent == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Agent, d.Detail)
}
