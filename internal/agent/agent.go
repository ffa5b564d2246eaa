package agent

import "context"

// Agent is an external code-generation or review service. Each call spawns
// its own unit of work; implementations hold no state between calls.
//
// Calls never return Go errors. A fault in the underlying process or
// transport is reported as a Response with Success set to false.
type Agent interface {
	// Name identifies the agent within a run.
	Name() string

	// Implement produces an artifact for task, optionally informed by the
	// contents of contextFiles.
	Implement(ctx context.Context, task string, contextFiles []string) Response

	// Review critiques artifact against the original task.
	Review(ctx context.Context, artifact, task, reviewContext string) Response
}

// Improver is the optional capability of editing an artifact in place.
// Callers must check for it with a type assertion before invoking.
type Improver interface {
	// ImproveArtifact applies findings to the artifact stored at path.
	ImproveArtifact(ctx context.Context, path, findings, task string) Response
}

// Kind identifies which command-line tool family an agent wraps.
type Kind string

const (
	KindClaude  Kind = "claude"
	KindGemini  Kind = "gemini"
	KindCodex   Kind = "codex"
	KindGeneric Kind = "generic"
)

// Phase names the capability being exercised by a call.
type Phase string

const (
	PhaseImplement Phase = "implement"
	PhaseReview    Phase = "review"
	PhaseImprove   Phase = "improve"
)
