package orchestrator

import (
	"time"

	"github.com/dusk-indust/crossreview/internal/aggregate"
	"github.com/dusk-indust/crossreview/internal/telemetry"
)

// DefaultTimeout is the review batch deadline used when Options.Timeout is
// zero.
const DefaultTimeout = 300 * time.Second

// Options holds runtime configuration for a Workflow.
type Options struct {
	// Timeout is the global deadline for the parallel review batch.
	Timeout time.Duration

	// ArtifactDir is where the shared artifact is created. Empty means the
	// system temp directory.
	ArtifactDir string

	// ArtifactSuffix is appended to the artifact file name, e.g. ".go".
	ArtifactSuffix string

	// Scorer derives consensus themes. Nil means the default keyword scorer.
	Scorer aggregate.ThemeScorer

	// Metrics receives agent call and batch metrics. May be nil.
	Metrics *telemetry.Recorder
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ArtifactSuffix == "" {
		o.ArtifactSuffix = ".txt"
	}
	if o.Scorer == nil {
		o.Scorer = aggregate.NewKeywordScorer()
	}
	return o
}
