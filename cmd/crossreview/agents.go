package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/config"
	"github.com/dusk-indust/crossreview/internal/orchestrator"
	"github.com/dusk-indust/crossreview/internal/telemetry"
)

const (
	defaultImplementer = "gemini"
	defaultReviewer    = "claude"
)

// agentSet builds configured agents into workflows.
type agentSet struct {
	cfg      *config.Config
	registry *agent.Registry
	metrics  *telemetry.Recorder
}

func loadAgentSet(configPath string, metrics *telemetry.Recorder) (*agentSet, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &agentSet{cfg: cfg, registry: agent.NewRegistry(), metrics: metrics}, nil
}

// resolve builds the implementer and the enabled reviewers. A disabled,
// unknown or unlaunchable implementer is an error; disabled or unlaunchable
// reviewers are dropped with a warning, and at least one reviewer must
// remain.
func (s *agentSet) resolve(implementer string, reviewers []string) (agent.Agent, []agent.Agent, error) {
	if implementer == "" {
		implementer = defaultImplementer
	}
	ac, err := s.cfg.Agent(implementer)
	if err != nil {
		return nil, nil, err
	}
	if !ac.Enabled {
		return nil, nil, fmt.Errorf("implementer %q is not enabled", implementer)
	}
	if _, err := agent.Probe(ac.Spec()); err != nil {
		return nil, nil, fmt.Errorf("implementer %q: %w", implementer, err)
	}
	impl, err := s.registry.Build(implementer, ac.Spec())
	if err != nil {
		return nil, nil, err
	}

	if len(reviewers) == 0 {
		reviewers = []string{defaultReviewer}
	}
	seen := make(map[string]bool, len(reviewers))
	var built []agent.Agent
	for _, name := range reviewers {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		rc, err := s.cfg.Agent(name)
		if err != nil {
			return nil, nil, err
		}
		if !rc.Enabled {
			slog.Warn("reviewer is not enabled, skipping", "agent", name)
			continue
		}
		if _, err := agent.Probe(rc.Spec()); err != nil {
			slog.Warn("reviewer is unavailable, skipping", "agent", name, "err", err)
			continue
		}
		a, err := s.registry.Build(name, rc.Spec())
		if err != nil {
			return nil, nil, err
		}
		built = append(built, a)
	}
	if len(built) == 0 {
		return nil, nil, errors.New("no enabled reviewers")
	}
	return impl, built, nil
}

// workflow builds a Workflow for one run. A zero timeout selects the
// configured one.
func (s *agentSet) workflow(implementer string, reviewers []string, timeout time.Duration) (*orchestrator.Workflow, error) {
	impl, revs, err := s.resolve(implementer, reviewers)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = s.cfg.Timeout()
	}
	return orchestrator.NewWorkflow(impl, revs, orchestrator.Options{
		Timeout:        timeout,
		ArtifactSuffix: s.cfg.Execution.ArtifactSuffix,
		Metrics:        s.metrics,
	}), nil
}
