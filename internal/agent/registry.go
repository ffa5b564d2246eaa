package agent

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs an Agent named name from spec.
type Factory func(name string, spec Spec) (Agent, error)

// Registry maps agent kinds to their factory constructors.
type Registry struct {
	mu        sync.Mutex
	factories map[Kind]Factory
}

// NewRegistry creates a Registry pre-registered with the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[Kind]Factory),
	}
	r.factories[KindClaude] = newClaudeAgent
	r.factories[KindGemini] = newGeminiAgent
	r.factories[KindGeneric] = newGenericAgent
	r.factories[KindCodex] = newCodexAgent
	return r
}

// Register installs or replaces the factory for kind.
func (r *Registry) Register(kind Kind, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Build creates the agent named name using the factory for spec.Kind.
func (r *Registry) Build(name string, spec Spec) (Agent, error) {
	r.mu.Lock()
	factory, ok := r.factories[spec.Kind]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("agent %q: no factory registered for kind %q", name, spec.Kind)
	}
	return factory(name, spec)
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func newClaudeAgent(name string, spec Spec) (Agent, error) {
	if spec.Command == "" {
		spec.Command = "claude"
	}
	if spec.PromptFlag == "" {
		spec.PromptFlag = "-p"
	}
	if spec.ModelFlag == "" {
		spec.ModelFlag = "--model"
	}
	return NewCLIAgent(name, spec), nil
}

func newGeminiAgent(name string, spec Spec) (Agent, error) {
	if spec.Command == "" {
		spec.Command = "gemini"
	}
	if spec.PromptFlag == "" {
		spec.PromptFlag = "-p"
	}
	if spec.ModelFlag == "" {
		spec.ModelFlag = "--model"
	}
	return NewCLIAgent(name, spec), nil
}

func newGenericAgent(name string, spec Spec) (Agent, error) {
	if spec.Command == "" {
		return nil, fmt.Errorf("agent %q: generic kind requires a command", name)
	}
	return NewCLIAgent(name, spec), nil
}

func newCodexAgent(name string, _ Spec) (Agent, error) {
	return NewDisabledAgent(name, KindCodex, "codex is currently disabled"), nil
}
