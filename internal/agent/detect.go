package agent

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// ErrUnavailable is returned by Probe when an agent cannot be launched.
var ErrUnavailable = errors.New("agent unavailable")

// Availability is the probe result for one configured agent.
type Availability struct {
	Name    string
	Kind    Kind
	Command string
	// Path is the resolved executable, empty when Err is set.
	Path string
	Err  error
}

// OK reports whether the agent can be launched.
func (a Availability) OK() bool { return a.Err == nil }

// Probe resolves the executable for spec. Codex is always unavailable; any
// other kind needs a command found on PATH or at the given path.
func Probe(spec Spec) (string, error) {
	if spec.Kind == KindCodex {
		return "", fmt.Errorf("%w: codex is currently disabled", ErrUnavailable)
	}
	if spec.Command == "" {
		return "", fmt.Errorf("%w: no command configured", ErrUnavailable)
	}
	path, err := exec.LookPath(spec.Command)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return path, nil
}

// Detect probes every spec and returns the results ordered by name.
func Detect(specs map[string]Spec) []Availability {
	out := make([]Availability, 0, len(specs))
	for name, spec := range specs {
		path, err := Probe(spec)
		out = append(out, Availability{
			Name:    name,
			Kind:    spec.Kind,
			Command: spec.Command,
			Path:    path,
			Err:     err,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
