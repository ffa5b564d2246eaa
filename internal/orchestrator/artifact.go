package orchestrator

import (
	"errors"
	"fmt"
	"os"
)

// Artifact is the single mutable file passed through the improvement phase.
// Its path is stable for the lifetime of one run. Only one agent call may
// touch it at a time; the sequential improvement loop guarantees that.
type Artifact struct {
	path string
}

// NewArtifact writes content to a new temp file in dir (os.TempDir when
// empty) whose name ends in suffix.
func NewArtifact(dir, suffix, content string) (*Artifact, error) {
	f, err := os.CreateTemp(dir, "crossreview-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("artifact: create: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("artifact: write %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("artifact: close %s: %w", f.Name(), err)
	}
	return &Artifact{path: f.Name()}, nil
}

// Path returns the artifact's handle.
func (a *Artifact) Path() string {
	return a.path
}

// Read returns the artifact's current content.
func (a *Artifact) Read() (string, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return "", fmt.Errorf("artifact: read %s: %w", a.path, err)
	}
	return string(data), nil
}

// Remove deletes the artifact. Removing an already-deleted artifact is not
// an error.
func (a *Artifact) Remove() error {
	if err := os.Remove(a.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("artifact: remove %s: %w", a.path, err)
	}
	return nil
}
