package agent

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the agent process itself has been killed.
const waitDelay = 2 * time.Second

// Compile-time interface checks.
var (
	_ Agent    = (*CLIAgent)(nil)
	_ Improver = (*CLIAgent)(nil)
)

// Spec describes how to launch one agent command-line tool.
type Spec struct {
	Kind       Kind
	Command    string
	Model      string
	ModelFlag  string
	PromptFlag string
	ExtraArgs  []string
	Env        []string
}

// CLIAgent runs an agent command-line tool once per call, passing the prompt
// as an argument and taking stdout as the output.
type CLIAgent struct {
	name string
	spec Spec
}

// NewCLIAgent creates a CLIAgent identified by name.
func NewCLIAgent(name string, spec Spec) *CLIAgent {
	return &CLIAgent{name: name, spec: spec}
}

// Name returns the agent's run-unique name.
func (a *CLIAgent) Name() string { return a.name }

// Implement asks the tool to implement task, inlining contextFiles.
func (a *CLIAgent) Implement(ctx context.Context, task string, contextFiles []string) Response {
	return a.run(ctx, PhaseImplement, ImplementPrompt(task, BuildContext(contextFiles)))
}

// Review asks the tool to review artifact.
func (a *CLIAgent) Review(ctx context.Context, artifact, task, reviewContext string) Response {
	return a.run(ctx, PhaseReview, ReviewPrompt(artifact, task, reviewContext))
}

// ImproveArtifact asks the tool to edit the file at path according to its
// own findings.
func (a *CLIAgent) ImproveArtifact(ctx context.Context, path, findings, task string) Response {
	return a.run(ctx, PhaseImprove, ImprovePrompt(path, findings, task))
}

// Args returns the full argument vector (excluding the command) for prompt.
func (a *CLIAgent) Args(prompt string) []string {
	args := make([]string, 0, len(a.spec.ExtraArgs)+4)
	args = append(args, a.spec.ExtraArgs...)
	if a.spec.Model != "" && a.spec.ModelFlag != "" {
		args = append(args, a.spec.ModelFlag, a.spec.Model)
	}
	if a.spec.PromptFlag != "" {
		args = append(args, a.spec.PromptFlag)
	}
	return append(args, prompt)
}

func (a *CLIAgent) model() string {
	if a.spec.Model != "" {
		return a.spec.Model
	}
	return string(a.spec.Kind)
}

func (a *CLIAgent) run(ctx context.Context, phase Phase, prompt string) Response {
	start := time.Now()

	cmd := exec.CommandContext(ctx, a.spec.Command, a.Args(prompt)...)
	cmd.WaitDelay = waitDelay
	if len(a.spec.Env) > 0 {
		cmd.Env = append(os.Environ(), a.spec.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		switch {
		case ctx.Err() != nil:
			detail = ctx.Err().Error()
		case detail == "":
			detail = err.Error()
		}
		slog.Debug("agent command failed", "agent", a.name, "phase", phase, "err", err, "elapsed", elapsed)
		return Failed(a.name, a.model(), stdout.String(), detail, elapsed)
	}

	slog.Debug("agent command finished", "agent", a.name, "phase", phase, "elapsed", elapsed)
	return Succeeded(a.name, a.model(), stdout.String(), elapsed)
}
