package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes an executable shell script into a temp dir and returns
// its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCLIAgent_Args(t *testing.T) {
	a := NewCLIAgent("gemini", Spec{
		Kind:       KindGemini,
		Command:    "gemini",
		Model:      "gemini-2.5-pro",
		ModelFlag:  "--model",
		PromptFlag: "-p",
		ExtraArgs:  []string{"--yolo"},
	})

	assert.Equal(t, []string{"--yolo", "--model", "gemini-2.5-pro", "-p", "do it"}, a.Args("do it"))
}

func TestCLIAgent_Args_NoModel(t *testing.T) {
	a := NewCLIAgent("claude", Spec{Kind: KindClaude, Command: "claude", ModelFlag: "--model", PromptFlag: "-p"})
	assert.Equal(t, []string{"-p", "hi"}, a.Args("hi"))
}

func TestCLIAgent_Review_Success(t *testing.T) {
	script := writeScript(t, `echo "$@"`)
	a := NewCLIAgent("echo", Spec{Kind: KindGeneric, Command: script, PromptFlag: "-p"})

	resp := a.Review(context.Background(), "func main() {}", "write main", "File: main.go")

	require.True(t, resp.Success, resp.ErrorDetail)
	assert.Equal(t, "echo", resp.Agent)
	assert.Equal(t, "generic", resp.Model)
	assert.Empty(t, resp.ErrorDetail)
	assert.Contains(t, resp.Output, "Original requirement: write main")
	assert.Contains(t, resp.Output, "func main() {}")
	assert.Contains(t, resp.Output, "File: main.go")
}

func TestCLIAgent_NonZeroExit(t *testing.T) {
	script := writeScript(t, "echo partial\necho boom >&2\nexit 3")
	a := NewCLIAgent("broken", Spec{Kind: KindGeneric, Command: script, Model: "m1"})

	resp := a.Implement(context.Background(), "task", nil)

	assert.False(t, resp.Success)
	assert.Equal(t, "boom", resp.ErrorDetail)
	assert.Equal(t, "m1", resp.Model)
	assert.Equal(t, "partial\n", resp.Output)
}

func TestCLIAgent_MissingCommand(t *testing.T) {
	a := NewCLIAgent("ghost", Spec{Kind: KindGeneric, Command: filepath.Join(t.TempDir(), "does-not-exist")})

	resp := a.Review(context.Background(), "x", "y", "")

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorDetail)
}

func TestCLIAgent_ContextDeadline_KillsProcess(t *testing.T) {
	script := writeScript(t, "sleep 10")
	a := NewCLIAgent("slow", Spec{Kind: KindGeneric, Command: script})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp := a.Review(ctx, "x", "y", "")

	assert.False(t, resp.Success)
	assert.Contains(t, resp.ErrorDetail, "deadline exceeded")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCLIAgent_ImproveArtifact_EditsFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "artifact.txt")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	script := writeScript(t, `echo "v2" > "$TARGET"; echo edited`)
	a := NewCLIAgent("editor", Spec{Kind: KindGeneric, Command: script, Env: []string{"TARGET=" + target}})

	resp := a.ImproveArtifact(context.Background(), target, "use v2", "task")

	require.True(t, resp.Success, resp.ErrorDetail)
	assert.Equal(t, "edited\n", resp.Output)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(data))
}

func TestDisabledAgent_AlwaysFails(t *testing.T) {
	d := NewDisabledAgent("codex", KindCodex, "codex is currently disabled")

	impl := d.Implement(context.Background(), "task", nil)
	rev := d.Review(context.Background(), "code", "task", "")

	for _, resp := range []Response{impl, rev} {
		assert.False(t, resp.Success)
		assert.Equal(t, "codex", resp.Agent)
		assert.Equal(t, "codex is currently disabled", resp.ErrorDetail)
	}

	_, ok := Agent(d).(Improver)
	assert.False(t, ok, "disabled agents must not expose the improve capability")
}

func TestFailed_DefaultsDetail(t *testing.T) {
	resp := Failed("a", "m", "", "", time.Second)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorDetail)

	ok := Succeeded("a", "m", "out", time.Second)
	assert.True(t, ok.Success)
	assert.Empty(t, ok.ErrorDetail)
}
