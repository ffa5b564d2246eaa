package orchestrator

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
)

// fakeAgent is a scriptable agent.Agent. Nil funcs succeed with a canned
// output.
type fakeAgent struct {
	name        string
	implementFn func(ctx context.Context, task string, files []string) agent.Response
	reviewFn    func(ctx context.Context, artifact, task, reviewContext string) agent.Response

	reviewCalls atomic.Int32
}

func (f *fakeAgent) Name() string { return f.name }

func (f *fakeAgent) Implement(ctx context.Context, task string, files []string) agent.Response {
	if f.implementFn != nil {
		return f.implementFn(ctx, task, files)
	}
	return agent.Succeeded(f.name, "fake", "func Add(a, b int) int { return a + b }", time.Millisecond)
}

func (f *fakeAgent) Review(ctx context.Context, artifact, task, reviewContext string) agent.Response {
	f.reviewCalls.Add(1)
	if f.reviewFn != nil {
		return f.reviewFn(ctx, artifact, task, reviewContext)
	}
	return agent.Succeeded(f.name, "fake", "review by "+f.name, time.Millisecond)
}

// fakeImprover adds the improve capability to fakeAgent.
type fakeImprover struct {
	*fakeAgent
	improveFn    func(ctx context.Context, path, findings, task string) agent.Response
	improveCalls atomic.Int32
}

func (f *fakeImprover) ImproveArtifact(ctx context.Context, path, findings, task string) agent.Response {
	f.improveCalls.Add(1)
	if f.improveFn != nil {
		return f.improveFn(ctx, path, findings, task)
	}
	return agent.Succeeded(f.name, "fake", "improved", time.Millisecond)
}

// reviewWith returns a reviewFn that answers output after delay.
func reviewWith(name, output string, delay time.Duration) func(context.Context, string, string, string) agent.Response {
	return func(ctx context.Context, _, _, _ string) agent.Response {
		select {
		case <-time.After(delay):
			return agent.Succeeded(name, "fake", output, delay)
		case <-ctx.Done():
			return agent.Failed(name, "fake", "", ctx.Err().Error(), delay)
		}
	}
}

// reviewFails returns a reviewFn that fails immediately with detail.
func reviewFails(name, detail string) func(context.Context, string, string, string) agent.Response {
	return func(context.Context, string, string, string) agent.Response {
		return agent.Failed(name, "fake", "", detail, 0)
	}
}

// reviewHangs returns a reviewFn that blocks until release is closed,
// ignoring its context.
func reviewHangs(release <-chan struct{}) func(context.Context, string, string, string) agent.Response {
	return func(context.Context, string, string, string) agent.Response {
		<-release
		return agent.Response{}
	}
}

func asAgents(fs ...agent.Agent) []agent.Agent { return fs }
