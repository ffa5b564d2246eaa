package agent

import "context"

var _ Agent = (*DisabledAgent)(nil)

// DisabledAgent stands in for a tool that cannot currently be invoked. Every
// call fails immediately with the configured reason. It has no Improver
// capability.
type DisabledAgent struct {
	name   string
	kind   Kind
	reason string
}

// NewDisabledAgent creates a DisabledAgent.
func NewDisabledAgent(name string, kind Kind, reason string) *DisabledAgent {
	return &DisabledAgent{name: name, kind: kind, reason: reason}
}

func (d *DisabledAgent) Name() string { return d.name }

func (d *DisabledAgent) Implement(context.Context, string, []string) Response {
	return Failed(d.name, string(d.kind), "", d.reason, 0)
}

func (d *DisabledAgent) Review(context.Context, string, string, string) Response {
	return Failed(d.name, string(d.kind), "", d.reason, 0)
}
