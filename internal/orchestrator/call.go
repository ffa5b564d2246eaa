package orchestrator

import (
	"fmt"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
)

// invoke runs one agent call, converting a panic into a failed Response and
// normalizing the envelope so that ErrorDetail is set exactly when the call
// failed.
func invoke(name string, call func() agent.Response) (resp agent.Response) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			resp = agent.Failed(name, "", "", fmt.Sprintf("panic: %v", r), time.Since(start))
		}
	}()

	resp = call()
	if resp.Agent == "" {
		resp.Agent = name
	}
	if resp.Success {
		resp.ErrorDetail = ""
	} else if resp.ErrorDetail == "" {
		resp.ErrorDetail = "agent reported failure"
	}
	return resp
}
