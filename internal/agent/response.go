package agent

import "time"

// Response is the uniform result envelope returned by every agent call.
// When Success is false, Output must be treated as unreliable and
// ErrorDetail describes the fault.
type Response struct {
	Success     bool          `json:"success"`
	Output      string        `json:"output"`
	ErrorDetail string        `json:"errorDetail,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
	Model       string        `json:"model"`
	Agent       string        `json:"agent"`
}

// Succeeded builds a successful Response.
func Succeeded(agent, model, output string, elapsed time.Duration) Response {
	return Response{
		Success: true,
		Output:  output,
		Elapsed: elapsed,
		Model:   model,
		Agent:   agent,
	}
}

// Failed builds a failed Response. An empty detail is replaced with a
// generic message so that failures always carry a diagnostic.
func Failed(agent, model, output, detail string, elapsed time.Duration) Response {
	if detail == "" {
		detail = "agent reported failure"
	}
	return Response{
		Output:      output,
		ErrorDetail: detail,
		Elapsed:     elapsed,
		Model:       model,
		Agent:       agent,
	}
}
