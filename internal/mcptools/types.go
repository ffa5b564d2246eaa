package mcptools

// --- MCP Tool Types for the review server mode (serve-mcp) ---
// The MCP Go SDK generates each tool's JSON schema from these struct tags.

// ReviewCodeInput is the input for the review_code MCP tool.
type ReviewCodeInput struct {
	Task           string   `json:"task" jsonschema:"the coding task to implement and review"`
	Implementer    string   `json:"implementer,omitempty" jsonschema:"configured agent that writes the code (default: claude)"`
	Reviewers      []string `json:"reviewers,omitempty" jsonschema:"configured agents that review the code (default: every enabled agent)"`
	ContextFiles   []string `json:"contextFiles,omitempty" jsonschema:"paths of files given to the implementer as context"`
	Improve        *bool    `json:"improve,omitempty" jsonschema:"let reviewers edit the artifact after reviewing (default from config)"`
	TimeoutSeconds int      `json:"timeoutSeconds,omitempty" jsonschema:"deadline for the whole review batch in seconds (default from config)"`
}

// ReviewCodeOutput is the result of the review_code MCP tool.
type ReviewCodeOutput struct {
	RunID     string   `json:"runId"`
	Status    string   `json:"status"`
	Outcome   string   `json:"outcome"`
	Succeeded int      `json:"succeeded"`
	Requested int      `json:"requested"`
	TimedOut  bool     `json:"timedOut"`
	Themes    []string `json:"themes"`
	Report    string   `json:"report,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// ListRunsInput is the input for the list_runs MCP tool.
type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs, newest first (default: 20)"`
}

// ListRunsOutput is the result of the list_runs MCP tool.
type ListRunsOutput struct {
	Runs []RunSummary `json:"runs"`
}

// RunSummary is one stored run as reported by list_runs.
type RunSummary struct {
	ID          string   `json:"id"`
	Task        string   `json:"task"`
	Implementer string   `json:"implementer"`
	Reviewers   []string `json:"reviewers"`
	Succeeded   int      `json:"succeeded"`
	Requested   int      `json:"requested"`
	Status      string   `json:"status"`
	Themes      []string `json:"themes,omitempty"`
	StartedAt   string   `json:"startedAt"`
	Duration    string   `json:"duration"`
}
