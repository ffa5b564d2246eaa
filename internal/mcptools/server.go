package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewReviewMCPServer creates an MCP server with the review_code and
// list_runs tools registered.
func NewReviewMCPServer(svc *ReviewService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crossreview",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "review_code",
		Description: "Have one agent implement a coding task, let the other agents review it in parallel, optionally let them improve it in turn, and return the aggregated review with consensus themes.",
	}, svc.ReviewCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_runs",
		Description: "List recent review runs from the local history, newest first.",
	}, svc.ListRuns)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
