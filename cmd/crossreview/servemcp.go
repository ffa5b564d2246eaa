package main

import (
	"log/slog"
	"time"

	"github.com/dusk-indust/crossreview/internal/history"
	"github.com/dusk-indust/crossreview/internal/mcptools"
	"github.com/dusk-indust/crossreview/internal/orchestrator"
	"github.com/dusk-indust/crossreview/internal/telemetry"
	"github.com/spf13/cobra"
)

func newServeMCPCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve review_code and list_runs as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadAgentSet(global.ConfigPath, telemetry.Global())
			if err != nil {
				return err
			}

			var store mcptools.RunStore
			if set.cfg.History.Enabled {
				s, err := history.Open(set.cfg.History.Path)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			factory := func(implementer string, reviewers []string, timeout time.Duration) (orchestrator.Runner, error) {
				wf, err := set.workflow(implementer, reviewers, timeout)
				if err != nil {
					return nil, err
				}
				return wf, nil
			}
			svc := mcptools.NewReviewService(factory, store, set.cfg.Execution.Improve)

			slog.Info("serving MCP on stdio", "agents", set.cfg.AgentNames())
			return mcptools.RunStdio(cmd.Context(), mcptools.NewReviewMCPServer(svc))
		},
	}
}
