package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dusk-indust/crossreview/internal/history"
	"github.com/dusk-indust/crossreview/internal/orchestrator"
	"github.com/dusk-indust/crossreview/internal/report"
	"github.com/dusk-indust/crossreview/internal/telemetry"
	"github.com/spf13/cobra"
)

// runFlags are the flags of the run subcommand.
type runFlags struct {
	Implementer  string
	Reviewers    []string
	ContextFiles []string
	Output       string
	Format       string
	Timeout      int
	NoImprove    bool
	NoHistory    bool
	Metrics      bool
}

func newRunCmd(global *globalFlags) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Implement a task with one agent and review it with the others",
		Example: `  crossreview run "write a fibonacci function"
  crossreview run "implement quicksort" -i gemini -r claude
  crossreview run "optimize this function" -f example.py -o report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), global, flags, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Implementer, "implementer", "i", defaultImplementer, "agent that implements the task")
	f.StringSliceVarP(&flags.Reviewers, "reviewers", "r", []string{defaultReviewer}, "comma-separated reviewing agents")
	f.StringArrayVarP(&flags.ContextFiles, "context-file", "f", nil, "context file for the implementer (repeatable)")
	f.StringVarP(&flags.Output, "output", "o", "", "write the report to this path instead of stdout")
	f.StringVar(&flags.Format, "format", "markdown", "report format: markdown or json")
	f.IntVar(&flags.Timeout, "timeout", 0, "review batch deadline in seconds (default from config)")
	f.BoolVar(&flags.NoImprove, "no-improve", false, "review only, skip the improvement phase")
	f.BoolVar(&flags.NoHistory, "no-history", false, "do not record this run in the history database")
	f.BoolVar(&flags.Metrics, "metrics", false, "log agent call metrics at exit")

	return cmd
}

func runReview(ctx context.Context, global *globalFlags, flags runFlags, task string, stdout, stderr io.Writer) error {
	if flags.Format != "markdown" && flags.Format != "json" {
		return fmt.Errorf("unknown format %q (want markdown or json)", flags.Format)
	}
	if flags.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", flags.Timeout)
	}
	for _, path := range flags.ContextFiles {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("context file: %w", err)
		}
	}

	if flags.Metrics {
		flush := installMetrics()
		defer flush(ctx)
	}

	set, err := loadAgentSet(global.ConfigPath, telemetry.Global())
	if err != nil {
		return err
	}
	wf, err := set.workflow(flags.Implementer, flags.Reviewers, time.Duration(flags.Timeout)*time.Second)
	if err != nil {
		return err
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range wf.Progress() {
			fmt.Fprintln(stderr, orchestrator.FormatProgress(ev))
		}
	}()

	res, runErr := wf.Run(ctx, orchestrator.Request{
		Task:         task,
		ContextFiles: flags.ContextFiles,
		Improve:      set.cfg.Execution.Improve && !flags.NoImprove,
	})
	wf.Close()
	<-drained

	if res == nil {
		return runErr
	}

	if set.cfg.History.Enabled && !flags.NoHistory {
		recordRun(set.cfg.History.Path, history.RunFromResult(res, flags.Output, runErr))
	}
	if runErr != nil {
		return runErr
	}

	var text string
	if flags.Format == "json" {
		data, err := report.JSON(res)
		if err != nil {
			return err
		}
		text = string(data) + "\n"
	} else {
		text = report.Markdown(res)
	}

	if flags.Output != "" {
		if err := report.Save(flags.Output, text); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "report saved to %s\n", flags.Output)
	} else if _, err := io.WriteString(stdout, text); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "%s (run %s)\n", res.Outcome(), res.RunID)
	if len(res.Themes) > 0 {
		themes := make([]string, len(res.Themes))
		for i, th := range res.Themes {
			themes[i] = th.String()
		}
		fmt.Fprintf(stderr, "consensus: %s\n", strings.Join(themes, "; "))
	}
	return nil
}

// recordRun stores run in the history database. Failures are logged, not
// returned: history is a convenience and never fails a review.
func recordRun(path string, run history.Run) {
	store, err := history.Open(path)
	if err != nil {
		slog.Warn("run history unavailable", "path", path, "err", err)
		return
	}
	defer store.Close()

	if err := store.SaveRun(run); err != nil {
		slog.Warn("failed to record run", "run", run.ID, "err", err)
	}
}
