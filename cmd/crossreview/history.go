package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dusk-indust/crossreview/internal/config"
	"github.com/dusk-indust/crossreview/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(global *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent runs, or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(global.ConfigPath)
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				run, err := store.GetRun(args[0])
				if err != nil {
					return err
				}
				return printRun(cmd.OutOrStdout(), run)
			}

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")
	return cmd
}

func printRuns(w io.Writer, runs []history.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tREVIEWS\tIMPLEMENTER\tTASK")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status,
			r.Succeeded, r.Requested, r.Implementer, truncate(r.Task, 50))
	}
	return tw.Flush()
}

func printRun(w io.Writer, r *history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Task:\t%s\n", r.Task)
	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "Implementer:\t%s\n", r.Implementer)
	fmt.Fprintf(tw, "Reviewers:\t%s\n", strings.Join(r.Reviewers, ", "))
	fmt.Fprintf(tw, "Reviews:\t%d/%d\n", r.Succeeded, r.Requested)
	fmt.Fprintf(tw, "Timed out:\t%t\n", r.TimedOut)
	fmt.Fprintf(tw, "Improved:\t%t\n", r.Improved)
	if len(r.Themes) > 0 {
		fmt.Fprintf(tw, "Themes:\t%s\n", strings.Join(r.Themes, ", "))
	}
	if r.ReportPath != "" {
		fmt.Fprintf(tw, "Report:\t%s\n", r.ReportPath)
	}
	fmt.Fprintf(tw, "Started:\t%s\n", r.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(tw, "Duration:\t%s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	return tw.Flush()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
