package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	ConfigPath string
	Verbose    bool
}

func newRootCmd(version string) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "crossreview",
		Short:         "Have one coding agent implement a task and the others review and improve it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr(), flags.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default: crossreview.yaml, env: CROSSREVIEW_CONFIG)")
	cmd.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(newRunCmd(&flags))
	cmd.AddCommand(newHistoryCmd(&flags))
	cmd.AddCommand(newServeMCPCmd(&flags))
	cmd.AddCommand(newDoctorCmd(&flags))
	cmd.AddCommand(newVersionCmd(version))

	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.Version = version

	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crossreview version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), version+"\n")
			return err
		},
	}
}
