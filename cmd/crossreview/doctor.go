package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dusk-indust/crossreview/internal/agent"
	"github.com/dusk-indust/crossreview/internal/config"
	"github.com/spf13/cobra"
)

func newDoctorCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that every enabled agent can be launched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(global.ConfigPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			specs := make(map[string]agent.Spec)
			for _, name := range cfg.AgentNames() {
				if ac := cfg.Agents[name]; ac.Enabled {
					specs[name] = ac.Spec()
				}
			}
			if len(specs) == 0 {
				return errors.New("no agents are enabled")
			}

			failed := 0
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "AGENT\tKIND\tSTATUS\tDETAIL")
			for _, a := range agent.Detect(specs) {
				if a.OK() {
					fmt.Fprintf(tw, "%s\t%s\tok\t%s\n", a.Name, a.Kind, a.Path)
					continue
				}
				failed++
				fmt.Fprintf(tw, "%s\t%s\tmissing\t%v\n", a.Name, a.Kind, a.Err)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("doctor checks failed: %d of %d enabled agents unavailable", failed, len(specs))
			}
			return nil
		},
	}
}
