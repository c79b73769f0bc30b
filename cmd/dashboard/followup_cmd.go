package main

import (
	"github.com/spf13/cobra"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

func newFollowupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "followup",
		Short: "Inspect the follow-up queue",
	}
	cmd.AddCommand(newFollowupListCmd(opts))
	cmd.AddCommand(newFollowupCountsCmd(opts))
	return cmd
}

func newFollowupListCmd(opts *rootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List follow-ups with a status",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			rows, err := a.services.Followups.List(cmd.Context(), model.FollowUpStatus(status))
			if err != nil {
				return widgetError("load follow-ups", err)
			}
			return writeJSONPretty(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&status, "status", string(model.FollowUpPending), "Status: pending, sent or failed")
	return cmd
}

func newFollowupCountsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Count follow-ups per status",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			counts, err := a.services.Followups.Counts(cmd.Context())
			if err != nil {
				return widgetError("load follow-up counts", err)
			}
			return writeJSONLine(cmd, counts)
		},
	}
}
