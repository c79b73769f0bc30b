package main

import (
	"github.com/spf13/cobra"
)

func newActivityCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Read the operator activity feed (needs NATS)",
	}

	var (
		after uint64
		limit int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent actions for the configured tenant, oldest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			tenantID := a.store.Load(cmd.Context()).TenantID
			events, err := a.services.Activity.Recent(cmd.Context(), tenantID, after, limit)
			if err != nil {
				return widgetError("load activity", err)
			}
			for _, e := range events {
				if err := writeJSONLine(cmd, e); err != nil {
					return err
				}
			}
			return nil
		},
	}
	list.Flags().Uint64Var(&after, "after", 0, "Only events after this sequence")
	list.Flags().IntVar(&limit, "limit", 50, "Maximum events (max 500)")

	cmd.AddCommand(list)
	return cmd
}
