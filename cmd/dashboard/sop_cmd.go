package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

func newSopCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sop",
		Short: "Read or set where a contact sits in the SOP flow",
	}
	cmd.AddCommand(newSopStepsCmd())
	cmd.AddCommand(newSopGetCmd(opts))
	cmd.AddCommand(newSopSetCmd(opts))
	return cmd
}

func newSopStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the SOP steps",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			// fixed list, no config or remote call needed
			for _, s := range model.SopSteps {
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
}

func newSopGetCmd(opts *rootOptions) *cobra.Command {
	var contactID, userID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the current step of a contact or user",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			state, err := a.services.Sop.GetState(cmd.Context(), contactID, userID)
			if err != nil {
				return widgetError("load SOP state", err)
			}
			return writeJSONLine(cmd, state)
		},
	}
	cmd.Flags().StringVar(&contactID, "contact", "", "Contact ID")
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	return cmd
}

func newSopSetCmd(opts *rootOptions) *cobra.Command {
	var contactID, userID, step string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Move a contact or user to a step; any step may follow any other",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			state, err := a.services.Sop.SetState(cmd.Context(), contactID, userID, step)
			if err != nil {
				return widgetError("set SOP state", err)
			}
			return writeJSONLine(cmd, state)
		},
	}
	cmd.Flags().StringVar(&contactID, "contact", "", "Contact ID")
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&step, "step", "", "Step name (see: dashboard sop steps)")
	return cmd
}
