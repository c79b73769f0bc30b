package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the agent API (GET /health)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			status, err := a.services.Health.Check(cmd.Context())
			if err != nil {
				return widgetError("check health", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			if strings.HasPrefix(status, "DOWN") {
				return &cliError{code: exitRemote, msg: status}
			}
			return nil
		},
	}
}
