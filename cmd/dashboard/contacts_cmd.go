package main

import (
	"github.com/spf13/cobra"
)

func newContactsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Browse tenant contacts",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			contacts, err := a.services.Contacts.List(cmd.Context(), limit)
			if err != nil {
				return widgetError("load contacts", err)
			}
			return writeJSONPretty(cmd, contacts)
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "Maximum contacts (1-200, default: server default)")

	cmd.AddCommand(list)
	return cmd
}
