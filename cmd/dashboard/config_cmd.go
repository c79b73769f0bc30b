package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the stored API connection (base URL, tenant ID, API key)",
	}
	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigSetCmd(opts))
	cmd.AddCommand(newConfigResetCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored connection",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			cfg := a.store.Load(cmd.Context())
			if !reveal {
				cfg = cfg.Masked()
			}
			return writeJSONLine(cmd, cfg)
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the API key in full")
	return cmd
}

func newConfigSetCmd(opts *rootOptions) *cobra.Command {
	names := make([]string, 0, len(model.ConfigFields))
	for _, f := range model.ConfigFields {
		names = append(names, string(f))
	}

	return &cobra.Command{
		Use:       "set <field> <value>",
		Short:     "Set one field and save immediately",
		Long:      "Fields: " + strings.Join(names, ", ") + ". Values are stored as given; an empty string clears the field.",
		Args:      usageArgs(cobra.ExactArgs(2)),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			field := model.ConfigField(args[0])
			check := model.ClientConfig{}
			if !check.Set(field, args[1]) {
				return withCode(exitUsage, fmt.Errorf("unknown field %q, expected one of: %s", args[0], strings.Join(names, ", ")))
			}

			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			cfg, err := a.store.Update(cmd.Context(), func(c *model.ClientConfig) {
				c.Set(field, args[1])
			})
			if err != nil {
				return withCode(exitFailure, err)
			}
			return writeJSONLine(cmd, cfg.Masked())
		},
	}
}

func newConfigResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default connection",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			cfg := model.DefaultClientConfig()
			if err := a.store.Save(cmd.Context(), cfg); err != nil {
				return withCode(exitFailure, err)
			}
			return writeJSONLine(cmd, cfg)
		},
	}
}
