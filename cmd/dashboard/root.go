package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string

	app *app
}

// load builds the app on first use.
func (o *rootOptions) load(cmd *cobra.Command, server bool) (*app, error) {
	if o.app != nil {
		return o.app, nil
	}
	a, err := newApp(cmd.Context(), o, server)
	if err != nil {
		return nil, err
	}
	o.app = a
	return a, nil
}

func (o *rootOptions) close() {
	if o.app != nil {
		o.app.Close()
		o.app = nil
	}
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Operator dashboard for the AI agent platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default: environment only)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	cmd.AddCommand(newSettingsCmd(opts))
	cmd.AddCommand(newKBCmd(opts))
	cmd.AddCommand(newFollowupCmd(opts))
	cmd.AddCommand(newContactsCmd(opts))
	cmd.AddCommand(newSopCmd(opts))
	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newActivityCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	requireSubcommand(cmd)
	return cmd, opts
}

// requireSubcommand makes every command group print its help when called
// bare and reject a stray word as a usage error instead of exiting 0.
func requireSubcommand(cmd *cobra.Command) {
	if !cmd.HasSubCommands() {
		return
	}
	if cmd.Run == nil && cmd.RunE == nil {
		cmd.Args = usageArgs(cobra.NoArgs)
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		}
	}
	for _, sub := range cmd.Commands() {
		requireSubcommand(sub)
	}
}

// usageArgs marks argument count errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withCode(exitUsage, check(cmd, args))
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd, opts := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	opts.close()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}
