package main

import (
	"github.com/spf13/cobra"

	"onboarding/internal/platform/config"
)

type rootOptions struct {
	cfg      config.Config
	logLevel string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{cfg: config.FromEnv()}

	cmd := &cobra.Command{
		Use:           "onboarding",
		Short:         "Registration saga orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.logLevel != "" {
				opts.cfg.Server.LogLevel = opts.logLevel
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "overrides LOG_LEVEL (debug|info|warn|error)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newReapCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	return cmd
}
