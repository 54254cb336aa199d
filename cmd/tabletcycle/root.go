package main

import (
	"github.com/spf13/cobra"

	"tabletcycle/internal/coordrun"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "tabletcycle",
		Short: "Cycle a pen tablet across connected displays",
		Long: "Run tabletcycle from a hotkey. The first invocation maps every tablet to the\n" +
			"first display and keeps running; each later invocation moves the tablets to\n" +
			"the next display.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return coordrun.Run(cmd.Context(), cfg, coordrun.Options{Out: cmd.OutOrStdout()})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newStopCommand(ctx))
	rootCmd.AddCommand(newDevicesCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
