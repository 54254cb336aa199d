package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tabletcycle/internal/coordctl"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running coordinator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := ctx.marker()
			if err != nil {
				return err
			}
			if timeout <= 0 {
				timeout = cfg.StopTimeout()
			}

			out := cmd.OutOrStdout()
			result, err := coordctl.Stop(cmd.Context(), m, coordctl.StopOptions{Timeout: timeout, Force: force})
			switch {
			case errors.Is(err, coordctl.ErrNotRunning):
				fmt.Fprintln(out, "Coordinator is not running")
				return nil
			case err != nil:
				return err
			case result.ForcedKill:
				fmt.Fprintf(out, "Coordinator (pid %d) did not exit in %s and was killed\n", result.PID, timeout)
			default:
				fmt.Fprintf(out, "Coordinator stopped (pid %d)\n", result.PID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Kill the coordinator if it does not exit in time")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "How long to wait for shutdown (default coordinator.stop_timeout_seconds)")
	return cmd
}
