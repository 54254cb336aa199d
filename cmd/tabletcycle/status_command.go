package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tabletcycle/internal/coordctl"
	"tabletcycle/internal/deps"
	"tabletcycle/internal/procsignal"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show coordinator and tool status",
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
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			status := coordctl.Inspect(m, nil)
			lines := renderSectionHeader("coordinator", colorize)
			lines = append(lines, coordinatorStatusLines(status, colorize)...)

			if sig, err := procsignal.CycleSignal(cfg.Coordinator.SignalOffset); err != nil {
				lines = append(lines, renderStatusLine("cycle signal", statusError, err.Error(), colorize))
			} else {
				lines = append(lines, renderStatusLine("cycle signal", statusInfo, fmt.Sprintf("%s (%d)", procsignal.Name(sig), int(sig)), colorize))
			}

			configMessage := ctx.configPath
			if !ctx.configExists {
				configMessage += " (not found, defaults in use)"
			}
			lines = append(lines, renderStatusLine("config", statusInfo, configMessage, colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderDependencyTable(deps.CheckBinaries(deps.Requirements(cfg))))
			return nil
		},
	}
}

func coordinatorStatusLines(status coordctl.Status, colorize bool) []string {
	lines := []string{renderStatusLine("marker", statusInfo, status.MarkerPath, colorize)}
	switch {
	case status.Running:
		lines = append(lines, renderStatusLine("state", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize))
	case status.MarkerState == coordctl.MarkerAbsent:
		lines = append(lines, renderStatusLine("state", statusInfo, "not running", colorize))
	case status.MarkerState == coordctl.MarkerCorrupt:
		lines = append(lines, renderStatusLine("state", statusWarn, "corrupt marker: "+status.Detail, colorize))
	default:
		lines = append(lines, renderStatusLine("state", statusWarn, fmt.Sprintf("not running (pid %d: %s)", status.PID, status.Detail), colorize))
	}
	return lines
}

func renderDependencyTable(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		location := s.Path
		if !s.Available {
			location = s.Detail
		}
		rows = append(rows, []string{s.Name, s.Command, yesNo(s.Available), location})
	}
	return renderTable([]string{"Tool", "Command", "Available", "Location"}, rows, nil)
}
