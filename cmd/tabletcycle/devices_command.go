package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tabletcycle/internal/devices"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List displays and tablets without changing any mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runner := devices.ExecRunner{Timeout: cfg.ToolTimeout()}
			xrandr := &devices.Xrandr{Binary: cfg.Tools.Xrandr, Runner: runner}
			xsetwacom := &devices.Xsetwacom{Binary: cfg.Tools.Xsetwacom, Runner: runner, Types: cfg.Tools.TabletTypes}

			displays, err := xrandr.Displays(cmd.Context())
			if err != nil {
				return err
			}
			tablets, err := xsetwacom.List(cmd.Context())
			if err != nil {
				return err
			}
			selected, err := xsetwacom.Tablets(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderDisplayTable(displays))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTabletTable(tablets, selected))
			return nil
		},
	}
}

func renderDisplayTable(displays []string) string {
	rows := make([][]string, 0, len(displays))
	for i, name := range displays {
		rows = append(rows, []string{strconv.Itoa(i), name})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{"-", "no connected displays"})
	}
	return renderTable([]string{"Index", "Display"}, rows, []columnAlignment{alignRight, alignLeft})
}

func renderTabletTable(tablets []devices.Tablet, selected []string) string {
	chosen := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		chosen[name] = struct{}{}
	}
	rows := make([][]string, 0, len(tablets))
	for _, t := range tablets {
		_, ok := chosen[t.Name]
		rows = append(rows, []string{t.Name, t.ID, t.Type, yesNo(ok)})
	}
	return renderTable([]string{"Tablet", "ID", "Type", "Cycled"}, rows, []columnAlignment{alignLeft, alignRight})
}
