package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}

			descs := reg.All()
			rows := make([][]string, 0, len(descs))
			for _, d := range descs {
				rows = append(rows, []string{
					d.Label,
					d.Name,
					titleTags(d.Categories),
					titleTags(d.Features),
					fmt.Sprintf("%d/%d", d.Counts.AudioIns, d.Counts.AudioOuts),
					fmt.Sprintf("%d/%d", d.Counts.MidiIns, d.Counts.MidiOuts),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No plugins registered")
				return nil
			}
			headers := []string{"Label", "Name", "Categories", "Features", "Audio", "MIDI"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}
