package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/justyntemme/nativeplug/pkg/tags"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <label>",
		Short: "Describe a plugin's parameters and MIDI programs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openSession(args[0], nil)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			d := s.Descriptor()
			printSection(out, fmt.Sprintf("%s (%s)", d.Name, d.Label))
			fmt.Fprintf(out, "Maker:      %s\n", d.Maker)
			fmt.Fprintf(out, "Copyright:  %s\n", d.Copyright)
			fmt.Fprintf(out, "Categories: %s\n", titleTags(d.Categories))
			fmt.Fprintf(out, "Features:   %s\n", titleTags(d.Features))
			fmt.Fprintf(out, "Supports:   %s\n", titleTags(d.Supports))
			fmt.Fprintf(out, "Audio:      %d in, %d out\n", d.Counts.AudioIns, d.Counts.AudioOuts)
			fmt.Fprintf(out, "MIDI:       %d in, %d out\n", d.Counts.MidiIns, d.Counts.MidiOuts)
			fmt.Fprintf(out, "State:      %s\n", yesNo(d.HasFeature(tags.FeatureState)))
			fmt.Fprintln(out)

			rows, err := parameterRows(s)
			if err != nil {
				return err
			}
			printSection(out, "Parameters")
			if len(rows) == 0 {
				fmt.Fprintln(out, "No parameters")
			} else {
				fmt.Fprintln(out, renderTable(parameterHeaders, rows, parameterAligns))
			}

			programs := s.Programs()
			if len(programs) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			printSection(out, "MIDI programs")
			progRows := make([][]string, 0, len(programs))
			for i, p := range programs {
				progRows = append(progRows, []string{
					strconv.Itoa(i),
					strconv.FormatUint(uint64(p.Bank), 10),
					strconv.FormatUint(uint64(p.Program), 10),
					p.Name,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Bank", "Program", "Name"},
				progRows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
