package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/justyntemme/nativeplug/pkg/event"
	"github.com/justyntemme/nativeplug/pkg/host"
	"github.com/justyntemme/nativeplug/pkg/host/presets"
)

func newPresetCommand(ctx *commandContext) *cobra.Command {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved plugin state",
	}

	presetCmd.AddCommand(newPresetSaveCommand(ctx))
	presetCmd.AddCommand(newPresetLoadCommand(ctx))
	presetCmd.AddCommand(newPresetListCommand(ctx))
	presetCmd.AddCommand(newPresetDeleteCommand(ctx))

	return presetCmd
}

func (c *commandContext) withPresets(ctx context.Context, fn func(*presets.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := presets.Open(ctx, cfg.Presets.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newPresetSaveCommand(ctx *commandContext) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "save <label> <name>",
		Short: "Save a plugin's state as a preset",
		Long: `Save instantiates the plugin, applies the --set assignments (rtsafe
parameters through one processed block) and stores the resulting state.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, name := args[0], args[1]
			s, err := ctx.openSession(label, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			events, err := applyAssignments(s, list)
			if err != nil {
				return err
			}
			if len(events) > 0 {
				if err := processSilence(s, events); err != nil {
					return err
				}
			}

			blob, err := s.SaveState()
			if err != nil {
				return err
			}
			err = ctx.withPresets(cmd.Context(), func(store *presets.Store) error {
				return store.Save(cmd.Context(), label, name, blob)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s/%s (%d bytes)\n", label, name, len(blob))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter assignment index=value or name=value (repeatable)")
	return cmd
}

func newPresetLoadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load <label> <name>",
		Short: "Restore a preset into a fresh instance and show its parameters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, name := args[0], args[1]
			var preset *presets.Preset
			err := ctx.withPresets(cmd.Context(), func(store *presets.Store) error {
				var err error
				preset, err = store.Load(cmd.Context(), label, name)
				return err
			})
			if err != nil {
				return err
			}

			s, err := ctx.openSession(label, nil)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.RestoreState(preset.Data); err != nil {
				return fmt.Errorf("restore %s/%s: %w", label, name, err)
			}

			rows, err := parameterRows(s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSection(out, fmt.Sprintf("%s/%s", label, name))
			fmt.Fprintln(out, renderTable(parameterHeaders, rows, parameterAligns))
			return nil
		},
	}
}

func newPresetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [label]",
		Short: "List stored presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var label string
			if len(args) == 1 {
				label = args[0]
			}
			var list []presets.Preset
			err := ctx.withPresets(cmd.Context(), func(store *presets.Store) error {
				var err error
				list, err = store.List(cmd.Context(), label)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No presets")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{
					p.Plugin,
					p.Name,
					strconv.Itoa(len(p.Data)),
					p.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Plugin", "Name", "Bytes", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newPresetDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <label> <name>",
		Short: "Delete a stored preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ctx.withPresets(cmd.Context(), func(store *presets.Store) error {
				return store.Delete(cmd.Context(), args[0], args[1])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

// processSilence runs one block of silence to deliver events.
func processSilence(s *host.Session, events []event.Event) error {
	d := s.Descriptor()
	frames := s.BufferSize()
	in := allocateChannels(d.Counts.AudioIns, frames)
	out := allocateChannels(d.Counts.AudioOuts, frames)
	return s.Process(in, out, frames, events)
}
