package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaban/voicemeeter"
)

func (a *app) snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or restore a set of parameters",
	}

	var floats, strs []string
	save := &cobra.Command{
		Use:   "save FILE",
		Short: "Capture parameters into a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(floats) == 0 && len(strs) == 0 {
				floats = a.cfg.Watch
			}
			if len(floats) == 0 && len(strs) == 0 {
				return fmt.Errorf("nothing to capture: pass --float or --string, or set watch in the config")
			}
			snap, err := a.session.Capture(floats, strs)
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			if err := voicemeeter.SaveSnapshot(f, snap); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d parameters to %s\n", len(snap.Floats)+len(snap.Strings), args[0])
			return nil
		},
	}
	save.Flags().StringSliceVar(&floats, "float", nil, "numeric parameters to capture")
	save.Flags().StringSliceVar(&strs, "string", nil, "string parameters to capture")

	restore := &cobra.Command{
		Use:   "restore FILE",
		Short: "Apply a snapshot written by save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// #nosec G304 -- the path comes from the operator
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot file: %w", err)
			}
			defer f.Close()
			snap, err := voicemeeter.LoadSnapshot(f)
			if err != nil {
				return err
			}
			if err := a.session.Restore(snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored snapshot %s\n", snap.ID)
			return nil
		},
	}

	cmd.AddCommand(save, restore)
	return cmd
}
