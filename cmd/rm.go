package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"Whiteboard/internal/store"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Delete saved boards from the save directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.BackendURL != "" {
			return errors.New("boards can only be deleted from a local save directory")
		}
		d, err := store.NewDisk(cfg.SaveDir)
		if err != nil {
			return err
		}
		for _, id := range args {
			if err := d.Delete(store.FileID(id)); err != nil {
				return fmt.Errorf("deleting %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
