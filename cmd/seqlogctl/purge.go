package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPurgeCmd() *cobra.Command {
	var threshold uint64

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove every record with seqnum < threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Purge(threshold)
			if err != nil {
				return err
			}
			fmt.Printf("removed %d record(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&threshold, "threshold", 0, "keep records with seqnum >= threshold")
	return cmd
}
