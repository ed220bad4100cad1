package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var a, b uint64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print entry count and on-disk size for a seqnum range",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stat(a, b)
			if err != nil {
				return err
			}
			fmt.Printf("num_entries=%d index_size=%d data_size=%d\n", stats.NumEntries, stats.IndexSize, stats.DataSize)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&a, "from", 0, "range start seqnum")
	cmd.Flags().Uint64Var(&b, "to", 0, "range end seqnum")

	return cmd
}
