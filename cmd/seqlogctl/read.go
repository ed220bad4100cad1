package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	var startSeqnum uint64
	var capacity int

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a contiguous run of entries starting at a seqnum",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Read(startSeqnum, capacity)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("seqnum=%d timestamp=%d metadata=%q data=%q\n", e.Seqnum, e.Timestamp, e.Metadata, e.Data)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&startSeqnum, "start", 0, "starting seqnum")
	cmd.Flags().IntVar(&capacity, "capacity", 16, "maximum entries to read")

	return cmd
}
