package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the store and print its recovered boundaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report := store.LastOpenReport()
			fmt.Printf("first_seqnum=%d last_seqnum=%d count=%d\n", store.FirstSeqnum(), store.LastSeqnum(), store.Count())
			fmt.Printf("data_file_created=%t index_file_created=%t index_rebuilt=%t tail_zeroised=%t repaired_records=%d\n",
				report.DataFileCreated, report.IndexFileCreated, report.IndexRebuilt, report.TailZeroised, report.RepairedRecords)
			return nil
		},
	}
}
