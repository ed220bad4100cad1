package main

import (
	"fmt"

	"github.com/iamNilotpal/seqlog/pkg/seqlog"
	"github.com/spf13/cobra"
)

func newAppendCmd() *cobra.Command {
	var seqnum, timestamp uint64
	var metadata, data string

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append a single entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries := []seqlog.Entry{{
				Seqnum:    seqnum,
				Timestamp: timestamp,
				Metadata:  []byte(metadata),
				Data:      []byte(data),
			}}

			n, err := store.Append(entries)
			if err != nil {
				return err
			}
			fmt.Printf("appended %d entry(ies), last_seqnum=%d\n", n, store.LastSeqnum())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seqnum, "seqnum", 0, "seqnum (0 = auto-assign)")
	cmd.Flags().Uint64Var(&timestamp, "timestamp", 0, "timestamp (0 = wall clock)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "metadata bytes as a UTF-8 string")
	cmd.Flags().StringVar(&data, "data", "", "data bytes as a UTF-8 string")

	return cmd
}
