package main

import (
	"fmt"

	"github.com/iamNilotpal/seqlog/pkg/seqlog"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var timestamp uint64
	var mode string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the smallest seqnum matching a timestamp bound",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			searchMode := seqlog.SearchLower
			if mode == "upper" {
				searchMode = seqlog.SearchUpper
			}

			seqnum, err := store.Search(timestamp, searchMode)
			if err != nil {
				return err
			}
			fmt.Println(seqnum)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&timestamp, "timestamp", 0, "target timestamp")
	cmd.Flags().StringVar(&mode, "mode", "lower", "lower or upper")

	return cmd
}
