package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMilestoneCmd() *cobra.Command {
	var set bool
	var value uint64

	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Read or update the store's opaque milestone value",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if set {
				if err := store.UpdateMilestone(value); err != nil {
					return err
				}
			}
			fmt.Println(store.Milestone())
			return nil
		},
	}

	cmd.Flags().BoolVar(&set, "set", false, "update the milestone before printing it")
	cmd.Flags().Uint64Var(&value, "value", 0, "new milestone value (with --set)")
	return cmd
}
