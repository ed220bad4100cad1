package main

import (
	"fmt"

	"github.com/iamNilotpal/seqlog/pkg/filesys"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store directory if it does not already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := filesys.EnsureDir(flagDirectory, 0755); err != nil {
				return err
			}
			fmt.Printf("directory ready: %s\n", flagDirectory)
			return nil
		},
	}
}
