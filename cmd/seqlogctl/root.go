package main

import (
	"github.com/spf13/cobra"
)

var (
	flagDirectory string
	flagName      string
	flagCheck     bool
	flagFsync     bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seqlogctl",
		Short: "Inspect and maintain seqlog stores",
		Long:  "seqlogctl opens a seqlog store directly against its on-disk files for manual inspection, recovery testing, and scripted maintenance.",
	}

	root.PersistentFlags().StringVar(&flagDirectory, "dir", ".", "directory containing the store's <name>.dat/<name>.idx files")
	root.PersistentFlags().StringVar(&flagName, "name", "", "store name")
	root.PersistentFlags().BoolVar(&flagCheck, "check", false, "run deep validation on open")
	root.PersistentFlags().BoolVar(&flagFsync, "fsync", false, "fsync the data file after every append")

	root.AddCommand(
		newInitCmd(),
		newAppendCmd(),
		newReadCmd(),
		newSearchCmd(),
		newStatsCmd(),
		newRollbackCmd(),
		newPurgeCmd(),
		newMilestoneCmd(),
		newOpenCmd(),
	)

	return root
}
