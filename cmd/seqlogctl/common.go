package main

import (
	"github.com/iamNilotpal/seqlog/pkg/options"
	"github.com/iamNilotpal/seqlog/pkg/seqlog"
)

func openStore() (*seqlog.Store, error) {
	return seqlog.Open(
		"seqlogctl",
		options.WithDirectory(flagDirectory),
		options.WithName(flagName),
		options.WithCheckOnOpen(flagCheck),
		options.WithFsyncOnAppend(flagFsync),
	)
}
