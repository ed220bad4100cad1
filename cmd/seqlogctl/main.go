// Command seqlogctl is an external collaborator for seqlog stores: a thin
// CLI wrapper used for manual inspection and scripted maintenance, not part
// of the core library (spec.md §6).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
