// Command hosecat is a terminal client for the hose streaming
// endpoints: it tails the firehose to stdout and manages rules, search
// queries, and usage statistics from the same configuration file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
