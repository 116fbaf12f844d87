// Command leadreview reviews scraped leads one at a time.
package main

import (
	"fmt"
	"os"

	"github.com/witherBattler/edit-hunt-ai/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
