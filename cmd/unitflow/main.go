// Command unitflow logs supply-room restocks and crash cart checks.
package main

import (
	"fmt"
	"os"

	"github.com/theaarondumas/unitflow/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
