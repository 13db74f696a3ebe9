// ABOUTME: Entry point for the anuncia CLI
// ABOUTME: Command-line and terminal UI client for the Anuncia marketplace

package main

import (
	"fmt"
	"os"

	"github.com/anuncia/anuncia-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
