// Package main provides the entry point for the BlueWriter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/bluewriter/bluewriter/cmd/bluewriter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
