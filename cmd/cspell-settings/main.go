// Package main provides the entry point for the cspell-settings CLI.
package main

import (
	"fmt"
	"os"

	"github.com/werunom/vscode-spell-checker/cmd/cspell-settings/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
