// Package main is the entry point for the i3-app-list CLI.
package main

import (
	"os"

	"github.com/i3-app-list/i3-app-list/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
