// Package main is the entry point for the i3-app-listd daemon.
package main

import (
	"fmt"
	"os"

	"github.com/i3-app-list/i3-app-list/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
