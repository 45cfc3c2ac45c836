// Package main provides the entry point for the scripturelens CLI.
package main

import (
	"os"

	"github.com/scripturelens/scripturelens/cmd/scripturelens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
