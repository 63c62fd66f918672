// Package main is the entry point for the keys tool.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/keys/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
