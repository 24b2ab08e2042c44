// Package main provides the fastestimator CLI.
package main

import (
	"context"
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if err := NewCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
