// Package main is the entry point of the pagebuilder binary: the JSON API
// server and the page and registry management commands.
package main

import (
	"context"
	"fmt"
	"os"

	"pagebuilder/cmd/commands"
)

// version is set during build with -ldflags.
var version = "dev"

func main() {
	if err := commands.NewRootCommand(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
