package main

import (
	"fmt"
	"os"
)

// main hands off to the cobra command tree. Wiring lives in app.go so each
// subcommand builds only what it needs.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
