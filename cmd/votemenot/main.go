// Package main provides the votemenot binary: a Telnet server, a local
// console, and a content validator for the politician-vetting game.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
