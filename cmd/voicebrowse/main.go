// Package main provides the voicebrowse CLI.
//
// voicebrowse feeds speech transcripts to the command dispatcher and renders
// the events it emits. Transcripts come from stdin (listen) or from a YAML
// script (replay). Tabs are either an in-memory demo window or a Chromium
// instance driven through Playwright.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
