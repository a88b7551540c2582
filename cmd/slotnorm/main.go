// Command slotnorm normalizes dialogue text and slot annotations from the
// command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
