// Command challenger generates and scores chess challenges: it
// serves the challenge API, analyses single positions and replays
// finished games through the challenge loop.
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
