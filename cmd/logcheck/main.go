// Command logcheck validates logging configuration files and sends test
// records through the pipeline they describe.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
