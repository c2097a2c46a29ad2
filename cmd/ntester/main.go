// Command ntester looks up N top-ups, classifies nutrient values and checks
// band table files against the reference tables, without a server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
