// Command departctl runs departwise planning operations from a terminal and
// prints the results as JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
