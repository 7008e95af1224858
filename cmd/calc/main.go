// Command calc evaluates expressions and loan schedules from the terminal
// using the same packages as the HTTP service.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
