// Command newsdeskctl runs operator tasks against a newsdesk deployment:
// schema migrations, access token minting and registry inspection.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
