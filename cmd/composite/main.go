// Command composite serves the composite user API in front of the Users and
// Addresses services.
package main

import (
	"fmt"
	"os"

	"github.com/ncobase/composite/cmd/composite/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
