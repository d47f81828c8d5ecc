// Tonal - a design-system colour palette generator
//
// Tonal expands a single brand colour into primary, secondary, neutral and
// semantic scales and exports them as design tokens.
package main

import (
	"os"

	"github.com/jmylchreest/tonal/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
