// Command cadastre is the CLI entry point for the Evil Cadastre world
// engine: `init` prints a fresh world, `update` advances an existing one
// by exactly one tick.
package main

import (
	"fmt"
	"os"

	"evilcadastre/cmd/cadastre/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
