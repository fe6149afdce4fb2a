// Package main is the entry point for the tabula CLI binary.
package main

import (
	"os"

	"github.com/go-sif/tabula/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
