// beadgrid - Turn images into fuse bead patterns
//
// beadgrid divides an image into a grid, matches every cell to a bead
// colour and produces bead counts and printable pattern sheets.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/beadgrid/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
