// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package main

import (
	"os"

	"github.com/openrdap/rdap"
)

func main() {
	os.Exit(rdap.RunCLI(os.Args[1:], os.Stdout, os.Stderr, rdap.CLIOptions{}))
}
