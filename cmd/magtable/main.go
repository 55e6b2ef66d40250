// Command magtable queries the embedded magnetic field tables from the shell.
package main

import (
	"os"

	"github.com/yegors/co-mag/internal/validation"
)

// Version is injected at build time
var Version = "dev"

func main() {
	if err := newRootCmd(validation.WMM).Execute(); err != nil {
		os.Exit(1)
	}
}
