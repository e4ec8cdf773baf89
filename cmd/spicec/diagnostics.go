package main

import (
	"fmt"
	"os"

	"github.com/spice-lang/spicec/internal/sourcefile"
)

// printDiagnostics renders every collected error and warning for sf, in
// the reference driver's severity-colored style (spec §7: "the driver
// catches them at file granularity, prints the formatted message").
func printDiagnostics(sf *sourcefile.SourceFile) {
	if sf.Collector == nil {
		return
	}
	for _, err := range sf.Collector.Errors() {
		fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), err.Error())
	}
	for _, w := range sf.Collector.Warnings() {
		fmt.Fprintf(os.Stderr, "%s %s\n", yellow("warning:"), w.String())
	}
}
