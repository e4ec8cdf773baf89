// Command spicec is the whole-program, ahead-of-time compiler driver
// (spec §6): build/run/install/uninstall subcommands over the
// internal/resources-orchestrated compile pipeline.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
