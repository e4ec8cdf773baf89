package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spice-lang/spicec/internal/resources"
)

var (
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// sharedFlags backs the flag surface spec §6 says build/run/install/
// uninstall all share.
type sharedFlags struct {
	debugOutput  bool
	targetTriple string
	targetArch   string
	targetVendor string
	targetOS     string
	output       string

	o0, o1, o2, o3, os_, oz bool

	dumpCST    bool
	dumpAST    bool
	dumpSymtab bool
	dumpIR     bool

	configPath string
	jobs       int
}

// optLevel resolves whichever -O flag was set to the textual level
// internal/resources.Options carries, defaulting to O0 (spec §6:
// "-O0..-O3/-Os/-Oz").
func (f *sharedFlags) optLevel() string {
	switch {
	case f.o3:
		return "O3"
	case f.o2:
		return "O2"
	case f.o1:
		return "O1"
	case f.oz:
		return "Oz"
	case f.os_:
		return "Os"
	default:
		return "O0"
	}
}

func (f *sharedFlags) toOptions() resources.Options {
	return resources.Options{
		TargetTriple: f.targetTriple,
		TargetArch:   f.targetArch,
		TargetVendor: f.targetVendor,
		TargetOS:     f.targetOS,
		OutputPath:   f.output,
		OptLevel:     f.optLevel(),
		DebugOutput:  f.debugOutput,
		DumpCST:      f.dumpCST,
		DumpAST:      f.dumpAST,
		DumpSymtab:   f.dumpSymtab,
		DumpIR:       f.dumpIR,
		Jobs:         f.jobs,
	}
}

func registerSharedFlags(cmd *cobra.Command, f *sharedFlags) {
	fl := cmd.Flags()
	fl.BoolVarP(&f.debugOutput, "debug-output", "d", false, "print debug diagnostics")
	fl.StringVarP(&f.targetTriple, "target-triple", "t", "", "target triple, e.g. x86_64-pc-linux-gnu")
	fl.StringVar(&f.targetArch, "target-arch", "", "target architecture")
	fl.StringVar(&f.targetVendor, "target-vendor", "", "target vendor")
	fl.StringVar(&f.targetOS, "target-os", "", "target operating system")
	fl.StringVarP(&f.output, "output", "o", "", "output path")

	fl.BoolVar(&f.o0, "O0", false, "disable optimizations")
	fl.BoolVar(&f.o1, "O1", false, "optimize (level 1)")
	fl.BoolVar(&f.o2, "O2", false, "optimize (level 2)")
	fl.BoolVar(&f.o3, "O3", false, "optimize (level 3)")
	fl.BoolVar(&f.os_, "Os", false, "optimize for size")
	fl.BoolVar(&f.oz, "Oz", false, "optimize aggressively for size")

	fl.BoolVar(&f.dumpCST, "dump-cst", false, "accepted; no concrete syntax tree dump is written")
	fl.BoolVar(&f.dumpAST, "dump-ast", false, "accepted; no abstract syntax tree dump is written")
	fl.BoolVar(&f.dumpSymtab, "dump-symtab", false, "accepted; no symbol table dump is written")
	fl.BoolVar(&f.dumpIR, "dump-ir", false, "dump the emitted IR")

	fl.StringVar(&f.configPath, "config", "spice.yaml", "project config file")
	fl.IntVar(&f.jobs, "jobs", 0, "worker pool size (default: number of hardware threads)")
}

// newRootCommand wires build/run/install/uninstall under one cobra root,
// the multi-subcommand shape spec §6 asks for and SPEC_FULL.md §C assigns
// to cobra+pflag.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "spicec",
		Short:         "Spice ahead-of-time compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newBuildCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newInstallCommand())
	root.AddCommand(newUninstallCommand())
	return root
}
