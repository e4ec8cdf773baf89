package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spice-lang/spicec/internal/resources"
	"github.com/spice-lang/spicec/internal/sourcefile"
)

// pipelineResult is everything a subcommand needs to report status and
// pick an exit code after running the pipeline (spec §6: "0 success,
// non-zero on any compilation error").
type pipelineResult struct {
	grm     *resources.GlobalResourceManager
	main    *sourcefile.SourceFile
	ordered []*sourcefile.SourceFile // dependency-first order
}

// runPipeline resolves, front-ends, middle-ends and back-ends mainPath and
// its transitive import graph, in the order spec §4.9/§5 describe: each
// dependency's stage K completes before its dependent's stage K runs.
func runPipeline(mainPath string, flags *sharedFlags) (*pipelineResult, error) {
	cfg, err := resources.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", flags.configPath, err)
	}
	grm := resources.New(resources.Resolve(cfg, flags.toOptions()))

	mainSF, err := grm.CreateSourceFile(nil, "", mainPath, false)
	if err != nil {
		return nil, err
	}

	if err := mainSF.RunFrontEnd(grm, nil); err != nil {
		return &pipelineResult{grm: grm, main: mainSF}, nil
	}

	ordered := dependencyOrder(mainSF)

	for _, sf := range ordered {
		if sf.Collector.HasErrors() {
			continue
		}
		if err := sf.RunMiddleEnd(grm.Funcs, grm.Structs); err != nil {
			continue
		}
	}
	for _, sf := range ordered {
		if sf.Collector.HasErrors() {
			continue
		}
		if err := sf.RunBackEnd(grm.Funcs, grm.Structs); err != nil {
			continue
		}
	}
	for _, sf := range ordered {
		sf.ConcludeCompilation()
	}

	return &pipelineResult{grm: grm, main: mainSF, ordered: ordered}, nil
}

// dependencyOrder walks root's dependency graph depth-first, returning
// every reachable SourceFile (root included) with each file preceded by
// all of its dependencies, and no file repeated — the diamond-import case
// is handled by the visited set.
func dependencyOrder(root *sourcefile.SourceFile) []*sourcefile.SourceFile {
	var out []*sourcefile.SourceFile
	visited := make(map[string]bool)

	var visit func(sf *sourcefile.SourceFile)
	visit = func(sf *sourcefile.SourceFile) {
		if visited[sf.Path] {
			return
		}
		visited[sf.Path] = true
		for _, dep := range sf.Dependencies {
			visit(dep.File)
		}
		out = append(out, sf)
	}
	visit(root)
	return out
}

// succeeded reports whether every file in the pipeline result compiled
// clean.
func (r *pipelineResult) succeeded() bool {
	if r.main.Collector.HasErrors() {
		return false
	}
	for _, sf := range r.ordered {
		if !sf.Succeeded() {
			return false
		}
	}
	return true
}

// emitObjects approximates spec §6's "object files are emitted to
// $outputDir/<basename>.o": real LLVM object emission and the external
// linker are explicitly out of scope (spec §1), so the textual IR module
// internal/irgen produced is written in its place, one file per compiled
// SourceFile, plus a <basename>.ir.txt copy when --dump-ir is set.
// --dump-cst, --dump-ast and --dump-symtab write nothing.
func emitObjects(r *pipelineResult, flags *sharedFlags) ([]string, error) {
	outputDir := flags.output
	if outputDir == "" {
		outputDir = "."
	} else if ext := filepath.Ext(outputDir); ext != "" {
		outputDir = filepath.Dir(outputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, sf := range r.ordered {
		if sf.Module == nil {
			continue
		}
		basename := strings.TrimSuffix(filepath.Base(sf.Path), filepath.Ext(sf.Path))
		objPath := filepath.Join(outputDir, basename+".o")
		if err := os.WriteFile(objPath, []byte(sf.Module.String()), 0o644); err != nil {
			return nil, err
		}
		written = append(written, objPath)

		if flags.dumpIR {
			irPath := filepath.Join(outputDir, basename+".ir.txt")
			if err := os.WriteFile(irPath, []byte(sf.Module.String()), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return written, nil
}
