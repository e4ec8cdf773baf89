// Package sourcefile implements the per-file compilation state machine
// spec §4.9 describes: front end (lex, parse, build symbol table), middle
// end (two-phase type check), back end (IR generation), run sequentially
// per file. cmd/spicec runs the files of the import DAG one at a time in
// dependency order.
package sourcefile

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cache"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/irgen"
	"github.com/spice-lang/spicec/internal/lexer"
	"github.com/spice-lang/spicec/internal/manager"
	"github.com/spice-lang/spicec/internal/parser"
	"github.com/spice-lang/spicec/internal/scope"
	"github.com/spice-lang/spicec/internal/symbuild"
	"github.com/spice-lang/spicec/internal/typecheck"
)

// State is the stage a SourceFile has progressed to. Stages only move
// forward; concludeCompilation is the terminal state whether the file
// compiled cleanly or a collected error stopped it early.
type State int

const (
	Pending State = iota
	FrontEndDone
	MiddleEndDone
	BackEndDone
	Concluded
)

// Dependency records one resolved `import` edge: the alias it was bound
// under in the importing file and the SourceFile it resolved to.
type Dependency struct {
	Alias string
	File  *SourceFile
}

// Resolver turns one import path, seen from one importing SourceFile,
// into the SourceFile it names — reusing an already-registered instance
// for a diamond import rather than recompiling it. internal/resources'
// GlobalResourceManager is the production implementation; it owns the
// filePath → *SourceFile registry this interface deliberately does not.
type Resolver interface {
	Resolve(parent *SourceFile, importPath string) (*SourceFile, error)
}

// SourceFile is the scheduling unit spec §5 describes: one compilation
// unit that runs its own stages sequentially. cmd/spicec drives the
// SourceFiles of the import DAG one after another in dependency order.
type SourceFile struct {
	Path      string
	IsStdFile bool
	Source    []byte

	Tokens []lexer.Token
	AST    *ast.File

	GlobalScope *scope.Scope
	Collector   *cerr.Collector

	Dependencies map[string]*Dependency // import alias -> resolved dependency

	CacheKey string
	Module   *irgen.Module

	State State
}

// New creates a SourceFile for path with its source already read. Reading
// the file is internal/resources' job (it owns filesystem/std discovery);
// SourceFile itself only ever sees bytes it is handed.
func New(path string, source []byte, isStdFile bool) *SourceFile {
	return &SourceFile{
		Path:         path,
		IsStdFile:    isStdFile,
		Source:       source,
		Collector:    cerr.NewCollector(),
		Dependencies: make(map[string]*Dependency),
		State:        Pending,
	}
}

// RunFrontEnd lexes, parses, collects imports (recursing into each via
// resolver), and builds the symbol table. ancestors is the chain of paths
// currently being front-ended above this call, used to raise
// CIRCULAR_DEPENDENCY the moment an import points back at one of them —
// the reference loader's loadStack check, inlined into the recursion
// instead of kept as a side stack.
func (sf *SourceFile) RunFrontEnd(resolver Resolver, ancestors []string) error {
	if sf.State >= FrontEndDone {
		return nil
	}
	for _, a := range ancestors {
		if a == sf.Path {
			err := cerr.NewSemanticError(cerr.CodeLoc{FileName: sf.Path}, cerr.CircularDependency,
				fmt.Sprintf("circular dependency: %s imports back to %s", ancestors[len(ancestors)-1], sf.Path))
			sf.Collector.AddError(err)
			return err
		}
	}

	if err := sf.runLexer(); err != nil {
		return err
	}
	if err := sf.runParser(); err != nil {
		return err
	}

	key := cache.Key(sf.Tokens)
	sf.CacheKey = key

	if err := sf.runImportCollector(resolver, append(ancestors, sf.Path)); err != nil {
		return err
	}
	if err := sf.runSymbolTableBuilder(); err != nil {
		return err
	}

	sf.State = FrontEndDone
	return nil
}

func (sf *SourceFile) runLexer() error {
	toks, err := lexer.New(sf.Source, sf.Path).Tokenize()
	if err != nil {
		sf.Collector.AddError(err)
		return err
	}
	sf.Tokens = toks
	return nil
}

func (sf *SourceFile) runParser() error {
	p := parser.New(sf.Tokens, sf.Path)
	sf.AST = p.ParseFile()
	sf.AST.Path = sf.Path
	for _, err := range p.Errors() {
		sf.Collector.AddError(err)
	}
	if sf.Collector.HasErrors() {
		return sf.Collector.Errors()[0]
	}
	return nil
}

// runImportCollector resolves every `import` declaration to a Dependency,
// recursing into each via resolver.Resolve and running its front end
// (skipped if it has already reached FrontEndDone — the diamond-import
// case, where resolver already handed back a shared instance). After a
// dependency's front end completes, its top-level (global) symbol-table
// entries are copied into this file's scope under the import alias, the
// way the reference loader folds a loaded module's exports into its
// importer rather than keeping them behind a separate namespace object.
func (sf *SourceFile) runImportCollector(resolver Resolver, ancestorsWithSelf []string) error {
	for _, imp := range sf.AST.Imports {
		dep, err := resolver.Resolve(sf, imp.Path)
		if err != nil {
			sf.Collector.AddError(err)
			return err
		}
		if dep.State < FrontEndDone {
			if err := dep.RunFrontEnd(resolver, ancestorsWithSelf); err != nil {
				sf.Collector.Merge(dep.Collector)
				return err
			}
		}
		alias := imp.Alias
		if alias == "" {
			alias = imp.Path
		}
		sf.Dependencies[alias] = &Dependency{Alias: alias, File: dep}
	}
	return nil
}

func (sf *SourceFile) runSymbolTableBuilder() error {
	sf.GlobalScope = scope.NewGlobalScope()
	b := symbuild.NewBuilder(sf.GlobalScope, sf.Collector)
	b.Build(sf.AST)
	sf.AST.GlobalScope = sf.GlobalScope

	for alias, dep := range sf.Dependencies {
		importScope := sf.GlobalScope.CreateChildScope("import."+alias, scope.Anonymous)
		importScope.IsImported = true
		if dep.File.GlobalScope == nil {
			continue
		}
		for _, entry := range dep.File.GlobalScope.Symbols() {
			if !entry.Global {
				continue
			}
			importScope.Insert(entry.Name, entry.Type, entry.DeclNode, true)
		}
	}
	return nil
}

// RunMiddleEnd runs the two-phase type checker over the already-built
// symbol table. Dependencies must already be at MiddleEndDone so this
// file's checker sees fully-resolved imported types; cmd/spicec's
// dependencyOrder schedules files in that order (spec §4.9's "middle end" phase, run after every
// front end in the DAG has completed).
func (sf *SourceFile) RunMiddleEnd(funcs, structs *manager.Manager) error {
	if sf.State >= MiddleEndDone {
		return nil
	}
	if err := typecheck.Check(sf.GlobalScope, sf.AST, sf.Collector, funcs, structs); err != nil {
		return err
	}
	if sf.Collector.HasErrors() {
		return sf.Collector.Errors()[0]
	}
	sf.State = MiddleEndDone
	return nil
}

// RunBackEnd lowers the type-checked AST to IR via internal/irgen. No
// build-cache lookup happens before it: every build lowers every file.
func (sf *SourceFile) RunBackEnd(funcs, structs *manager.Manager) error {
	if sf.State >= BackEndDone {
		return nil
	}
	sf.Module = irgen.Lower(sf.Path, sf.AST, funcs, structs)
	sf.State = BackEndDone
	return nil
}

// ConcludeCompilation marks this file done, whether it reached BackEndDone
// cleanly or stopped early on a collected error.
func (sf *SourceFile) ConcludeCompilation() {
	sf.State = Concluded
}

// Succeeded reports whether this file's collector has no errors. Used by
// the driver to decide the process exit code (spec §6: "nonzero on any
// compile error").
func (sf *SourceFile) Succeeded() bool {
	return !sf.Collector.HasErrors()
}
