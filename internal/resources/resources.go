// Package resources implements the global resource manager spec §4.10
// (C10) describes: the single owner of every SourceFile instance, a
// bounded worker pool (Submit/Wait) sized from Options.Jobs, and the merged
// CLI/config Options every stage reads target/output settings from. The
// cmd/spicec driver compiles files one at a time and does not submit work
// to the pool.
package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/manager"
	"github.com/spice-lang/spicec/internal/sourcefile"
)

// stdEnvVar is the fallback standard-library location spec §6 names after
// the hardcoded system path.
const stdEnvVar = "SPICE_STD_DIR"

// defaultStdDir is the first place spec §6 says to look for the standard
// library before falling back to $SPICE_STD_DIR.
const defaultStdDir = "/usr/lib/spice/std"

// osArchSuffixes lists the suffixes tried, in order, when resolving an
// import path: the bare name first, then _{os}, then _{os}_{arch}, each
// followed by .spice.
func osArchSuffixes() []string {
	return []string{
		"",
		"_" + runtime.GOOS,
		"_" + runtime.GOOS + "_" + runtime.GOARCH,
	}
}

// GlobalResourceManager owns every SourceFile created during one compiler
// invocation (weakly-canonicalized filePath → *SourceFile, enabling
// diamond-shaped import graphs to share one instance), the function/struct
// managers that back overload resolution across every file, and a bounded
// worker pool sized by Options.Jobs.
type GlobalResourceManager struct {
	Options Options

	mu    sync.Mutex
	files map[string]*sourcefile.SourceFile

	Funcs   *manager.Manager
	Structs *manager.Manager

	stdDir string

	sem chan struct{} // bounded worker pool, spec §5
	wg  sync.WaitGroup
}

// New creates a GlobalResourceManager. It does not resolve the stdlib
// path eagerly — ResolveStdDir does that lazily the first time an import
// needs it, so a program with no imports never raises STD_NOT_FOUND.
func New(opts Options) *GlobalResourceManager {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &GlobalResourceManager{
		Options: opts,
		files:   make(map[string]*sourcefile.SourceFile),
		Funcs:   manager.New(),
		Structs: manager.New(),
		sem:     make(chan struct{}, jobs),
	}
}

// ResolveStdDir discovers the standard library directory per spec §6's
// order: Options.StdDir (from spice.yaml/CLI) if set, else
// /usr/lib/spice/std, else $SPICE_STD_DIR; absence of all three raises
// STD_NOT_FOUND.
func (g *GlobalResourceManager) ResolveStdDir() (string, error) {
	if g.stdDir != "" {
		return g.stdDir, nil
	}
	candidates := []string{g.Options.StdDir, defaultStdDir, os.Getenv(stdEnvVar)}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			g.stdDir = c
			return c, nil
		}
	}
	return "", cerr.NewSemanticError(cerr.CodeLoc{}, cerr.StdNotFound,
		"standard library not found: checked configured path, "+defaultStdDir+", $"+stdEnvVar)
}

// canonical weakly-canonicalizes a path for use as the registry key:
// absolute and cleaned, but not symlink-resolved (spec §4.10 calls for
// "weakly canonicalized paths", distinguishing it from the stronger
// symlink-aware canonicalization the reference compiler's on-disk cache
// key uses for content identity).
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// CreateSourceFile returns the existing SourceFile for path if one was
// already created (the diamond-import case), or reads path and creates a
// new one. parent/depName are accepted to match spec §4.10's
// createSourceFile(parent, depName, path, isStdFile) signature; parent is
// only used for error context since the registry itself is keyed on path
// alone.
func (g *GlobalResourceManager) CreateSourceFile(parent *sourcefile.SourceFile, depName, path string, isStdFile bool) (*sourcefile.SourceFile, error) {
	key := canonical(path)

	g.mu.Lock()
	if existing, ok := g.files[key]; ok {
		g.mu.Unlock()
		return existing, nil
	}
	g.mu.Unlock()

	src, err := os.ReadFile(path)
	if err != nil {
		loc := cerr.CodeLoc{}
		if parent != nil {
			loc.FileName = parent.Path
		}
		return nil, cerr.NewCompilerError(loc, fmt.Sprintf("cannot read import %q (as %s): %v", path, depName, err))
	}

	sf := sourcefile.New(key, src, isStdFile)

	g.mu.Lock()
	// Re-check: another goroutine may have created it while this one was
	// reading the file off disk.
	if existing, ok := g.files[key]; ok {
		g.mu.Unlock()
		return existing, nil
	}
	g.files[key] = sf
	g.mu.Unlock()

	return sf, nil
}

// Resolve implements sourcefile.Resolver: it turns one import path, seen
// from parent, into a shared SourceFile instance, trying the resolution
// order spec §6 describes (relative to the importing file's directory,
// then the std dir for a `std/` prefix, trying bare/_{os}/_{os}_{arch}
// suffixes before appending .spice).
func (g *GlobalResourceManager) Resolve(parent *sourcefile.SourceFile, importPath string) (*sourcefile.SourceFile, error) {
	candidates, isStd, err := g.candidatePaths(parent, importPath)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if info, statErr := os.Stat(c); statErr == nil && !info.IsDir() {
			return g.CreateSourceFile(parent, importPath, c, isStd)
		}
	}
	return nil, cerr.NewCompilerError(cerr.CodeLoc{FileName: parent.Path},
		fmt.Sprintf("import not found: %q (tried %d candidate paths)", importPath, len(candidates)))
}

func (g *GlobalResourceManager) candidatePaths(parent *sourcefile.SourceFile, importPath string) ([]string, bool, error) {
	const stdPrefix = "std/"

	isStd := len(importPath) > len(stdPrefix) && importPath[:len(stdPrefix)] == stdPrefix
	base := importPath
	root := filepath.Dir(parent.Path)
	if isStd {
		stdDir, err := g.ResolveStdDir()
		if err != nil {
			return nil, false, err
		}
		root = stdDir
		base = importPath[len(stdPrefix):]
	}

	var out []string
	for _, suffix := range osArchSuffixes() {
		withSuffix := base
		if suffix != "" {
			ext := filepath.Ext(base)
			withSuffix = base[:len(base)-len(ext)] + suffix + ext
		}
		path := filepath.Join(root, withSuffix)
		out = append(out, path, path+".spice")
	}
	return out, isStd, nil
}

// Submit schedules fn on the bounded worker pool, blocking until a slot is
// free. Callers join all submitted work with Wait.
func (g *GlobalResourceManager) Submit(fn func()) {
	g.wg.Add(1)
	g.sem <- struct{}{}
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sem }()
		fn()
	}()
}

// Wait blocks until every Submit'd task has returned.
func (g *GlobalResourceManager) Wait() {
	g.wg.Wait()
}

// LineCount sums source line counts across every SourceFile created so
// far, for the driver's status output (spec §4.10: "counts lines across
// all source files for status output").
func (g *GlobalResourceManager) LineCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	total := 0
	for _, sf := range g.files {
		for _, b := range sf.Source {
			if b == '\n' {
				total++
			}
		}
		if len(sf.Source) > 0 && sf.Source[len(sf.Source)-1] != '\n' {
			total++
		}
	}
	return total
}

// Files returns every SourceFile created so far, for the driver to walk
// when reporting per-file results.
func (g *GlobalResourceManager) Files() []*sourcefile.SourceFile {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*sourcefile.SourceFile, 0, len(g.files))
	for _, sf := range g.files {
		out = append(out, sf)
	}
	return out
}

// Teardown clears the process-wide function/struct registries (spec
// §4.10: "on destruction, clears the static type, function, struct, and
// interface registries"). The file registry and both managers are replaced
// with empty ones, so the GlobalResourceManager holds no files afterwards.
func (g *GlobalResourceManager) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files = make(map[string]*sourcefile.SourceFile)
	g.Funcs = manager.New()
	g.Structs = manager.New()
}
