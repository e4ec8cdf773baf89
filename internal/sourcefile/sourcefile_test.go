package sourcefile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/manager"
)

// fakeResolver resolves import paths from an in-memory file set, reusing
// an already-registered SourceFile for a repeated path the way
// internal/resources' GlobalResourceManager does for diamond imports.
type fakeResolver struct {
	files map[string]*SourceFile
}

func newFakeResolver(sources map[string]string) *fakeResolver {
	r := &fakeResolver{files: make(map[string]*SourceFile)}
	for path, src := range sources {
		r.files[path] = New(path, []byte(src), false)
	}
	return r
}

func (r *fakeResolver) Resolve(parent *SourceFile, importPath string) (*SourceFile, error) {
	sf, ok := r.files[importPath]
	if !ok {
		return nil, cerr.NewCompilerError(cerr.CodeLoc{FileName: parent.Path}, "unresolved import: "+importPath)
	}
	return sf, nil
}

func TestRunFrontEndSimpleFile(t *testing.T) {
	r := newFakeResolver(map[string]string{
		"main.spice": `f main() { result = 0; }`,
	})
	sf := r.files["main.spice"]

	require.NoError(t, sf.RunFrontEnd(r, nil))
	assert.Equal(t, FrontEndDone, sf.State)
	assert.False(t, sf.Collector.HasErrors())
	assert.NotEmpty(t, sf.CacheKey)
	require.Len(t, sf.AST.Functions, 1)
}

func TestRunFrontEndMergesImportedNames(t *testing.T) {
	r := newFakeResolver(map[string]string{
		"lib.spice":  `public int counter = 0;`,
		"main.spice": `import "lib.spice" as lib; f main() { result = 0; }`,
	})
	sf := r.files["main.spice"]

	require.NoError(t, sf.RunFrontEnd(r, nil))
	require.Len(t, sf.Dependencies, 1)
	dep, ok := sf.Dependencies["lib"]
	require.True(t, ok)
	assert.Equal(t, FrontEndDone, dep.File.State)

	importScope := sf.GlobalScope.GetChildScope("import.lib")
	require.NotNil(t, importScope)
	assert.NotNil(t, importScope.LookupStrict("counter"))
}

func TestRunFrontEndDetectsCircularDependency(t *testing.T) {
	r := newFakeResolver(map[string]string{
		"a.spice": `import "b.spice" as b; f main() { result = 0; }`,
		"b.spice": `import "a.spice" as a;`,
	})
	a := r.files["a.spice"]

	err := a.RunFrontEnd(r, nil)
	require.Error(t, err)
	semErr, ok := err.(*cerr.SemanticError)
	require.True(t, ok)
	assert.Equal(t, cerr.CircularDependency, semErr.Kind)
}

func TestRunFrontEndSharesDiamondImportInstance(t *testing.T) {
	r := newFakeResolver(map[string]string{
		"leaf.spice": `public int value = 1;`,
		"mid1.spice": `import "leaf.spice" as leaf;`,
		"mid2.spice": `import "leaf.spice" as leaf;`,
		"top.spice": `import "mid1.spice" as mid1;
import "mid2.spice" as mid2;
f main() { result = 0; }`,
	})
	top := r.files["top.spice"]

	require.NoError(t, top.RunFrontEnd(r, nil))
	leaf := r.files["leaf.spice"]
	assert.Equal(t, FrontEndDone, leaf.State)
}

func TestRunMiddleEndAndBackEnd(t *testing.T) {
	r := newFakeResolver(map[string]string{
		"main.spice": `f main() { result = 0; }`,
	})
	sf := r.files["main.spice"]
	require.NoError(t, sf.RunFrontEnd(r, nil))

	funcs, structs := manager.New(), manager.New()
	require.NoError(t, sf.RunMiddleEnd(funcs, structs))
	assert.Equal(t, MiddleEndDone, sf.State)

	require.NoError(t, sf.RunBackEnd(funcs, structs))
	assert.Equal(t, BackEndDone, sf.State)
	require.NotNil(t, sf.Module)

	sf.ConcludeCompilation()
	assert.Equal(t, Concluded, sf.State)
	assert.True(t, sf.Succeeded())
}

// TestCacheKeyIsDeterministicAcrossInstances backs spec §8 property 1 at
// the cache-key level: two SourceFiles built from byte-identical source
// must derive the same token-hash cache key regardless of path or which
// resolver/manager instance processed them.
func TestCacheKeyIsDeterministicAcrossInstances(t *testing.T) {
	src := `f main() { result = add(2, 3); } f<int> add(int a, int b) { return a + b; }`
	r1 := newFakeResolver(map[string]string{"main.spice": src})
	r2 := newFakeResolver(map[string]string{"main.spice": src})

	sf1, sf2 := r1.files["main.spice"], r2.files["main.spice"]
	require.NoError(t, sf1.RunFrontEnd(r1, nil))
	require.NoError(t, sf2.RunFrontEnd(r2, nil))

	if diff := cmp.Diff(sf1.CacheKey, sf2.CacheKey); diff != "" {
		t.Fatalf("cache key was not deterministic (-sf1 +sf2):\n%s", diff)
	}
}
