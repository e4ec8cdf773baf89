package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveMergesConfigDefaultsAndOverrides(t *testing.T) {
	cfg := Config{TargetTriple: "x86_64-linux-gnu", Jobs: 4}
	overrides := Options{OptLevel: "O2", Jobs: 8}

	opts := Resolve(cfg, overrides)
	assert.Equal(t, "x86_64-linux-gnu", opts.TargetTriple)
	assert.Equal(t, "O2", opts.OptLevel)
	assert.Equal(t, 8, opts.Jobs) // CLI override wins over config
}

func TestLoadConfigMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestResolveStdDirFallsBackToEnvVar(t *testing.T) {
	stdDir := t.TempDir()
	t.Setenv(stdEnvVar, stdDir)

	g := New(defaultOptions())
	got, err := g.ResolveStdDir()
	require.NoError(t, err)
	assert.Equal(t, stdDir, got)
}

func TestResolveStdDirMissingRaisesStdNotFound(t *testing.T) {
	t.Setenv(stdEnvVar, "")
	g := New(Options{StdDir: filepath.Join(t.TempDir(), "missing")})
	_, err := g.ResolveStdDir()
	require.Error(t, err)
}

func TestCreateSourceFileDedupesDiamondImport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.spice", `public int x = 1;`)

	g := New(defaultOptions())
	a, err := g.CreateSourceFile(nil, "lib", path, false)
	require.NoError(t, err)
	b, err := g.CreateSourceFile(nil, "lib", path, false)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestResolveFindsBareImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.spice", `public int x = 1;`)
	mainPath := writeFile(t, dir, "main.spice", `import "lib" as lib;`)

	g := New(defaultOptions())
	mainSF, err := g.CreateSourceFile(nil, "", mainPath, false)
	require.NoError(t, err)

	dep, err := g.Resolve(mainSF, "lib")
	require.NoError(t, err)
	assert.Contains(t, dep.Path, "lib.spice")
}

func TestLineCountSumsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "a.spice", "f main() {\n result = 0;\n}\n")
	p2 := writeFile(t, dir, "b.spice", "public int x = 1;")

	g := New(defaultOptions())
	_, err := g.CreateSourceFile(nil, "", p1, false)
	require.NoError(t, err)
	_, err = g.CreateSourceFile(nil, "", p2, false)
	require.NoError(t, err)

	assert.Equal(t, 4, g.LineCount())
}

func TestTeardownClearsRegistries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.spice", "f main() { result = 0; }")

	g := New(defaultOptions())
	_, err := g.CreateSourceFile(nil, "", path, false)
	require.NoError(t, err)
	require.Len(t, g.Files(), 1)

	g.Teardown()
	assert.Empty(t, g.Files())
}

func TestSubmitAndWaitRunsAllTasks(t *testing.T) {
	g := New(defaultOptions())
	var count int

	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		i := i
		g.Submit(func() { results <- i })
	}
	g.Wait()
	close(results)
	for range results {
		count++
	}
	assert.Equal(t, 10, count)
}
