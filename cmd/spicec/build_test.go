package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDoBuildSimpleMainSucceeds exercises scenario S1 (spec §8): a bare
// `result = 0;` main compiles clean and emits an object file.
func TestDoBuildSimpleMainSucceeds(t *testing.T) {
	dir := t.TempDir()
	main := writeSource(t, dir, "main.spice", `f main() { result = 0; }`)

	flags := &sharedFlags{output: filepath.Join(dir, "out", "a.out"), configPath: filepath.Join(dir, "spice.yaml")}
	result, ok, err := doBuild(main, flags)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, result.ordered, 1)
	assert.NotNil(t, result.ordered[0].Module)

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

// TestDoBuildConstReassignmentFails exercises scenario S3: a `const`
// reassignment is a semantic error, and doBuild must report failure
// rather than writing any object file.
func TestDoBuildConstReassignmentFails(t *testing.T) {
	dir := t.TempDir()
	main := writeSource(t, dir, "main.spice", `f main() { const int x = 1; x = 2; }`)

	flags := &sharedFlags{output: filepath.Join(dir, "out", "a.out"), configPath: filepath.Join(dir, "spice.yaml")}
	_, ok, err := doBuild(main, flags)
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(statErr))
}

// TestDoBuildCircularImportFails exercises scenario S5.
func TestDoBuildCircularImportFails(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.spice", `import "a" as a;`)
	main := writeSource(t, dir, "a.spice", `import "b" as b; f main() { result = 0; }`)

	flags := &sharedFlags{configPath: filepath.Join(dir, "spice.yaml")}
	_, ok, err := doBuild(main, flags)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOptLevelDefaultsToO0(t *testing.T) {
	f := &sharedFlags{}
	assert.Equal(t, "O0", f.optLevel())
	f.o2 = true
	assert.Equal(t, "O2", f.optLevel())
}

func TestRootCommandHasAllFourSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["build"])
	assert.True(t, names["run"])
	assert.True(t, names["install"])
	assert.True(t, names["uninstall"])
}
