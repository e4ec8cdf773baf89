package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/lexer"
)

func TestKeyStableForIdenticalTokenStreams(t *testing.T) {
	a, err := lexer.New([]byte(`f main() { result = 0; }`), "a.spice").Tokenize()
	require.NoError(t, err)
	b, err := lexer.New([]byte(`f main() { result = 0; }`), "b.spice").Tokenize()
	require.NoError(t, err)

	assert.Equal(t, Key(a), Key(b))
}

func TestKeyChangesWithTokenText(t *testing.T) {
	a, err := lexer.New([]byte(`f main() { result = 0; }`), "a.spice").Tokenize()
	require.NoError(t, err)
	b, err := lexer.New([]byte(`f main() { result = 1; }`), "a.spice").Tokenize()
	require.NoError(t, err)

	assert.NotEqual(t, Key(a), Key(b))
}

func TestManagerStoreAndLookup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	m, err := Open(dir)
	require.NoError(t, err)

	_, ok := m.Lookup("deadbeef")
	assert.False(t, ok)

	rec := Record{ObjectPath: "out.o", IRPath: "out.ir"}
	require.NoError(t, m.Store("deadbeef", rec))

	got, ok := m.Lookup("deadbeef")
	require.True(t, ok)
	assert.Equal(t, rec, got)

	reopened, err := Open(dir)
	require.NoError(t, err)
	got, ok = reopened.Lookup("deadbeef")
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestManagerClearRemovesEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	m, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, m.Store("k", Record{ObjectPath: "o.o"}))
	require.NoError(t, m.Clear())

	_, ok := m.Lookup("k")
	assert.False(t, ok)
}
