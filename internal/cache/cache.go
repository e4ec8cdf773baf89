package cache

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Record is one cached build artifact: the object file spec §6 says is
// written to $outputDir/<basename>.o, plus the IR dump kept alongside it.
type Record struct {
	ObjectPath string `yaml:"objectPath"`
	IRPath     string `yaml:"irPath"`
}

// manifest is the on-disk index spec.md §4.9 calls the cache: a map of
// token-hash key to the artifacts that hash produced last time.
type manifest struct {
	Entries map[string]Record `yaml:"entries"`
}

// Manager loads, queries, and persists one project's build cache, keyed
// by the hash Key produces from a source file's normalized token stream.
type Manager struct {
	dir          string
	manifestPath string

	mu   sync.Mutex
	man  manifest
}

// Open loads (or initializes) the cache manifest rooted at dir. dir is
// created lazily on first Store, not here, so a dry run never leaves a
// stray directory behind.
func Open(dir string) (*Manager, error) {
	m := &Manager{
		dir:          dir,
		manifestPath: filepath.Join(dir, "manifest.yaml"),
		man:          manifest{Entries: make(map[string]Record)},
	}

	data, err := os.ReadFile(m.manifestPath)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &m.man); err != nil {
		return nil, err
	}
	if m.man.Entries == nil {
		m.man.Entries = make(map[string]Record)
	}
	return m, nil
}

// Lookup reports whether key already has a cached Record.
func (m *Manager) Lookup(key string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.man.Entries[key]
	return rec, ok
}

// Store records the artifacts produced for key and persists the manifest.
func (m *Manager) Store(key string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.man.Entries[key] = rec

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&m.man)
	if err != nil {
		return err
	}
	return os.WriteFile(m.manifestPath, data, 0o644)
}

// Clear empties the in-memory and on-disk manifest, for callers (such as
// tests) that need a cold cache.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.man.Entries = make(map[string]Record)
	return os.RemoveAll(m.dir)
}
