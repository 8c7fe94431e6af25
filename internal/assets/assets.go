// Package assets handles game asset lookup and caching.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// root is one search location. dir is empty for roots that are not backed
// by the OS filesystem.
type root struct {
	fsys fs.FS
	dir  string
}

// Manager resolves asset names against an ordered list of roots.
type Manager struct {
	roots []root
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir adds a directory root.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening asset dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("opening asset dir %s: not a directory", dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	m.mu.Lock()
	m.roots = append(m.roots, root{fsys: os.DirFS(abs), dir: abs})
	m.mu.Unlock()
	return nil
}

// AddFS adds a root backed by an arbitrary filesystem, such as an embed.FS.
func (m *Manager) AddFS(fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, root{fsys: fsys})
	m.mu.Unlock()
}

// Roots returns the number of registered roots.
func (m *Manager) Roots() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.roots)
}

// Load reads a file from the highest-priority root that has it.
func (m *Manager) Load(name string) ([]byte, error) {
	name = clean(name)
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i].fsys, name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve returns the on-disk path of name. Files in non-directory roots
// have no path and are skipped.
func (m *Manager) Resolve(name string) (string, error) {
	name = clean(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		r := m.roots[i]
		if r.dir == "" {
			continue
		}
		if _, err := fs.Stat(r.fsys, name); err == nil {
			return filepath.Join(r.dir, filepath.FromSlash(name)), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Exists reports whether any root holds name.
func (m *Manager) Exists(name string) bool {
	name = clean(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.roots {
		if _, err := fs.Stat(r.fsys, name); err == nil {
			return true
		}
	}
	return false
}

// Cache returns the manager's byte cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// clean turns OS-style or absolute-looking names into fs.FS names.
func clean(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	for len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	return name
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
