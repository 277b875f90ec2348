package slr

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cnf/structhash"
)

// TableCache holds compiled parsing tables, keyed by the path of their table
// documents. Entries are revalidated against the file's size and modification
// time. Documents with identical content share a single compiled table.
//
// A TableCache is safe for concurrent use.
type TableCache struct {
	mu     sync.RWMutex
	opts   []CompileOption
	paths  map[string]cacheEntry
	tables map[string]*Table // by content fingerprint
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	hash    string
}

// NewTableCache creates an empty cache. Options are applied to every table
// compiled for the cache.
func NewTableCache(opts ...CompileOption) *TableCache {
	return &TableCache{
		opts:   opts,
		paths:  make(map[string]cacheEntry),
		tables: make(map[string]*Table),
	}
}

// Get returns the compiled table for a table document file, loading and
// compiling it if the file is not cached or has changed.
func (c *TableCache) Get(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	entry, ok := c.paths[path]
	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		t := c.tables[entry.hash]
		c.mu.RUnlock()
		tracer().Debugf("table cache hit for %s", path)
		return t, nil
	}
	c.mu.RUnlock()
	//
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTable, path, err)
	}
	t, hash, err := c.put(doc)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.paths[path] = cacheEntry{size: info.Size(), modTime: info.ModTime(), hash: hash}
	c.mu.Unlock()
	return t, nil
}

// Put compiles a table document, unless a document with the same content has
// already been compiled for this cache.
func (c *TableCache) Put(doc Document) (*Table, error) {
	t, _, err := c.put(doc)
	return t, err
}

func (c *TableCache) put(doc Document) (*Table, string, error) {
	hash, err := Fingerprint(doc)
	if err != nil {
		return nil, "", err
	}
	c.mu.RLock()
	t, ok := c.tables[hash]
	c.mu.RUnlock()
	if ok {
		tracer().Debugf("re-using compiled table %.8s", hash)
		return t, hash, nil
	}
	if t, err = Compile(doc, c.opts...); err != nil {
		return nil, "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.tables[hash]; ok { // compiled concurrently
		return cached, hash, nil
	}
	c.tables[hash] = t
	return t, hash, nil
}

// Len returns the number of distinct compiled tables in the cache.
func (c *TableCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// Fingerprint returns a content hash for a table document. Documents which
// differ only in the order of their entries have the same fingerprint.
func Fingerprint(doc Document) (string, error) {
	return structhash.Hash(doc, 1)
}
