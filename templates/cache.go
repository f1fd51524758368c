package templates

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sync"
)

// Loader compiles the template stored under id.
type Loader interface {
	Load(id string) (Template, error)
}

// Cache keeps compiled templates by identifier. It is safe for concurrent
// use so that a file watcher may invalidate entries while views render.
type Cache struct {
	mu      sync.Mutex
	loader  Loader
	entries map[string]Template
}

func NewCache(l Loader) *Cache {
	return &Cache{loader: l, entries: make(map[string]Template)}
}

// Get returns the compiled template for id, loading it on first use.
func (c *Cache) Get(id string) (Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.entries[id]; ok {
		return t, nil
	}
	if c.loader == nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	t, err := c.loader.Load(id)
	if err != nil {
		return nil, err
	}
	c.entries[id] = t
	return t, nil
}

// Set stores a compiled template under id.
func (c *Cache) Set(id string, t Template) {
	c.mu.Lock()
	c.entries[id] = t
	c.mu.Unlock()
}

// Clear drops the given entries, or all of them when called without ids.
func (c *Cache) Clear(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 {
		c.entries = make(map[string]Template)
		return
	}
	for _, id := range ids {
		delete(c.entries, id)
	}
}

// Len returns the number of compiled templates held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// FSLoader compiles html/template files. The template id is the file path
// within FS.
type FSLoader struct {
	FS    fs.FS
	Funcs template.FuncMap
}

func (l FSLoader) Load(id string) (Template, error) {
	b, err := fs.ReadFile(l.FS, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
		}
		return nil, err
	}
	t, err := template.New(id).Funcs(l.Funcs).Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("templates: parsing %q: %w", id, err)
	}
	return t, nil
}

// MapLoader compiles html/template sources held in memory.
type MapLoader map[string]string

func (m MapLoader) Load(id string) (Template, error) {
	src, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	t, err := template.New(id).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("templates: parsing %q: %w", id, err)
	}
	return t, nil
}
