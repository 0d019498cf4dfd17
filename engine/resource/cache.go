// Package resource provides the name-keyed stores the render manager uses for shaders,
// pipelines, bind group layouts and model data.
//
// Entries are shared by pointer: every lookup of a name returns the same object until the
// name is explicitly replaced. Replacement is last-write-wins; holders of the previous object
// keep a valid reference, new lookups see the replacement.
package resource

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultKey is the name of the well-known fallback entry returned by FetchDefault.
const DefaultKey = "default"

// MissingError reports a lookup of a name that was never registered.
type MissingError struct {
	// Kind is the cache's resource kind (e.g. "pipeline").
	Kind string
	// Key is the missing name.
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("resource: %s %q not found", e.Kind, e.Key)
}

// Cache is a name-keyed store of shared resources of type T.
type Cache[T any] interface {
	// GetOrCreate returns the entry for name, calling factory to create and insert it if absent.
	// A factory error is returned as is and nothing is inserted.
	//
	// Parameters:
	//   - name: the resource name
	//   - factory: creates the resource when it is not cached
	//
	// Returns:
	//   - T: the cached or newly created resource
	//   - bool: true if the factory was called
	//   - error: the factory error, if any
	GetOrCreate(name string, factory func() (T, error)) (T, bool, error)

	// Fetch returns the entry for name. It panics with a *MissingError naming the key if absent.
	//
	// Parameters:
	//   - name: the resource name
	//
	// Returns:
	//   - T: the cached resource
	Fetch(name string) T

	// Lookup returns the entry for name and whether it exists.
	//
	// Parameters:
	//   - name: the resource name
	//
	// Returns:
	//   - T: the cached resource, or the zero value
	//   - bool: true if the entry exists
	Lookup(name string) (T, bool)

	// FetchDefault returns the entry registered under DefaultKey. The default is installed at
	// construction so this never fails.
	//
	// Returns:
	//   - T: the default resource
	FetchDefault() T

	// Set inserts or replaces the entry for name.
	//
	// Parameters:
	//   - name: the resource name
	//   - value: the resource to store
	//
	// Returns:
	//   - bool: true if an existing entry was replaced
	Set(name string, value T) bool

	// Has reports whether name is cached.
	Has(name string) bool

	// Len returns the number of cached entries, including the default.
	Len() int

	// Keys returns the cached names in sorted order.
	Keys() []string
}

type cache[T any] struct {
	mu      *sync.RWMutex
	kind    string
	entries map[string]T
}

var _ Cache[int] = &cache[int]{}

// NewCache creates a cache for the named resource kind with its default entry installed.
//
// Parameters:
//   - kind: a human-readable resource kind used in diagnostics (e.g. "shader")
//   - fallback: the value stored under DefaultKey
//
// Returns:
//   - Cache[T]: the new cache
func NewCache[T any](kind string, fallback T) Cache[T] {
	return &cache[T]{
		mu:      &sync.RWMutex{},
		kind:    kind,
		entries: map[string]T{DefaultKey: fallback},
	}
}

func (c *cache[T]) GetOrCreate(name string, factory func() (T, error)) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[name]; ok {
		return v, false, nil
	}
	v, err := factory()
	if err != nil {
		var zero T
		return zero, true, fmt.Errorf("resource: failed to create %s %q: %w", c.kind, name, err)
	}
	c.entries[name] = v
	return v, true, nil
}

func (c *cache[T]) Fetch(name string) T {
	v, ok := c.Lookup(name)
	if !ok {
		panic(&MissingError{Kind: c.kind, Key: name})
	}
	return v
}

func (c *cache[T]) Lookup(name string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[name]
	return v, ok
}

func (c *cache[T]) FetchDefault() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[DefaultKey]
}

func (c *cache[T]) Set(name string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, replaced := c.entries[name]
	c.entries[name] = value
	return replaced
}

func (c *cache[T]) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

func (c *cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *cache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
