package pipeline

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	prog *Program
	err  error
}

// Cache memoises Compile by source text. Syntax errors are cached as well,
// since tokenizing does not depend on the evaluation context.
// A Cache is safe for concurrent use.
type Cache struct {
	entries sync.Map // source -> cacheEntry
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the compiled program for source, compiling it at most once
// even under concurrent callers.
func (c *Cache) Get(source string) (*Program, error) {
	if e, ok := c.entries.Load(source); ok {
		entry := e.(cacheEntry)
		return entry.prog, entry.err
	}
	v, _, _ := c.group.Do(source, func() (interface{}, error) {
		if e, ok := c.entries.Load(source); ok {
			return e, nil
		}
		prog, err := Compile(source)
		entry := cacheEntry{prog: prog, err: err}
		c.entries.Store(source, entry)
		return entry, nil
	})
	entry := v.(cacheEntry)
	return entry.prog, entry.err
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Reset drops every cached program, e.g. after the rules file was reloaded.
func (c *Cache) Reset() {
	c.entries.Range(func(k, _ interface{}) bool {
		c.entries.Delete(k)
		return true
	})
}
