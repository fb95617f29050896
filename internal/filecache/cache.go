// Package filecache is a bounded read-through cache for source file
// content. The map builder and the graph builder both read every
// candidate file; the second pass should not hit the disk again.
package filecache

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCapacity = 4096

type Cache struct {
	root    string
	entries *lru.Cache[string, []byte]
}

func New(root string) *Cache {
	entries, err := lru.New[string, []byte](defaultCapacity)
	if err != nil {
		// lru.New only fails on non-positive capacity.
		panic(err)
	}
	return &Cache{root: root, entries: entries}
}

// Read returns the content of the file at relPath (relative to the
// cache root), reading from disk on first access.
func (c *Cache) Read(relPath string) ([]byte, error) {
	if content, ok := c.entries.Get(relPath); ok {
		return content, nil
	}

	content, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, err
	}
	c.entries.Add(relPath, content)
	return content, nil
}

// Len reports how many files are currently cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}
