// Package cache shares loaded word lists between games. A list is keyed by
// the file it came from and the fingerprint of the letter table it was
// priced with, so the same file under two tables loads twice.
package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Key identifies one loaded list.
type Key struct {
	Path         string
	Distribution uint64
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%016x", k.Path, k.Distribution)
}

// Cache memoises values by Key. A failed build is not remembered, so a
// list that appears later is picked up on the next Load.
type Cache[T any] struct {
	sync.Mutex
	entries map[Key]T
}

func New[T any]() *Cache[T] {
	return &Cache[T]{entries: map[Key]T{}}
}

// Load returns the value cached under k, calling build the first time.
// Concurrent loads of the same key build it once.
func (c *Cache[T]) Load(k Key, build func(Key) (T, error)) (T, error) {
	c.Lock()
	defer c.Unlock()
	if v, ok := c.entries[k]; ok {
		log.Debug().Stringer("key", k).Msg("word list from cache")
		return v, nil
	}
	v, err := build(k)
	if err != nil {
		return v, err
	}
	log.Debug().Stringer("key", k).Msg("word list cached")
	c.entries[k] = v
	return v, nil
}

// Forget drops k so the next Load rebuilds it.
func (c *Cache[T]) Forget(k Key) {
	c.Lock()
	defer c.Unlock()
	delete(c.entries, k)
}

func (c *Cache[T]) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.entries)
}
