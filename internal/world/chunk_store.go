package world

import (
	"sort"
	"sync"
)

// ChunkStore maps chunk keys to live chunks.
type ChunkStore struct {
	chunks   map[Key]*Chunk
	mu       sync.RWMutex
	modCount uint64 // increases on any add or remove
}

func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[Key]*Chunk)}
}

func (cs *ChunkStore) Get(k Key) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[k]
}

func (cs *ChunkStore) Has(k Key) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[k]
	cs.mu.RUnlock()
	return ok
}

// Add inserts c unless its key is already present and reports whether it did.
func (cs *ChunkStore) Add(c *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	k := c.Key()
	if _, ok := cs.chunks[k]; ok {
		return false
	}
	cs.chunks[k] = c
	cs.modCount++
	return true
}

// Remove deletes and returns the chunk for k, or nil.
func (cs *ChunkStore) Remove(k Key) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.chunks[k]
	if !ok {
		return nil
	}
	delete(cs.chunks, k)
	cs.modCount++
	return c
}

func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Keys returns every key in Key.Less order.
func (cs *ChunkStore) Keys() []Key {
	cs.mu.RLock()
	keys := make([]Key, 0, len(cs.chunks))
	for k := range cs.chunks {
		keys = append(keys, k)
	}
	cs.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Sorted returns every chunk in key order. The order is the scheduling
// order used by the Scheduler.
func (cs *ChunkStore) Sorted() []*Chunk {
	keys := cs.Keys()
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make([]*Chunk, 0, len(keys))
	for _, k := range keys {
		if c, ok := cs.chunks[k]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Drain removes and returns every chunk.
func (cs *ChunkStore) Drain() []*Chunk {
	all := cs.Sorted()
	cs.mu.Lock()
	clear(cs.chunks)
	cs.modCount++
	cs.mu.Unlock()
	return all
}

// ModCount returns the modification counter.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}
