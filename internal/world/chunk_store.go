package world

import (
	"sync"
)

// ChunkStore is the guarded map of resident chunks. The manager is the only
// writer; readers from other goroutines see a consistent residency snapshot.
type ChunkStore struct {
	chunks   map[ChunkCoord]*Chunk
	mu       sync.RWMutex
	modCount uint64 // increases on any chunk add/remove
}

// NewChunkStore creates an empty chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// Get returns the chunk at coord, or nil when not resident.
func (cs *ChunkStore) Get(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// Has checks residency without creating anything.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// Add installs a chunk. An already-resident coordinate keeps its existing
// chunk.
func (cs *ChunkStore) Add(chunk *Chunk) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[chunk.Coord]; ok {
		return
	}
	cs.chunks[chunk.Coord] = chunk
	cs.modCount++
}

// Remove evicts a chunk, reporting whether it was resident.
func (cs *ChunkStore) Remove(coord ChunkCoord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[coord]; !ok {
		return false
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return true
}

// Count returns the number of resident chunks.
func (cs *ChunkStore) Count() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// All returns a snapshot slice of the resident chunks.
func (cs *ChunkStore) All() []*Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	chunks := make([]*Chunk, 0, len(cs.chunks))
	for _, chunk := range cs.chunks {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// ModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) ModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// TotalTriangles sums triangle counts across all resident meshes.
func (cs *ChunkStore) TotalTriangles() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	total := 0
	for _, chunk := range cs.chunks {
		total += chunk.Triangles()
	}
	return total
}
