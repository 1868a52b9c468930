package world

import (
	"testing"

	"terravox/internal/meshing"
)

func TestChunkStoreAddGetRemove(t *testing.T) {
	cs := NewChunkStore()
	coord := ChunkCoord{1, -2, 3}

	if cs.Has(coord) || cs.Get(coord) != nil {
		t.Fatal("empty store claims residency")
	}

	c := NewChunk(coord)
	cs.Add(c)
	if !cs.Has(coord) {
		t.Fatal("Add did not install the chunk")
	}
	if got := cs.Get(coord); got != c {
		t.Fatalf("Get returned %p, want %p", got, c)
	}
	if cs.Count() != 1 {
		t.Errorf("Count() = %d, want 1", cs.Count())
	}

	if !cs.Remove(coord) {
		t.Fatal("Remove reported no eviction")
	}
	if cs.Remove(coord) {
		t.Fatal("second Remove reported an eviction")
	}
	if cs.Count() != 0 {
		t.Errorf("Count() = %d after removal, want 0", cs.Count())
	}
}

func TestChunkStoreAddKeepsExisting(t *testing.T) {
	cs := NewChunkStore()
	coord := ChunkCoord{0, 0, 0}
	first := NewChunk(coord)
	second := NewChunk(coord)

	cs.Add(first)
	cs.Add(second)
	if got := cs.Get(coord); got != first {
		t.Error("duplicate Add replaced the resident chunk")
	}
	if cs.Count() != 1 {
		t.Errorf("Count() = %d, want 1", cs.Count())
	}
}

func TestChunkStoreModCount(t *testing.T) {
	cs := NewChunkStore()
	before := cs.ModCount()

	cs.Add(NewChunk(ChunkCoord{0, 0, 0}))
	cs.Add(NewChunk(ChunkCoord{0, 0, 0})) // duplicate, no change
	cs.Add(NewChunk(ChunkCoord{1, 0, 0}))
	cs.Remove(ChunkCoord{1, 0, 0})
	cs.Remove(ChunkCoord{9, 9, 9}) // absent, no change

	if got := cs.ModCount() - before; got != 3 {
		t.Errorf("ModCount advanced by %d, want 3", got)
	}
}

func TestChunkStoreAllAndTriangles(t *testing.T) {
	cs := NewChunkStore()
	for i := 0; i < 4; i++ {
		c := NewChunk(ChunkCoord{X: i})
		c.Mesh = &meshing.Mesh{Vertices: make([]float32, meshing.VertexStride*3*i)}
		cs.Add(c)
	}

	if got := len(cs.All()); got != 4 {
		t.Errorf("All() returned %d chunks, want 4", got)
	}
	if got := cs.TotalTriangles(); got != 0+1+2+3 {
		t.Errorf("TotalTriangles() = %d, want 6", got)
	}
}
