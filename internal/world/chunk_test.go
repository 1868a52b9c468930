package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/meshing"
)

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{0, 16, 0},
		{15, 16, 0},
		{16, 16, 1},
		{-1, 16, -1},
		{-16, 16, -1},
		{-17, 16, -2},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestChunkCoordAt(t *testing.T) {
	cases := []struct {
		pos  mgl32.Vec3
		want ChunkCoord
	}{
		{mgl32.Vec3{0, 0, 0}, ChunkCoord{0, 0, 0}},
		{mgl32.Vec3{15.9, 15.9, 15.9}, ChunkCoord{0, 0, 0}},
		{mgl32.Vec3{16, 0, 0}, ChunkCoord{1, 0, 0}},
		{mgl32.Vec3{-0.5, -0.5, -0.5}, ChunkCoord{-1, -1, -1}},
		{mgl32.Vec3{-16.1, 32, 47.9}, ChunkCoord{-2, 2, 2}},
	}
	for _, c := range cases {
		if got := ChunkCoordAt(c.pos); got != c.want {
			t.Errorf("ChunkCoordAt(%v) = %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestChunkCoordOrigin(t *testing.T) {
	c := ChunkCoord{X: -1, Y: 2, Z: 0}
	want := mgl32.Vec3{-16, 32, 0}
	if got := c.Origin(); got != want {
		t.Errorf("Origin() = %v, want %v", got, want)
	}
	// The origin maps back to its own chunk.
	if got := ChunkCoordAt(c.Origin()); got != c {
		t.Errorf("ChunkCoordAt(Origin()) = %v, want %v", got, c)
	}
}

func TestChunkDirtyLifecycle(t *testing.T) {
	c := NewChunk(ChunkCoord{1, 2, 3})
	if !c.IsDirty() {
		t.Error("new chunk should start dirty")
	}
	c.SetClean()
	if c.IsDirty() {
		t.Error("SetClean did not clear the flag")
	}
	c.MarkDirty()
	if !c.IsDirty() {
		t.Error("MarkDirty did not set the flag")
	}
}

func TestChunkTriangles(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	if got := c.Triangles(); got != 0 {
		t.Errorf("unmeshed chunk has %d triangles, want 0", got)
	}
	c.Mesh = &meshing.Mesh{Vertices: make([]float32, meshing.VertexStride*3*7)}
	if got := c.Triangles(); got != 7 {
		t.Errorf("Triangles() = %d, want 7", got)
	}
}
