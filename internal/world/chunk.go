package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/meshing"
)

// ChunkSize is the cube edge length in voxels. The corner grid a chunk is
// meshed from has ChunkSize+1 samples per axis, so face neighbors share a
// plane of corners and their meshes line up without stitching.
const ChunkSize = 16

// ChunkCoord identifies a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

// Origin returns the world position of the chunk's lowest corner.
func (c ChunkCoord) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X * ChunkSize),
		float32(c.Y * ChunkSize),
		float32(c.Z * ChunkSize),
	}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// ChunkCoordAt returns the coordinate of the chunk containing a world position.
func ChunkCoordAt(pos mgl32.Vec3) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(int(math.Floor(float64(pos.X()))), ChunkSize),
		Y: floorDiv(int(math.Floor(float64(pos.Y()))), ChunkSize),
		Z: floorDiv(int(math.Floor(float64(pos.Z()))), ChunkSize),
	}
}

// LOD is the presentation level of a resident chunk.
type LOD uint8

const (
	// LODFull presents the normal mesh.
	LODFull LOD = iota
	// LODReduced presents the same mesh with the wireframe flag set; no
	// re-mesh happens on the way in or out of this level.
	LODReduced
	// LODInvisible keeps the chunk resident and editable but unpresented.
	LODInvisible
)

func (l LOD) String() string {
	switch l {
	case LODFull:
		return "full"
	case LODReduced:
		return "reduced"
	case LODInvisible:
		return "invisible"
	}
	return "unknown"
}

// Chunk is a resident terrain cube: its mesh plus streaming state. Density
// data is not cached here; the field (base generator plus edit overlay) is
// authoritative and re-meshing re-pulls it.
type Chunk struct {
	Coord   ChunkCoord
	Mesh    *meshing.Mesh
	LOD     LOD
	Version uint32 // bumped on every re-mesh

	dirty bool
}

// NewChunk creates an unmeshed chunk at the given coordinate.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{Coord: coord, dirty: true}
}

// IsDirty returns whether the chunk needs re-meshing.
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the chunk for re-meshing.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// SetClean clears the re-mesh flag.
func (c *Chunk) SetClean() {
	c.dirty = false
}

// Triangles returns the number of triangles in the chunk's mesh.
func (c *Chunk) Triangles() int {
	if c.Mesh == nil {
		return 0
	}
	return c.Mesh.TriangleCount()
}

// floorDiv divides rounding toward negative infinity, so chunk coordinates
// behave for negative world positions.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
