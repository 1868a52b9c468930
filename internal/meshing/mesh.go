package meshing

import "github.com/go-gl/mathgl/mgl32"

// IsoLevel is the density threshold of the surface. Samples at or above it
// count as inside the solid.
const IsoLevel float32 = 0

// VertexStride is the number of float32 lanes per vertex: position, normal
// and color, interleaved.
const VertexStride = 9

// Mesh is unindexed triangle soup in the interleaved vertex layout.
type Mesh struct {
	Vertices []float32

	// Wireframe is a presentation hint for reduced-LOD chunks. Flipping it
	// never requires a re-mesh.
	Wireframe bool
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / (VertexStride * 3)
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0
}

// Sampler provides density values at arbitrary world positions.
type Sampler interface {
	Sample(x, y, z float64) float32
}

// SampleFunc adapts a plain function to the Sampler interface.
type SampleFunc func(x, y, z float64) float32

// Sample implements Sampler.
func (fn SampleFunc) Sample(x, y, z float64) float32 {
	return fn(x, y, z)
}

// Grid is a cube of corner densities: Size cells per axis, Size+1 samples.
// Values are indexed x-major so a fixed-x plane is contiguous.
type Grid struct {
	Origin mgl32.Vec3
	Size   int
	Values []float32
}

// NewGrid allocates a corner grid for size cells per axis at a world origin.
func NewGrid(origin mgl32.Vec3, size int) *Grid {
	n := size + 1
	return &Grid{
		Origin: origin,
		Size:   size,
		Values: make([]float32, n*n*n),
	}
}

func (g *Grid) index(x, y, z int) int {
	n := g.Size + 1
	return (x*n+y)*n + z
}

// At returns the corner density at grid-local coordinates.
func (g *Grid) At(x, y, z int) float32 {
	return g.Values[g.index(x, y, z)]
}

// Set stores a corner density at grid-local coordinates.
func (g *Grid) Set(x, y, z int, v float32) {
	g.Values[g.index(x, y, z)] = v
}

// Fill samples every corner from the field.
func (g *Grid) Fill(s Sampler) {
	for x := 0; x <= g.Size; x++ {
		g.FillPlane(s, x)
	}
}

// FillPlane samples one fixed-x plane of corners. Planes touch disjoint
// ranges of Values, so distinct planes may be filled concurrently.
func (g *Grid) FillPlane(s Sampler, x int) {
	wx := float64(g.Origin.X()) + float64(x)
	for y := 0; y <= g.Size; y++ {
		wy := float64(g.Origin.Y()) + float64(y)
		for z := 0; z <= g.Size; z++ {
			wz := float64(g.Origin.Z()) + float64(z)
			g.Values[g.index(x, y, z)] = s.Sample(wx, wy, wz)
		}
	}
}
