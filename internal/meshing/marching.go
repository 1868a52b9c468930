package meshing

import (
	"log"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/config"
	"terravox/internal/profiling"
	"terravox/internal/registry"
)

// epsilonDenom guards the edge interpolation against corner densities that
// are numerically indistinguishable. Below it the crossing snaps to the edge
// midpoint.
const epsilonDenom = 1e-6

// colorJitter is the relative brightness spread applied per vertex so large
// single-material faces do not render as flat sheets of one color.
const colorJitter = 0.03

var (
	badConfigMu   sync.Mutex
	badConfigSeen [256]bool
)

// warnBadConfig logs a broken triangulation entry once per configuration so
// a corrupted table cannot flood the log from inside the chunk loop.
func warnBadConfig(cfg int) {
	badConfigMu.Lock()
	defer badConfigMu.Unlock()
	if badConfigSeen[cfg] {
		return
	}
	badConfigSeen[cfg] = true
	log.Printf("meshing: no usable triangulation for cell configuration %d", cfg)
}

// March polygonizes the grid's density samples into a triangle mesh.
//
// Each cell is classified by which of its eight corners sample below
// IsoLevel, and the classic edge/triangle tables turn that configuration
// into up to five triangles with vertices interpolated along the crossing
// edges. Normals come from central differences of the sampler, colors from
// the material bands. Vertex positions are scaled by the configured voxel
// size on the way out; sampling itself always happens on the unit lattice.
func March(s Sampler, grid *Grid) *Mesh {
	defer profiling.Track("meshing.March")()

	mesh := &Mesh{}
	if grid == nil || grid.Size < 1 {
		return mesh
	}

	voxel := config.GetVoxelSize()

	var corners [8]float32
	var verts [12]mgl32.Vec3
	for x := 0; x < grid.Size; x++ {
		for y := 0; y < grid.Size; y++ {
			for z := 0; z < grid.Size; z++ {
				cfg := 0
				for i, off := range cornerOffsets {
					corners[i] = grid.At(x+off[0], y+off[1], z+off[2])
					if corners[i] < IsoLevel {
						cfg |= 1 << i
					}
				}
				if cfg == 0 || cfg == 255 {
					continue
				}

				edges := edgeTable[cfg]
				if edges == 0 {
					warnBadConfig(cfg)
					continue
				}
				for e := 0; e < 12; e++ {
					if edges&(1<<e) == 0 {
						continue
					}
					a, b := edgeCorners[e][0], edgeCorners[e][1]
					verts[e] = edgeVertex(grid.Origin, x, y, z, a, b, corners[a], corners[b])
				}

				row := &triTable[cfg]
				cellStart := len(mesh.Vertices)
				for t := 0; t+2 < len(row); t += 3 {
					if row[t] < 0 {
						break
					}
					e0, e1, e2 := row[t], row[t+1], row[t+2]
					if e1 < 0 || e2 < 0 ||
						edges&(1<<e0) == 0 || edges&(1<<e1) == 0 || edges&(1<<e2) == 0 {
						// Truncated or inconsistent row: the cell
						// contributes nothing rather than a partial fan.
						mesh.Vertices = mesh.Vertices[:cellStart]
						warnBadConfig(cfg)
						break
					}
					emitVertex(mesh, s, verts[e0], voxel)
					emitVertex(mesh, s, verts[e1], voxel)
					emitVertex(mesh, s, verts[e2], voxel)
				}
			}
		}
	}
	return mesh
}

// edgeVertex interpolates the surface crossing along one cell edge.
func edgeVertex(origin mgl32.Vec3, x, y, z, a, b int, da, db float32) mgl32.Vec3 {
	pa := mgl32.Vec3{
		origin.X() + float32(x+cornerOffsets[a][0]),
		origin.Y() + float32(y+cornerOffsets[a][1]),
		origin.Z() + float32(z+cornerOffsets[a][2]),
	}
	pb := mgl32.Vec3{
		origin.X() + float32(x+cornerOffsets[b][0]),
		origin.Y() + float32(y+cornerOffsets[b][1]),
		origin.Z() + float32(z+cornerOffsets[b][2]),
	}

	denom := db - da
	t := float32(0.5)
	if denom > epsilonDenom || denom < -epsilonDenom {
		t = (IsoLevel - da) / denom
	}
	return pa.Add(pb.Sub(pa).Mul(t))
}

// emitVertex appends one interleaved vertex: scaled position, field-gradient
// normal and jittered material color.
func emitVertex(mesh *Mesh, s Sampler, p mgl32.Vec3, voxel float32) {
	n := surfaceNormal(s, p)

	mat := registry.Classify(p.Y(), n.Y())
	c := registry.Color(mat)
	brightness := 1 + (rand.Float32()*2-1)*colorJitter
	c = c.Mul(brightness)

	mesh.Vertices = append(mesh.Vertices,
		p.X()*voxel, p.Y()*voxel, p.Z()*voxel,
		n.X(), n.Y(), n.Z(),
		clamp01(c.X()), clamp01(c.Y()), clamp01(c.Z()),
	)
}

// surfaceNormal estimates the outward surface normal at p as the negated,
// normalized density gradient. A vanishing gradient falls back to straight up.
func surfaceNormal(s Sampler, p mgl32.Vec3) mgl32.Vec3 {
	const h = 0.5
	x, y, z := float64(p.X()), float64(p.Y()), float64(p.Z())
	n := mgl32.Vec3{
		s.Sample(x-h, y, z) - s.Sample(x+h, y, z),
		s.Sample(x, y-h, z) - s.Sample(x, y+h, z),
		s.Sample(x, y, z-h) - s.Sample(x, y, z+h),
	}
	if n.Len() < 1e-6 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
