package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/meshing"
	"terravox/internal/profiling"
)

const (
	// RayStep is the fixed marching step along a ray, in field units.
	RayStep = 0.1

	// MaxReachDistance bounds how far interactive edits reach into the
	// terrain.
	MaxReachDistance = 64.0
)

// RayHit stores the result of a ray march against the density field.
type RayHit struct {
	Position mgl32.Vec3
	Distance float32
	Hit      bool
}

// Raycast marches from origin along dir in fixed steps and returns the first
// sample at or inside the surface. A zero direction or non-positive range
// misses; an origin already inside the solid hits at distance zero.
func Raycast(s meshing.Sampler, origin, dir mgl32.Vec3, maxDist float32) RayHit {
	defer profiling.Track("physics.Raycast")()

	if maxDist <= 0 || dir.Len() < 1e-6 {
		return RayHit{}
	}
	dir = dir.Normalize()

	steps := int(maxDist / RayStep)
	for i := 0; i <= steps; i++ {
		dist := float32(i) * RayStep
		p := origin.Add(dir.Mul(dist))
		if s.Sample(float64(p.X()), float64(p.Y()), float64(p.Z())) >= meshing.IsoLevel {
			return RayHit{Position: p, Distance: dist, Hit: true}
		}
	}
	return RayHit{}
}
