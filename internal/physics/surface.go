package physics

import (
	"terravox/internal/meshing"
	"terravox/internal/profiling"
)

const (
	surfaceScanTop    = 200.0
	surfaceScanBottom = -100.0
	surfaceScanStep   = 4.0

	// surfaceBisections drives the bracket below float64 noise; 40 halvings
	// of a 4-unit bracket is ~4e-12.
	surfaceBisections = 40
)

// SurfaceHeight returns the elevation of the topmost terrain surface in the
// column at (x, z). It coarse-scans downward from the scan ceiling for the
// first air-to-solid transition, then bisects the bracket. The second return
// is false when the scanned column is entirely air.
func SurfaceHeight(s meshing.Sampler, x, z float64) (float64, bool) {
	defer profiling.Track("physics.SurfaceHeight")()

	airY := float64(surfaceScanTop)
	if s.Sample(x, airY, z) >= meshing.IsoLevel {
		// Solid all the way up; the ceiling is the best answer available.
		return airY, true
	}

	for y := surfaceScanTop - surfaceScanStep; y >= surfaceScanBottom; y -= surfaceScanStep {
		if s.Sample(x, y, z) < meshing.IsoLevel {
			airY = y
			continue
		}

		lo, hi := y, airY // lo solid, hi air
		for i := 0; i < surfaceBisections; i++ {
			mid := (lo + hi) / 2
			if s.Sample(x, mid, z) >= meshing.IsoLevel {
				lo = mid
			} else {
				hi = mid
			}
		}
		return (lo + hi) / 2, true
	}
	return 0, false
}
