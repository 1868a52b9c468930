package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EditOp selects how a brush changes the density overlay.
type EditOp int

const (
	// OpAdd raises density (grows terrain), scaled by falloff.
	OpAdd EditOp = iota
	// OpSubtract lowers density (digs), scaled by falloff.
	OpSubtract
	// OpSet pins density to the strength value. No falloff: set is a
	// leveling tool and a partial set would leave a rim.
	OpSet
)

func (op EditOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpSet:
		return "set"
	}
	return "unknown"
}

// Modify applies a spherical brush to the overlay. Every integer lattice
// point within radius of point is affected; add and subtract scale strength
// by the linear falloff 1 - distance/radius. Returns the number of lattice
// points touched.
//
// An add followed by a subtract with identical arguments cancels out to
// within float rounding.
func (f *Field) Modify(point mgl32.Vec3, radius, strength float32, op EditOp) int {
	if radius <= 0 {
		return 0
	}

	px := float64(point.X())
	py := float64(point.Y())
	pz := float64(point.Z())
	r := float64(radius)

	x0 := int(math.Ceil(px - r))
	x1 := int(math.Floor(px + r))
	y0 := int(math.Ceil(py - r))
	y1 := int(math.Floor(py + r))
	z0 := int(math.Ceil(pz - r))
	z1 := int(math.Floor(pz + r))

	touched := 0
	for ix := x0; ix <= x1; ix++ {
		for iy := y0; iy <= y1; iy++ {
			for iz := z0; iz <= z1; iz++ {
				dx := float64(ix) - px
				dy := float64(iy) - py
				dz := float64(iz) - pz
				dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if dist > r {
					continue
				}

				key := [3]int{ix, iy, iz}
				switch op {
				case OpSet:
					f.overrides[key] = strength
					delete(f.deltas, key)
				case OpAdd:
					f.applyDelta(key, strength*float32(1-dist/r))
				case OpSubtract:
					f.applyDelta(key, -strength*float32(1-dist/r))
				}
				touched++
			}
		}
	}
	return touched
}

// applyDelta folds a brush contribution into the overlay. If the point is
// pinned by a set, the pin absorbs the change so later samples stay absolute.
func (f *Field) applyDelta(key [3]int, d float32) {
	if ov, ok := f.overrides[key]; ok {
		f.overrides[key] = ov + d
		return
	}
	nd := f.deltas[key] + d
	if nd == 0 {
		delete(f.deltas, key)
		return
	}
	f.deltas[key] = nd
}
