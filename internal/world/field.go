package world

import (
	"math"

	"github.com/aquilax/go-perlin"

	"terravox/internal/config"
)

// Perlin generator shape, per go-perlin convention.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

// Seed offsets keep the noise concerns decorrelated.
const (
	seedOffsetRidge    = 131
	seedOffsetCave     = 262
	seedOffsetOverhang = 393
	seedOffsetDetail   = 524
)

// Field is the scalar terrain density: positive inside the ground, negative in
// air, zero on the surface. The base generator is a pure function of the seed
// and params; player edits accumulate in a sparse lattice overlay on top.
type Field struct {
	seed   int64
	params config.FieldParams

	terrain *perlin.Perlin
	ridge   *perlin.Perlin
	cave    *perlin.Perlin

	// Edit overlay at integer lattice points. deltas accumulate add/subtract
	// brushes; overrides pin a point to an absolute density. The overlay is
	// world-global and lives as long as the field: chunk unloads never shrink
	// it, so memory grows with the distinct points ever edited. The only
	// reclamation is dropping deltas that cancel back to zero.
	deltas    map[[3]int]float32
	overrides map[[3]int]float32
}

// NewField creates a density field from a seed and tuning params.
func NewField(seed int64, params config.FieldParams) *Field {
	return &Field{
		seed:      seed,
		params:    params,
		terrain:   perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
		ridge:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed+seedOffsetRidge),
		cave:      perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed+seedOffsetCave),
		deltas:    make(map[[3]int]float32),
		overrides: make(map[[3]int]float32),
	}
}

// NewFlatField creates a featureless plane at the given ground level.
// Density is exactly groundLevel - y. Used by tests and the -flat demo mode.
func NewFlatField(groundLevel float64) *Field {
	return NewField(0, config.FlatFieldParams(groundLevel))
}

// Seed returns the world seed.
func (f *Field) Seed() int64 {
	return f.seed
}

// Params returns the tuning the field was built with.
func (f *Field) Params() config.FieldParams {
	return f.params
}

// EditCount returns the number of lattice points touched by edits.
func (f *Field) EditCount() int {
	return len(f.deltas) + len(f.overrides)
}

// Sample returns the density at a world position. Between lattice points the
// edit overlay is blended linearly, matching the mesher's edge interpolation.
func (f *Field) Sample(x, y, z float64) float32 {
	if len(f.deltas) == 0 && len(f.overrides) == 0 {
		return float32(f.baseDensity(x, y, z))
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	z0 := int(math.Floor(z))

	if !f.cellEdited(x0, y0, z0) {
		return float32(f.baseDensity(x, y, z))
	}

	fx := x - float64(x0)
	fy := y - float64(y0)
	fz := z - float64(z0)

	v000 := f.effectiveLattice(x0, y0, z0)
	v100 := f.effectiveLattice(x0+1, y0, z0)
	v010 := f.effectiveLattice(x0, y0+1, z0)
	v110 := f.effectiveLattice(x0+1, y0+1, z0)
	v001 := f.effectiveLattice(x0, y0, z0+1)
	v101 := f.effectiveLattice(x0+1, y0, z0+1)
	v011 := f.effectiveLattice(x0, y0+1, z0+1)
	v111 := f.effectiveLattice(x0+1, y0+1, z0+1)

	i00 := lerp(v000, v100, fx)
	i10 := lerp(v010, v110, fx)
	i01 := lerp(v001, v101, fx)
	i11 := lerp(v011, v111, fx)

	i0 := lerp(i00, i10, fy)
	i1 := lerp(i01, i11, fy)

	return float32(lerp(i0, i1, fz))
}

// cellEdited reports whether any corner of the lattice cell at (x0,y0,z0) has
// overlay data.
func (f *Field) cellEdited(x0, y0, z0 int) bool {
	for dx := 0; dx <= 1; dx++ {
		for dy := 0; dy <= 1; dy++ {
			for dz := 0; dz <= 1; dz++ {
				key := [3]int{x0 + dx, y0 + dy, z0 + dz}
				if _, ok := f.overrides[key]; ok {
					return true
				}
				if _, ok := f.deltas[key]; ok {
					return true
				}
			}
		}
	}
	return false
}

// effectiveLattice returns the post-edit density at an integer lattice point.
func (f *Field) effectiveLattice(ix, iy, iz int) float64 {
	key := [3]int{ix, iy, iz}
	if ov, ok := f.overrides[key]; ok {
		return float64(ov)
	}
	d := f.baseDensity(float64(ix), float64(iy), float64(iz))
	if dv, ok := f.deltas[key]; ok {
		d += float64(dv)
	}
	return d
}

// baseDensity evaluates the un-edited generator. Terms, in order: planar bias,
// macro relief, ridged crests, cave carving, floating shelves, surface grain.
// The result is intentionally unclamped.
func (f *Field) baseDensity(x, y, z float64) float64 {
	p := &f.params

	d := p.GroundLevel - y

	if p.TerrainAmp != 0 {
		d += perlinOctaves3D(f.terrain, x*p.TerrainScale, y*p.TerrainScale, z*p.TerrainScale,
			p.TerrainOctaves, p.Persistence, p.Lacunarity) * p.TerrainAmp
	}

	if p.RidgeAmp != 0 {
		n := perlinOctaves2D(f.ridge, x*p.RidgeScale, z*p.RidgeScale,
			p.RidgeOctaves, p.Persistence, p.Lacunarity)
		d += (1 - math.Abs(n)) * p.RidgeAmp
	}

	// Carving clamps density down, never up: solid pockets survive where the
	// cave noise is positive.
	if y < p.CaveCeiling {
		carve := perlinOctaves3D(f.cave, x*p.CaveScale, y*p.CaveScale, z*p.CaveScale,
			p.CaveOctaves, p.Persistence, p.Lacunarity) * 10
		d = min(d, carve)
	}

	// Shelves land after the carve clamp: caves never hollow them out.
	if p.OverhangAmp != 0 && y > p.OverhangMinY {
		mask := octaveNoise3D(x*p.OverhangScale, y*p.OverhangScale, z*p.OverhangScale,
			f.seed+seedOffsetOverhang, 2, p.Persistence, p.Lacunarity)
		if mask > p.OverhangCutoff {
			d += p.OverhangAmp
		}
	}

	if p.DetailAmp != 0 {
		grain := octaveNoise3D(x*p.DetailScale, y*p.DetailScale, z*p.DetailScale,
			f.seed+seedOffsetDetail, p.DetailOctaves, p.Persistence, p.Lacunarity)
		d += (grain*2 - 1) * p.DetailAmp
	}

	return d
}
