package world

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Deterministic 3D value noise with multiple octaves, plus octave summation
// over gradient noise. Lattice values come from integer hashing, so the same
// inputs give the same outputs on every platform.

// fade function is used for smoothing (Spline)
func fade(t float64) float64 {
	// Smoothstep-like fade function 6t^5 - 15t^4 + 10t^3
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash3(x, y, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash for 3D coordinates
	// Use separate golden ratio variants per axis for better distribution
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue3D(x, y, z int64, seed int64) float64 {
	// Map to [0,1]
	h := hash3(x, y, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	// Lattice points (8 corners of the cube)
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)
	x1 := x0 + 1
	y1 := y0 + 1
	z1 := z0 + 1

	// Interpolation weights
	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	v000 := latticeValue3D(int64(x0), int64(y0), int64(z0), seed)
	v100 := latticeValue3D(int64(x1), int64(y0), int64(z0), seed)
	v010 := latticeValue3D(int64(x0), int64(y1), int64(z0), seed)
	v110 := latticeValue3D(int64(x1), int64(y1), int64(z0), seed)
	v001 := latticeValue3D(int64(x0), int64(y0), int64(z1), seed)
	v101 := latticeValue3D(int64(x1), int64(y0), int64(z1), seed)
	v011 := latticeValue3D(int64(x0), int64(y1), int64(z1), seed)
	v111 := latticeValue3D(int64(x1), int64(y1), int64(z1), seed)

	// Trilinear interpolation, X then Y then Z
	i00 := lerp(v000, v100, fx)
	i10 := lerp(v010, v110, fx)
	i01 := lerp(v001, v101, fx)
	i11 := lerp(v011, v111, fx)

	i0 := lerp(i00, i10, fy)
	i1 := lerp(i01, i11, fy)

	return lerp(i0, i1, fz) // [0,1]
}

func octaveNoise3D(x, y, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		v := valueNoise3D(x*frequency, y*frequency, z*frequency, seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm // [0,1]
}

// Gradient-noise octave sums. The perlin generator is seeded once per concern;
// octaves reuse it at scaled frequencies. Output stays within the range of a
// single octave, roughly [-1,1].

func perlinOctaves2D(p *perlin.Perlin, x, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += p.Noise2D(x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func perlinOctaves3D(p *perlin.Perlin, x, y, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += p.Noise3D(x*frequency, y*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
