package config

// FieldParams holds every tunable of the density field. All noise inputs are
// world coordinates multiplied by the matching scale.
type FieldParams struct {
	GroundLevel float64 `yaml:"ground_level"`

	// Macro relief, low-frequency volumetric noise.
	TerrainScale   float64 `yaml:"terrain_scale"`
	TerrainAmp     float64 `yaml:"terrain_amp"`
	TerrainOctaves int     `yaml:"terrain_octaves"`

	// Ridged crests: (1 - |noise|) * amp.
	RidgeScale   float64 `yaml:"ridge_scale"`
	RidgeAmp     float64 `yaml:"ridge_amp"`
	RidgeOctaves int     `yaml:"ridge_octaves"`

	// Cave carving below the ceiling: density = min(density, noise*10).
	CaveScale   float64 `yaml:"cave_scale"`
	CaveCeiling float64 `yaml:"cave_ceiling"`
	CaveOctaves int     `yaml:"cave_octaves"`

	// Floating shelves above OverhangMinY where the mask noise exceeds the cutoff.
	OverhangScale  float64 `yaml:"overhang_scale"`
	OverhangMinY   float64 `yaml:"overhang_min_y"`
	OverhangCutoff float64 `yaml:"overhang_cutoff"`
	OverhangAmp    float64 `yaml:"overhang_amp"`

	// High-frequency surface grain.
	DetailScale   float64 `yaml:"detail_scale"`
	DetailAmp     float64 `yaml:"detail_amp"`
	DetailOctaves int     `yaml:"detail_octaves"`

	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// DefaultFieldParams returns the stock terrain tuning.
func DefaultFieldParams() FieldParams {
	return FieldParams{
		GroundLevel:    30,
		TerrainScale:   1.0 / 80.0,
		TerrainAmp:     14,
		TerrainOctaves: 4,
		RidgeScale:     1.0 / 140.0,
		RidgeAmp:       22,
		RidgeOctaves:   2,
		CaveScale:      1.0 / 40.0,
		CaveCeiling:    24,
		CaveOctaves:    3,
		OverhangScale:  1.0 / 60.0,
		OverhangMinY:   42,
		OverhangCutoff: 0.55,
		OverhangAmp:    18,
		DetailScale:    1.0 / 9.0,
		DetailAmp:      0.8,
		DetailOctaves:  2,
		Persistence:    0.5,
		Lacunarity:     2.0,
	}
}

// FlatFieldParams returns params for a featureless plane at the given ground
// level: every amplitude is zero, carving and overhangs never trigger.
// The density reduces to groundLevel - y exactly.
func FlatFieldParams(groundLevel float64) FieldParams {
	return FieldParams{
		GroundLevel:    groundLevel,
		TerrainOctaves: 1,
		RidgeOctaves:   1,
		CaveCeiling:    -1e9,
		CaveOctaves:    1,
		OverhangMinY:   1e9,
		OverhangCutoff: 2,
		DetailOctaves:  1,
		Persistence:    0.5,
		Lacunarity:     2.0,
	}
}
