package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration document.
type File struct {
	Seed               int64       `yaml:"seed"`
	RenderDistance     int         `yaml:"render_distance"`
	VerticalRange      int         `yaml:"vertical_range"`
	FullDetailDistance int         `yaml:"full_detail_distance"`
	LoadsPerTick       int         `yaml:"loads_per_tick"`
	UnloadsPerTick     int         `yaml:"unloads_per_tick"`
	Hysteresis         int         `yaml:"hysteresis"`
	VoxelSize          float32     `yaml:"voxel_size"`
	Field              FieldParams `yaml:"field"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Seed:               1337,
		RenderDistance:     GetRenderDistance(),
		VerticalRange:      GetVerticalRange(),
		FullDetailDistance: GetFullDetailDistance(),
		LoadsPerTick:       GetLoadsPerTick(),
		UnloadsPerTick:     GetUnloadsPerTick(),
		Hysteresis:         GetHysteresis(),
		VoxelSize:          GetVoxelSize(),
		Field:              DefaultFieldParams(),
	}
}

// LoadFile reads a YAML config, overlaying it on the defaults so absent keys
// keep their built-in values.
func LoadFile(path string) (File, error) {
	f := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Apply pushes the streaming values into the global runtime settings.
// Setters clamp, so a hand-edited file cannot produce unusable values.
func (f File) Apply() {
	SetRenderDistance(f.RenderDistance)
	SetVerticalRange(f.VerticalRange)
	SetFullDetailDistance(f.FullDetailDistance)
	SetLoadsPerTick(f.LoadsPerTick)
	SetUnloadsPerTick(f.UnloadsPerTick)
	SetHysteresis(f.Hysteresis)
	SetVoxelSize(f.VoxelSize)
}
