package physics_test

import (
	"testing"

	"terravox/internal/meshing"
	"terravox/internal/physics"
	"terravox/internal/world"
)

func TestSurfaceHeightFlatWorld(t *testing.T) {
	f := world.NewFlatField(30)
	h, ok := physics.SurfaceHeight(f, 12.3, -45.6)
	if !ok {
		t.Fatal("expected a surface, got none")
	}
	if h < 29.99 || h > 30.01 {
		t.Errorf("surface at %v, want 30", h)
	}
}

func TestSurfaceHeightOpenColumn(t *testing.T) {
	air := meshing.SampleFunc(func(x, y, z float64) float32 { return -1 })
	if h, ok := physics.SurfaceHeight(air, 0, 0); ok {
		t.Fatalf("expected no surface in pure air, got %v", h)
	}
}

func TestSurfaceHeightSolidCeiling(t *testing.T) {
	rock := meshing.SampleFunc(func(x, y, z float64) float32 { return 1 })
	h, ok := physics.SurfaceHeight(rock, 0, 0)
	if !ok {
		t.Fatal("expected the scan ceiling to count as surface")
	}
	if h < 199 {
		t.Errorf("surface at %v, want the scan ceiling", h)
	}
}

func TestSurfaceHeightReturnsTopmostSurface(t *testing.T) {
	// Floating slab over flat ground; the slab top wins.
	s := meshing.SampleFunc(func(x, y, z float64) float32 {
		if y >= 60 && y <= 62 {
			return 1
		}
		return float32(30 - y)
	})
	h, ok := physics.SurfaceHeight(s, 5, 5)
	if !ok {
		t.Fatal("expected a surface, got none")
	}
	if h < 61.99 || h > 62.01 {
		t.Errorf("surface at %v, want the slab top at 62", h)
	}
}
