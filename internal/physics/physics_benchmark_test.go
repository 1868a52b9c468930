package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/config"
	"terravox/internal/world"
)

func makeFieldForPhysics() *world.Field {
	return world.NewField(1337, config.DefaultFieldParams())
}

func BenchmarkRaycast(b *testing.B) {
	f := makeFieldForPhysics()
	start := mgl32.Vec3{0, 70, 0}
	dir := mgl32.Vec3{1, -0.4, 0.2}.Normalize()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Raycast(f, start, dir, MaxReachDistance)
	}
}

func BenchmarkSurfaceHeight(b *testing.B) {
	f := makeFieldForPhysics()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = SurfaceHeight(f, float64(i%64), float64(i%48))
	}
}
