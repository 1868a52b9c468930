package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"terravox/internal/config"
)

// sampleRegion samples a small box around center at half-voxel steps.
func sampleRegion(f *Field, center mgl32.Vec3, extent float64) []float32 {
	cx, cy, cz := float64(center.X()), float64(center.Y()), float64(center.Z())
	var out []float32
	for x := cx - extent; x <= cx+extent; x += 0.5 {
		for y := cy - extent; y <= cy+extent; y += 0.5 {
			for z := cz - extent; z <= cz+extent; z += 0.5 {
				out = append(out, f.Sample(x, y, z))
			}
		}
	}
	return out
}

// TestModifyAddSubtractRoundTrip verifies a dig undone by an identical fill
// restores the field
func TestModifyAddSubtractRoundTrip(t *testing.T) {
	f := NewField(1337, config.DefaultFieldParams())
	center := mgl32.Vec3{8, 30, 8}

	before := sampleRegion(f, center, 6)
	if n := f.Modify(center, 3, 2.5, OpSubtract); n == 0 {
		t.Fatal("subtract touched no lattice points")
	}

	changed := false
	mid := sampleRegion(f, center, 6)
	for i := range before {
		if before[i] != mid[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("subtract did not change the field")
	}

	f.Modify(center, 3, 2.5, OpAdd)
	after := sampleRegion(f, center, 6)
	for i := range before {
		if d := math.Abs(float64(after[i] - before[i])); d > 1e-4 {
			t.Fatalf("sample %d off by %g after round trip", i, d)
		}
	}
}

// TestModifyRoundTripClearsOverlay verifies exact inverse edits leave no
// overlay entries behind
func TestModifyRoundTripClearsOverlay(t *testing.T) {
	f := NewField(1337, config.DefaultFieldParams())
	center := mgl32.Vec3{-20, 25, 14}

	f.Modify(center, 2.5, 1.5, OpAdd)
	if f.EditCount() == 0 {
		t.Fatal("add left no overlay entries")
	}
	f.Modify(center, 2.5, 1.5, OpSubtract)
	if n := f.EditCount(); n != 0 {
		t.Errorf("overlay holds %d entries after exact inverse, want 0", n)
	}
}

// TestModifyAddGrowsTerrain verifies an add brush turns nearby air solid
func TestModifyAddGrowsTerrain(t *testing.T) {
	f := NewFlatField(30)
	center := mgl32.Vec3{0, 30, 0}

	if d := f.Sample(0, 31.5, 0); d >= 0 {
		t.Fatalf("expected air above the plane, got %v", d)
	}
	f.Modify(center, 3, 4, OpAdd)
	if d := f.Sample(0, 31.5, 0); d <= 0 {
		t.Errorf("Sample(0, 31.5, 0) = %v after add, want solid", d)
	}
	// Far column is untouched.
	if d := f.Sample(40, 31.5, 0); d != -1.5 {
		t.Errorf("Sample(40, 31.5, 0) = %v, want -1.5", d)
	}
}

// TestModifySubtractDigs verifies a subtract brush opens a hole
func TestModifySubtractDigs(t *testing.T) {
	f := NewFlatField(30)
	center := mgl32.Vec3{0, 30, 0}

	if d := f.Sample(0, 29, 0); d != 1 {
		t.Fatalf("expected solid below the plane, got %v", d)
	}
	f.Modify(center, 3, 4, OpSubtract)
	if d := f.Sample(0, 29, 0); d >= 0 {
		t.Errorf("Sample(0, 29, 0) = %v after subtract, want air", d)
	}
}

// TestModifyFalloff verifies brush strength fades linearly with distance
func TestModifyFalloff(t *testing.T) {
	f := NewFlatField(0)
	center := mgl32.Vec3{0, 0, 0}
	f.Modify(center, 4, 8, OpAdd)

	// Base density at y=0 is 0, so samples read the overlay directly.
	centerDelta := float64(f.Sample(0, 0, 0))
	if math.Abs(centerDelta-8) > 1e-5 {
		t.Errorf("center delta %v, want full strength 8", centerDelta)
	}
	at2 := float64(f.Sample(2, 0, 0))
	want := 8 * (1 - 2.0/4.0)
	if math.Abs(at2-want) > 1e-5 {
		t.Errorf("delta at distance 2 is %v, want %v", at2, want)
	}
	if d := f.Sample(5, 0, 0); d != 0 {
		t.Errorf("Sample outside radius = %v, want untouched 0", d)
	}
}

// TestModifySetIgnoresFalloff verifies set pins every point in radius to the
// absolute value
func TestModifySetIgnoresFalloff(t *testing.T) {
	f := NewFlatField(30)
	center := mgl32.Vec3{0, 30, 0}
	f.Modify(center, 3, -5, OpSet)

	// Lattice points at different distances from center all read exactly -5.
	points := [][3]float64{{0, 30, 0}, {2, 30, 0}, {0, 32, 0}, {1, 29, 1}}
	for _, p := range points {
		if d := f.Sample(p[0], p[1], p[2]); d != -5 {
			t.Errorf("Sample(%v) = %v, want pinned -5", p, d)
		}
	}
}

// TestModifySetAbsorbsLaterDeltas verifies add on a pinned point stays
// absolute
func TestModifySetAbsorbsLaterDeltas(t *testing.T) {
	f := NewFlatField(30)
	center := mgl32.Vec3{0, 30, 0}

	f.Modify(center, 2, -5, OpSet)
	f.Modify(center, 2, 3, OpAdd)
	if d := f.Sample(0, 30, 0); d != -2 {
		t.Errorf("Sample(0,30,0) = %v, want pinned -5 plus 3", d)
	}
}

// TestModifyTouchedCount verifies the lattice point count for a known radius
func TestModifyTouchedCount(t *testing.T) {
	f := NewFlatField(0)
	// Radius 1.5 at a lattice point covers the center, the 6 axis
	// neighbors and the 12 planar diagonals.
	if n := f.Modify(mgl32.Vec3{0, 0, 0}, 1.5, 1, OpAdd); n != 19 {
		t.Errorf("touched %d lattice points, want 19", n)
	}
}

// TestModifyZeroRadius verifies a degenerate brush is a no-op
func TestModifyZeroRadius(t *testing.T) {
	f := NewFlatField(0)
	if n := f.Modify(mgl32.Vec3{0, 0, 0}, 0, 5, OpAdd); n != 0 {
		t.Errorf("zero radius touched %d points, want 0", n)
	}
	if n := f.Modify(mgl32.Vec3{0, 0, 0}, -2, 5, OpAdd); n != 0 {
		t.Errorf("negative radius touched %d points, want 0", n)
	}
	if f.EditCount() != 0 {
		t.Errorf("EditCount() = %d, want 0", f.EditCount())
	}
}

// TestModifyOffLatticeCenter verifies brushes centered between lattice points
// still select by true distance
func TestModifyOffLatticeCenter(t *testing.T) {
	f := NewFlatField(0)
	// From (0.5, 0, 0) only the two x neighbors are within distance 1;
	// every other lattice point is at least sqrt(1.25) away.
	if n := f.Modify(mgl32.Vec3{0.5, 0, 0}, 1, 1, OpAdd); n != 2 {
		t.Errorf("touched %d lattice points, want 2", n)
	}
}

func TestEditOpString(t *testing.T) {
	cases := map[EditOp]string{OpAdd: "add", OpSubtract: "subtract", OpSet: "set", EditOp(9): "unknown"}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("EditOp(%d).String() = %q, want %q", int(op), got, want)
		}
	}
}

func BenchmarkModify(b *testing.B) {
	f := NewField(1337, config.DefaultFieldParams())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op := OpAdd
		if i%2 == 1 {
			op = OpSubtract
		}
		f.Modify(mgl32.Vec3{float32(i % 64), 30, 8}, 3, 2, op)
	}
}
