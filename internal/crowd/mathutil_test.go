package crowd

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRandIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 100; i++ {
		if x, y := a.NextU64(), b.NextU64(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
	if NewRand(1).NextU64() == NewRand(2).NextU64() {
		t.Error("seeds 1 and 2 start identically")
	}
}

func TestRandZeroSeed(t *testing.T) {
	r := NewRand(0)
	seen := map[uint64]bool{}
	for i := 0; i < 10; i++ {
		seen[r.NextU64()] = true
	}
	if len(seen) < 10 {
		t.Errorf("seed 0 produced repeats: %d distinct of 10", len(seen))
	}
}

func TestRandRanges(t *testing.T) {
	r := NewRand(9)
	for i := 0; i < 10000; i++ {
		if f := r.Float32(); f < 0 || f >= 1 {
			t.Fatalf("Float32 = %v", f)
		}
		if v := r.RangeF(-2, 3); v < -2 || v >= 3 {
			t.Fatalf("RangeF = %v", v)
		}
		if n := r.Intn(7); n < 0 || n >= 7 {
			t.Fatalf("Intn = %d", n)
		}
	}
	if got := r.RangeF(5, 5); got != 5 {
		t.Errorf("RangeF(5, 5) = %v", got)
	}
	if got := r.RangeF(5, 1); got != 5 {
		t.Errorf("RangeF(5, 1) = %v", got)
	}
	if got := r.Intn(0); got != 0 {
		t.Errorf("Intn(0) = %d", got)
	}
}

func TestClampLerp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := clampF(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clampF(%v, %v, %v) = %v", tt.v, tt.lo, tt.hi, got)
		}
	}
	if got := lerpF(2, 4, 0.25); got != 2.5 {
		t.Errorf("lerpF = %v", got)
	}
}

// near compares component-wise with an absolute tolerance, so a residual like
// 4e-8 next to an expected zero still passes.
func near[V mgl32.Vec2 | mgl32.Vec3 | mgl32.Mat4](a, b V, eps float32) bool {
	var x, y []float32
	switch av := any(a).(type) {
	case mgl32.Vec2:
		bv := any(b).(mgl32.Vec2)
		x, y = av[:], bv[:]
	case mgl32.Vec3:
		bv := any(b).(mgl32.Vec3)
		x, y = av[:], bv[:]
	case mgl32.Mat4:
		bv := any(b).(mgl32.Mat4)
		x, y = av[:], bv[:]
	}
	for i := range x {
		if mgl32.Abs(x[i]-y[i]) > eps {
			return false
		}
	}
	return true
}

func TestNearIsAbsolute(t *testing.T) {
	if !near(mgl32.Vec3{1, 0, -4.371139e-08}, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Error("tiny residual next to zero rejected")
	}
	if !near(mgl32.Vec3{2.3841858e-07, 0, 1}, mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Error("tiny residual next to zero rejected")
	}
	if near(mgl32.Vec2{0, 0.1}, mgl32.Vec2{0, 0}, 1e-5) {
		t.Error("real difference accepted")
	}
}
