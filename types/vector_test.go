package types

import (
	"math"
	"testing"
)

func TestVec3MinMax(t *testing.T) {
	a := XYZ(1, -2, 3)
	b := XYZ(-1, 2, 3)

	if min := MinVec3(a, b); min != XYZ(-1, -2, 3) {
		t.Fatalf("expected min to be %v; got %v", XYZ(-1, -2, 3), min)
	}
	if max := MaxVec3(a, b); max != XYZ(1, 2, 3) {
		t.Fatalf("expected max to be %v; got %v", XYZ(1, 2, 3), max)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := XYZ(3, 0, 4).Normalize()
	if math.Abs(float64(n.Len()-1)) > 1e-6 {
		t.Fatalf("expected unit length; got %f", n.Len())
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Fatalf("expected zero vector to stay zero; got %v", z)
	}
}

func TestVec3Inv(t *testing.T) {
	inv := XYZ(2, -4, 0).Inv()
	if inv[0] != 0.5 || inv[1] != -0.25 {
		t.Fatalf("unexpected reciprocal %v", inv)
	}
	if !math.IsInf(float64(inv[2]), 1) {
		t.Fatalf("expected +Inf for zero component; got %f", inv[2])
	}
}

func TestVec2Lerp(t *testing.T) {
	a, b := XY(0, 0), XY(10, 20)
	specs := []struct {
		t   float32
		exp Vec2
	}{
		{0, XY(0, 0)},
		{0.5, XY(5, 10)},
		{1, XY(10, 20)},
	}

	for index, s := range specs {
		if got := a.Lerp(b, s.t); got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}
