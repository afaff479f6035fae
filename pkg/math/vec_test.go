package math

import (
	"testing"
)

func TestVec2Distance(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec2.Distance() = %v, want 5", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero vector", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-1, 0},
		{0.25, 0.25},
		{3, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.x, 0, 1); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestAABBExtend(t *testing.T) {
	b := EmptyAABB()
	b.Extend(Vec3{1, -2, 3})
	b.Extend(Vec3{-1, 4, 0})

	if b.Min != (Vec3{-1, -2, 0}) || b.Max != (Vec3{1, 4, 3}) {
		t.Errorf("AABB = %+v", b)
	}
	moved := b.Translate(Vec3{10, 0, 10})
	if moved.Min.X != 9 || moved.Max.Z != 13 {
		t.Errorf("Translate() = %+v", moved)
	}
}
