package graphics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFlyCameraLooksDownNegativeZ(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{}, 1)
	f := c.Front()
	if !f.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Fatalf("Front() = %v, want (0,0,-1)", f)
	}
}

func TestFlyCameraPitchIsClamped(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{}, 1)
	c.HandleMouseMovement(0, 0)
	c.HandleMouseMovement(0, -10000)
	if c.Pitch != 89 {
		t.Fatalf("Pitch = %v, want 89", c.Pitch)
	}
	c.HandleMouseMovement(0, 10000)
	if c.Pitch != -89 {
		t.Fatalf("Pitch = %v, want -89", c.Pitch)
	}
}

func TestFlyCameraFirstMouseOnlyRecords(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{}, 1)
	c.HandleMouseMovement(500, 300)
	if c.Yaw != 0 || c.Pitch != 0 {
		t.Fatalf("first event changed orientation: yaw=%v pitch=%v", c.Yaw, c.Pitch)
	}
	c.HandleMouseMovement(510, 300)
	if math.Abs(c.Yaw-1) > 1e-9 {
		t.Fatalf("Yaw = %v, want 1", c.Yaw)
	}
}

func TestFlyCameraMove(t *testing.T) {
	c := NewFlyCamera(mgl32.Vec3{1, 2, 3}, 4)
	c.Move(1, 0, 0, 0.5)
	if want := (mgl32.Vec3{1, 2, 1}); !c.Position().ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("after forward Position() = %v, want %v", c.Position(), want)
	}
	c.Move(0, 1, 0, 0.5)
	if want := (mgl32.Vec3{3, 2, 1}); !c.Position().ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("after strafe Position() = %v, want %v", c.Position(), want)
	}
	c.Move(0, 0, -1, 0.25)
	if want := (mgl32.Vec3{3, 1, 1}); !c.Position().ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("after descend Position() = %v, want %v", c.Position(), want)
	}
}

func TestFrustumCulling(t *testing.T) {
	cam := NewCamera(100, 100)
	fly := NewFlyCamera(mgl32.Vec3{}, 1)
	clip := cam.GetProjectionMatrix().Mul4(fly.GetViewMatrix())
	f := FrustumFromMatrix(clip)

	tests := []struct {
		name     string
		min, max mgl32.Vec3
		want     bool
	}{
		{"ahead", mgl32.Vec3{-1, -1, -11}, mgl32.Vec3{1, 1, -9}, true},
		{"behind", mgl32.Vec3{-1, -1, 9}, mgl32.Vec3{1, 1, 11}, false},
		{"far left", mgl32.Vec3{-100, -1, -6}, mgl32.Vec3{-90, 1, -4}, false},
		{"straddling", mgl32.Vec3{-5, -5, -5}, mgl32.Vec3{5, 5, 5}, true},
		{"beyond far plane", mgl32.Vec3{-1, -1, -2000}, mgl32.Vec3{1, 1, -1500}, false},
	}
	for _, tt := range tests {
		if got := f.IntersectsAABB(tt.min, tt.max); got != tt.want {
			t.Errorf("%s: IntersectsAABB = %v, want %v", tt.name, got, tt.want)
		}
	}
}
