package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera handles the projection matrix
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 0.05,
		FarPlane:  1000.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio; a zero height (minimised window) is ignored.
func (c *Camera) SetViewport(width, height int) {
	if height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// FlyCamera is a free-flying observer driven by mouse look and WASD.
// It satisfies world.Observer.
type FlyCamera struct {
	Pos   mgl32.Vec3
	Yaw   float64 // degrees, 0 looks down -Z
	Pitch float64 // degrees, clamped to [-89, 89]
	Speed float32 // world units per second

	FirstMouse bool
	LastMouseX float64
	LastMouseY float64
}

func NewFlyCamera(pos mgl32.Vec3, speed float32) *FlyCamera {
	return &FlyCamera{Pos: pos, Speed: speed, FirstMouse: true}
}

// Position returns the camera position in world space.
func (c *FlyCamera) Position() mgl32.Vec3 {
	return c.Pos
}

// Front is the unit view direction.
func (c *FlyCamera) Front() mgl32.Vec3 {
	yaw := mgl32.DegToRad(float32(c.Yaw))
	pitch := mgl32.DegToRad(float32(c.Pitch))
	cp := float32(math.Cos(float64(pitch)))
	return mgl32.Vec3{
		float32(math.Sin(float64(yaw))) * cp,
		float32(math.Sin(float64(pitch))),
		-float32(math.Cos(float64(yaw))) * cp,
	}.Normalize()
}

// HandleMouseMovement turns cursor deltas into yaw and pitch.
func (c *FlyCamera) HandleMouseMovement(xpos, ypos float64) {
	if c.FirstMouse {
		c.LastMouseX = xpos
		c.LastMouseY = ypos
		c.FirstMouse = false
		return
	}

	xoffset := xpos - c.LastMouseX
	yoffset := c.LastMouseY - ypos
	c.LastMouseX = xpos
	c.LastMouseY = ypos

	sensitivity := 0.1
	c.Yaw += xoffset * sensitivity
	c.Pitch += yoffset * sensitivity

	// Constrain pitch
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

// Move advances the camera along its view axes. forward, right and up are
// in [-1, 1].
func (c *FlyCamera) Move(forward, right, up float32, dt float64) {
	front := c.Front()
	side := front.Cross(mgl32.Vec3{0, 1, 0})
	if side.Len() > 1e-6 {
		side = side.Normalize()
	}
	step := c.Speed * float32(dt)
	delta := front.Mul(forward).Add(side.Mul(right)).Add(mgl32.Vec3{0, up, 0})
	c.Pos = c.Pos.Add(delta.Mul(step))
}

func (c *FlyCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Pos, c.Pos.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}
