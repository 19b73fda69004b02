package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a free-look camera that handles the view and projection matrices
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32 // degrees, 0 looks along -Z
	Pitch       float32 // degrees, clamped to +-89
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int, fov float32) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(max(height, 1)),
		FOV:         fov,
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
}

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}.Normalize()
}

// Right returns the horizontal unit vector to the right of the view direction.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Front().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Rotate applies a yaw/pitch delta in degrees.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -89, 89)
}

// Move translates the camera relative to its orientation.
func (c *Camera) Move(forward, right, up float32) {
	c.Position = c.Position.
		Add(c.Front().Mul(forward)).
		Add(c.Right().Mul(right)).
		Add(mgl32.Vec3{0, up, 0})
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Position)
	if d.Len() == 0 {
		return
	}
	d = d.Normalize()
	c.Pitch = mgl32.Clamp(mgl32.RadToDeg(float32(math.Asin(float64(d.Y())))), -89, 89)
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(d.X()), float64(-d.Z()))))
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

// ProjectView returns projection * view.
func (c *Camera) ProjectView() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}
