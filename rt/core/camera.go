package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orbit camera around a look-at center. Input mapping lives in
// the frame loop; the tracer only consumes the frozen state through
// PrimaryRay.
type Camera struct {
	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3
	FOV    float32 // vertical field of view, radians

	forward mgl32.Vec3
	right   mgl32.Vec3
	trueUp  mgl32.Vec3
}

func NewCamera(eye, center, up mgl32.Vec3) *Camera {
	c := &Camera{
		Eye:    eye,
		Center: center,
		Up:     up,
		FOV:    math.Pi / 3,
	}
	c.UpdateBasis()
	return c
}

// UpdateBasis recomputes the projection basis. Call after mutating Eye,
// Center or Up directly.
func (c *Camera) UpdateBasis() {
	c.forward = SafeNormalize(c.Center.Sub(c.Eye))
	c.right = SafeNormalize(c.forward.Cross(c.Up))
	c.trueUp = c.right.Cross(c.forward)
}

// Orbit rotates the eye around the center by the given yaw and pitch deltas,
// keeping the orbit radius. Pitch is clamped short of the poles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float32) {
	offset := c.Eye.Sub(c.Center)
	radius := offset.Len()
	if radius == 0 {
		return
	}

	yaw := float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	pitch := float32(math.Asin(float64(clamp(offset.Y()/radius, -1, 1))))

	yaw += deltaYaw
	pitch = clamp(pitch+deltaPitch, -1.5, 1.5)

	cosP := float32(math.Cos(float64(pitch)))
	c.Eye = c.Center.Add(mgl32.Vec3{
		radius * cosP * float32(math.Sin(float64(yaw))),
		radius * float32(math.Sin(float64(pitch))),
		radius * cosP * float32(math.Cos(float64(yaw))),
	})
	c.UpdateBasis()
}

// Zoom moves the eye along the view direction. The eye never crosses the
// center.
func (c *Camera) Zoom(delta float32) {
	offset := c.Eye.Sub(c.Center)
	radius := offset.Len() - delta
	if radius < 1.0 {
		radius = 1.0
	}
	c.Eye = c.Center.Add(SafeNormalize(offset).Mul(radius))
	c.UpdateBasis()
}

// Elevate moves eye and center vertically together.
func (c *Camera) Elevate(delta float32) {
	c.Eye[1] += delta
	c.Center[1] += delta
	c.UpdateBasis()
}

// PrimaryRay maps a pixel to its primary ray through the camera's projection
// basis. (0,0) is the top-left pixel.
func (c *Camera) PrimaryRay(x, y, width, height int) Ray {
	aspect := float32(width) / float32(height)
	scale := float32(math.Tan(float64(c.FOV * 0.5)))

	sx := (2.0*(float32(x)+0.5)/float32(width) - 1.0) * aspect * scale
	sy := (1.0 - 2.0*(float32(y)+0.5)/float32(height)) * scale

	dir := c.right.Mul(sx).Add(c.trueUp.Mul(sy)).Add(c.forward)
	return NewRay(c.Eye, dir)
}
