package crowd

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a fixed perspective camera. Only the aspect ratio changes after
// mount.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FOV    float32 // degrees
	Aspect float32
	Near   float32
	Far    float32

	view    mgl32.Mat4
	proj    mgl32.Mat4
	invProj mgl32.Mat4 // inverse of proj*view
	dirty   bool
}

// NewCamera frames the crowd from slightly above and in front.
func NewCamera(aspect float32) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	c := &Camera{
		Position: mgl32.Vec3{0, 3, 11},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      CameraFOV,
		Aspect:   aspect,
		Near:     CameraNear,
		Far:      CameraFar,
		dirty:    true,
	}
	c.update()
	return c
}

func (c *Camera) update() {
	c.view = mgl32.LookAtV(c.Position, c.Target, c.Up)
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	c.invProj = c.proj.Mul4(c.view).Inv()
	c.dirty = false
}

// SetAspect ignores non-positive ratios; a zero-area container keeps the last
// good projection.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 || aspect == c.Aspect {
		return
	}
	c.Aspect = aspect
	c.dirty = true
}

func (c *Camera) View() mgl32.Mat4 {
	if c.dirty {
		c.update()
	}
	return c.view
}

func (c *Camera) Projection() mgl32.Mat4 {
	if c.dirty {
		c.update()
	}
	return c.proj
}

// Ray returns the world-space ray from the camera through ndc.
func (c *Camera) Ray(ndc mgl32.Vec2) (origin, dir mgl32.Vec3) {
	if c.dirty {
		c.update()
	}
	near := mgl32.TransformCoordinate(mgl32.Vec3{ndc[0], ndc[1], -1}, c.invProj)
	far := mgl32.TransformCoordinate(mgl32.Vec3{ndc[0], ndc[1], 1}, c.invProj)
	return c.Position, far.Sub(near).Normalize()
}

// IntersectPlaneZ hits the plane z = depth. Rays parallel to the plane or
// pointing away from it miss.
func IntersectPlaneZ(origin, dir mgl32.Vec3, depth float32) (mgl32.Vec3, bool) {
	if math.Abs(float64(dir.Z())) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := (depth - origin.Z()) / dir.Z()
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}
