// Package camera provides the viewport camera: a position, an orientation
// quaternion and a vertical field of view.
//
// The view coordinate system looks down -Z with +Y up. Orbiting rotates the
// world around the origin; the camera position is expressed in the rotated
// frame, so Pos.Z is the distance to the look-at plane.
package camera

import (
	gomath "math"

	"github.com/Beginsangod/Painter/pkg/math"
)

const (
	// DefaultFOV is the vertical field of view in degrees.
	DefaultFOV = 45

	// DefaultMinDistance is the closest the camera may get to the look-at plane.
	DefaultMinDistance = 0.1

	minFOV = 1
	maxFOV = 179

	zoomBase = 0.999
)

// Params is the user-facing camera state.
type Params struct {
	Position         math.Vec3
	Pitch, Yaw, Roll float32 // degrees
	FOV              float32 // degrees
}

// DefaultParams is the camera five units back from the origin.
func DefaultParams() Params {
	return Params{Position: math.Vec3{Z: 5}, FOV: DefaultFOV}
}

// Camera is a quaternion camera. Mutating methods are not safe for
// concurrent use; the viewport drives it from the render thread.
type Camera struct {
	Pos  math.Vec3
	Quat math.Quat
	FOV  float32

	// MinDistance floors Pos.Z for Pan and Zoom.
	MinDistance float32

	initial Params
}

// New creates a camera from p. Reset returns to p.
func New(p Params) *Camera {
	if p.FOV <= 0 {
		p.FOV = DefaultFOV
	}
	c := &Camera{MinDistance: DefaultMinDistance, initial: p}
	c.SetParams(p)
	return c
}

// ViewMatrix returns the world-to-camera transform, Translate(-pos) * rotation.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Translate(-c.Pos.X, -c.Pos.Y, -c.Pos.Z).Mul(c.Quat.ToMat4())
}

// SetViewMatrix derives position and orientation from a view matrix built
// by ViewMatrix.
func (c *Camera) SetViewMatrix(view math.Mat4) {
	c.Quat = view.ToQuat()
	c.Pos = view.Translation().Neg()
}

// QuatPos returns the orientation and position.
func (c *Camera) QuatPos() (math.Quat, math.Vec3) {
	return c.Quat, c.Pos
}

// SetQuatPos replaces the orientation and/or the position; nil keeps the
// current value.
func (c *Camera) SetQuatPos(q *math.Quat, pos *math.Vec3) {
	if q != nil {
		c.Quat = q.Normalize()
	}
	if pos != nil {
		c.Pos = *pos
	}
}

// Distance is Pos.Z floored at 1, the reference for the clip planes.
func (c *Camera) Distance() float32 {
	return max(c.Pos.Z, 1)
}

// ClipPlanes returns the near and far planes. Both scale with the distance
// so depth precision follows the zoom level.
func (c *Camera) ClipPlanes() (near, far float32) {
	d := c.Distance()
	return 0.001 * d, 100 * d
}

// ProjectionMatrix returns the perspective projection for a viewport of
// width x height pixels. A non-positive fov uses the camera's own.
func (c *Camera) ProjectionMatrix(width, height int, fov float32) (math.Mat4, error) {
	if fov <= 0 {
		fov = c.FOV
	}
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	near, far := c.ClipPlanes()
	return math.NewPerspective(fov, aspect, near, far)
}

// ProjViewMatrix returns Projection * View.
func (c *Camera) ProjViewMatrix(width, height int, fov float32) (math.Mat4, error) {
	proj, err := c.ProjectionMatrix(width, height, fov)
	if err != nil {
		return math.Mat4{}, err
	}
	return proj.Mul(c.ViewMatrix()), nil
}

// ViewPos returns the camera position in world space.
func (c *Camera) ViewPos() math.Vec3 {
	return c.Quat.Inverse().Rotate(c.Pos)
}

// Orbit sets the orientation to QuatFromEuler(pitch, yaw, roll) * base.
// A nil base rotates from the current orientation; passing the orientation
// captured at mouse press keeps a drag free of accumulated error.
func (c *Camera) Orbit(yaw, pitch, roll float32, base *math.Quat) {
	b := c.Quat
	if base != nil {
		b = *base
	}
	c.Quat = math.QuatFromEuler(pitch, yaw, roll).Mul(b).Normalize()
}

// Pan moves the camera by a pixel delta. The scale makes one pixel at the
// look-at plane map to one pixel on screen for a viewport widthPx wide.
// A nil base pans from the current position.
func (c *Camera) Pan(dx, dy, dz, widthPx float32, base *math.Vec3) {
	b := c.Pos
	if base != nil {
		b = *base
	}
	if widthPx <= 0 {
		widthPx = 1
	}
	scale := c.Pos.Z * 2 * float32(gomath.Tan(0.5*float64(math.Radians(c.FOV)))) / widthPx
	c.Pos = b.Add(math.Vec3{X: -dx * scale, Y: -dy * scale, Z: dz * scale})
	c.clampDistance()
}

// Zoom scales the distance by 0.999^delta; positive deltas move closer.
func (c *Camera) Zoom(delta float32) {
	c.Pos.Z *= float32(gomath.Pow(zoomBase, float64(delta)))
	c.clampDistance()
}

// ZoomFOV scales the field of view by 0.999^delta, kept within [1, 179].
func (c *Camera) ZoomFOV(delta float32) {
	c.FOV *= float32(gomath.Pow(zoomBase, float64(delta)))
	c.FOV = min(max(c.FOV, minFOV), maxFOV)
}

func (c *Camera) clampDistance() {
	floor := c.MinDistance
	if floor <= 0 {
		floor = DefaultMinDistance
	}
	c.Pos.Z = max(c.Pos.Z, floor)
}

// SetParams replaces position, orientation and field of view.
func (c *Camera) SetParams(p Params) {
	c.Pos = p.Position
	c.Quat = math.QuatFromEuler(p.Pitch, p.Yaw, p.Roll)
	if p.FOV > 0 {
		c.FOV = min(max(p.FOV, minFOV), maxFOV)
	}
}

// Params returns the position, Euler angles and field of view.
func (c *Camera) Params() Params {
	pitch, yaw, roll := c.Quat.ToEuler()
	return Params{Position: c.Pos, Pitch: pitch, Yaw: yaw, Roll: roll, FOV: c.FOV}
}

// Reset restores the parameters the camera was created with.
func (c *Camera) Reset() {
	c.SetParams(c.initial)
	c.FOV = c.initial.FOV
}
