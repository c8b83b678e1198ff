package math

import "math"

// Vec2 is a 2D vector, used for pointer positions and drag deltas.
type Vec2 struct {
	X, Y float32
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Abs returns the component-wise absolute value.
func (v Vec2) Abs() Vec2 {
	return Vec2{float32(math.Abs(float64(v.X))), float32(math.Abs(float64(v.Y)))}
}

// LockAxis keeps the dominant component and zeroes the other. Ties keep Y.
func (v Vec2) LockAxis() Vec2 {
	if a := v.Abs(); a.X > a.Y {
		return Vec2{X: v.X}
	}
	return Vec2{Y: v.Y}
}
