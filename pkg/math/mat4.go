package math

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotInvertible is returned when a matrix has a (numerically) zero determinant.
	ErrNotInvertible = errors.New("matrix is not invertible")

	// ErrInvalidClipRange is returned when near/far planes do not satisfy 0 < near < far.
	ErrInvalidClipRange = errors.New("invalid clip range")

	// ErrInvalidFOV is returned for a field of view outside (0, 180) degrees.
	ErrInvalidFOV = errors.New("invalid field of view")
)

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Value methods (Mul, Compose, Translated, ...) never modify the receiver.
// Pointer methods (Translate, Rotate, Scale, Apply, MoveTo) mutate in place
// and return the receiver so calls can be chained.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a perspective projection matrix.
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1.0 / math.Tan(float64(fovY)/2.0))
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// NewPerspective validates its arguments and returns a perspective projection.
// fovDeg is the vertical field of view in degrees.
func NewPerspective(fovDeg, aspect, near, far float32) (Mat4, error) {
	if fovDeg <= 0 || fovDeg >= 180 {
		return Mat4{}, fmt.Errorf("%w: %v", ErrInvalidFOV, fovDeg)
	}
	if !(near > 0 && near < far) {
		return Mat4{}, fmt.Errorf("%w: near=%v far=%v", ErrInvalidClipRange, near, far)
	}
	if aspect <= 0 {
		aspect = 1
	}
	return Perspective(Radians(fovDeg), aspect, near, far), nil
}

// Ortho returns an orthographic projection matrix.
// left, right, bottom, top define the view frustum boundaries.
// near and far define the depth range.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateAxis creates a rotation matrix around an arbitrary axis.
// axis should be normalized, angle is in radians.
func RotateAxis(axis [3]float32, angle float32) Mat4 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	t := 1 - c

	x, y, z := axis[0], axis[1], axis[2]

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// AxisAngle returns a rotation of angleDeg degrees around (x, y, z).
// The axis does not need to be normalized. A zero axis or angle yields identity.
func AxisAngle(angleDeg, x, y, z float32) Mat4 {
	axis := Vec3{x, y, z}
	if angleDeg == 0 || axis.Length() == 0 {
		return Identity()
	}
	n := axis.Normalize()
	return RotateAxis([3]float32{n.X, n.Y, n.Z}, Radians(angleDeg))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// Compose applies other to m. With local set, other acts in the object's own
// frame (m * other); otherwise it acts in the parent frame (other * m).
func (m Mat4) Compose(other Mat4, local bool) Mat4 {
	if local {
		return m.Mul(other)
	}
	return other.Mul(m)
}

// Translated returns m composed with a translation.
func (m Mat4) Translated(x, y, z float32, local bool) Mat4 {
	return m.Compose(Translate(x, y, z), local)
}

// Rotated returns m composed with a rotation of angleDeg degrees around (x, y, z).
func (m Mat4) Rotated(angleDeg, x, y, z float32, local bool) Mat4 {
	return m.Compose(AxisAngle(angleDeg, x, y, z), local)
}

// RotatedQuat returns m composed with the rotation described by q.
func (m Mat4) RotatedQuat(q Quat, local bool) Mat4 {
	return m.Compose(q.ToMat4(), local)
}

// Scaled returns m composed with a scale.
func (m Mat4) Scaled(x, y, z float32, local bool) Mat4 {
	return m.Compose(Scale(x, y, z), local)
}

// Apply composes other into m in place.
func (m *Mat4) Apply(other Mat4, local bool) *Mat4 {
	*m = m.Compose(other, local)
	return m
}

// Translate composes a translation into m in place.
func (m *Mat4) Translate(x, y, z float32, local bool) *Mat4 {
	return m.Apply(Translate(x, y, z), local)
}

// Rotate composes a rotation of angleDeg degrees around (x, y, z) into m in place.
func (m *Mat4) Rotate(angleDeg, x, y, z float32, local bool) *Mat4 {
	return m.Apply(AxisAngle(angleDeg, x, y, z), local)
}

// RotateQuat composes the rotation q into m in place.
func (m *Mat4) RotateQuat(q Quat, local bool) *Mat4 {
	return m.Apply(q.ToMat4(), local)
}

// Scale composes a scale into m in place.
func (m *Mat4) Scale(x, y, z float32, local bool) *Mat4 {
	return m.Apply(Scale(x, y, z), local)
}

// MoveTo overwrites the translation column, keeping rotation and scale.
func (m *Mat4) MoveTo(x, y, z float32) *Mat4 {
	m[12], m[13], m[14], m[15] = x, y, z, 1
	return m
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// TransformPoint transforms a 3D point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		return [3]float32{x / w, y / w, z / w}
	}
	return [3]float32{x, y, z}
}

// TransformPoints transforms a batch of points. The result matches calling
// TransformPoint on each element.
func (m Mat4) TransformPoints(ps [][3]float32) [][3]float32 {
	out := make([][3]float32, len(ps))
	for i, p := range ps {
		out[i] = m.TransformPoint(p)
	}
	return out
}

// TransformVec3 transforms a Vec3 point by this matrix.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	p := m.TransformPoint([3]float32{v.X, v.Y, v.Z})
	return Vec3{p[0], p[1], p[2]}
}

// TransformVec4 normalizes v by its w component (floored at 1e-8), then
// multiplies it by m.
func (m Mat4) TransformVec4(v Vec4) Vec4 {
	w := v[3]
	if w < 1e-8 {
		w = 1e-8
	}
	return m.MulVec4(Vec4{v[0] / w, v[1] / w, v[2] / w, 1})
}

// Vec4 is a 4-component vector.
type Vec4 [4]float32

// MulVec4 multiplies the matrix by a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]*v[3],
		m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]*v[3],
		m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]*v[3],
		m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]*v[3],
	}
}

// Inverse returns the inverse of the matrix, or ErrNotInvertible when the
// determinant is numerically zero (e.g. a degenerate scale).
func (m Mat4) Inverse() (Mat4, error) {
	// Calculate cofactors
	c00 := m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	c01 := -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	c02 := m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	c03 := -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]

	c10 := -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	c11 := m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	c12 := -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	c13 := m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]

	c20 := m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	c21 := -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	c22 := m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	c23 := -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]

	c30 := -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	c31 := m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	c32 := -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	c33 := m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := float64(m[0])*float64(c00) + float64(m[4])*float64(c01) + float64(m[8])*float64(c02) + float64(m[12])*float64(c03)
	if math.Abs(det) <= 1e-12 {
		return Mat4{}, ErrNotInvertible
	}

	invDet := float32(1.0 / det)

	return Mat4{
		c00 * invDet, c01 * invDet, c02 * invDet, c03 * invDet,
		c10 * invDet, c11 * invDet, c12 * invDet, c13 * invDet,
		c20 * invDet, c21 * invDet, c22 * invDet, c23 * invDet,
		c30 * invDet, c31 * invDet, c32 * invDet, c33 * invDet,
	}, nil
}

// ToQuat extracts the rotation of the upper 3x3 block as a unit quaternion.
// Scale is assumed to be uniform or absent.
func (m Mat4) ToQuat() Quat {
	r00, r11, r22 := m[0], m[5], m[10]
	trace := r00 + r11 + r22

	var q Quat
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		q = Quat{
			W: 0.25 * s,
			X: (m[6] - m[9]) / s,
			Y: (m[8] - m[2]) / s,
			Z: (m[1] - m[4]) / s,
		}
	case r00 > r11 && r00 > r22:
		s := float32(math.Sqrt(float64(1+r00-r11-r22))) * 2
		q = Quat{
			W: (m[6] - m[9]) / s,
			X: 0.25 * s,
			Y: (m[4] + m[1]) / s,
			Z: (m[8] + m[2]) / s,
		}
	case r11 > r22:
		s := float32(math.Sqrt(float64(1+r11-r00-r22))) * 2
		q = Quat{
			W: (m[8] - m[2]) / s,
			X: (m[4] + m[1]) / s,
			Y: 0.25 * s,
			Z: (m[9] + m[6]) / s,
		}
	default:
		s := float32(math.Sqrt(float64(1+r22-r00-r11))) * 2
		q = Quat{
			W: (m[1] - m[4]) / s,
			X: (m[8] + m[2]) / s,
			Y: (m[9] + m[6]) / s,
			Z: 0.25 * s,
		}
	}
	return q.Normalize()
}

// ApproxEqual reports whether every element of m and other differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := range m {
		d := m[i] - other[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math.Pi
}
