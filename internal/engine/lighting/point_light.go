// Package lighting provides the point and directional lights used by lit items.
package lighting

import (
	"fmt"
	"math"

	pmath "github.com/Beginsangod/Painter/pkg/math"
)

// MaxPointLights is the size of the pointLight uniform array in shaders.
const MaxPointLights = 10

// PointLight is a Phong light source. When Directional is set, Position is
// the direction towards the light and attenuation is ignored.
type PointLight struct {
	Position    pmath.Vec3
	Ambient     [3]float32
	Diffuse     [3]float32
	Specular    [3]float32
	Constant    float32
	Linear      float32
	Quadratic   float32
	Directional bool
	Visible     bool
}

// NewPointLight returns a white light at pos with default attenuation.
func NewPointLight(pos pmath.Vec3) *PointLight {
	return &PointLight{
		Position:  pos,
		Ambient:   [3]float32{0.2, 0.2, 0.2},
		Diffuse:   [3]float32{0.8, 0.8, 0.8},
		Specular:  [3]float32{1, 1, 1},
		Constant:  1,
		Linear:    0.01,
		Quadratic: 0.001,
		Visible:   true,
	}
}

// NewDirectionalLight returns a light shining from the given angles.
// azimuth rotates around Z (0-360), elevation is measured from the XY plane (0-90).
func NewDirectionalLight(azimuth, elevation float32) *PointLight {
	l := NewPointLight(Direction(azimuth, elevation))
	l.Directional = true
	return l
}

// Direction converts azimuth/elevation angles in degrees to a unit vector
// pointing towards the light.
func Direction(azimuth, elevation float32) pmath.Vec3 {
	az := float64(azimuth) * math.Pi / 180.0
	el := float64(elevation) * math.Pi / 180.0

	return pmath.Vec3{
		X: float32(math.Cos(el) * math.Cos(az)),
		Y: float32(math.Cos(el) * math.Sin(az)),
		Z: float32(math.Sin(el)),
	}
}

// Translate moves the light.
func (l *PointLight) Translate(dx, dy, dz float32) {
	l.Position = l.Position.Add(pmath.Vec3{X: dx, Y: dy, Z: dz})
}

// Rotate rotates the light position by angleDeg degrees around (x, y, z).
func (l *PointLight) Rotate(angleDeg, x, y, z float32) {
	l.Position = pmath.AxisAngle(angleDeg, x, y, z).TransformVec3(l.Position)
}

// UniformSetter receives uniform values; *shader.Program implements it.
type UniformSetter interface {
	SetUniform(name string, value any) error
}

// Upload sets the light's fields on the struct uniform called name.
func (l *PointLight) Upload(s UniformSetter, name string) error {
	values := []struct {
		field string
		value any
	}{
		{"position", l.Position},
		{"ambient", l.Ambient},
		{"diffuse", l.Diffuse},
		{"specular", l.Specular},
		{"constant", l.Constant},
		{"linear", l.Linear},
		{"quadratic", l.Quadratic},
		{"directional", l.Directional},
	}
	for _, v := range values {
		if err := s.SetUniform(name+"."+v.field, v.value); err != nil {
			return fmt.Errorf("light %s: %w", name, err)
		}
	}
	return nil
}
