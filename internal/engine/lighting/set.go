package lighting

import "fmt"

// Set is an ordered collection of distinct lights.
type Set struct {
	lights []*PointLight
}

// NewSet creates an empty light set.
func NewSet() *Set {
	return &Set{lights: make([]*PointLight, 0, MaxPointLights)}
}

// Add appends lights not already present.
func (s *Set) Add(lights ...*PointLight) {
	for _, l := range lights {
		if l != nil && !s.Contains(l) {
			s.lights = append(s.lights, l)
		}
	}
}

// Remove drops a light. It reports whether the light was present.
func (s *Set) Remove(l *PointLight) bool {
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether l is in the set.
func (s *Set) Contains(l *PointLight) bool {
	for _, existing := range s.lights {
		if existing == l {
			return true
		}
	}
	return false
}

// Lights returns the lights in insertion order.
func (s *Set) Lights() []*PointLight {
	return s.lights
}

// Len returns the number of lights.
func (s *Set) Len() int {
	return len(s.lights)
}

// Clear removes all lights.
func (s *Set) Clear() {
	s.lights = s.lights[:0]
}

// Upload writes pointLight[i] for each light and nr_point_lights.
// Lights beyond MaxPointLights are ignored.
func (s *Set) Upload(u UniformSetter) error {
	count := min(len(s.lights), MaxPointLights)
	for i, l := range s.lights[:count] {
		if err := l.Upload(u, fmt.Sprintf("pointLight[%d]", i)); err != nil {
			return err
		}
	}
	return u.SetUniform("nr_point_lights", count)
}
