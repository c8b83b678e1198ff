package scene

import (
	"errors"
	"fmt"
	"maps"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

// ErrUnknownPreset is returned for an unrecognized GL options preset name.
var ErrUnknownPreset = errors.New("unknown GL options preset")

// Preset names.
const (
	Opaque          = "opaque"
	Translucent     = "translucent"
	TranslucentCull = "translucent_cull"
	Additive        = "additive"
	OnTop           = "ontop"
)

// BlendFunc is a source/destination blend factor pair.
type BlendFunc struct {
	Src, Dst gpu.BlendFactor
}

// GLOptions is the pipeline state an item applies before drawing. Caps
// enables (true) or disables (false) capabilities; nil fields are left alone.
type GLOptions struct {
	Caps      map[gpu.Capability]bool
	DepthMask *bool
	Blend     *BlendFunc
	CullFace  *gpu.Face
}

func ptr[T any](v T) *T { return &v }

// Preset returns a copy of a named option set.
func Preset(name string) (GLOptions, error) {
	alphaBlend := BlendFunc{gpu.SrcAlpha, gpu.OneMinusSrcAlpha}
	addBlend := BlendFunc{gpu.SrcAlpha, gpu.One}

	switch name {
	case Opaque:
		return GLOptions{
			Caps:      map[gpu.Capability]bool{gpu.DepthTest: true, gpu.Blend: false, gpu.CullFace: false},
			DepthMask: ptr(true),
		}, nil
	case Translucent:
		return GLOptions{
			Caps:      map[gpu.Capability]bool{gpu.DepthTest: true, gpu.Blend: true, gpu.CullFace: false},
			DepthMask: ptr(true),
			Blend:     &alphaBlend,
		}, nil
	case TranslucentCull:
		return GLOptions{
			Caps:      map[gpu.Capability]bool{gpu.DepthTest: true, gpu.Blend: true, gpu.CullFace: true},
			DepthMask: ptr(true),
			Blend:     &alphaBlend,
			CullFace:  ptr(gpu.Back),
		}, nil
	case Additive:
		return GLOptions{
			Caps:      map[gpu.Capability]bool{gpu.DepthTest: false, gpu.Blend: true, gpu.CullFace: false},
			DepthMask: ptr(true),
			Blend:     &addBlend,
		}, nil
	case OnTop:
		return GLOptions{
			Caps:      map[gpu.Capability]bool{gpu.DepthTest: false, gpu.Blend: true, gpu.CullFace: false},
			DepthMask: ptr(false),
			Blend:     &addBlend,
		}, nil
	}
	return GLOptions{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// MustPreset is Preset for the built-in names.
func MustPreset(name string) GLOptions {
	o, err := Preset(name)
	if err != nil {
		panic(err)
	}
	return o
}

// Clone returns a deep copy.
func (o GLOptions) Clone() GLOptions {
	c := GLOptions{Caps: maps.Clone(o.Caps)}
	if o.DepthMask != nil {
		c.DepthMask = ptr(*o.DepthMask)
	}
	if o.Blend != nil {
		c.Blend = ptr(*o.Blend)
	}
	if o.CullFace != nil {
		c.CullFace = ptr(*o.CullFace)
	}
	return c
}

// Merge overrides o with every field other sets.
func (o *GLOptions) Merge(other GLOptions) {
	if len(other.Caps) > 0 && o.Caps == nil {
		o.Caps = make(map[gpu.Capability]bool, len(other.Caps))
	}
	maps.Copy(o.Caps, other.Caps)
	if other.DepthMask != nil {
		o.DepthMask = ptr(*other.DepthMask)
	}
	if other.Blend != nil {
		o.Blend = ptr(*other.Blend)
	}
	if other.CullFace != nil {
		o.CullFace = ptr(*other.CullFace)
	}
}

// Setup applies the options to dev. Capabilities are applied in a fixed
// order so the resulting call sequence is deterministic.
func (o GLOptions) Setup(dev gpu.Device) {
	for _, c := range gpu.Capabilities {
		on, ok := o.Caps[c]
		if !ok {
			continue
		}
		if on {
			dev.Enable(c)
		} else {
			dev.Disable(c)
		}
	}
	if o.DepthMask != nil {
		dev.DepthMask(*o.DepthMask)
	}
	if o.Blend != nil {
		dev.BlendFunc(o.Blend.Src, o.Blend.Dst)
	}
	if o.CullFace != nil {
		dev.CullFace(*o.CullFace)
	}
}
