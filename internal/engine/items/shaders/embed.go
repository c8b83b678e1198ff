// Package shaders provides embedded GLSL shader sources for the scene items.
package shaders

import _ "embed"

// PointsVertexShader sizes points by distance to the camera.
//
//go:embed points.vert
var PointsVertexShader string

// ColorVertexShader passes a per-vertex colour through.
//
//go:embed color.vert
var ColorVertexShader string

// ColorFragmentShader writes the interpolated colour with an alpha uniform.
//
//go:embed color.frag
var ColorFragmentShader string

// ArrowTipVertexShader places one cone per instance with a per-instance
// transform in locations 3 to 6.
//
//go:embed arrow_tip.vert
var ArrowTipVertexShader string

// MeshVertexShader transforms positions and normals to world space.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader applies Phong lighting from up to ten lights.
//
//go:embed mesh.frag
var MeshFragmentShader string

// OutlineFragmentShader fills with the selection colour.
//
//go:embed outline.frag
var OutlineFragmentShader string

// PickFragmentShader writes the item's pick colour to the red channel.
//
//go:embed pick.frag
var PickFragmentShader string

// SelectBoxVertexShader places 2D pixel coordinates with an ortho matrix.
//
//go:embed selectbox.vert
var SelectBoxVertexShader string

// SelectBoxFragmentShader draws the translucent surface or the border.
//
//go:embed selectbox.frag
var SelectBoxFragmentShader string
