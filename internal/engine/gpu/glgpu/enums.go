package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

func bufferTarget(t gpu.BufferTarget) uint32 {
	switch t {
	case gpu.ElementArrayBuffer:
		return gl.ELEMENT_ARRAY_BUFFER
	case gpu.CopyReadBuffer:
		return gl.COPY_READ_BUFFER
	case gpu.CopyWriteBuffer:
		return gl.COPY_WRITE_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferUsage(u gpu.Usage) uint32 {
	if u == gpu.DynamicDraw {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

func dataType(t gpu.DataType) uint32 {
	switch t {
	case gpu.Int32:
		return gl.INT
	case gpu.Uint32:
		return gl.UNSIGNED_INT
	case gpu.Uint16:
		return gl.UNSIGNED_SHORT
	case gpu.Uint8:
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

func primitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.Points:
		return gl.POINTS
	case gpu.Lines:
		return gl.LINES
	case gpu.LineStrip:
		return gl.LINE_STRIP
	case gpu.LineLoop:
		return gl.LINE_LOOP
	case gpu.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case gpu.TriangleFan:
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

func capability(c gpu.Capability) uint32 {
	switch c {
	case gpu.Blend:
		return gl.BLEND
	case gpu.CullFace:
		return gl.CULL_FACE
	case gpu.StencilTest:
		return gl.STENCIL_TEST
	case gpu.ScissorTest:
		return gl.SCISSOR_TEST
	case gpu.Multisample:
		return gl.MULTISAMPLE
	case gpu.LineSmooth:
		return gl.LINE_SMOOTH
	case gpu.ProgramPointSize:
		return gl.PROGRAM_POINT_SIZE
	case gpu.PolygonOffsetFill:
		return gl.POLYGON_OFFSET_FILL
	}
	return gl.DEPTH_TEST
}

func blendFactor(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.Zero:
		return gl.ZERO
	case gpu.SrcAlpha:
		return gl.SRC_ALPHA
	case gpu.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ONE
}

func cullFace(f gpu.Face) uint32 {
	switch f {
	case gpu.Front:
		return gl.FRONT
	case gpu.FrontAndBack:
		return gl.FRONT_AND_BACK
	}
	return gl.BACK
}

func compareFunc(f gpu.CompareFunc) uint32 {
	switch f {
	case gpu.Never:
		return gl.NEVER
	case gpu.Less:
		return gl.LESS
	case gpu.LessEqual:
		return gl.LEQUAL
	case gpu.Equal:
		return gl.EQUAL
	case gpu.NotEqual:
		return gl.NOTEQUAL
	}
	return gl.ALWAYS
}

func stencilOp(op gpu.StencilOp) uint32 {
	switch op {
	case gpu.Replace:
		return gl.REPLACE
	case gpu.ZeroOp:
		return gl.ZERO
	}
	return gl.KEEP
}
