package buffer

import "unsafe"

// Float32s views a float32 slice as bytes without copying.
func Float32s(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// Vec3s views a slice of 3-vectors as bytes without copying.
func Vec3s(v [][3]float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*12)
}

// Vec4s views a slice of 4-vectors as bytes without copying.
func Vec4s(v [][4]float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*16)
}

// Mat4s views a slice of column-major matrices as bytes without copying.
func Mat4s(v [][16]float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*64)
}

// Uint32s views a uint32 slice as bytes without copying.
func Uint32s(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// ToFloat32s reinterprets bytes as float32 values (copying).
func ToFloat32s(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	if len(out) > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*4), b)
	}
	return out
}
