package picking

import (
	"testing"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

func TestNormalizeRect(t *testing.T) {
	tests := []struct {
		name  string
		in    gpu.Rect
		ratio int
		want  gpu.Rect
		ok    bool
	}{
		{"inside", gpu.Rect{X: 20, Y: 40, W: 40, H: 40}, 2, gpu.Rect{X: 10, Y: 20, W: 20, H: 20}, true},
		{"negative extents", gpu.Rect{X: 60, Y: 80, W: -40, H: -40}, 2, gpu.Rect{X: 10, Y: 20, W: 20, H: 20}, true},
		{"clamped to viewport", gpu.Rect{X: 180, Y: 90, W: 100, H: 100}, 2, gpu.Rect{X: 90, Y: 45, W: 10, H: 5}, true},
		{"click", gpu.Rect{X: 50, Y: 50}, 2, gpu.Rect{X: 24, Y: 24, W: 1, H: 1}, true},
		{"click at origin", gpu.Rect{}, 2, gpu.Rect{W: 1, H: 1}, true},
		{"click ratio one", gpu.Rect{X: 50, Y: 50}, 1, gpu.Rect{X: 49, Y: 49, W: 3, H: 3}, true},
		{"click last pixel ratio one", gpu.Rect{X: 199, Y: 99}, 1, gpu.Rect{X: 198, Y: 98, W: 2, H: 2}, true},
		{"click last pixel ratio two", gpu.Rect{X: 199, Y: 99}, 2, gpu.Rect{X: 98, Y: 48, W: 1, H: 1}, true},
		{"click ratio five", gpu.Rect{X: 50, Y: 50}, 5, gpu.Rect{X: 9, Y: 9, W: 1, H: 1}, true},
		{"ratio clamped", gpu.Rect{X: 100, Y: 50, W: 100, H: 50}, 9, gpu.Rect{X: 20, Y: 10, W: 20, H: 10}, true},
		{"ratio floored", gpu.Rect{X: 10, Y: 10, W: 20, H: 20}, 0, gpu.Rect{X: 10, Y: 10, W: 20, H: 20}, true},
		{"crosses origin", gpu.Rect{X: 10, Y: 10, W: -20, H: -20}, 2, gpu.Rect{W: 5, H: 5}, true},
		{"right of viewport", gpu.Rect{X: 250, Y: 10, W: 10, H: 10}, 2, gpu.Rect{}, false},
		{"above viewport", gpu.Rect{X: -50, Y: -50, W: 10, H: 10}, 2, gpu.Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeRect(tt.in, 200, 100, tt.ratio)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("NormalizeRect(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 5: 5, 6: 5, 100: 5} {
		if got := ClampRatio(in); got != want {
			t.Errorf("ClampRatio(%d) = %d, want %d", in, got, want)
		}
	}
}
