package picking

import (
	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/logger"
)

// MaxRatio is the largest pick downscale ratio.
const MaxRatio = 5

// ClampRatio bounds a downscale ratio to [1, MaxRatio], warning when the
// requested value is too large.
func ClampRatio(ratio int) int {
	if ratio > MaxRatio {
		logger.Named("picking").Warn("pick ratio clamped",
			zap.Int("requested", ratio),
			zap.Int("max", MaxRatio),
		)
		return MaxRatio
	}
	return max(ratio, 1)
}

// NormalizeRect maps a drag rectangle in device pixels (top-left origin,
// width and height may be negative) to the downscaled pick target.
//
// The rectangle is flipped to positive extents and clamped to the
// viewport, then divided by ratio. Extents of at most 6/ratio pixels are
// widened to max(1, 3/ratio) with the origin stepped back one pixel, so a
// plain click still reads a few pixels. The result never extends past the
// scaled viewport. ok is false when the rectangle lies
// outside the viewport.
func NormalizeRect(r gpu.Rect, viewW, viewH int32, ratio int) (out gpu.Rect, ok bool) {
	ratio = ClampRatio(ratio)

	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	if r.X >= viewW || r.Y >= viewH || r.X+r.W < 0 || r.Y+r.H < 0 {
		return gpu.Rect{}, false
	}

	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, viewW), min(r.Y+r.H, viewH)

	k := int32(ratio)
	out = gpu.Rect{X: x0 / k, Y: y0 / k, W: (x1 - x0) / k, H: (y1 - y0) / k}

	if out.W <= 6/k {
		out.X = max(0, out.X-1)
		out.W = max(1, 3/k)
	}
	if out.H <= 6/k {
		out.Y = max(0, out.Y-1)
		out.H = max(1, 3/k)
	}

	sw, sh := max(viewW/k, 1), max(viewH/k, 1)
	out.X, out.Y = min(out.X, sw-1), min(out.Y, sh-1)
	out.W, out.H = min(out.W, sw-out.X), min(out.H, sh-out.Y)
	return out, true
}
