package app

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Beginsangod/Painter/internal/config"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/internal/engine/items"
	"github.com/Beginsangod/Painter/internal/viewport"
	"github.com/Beginsangod/Painter/pkg/math"
)

func newViewport(t *testing.T) *viewport.Viewport {
	t.Helper()
	opts := viewport.DefaultOptions()
	opts.Width, opts.Height = 160, 120
	v := viewport.New(softgpu.New(160, 120), opts)
	t.Cleanup(v.Close)
	return v
}

func TestOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Input.AddModifier = "shift"
	cfg.Input.ZoomSpeed = 2
	cfg.Camera.Position = [3]float32{0, 1, 20}

	opts, err := Options(cfg, 640, 480, 2)
	require.NoError(t, err)
	assert.Equal(t, 640, opts.Width)
	assert.Equal(t, 480, opts.Height)
	assert.Equal(t, float32(2), opts.PixelRatio)
	assert.Equal(t, input.ModShift, opts.AddModifier)
	assert.Equal(t, float32(2), opts.ZoomSpeed)
	assert.Equal(t, math.Vec3{Y: 1, Z: 20}, opts.Camera.Position)
	assert.Equal(t, cfg.Viewport.Background, opts.Background)
	assert.Equal(t, viewport.DefaultOptions().PresetView, opts.PresetView)

	cfg.Input.AddModifier = "super"
	_, err = Options(cfg, 640, 480, 1)
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	v := newViewport(t)
	require.NoError(t, Demo(v))

	roots := v.Items()
	require.Len(t, roots, 6)
	assert.Equal(t, "grid", roots[0].Name(), "grid sorts first")
	assert.Equal(t, 1, v.Lights().Len())
	assert.Equal(t, 7, v.Registry().Len())

	require.NoError(t, v.Paint())
	dev := v.Device().(*softgpu.Device)
	assert.Empty(t, dev.Errors())
	assert.NotEmpty(t, dev.Draws)
}

func TestDemoCloudIsStable(t *testing.T) {
	assert.Equal(t, demoCloud(10), demoCloud(10))
	assert.Len(t, demoHelix(20), 20)

	terrain := demoTerrain(8)
	require.Len(t, terrain, 8)
	for _, row := range terrain {
		assert.Len(t, row, 8)
	}
}

func TestOctahedronIndices(t *testing.T) {
	pos, indices := octahedron()
	require.Len(t, indices, 24)
	for _, i := range indices {
		assert.Less(t, int(i), len(pos))
	}
	for _, n := range items.ComputeNormals(pos, indices) {
		assert.InDelta(t, 1, math.Vec3FromArray(n).Length(), 1e-5)
	}
}

func TestLoadScene(t *testing.T) {
	src := newViewport(t)
	require.NoError(t, Demo(src))
	records, err := src.Snapshot()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, viewport.WriteSnapshot(f, records))
	require.NoError(t, f.Close())

	dst := newViewport(t)
	require.NoError(t, LoadScene(dst, path))
	require.Len(t, dst.Items(), 6)
	for i, it := range dst.Items() {
		assert.Equal(t, src.Items()[i].ID(), it.ID())
		assert.Equal(t, src.Items()[i].Name(), it.Name())
	}
	assert.Len(t, dst.Items()[2].Children(), 1, "the gem keeps its bounding box")
}

func TestLoadSceneErrors(t *testing.T) {
	v := newViewport(t)
	assert.Error(t, LoadScene(v, filepath.Join(t.TempDir(), "missing.json")))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"kind":"teapot"}]`), 0o644))
	assert.ErrorIs(t, LoadScene(v, path), items.ErrUnknownKind)
	assert.Empty(t, v.Items())
}

func TestReplaceScene(t *testing.T) {
	src := newViewport(t)
	require.NoError(t, Demo(src))
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, SaveScene(src, path))

	fresh := newViewport(t)
	require.NoError(t, LoadScene(fresh, path))

	v := newViewport(t)
	require.NoError(t, Demo(v))
	prev := v.Items()

	require.NoError(t, ReplaceScene(v, path))
	require.Len(t, v.Items(), len(prev))
	for i, it := range v.Items() {
		assert.NotSame(t, prev[i], it)
		assert.True(t, prev[i].Destroyed())
	}
	assert.Equal(t, fresh.Lights().Len(), v.Lights().Len(), "lights of the old scene are dropped")
}

func TestReplaceSceneKeepsSceneOnFailure(t *testing.T) {
	v := newViewport(t)
	require.NoError(t, Demo(v))
	prev := v.Items()
	lights := v.Lights().Len()

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"kind":"teapot"}]`), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.json")},
		{"unknown kind", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, ReplaceScene(v, tt.path))
			assert.Equal(t, prev, v.Items())
			assert.Equal(t, lights, v.Lights().Len())
			for _, it := range prev {
				assert.False(t, it.Destroyed())
			}
		})
	}
}

func TestSaveScene(t *testing.T) {
	src := newViewport(t)
	require.NoError(t, Demo(src))
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, SaveScene(src, path))

	dst := newViewport(t)
	require.NoError(t, LoadScene(dst, path))
	assert.Len(t, dst.Items(), len(src.Items()))

	assert.Error(t, SaveScene(src, filepath.Join(t.TempDir(), "missing", "scene.json")))
}

func TestWriteScreenshot(t *testing.T) {
	v := newViewport(t)
	v.SetBackgroundColor([4]float32{0, 0, 1, 1})

	var buf bytes.Buffer
	require.NoError(t, WriteScreenshot(v, &buf))

	img, err := bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
	r, g, b, _ := img.At(10, 10).RGBA()
	assert.Equal(t, color.RGBA{B: 255, A: 255}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}
