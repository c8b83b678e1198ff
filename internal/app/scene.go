package app

import (
	"fmt"
	"io"
	gomath "math"
	"math/rand/v2"
	"os"

	"golang.org/x/image/bmp"

	"github.com/Beginsangod/Painter/internal/engine/items"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/internal/viewport"
	"github.com/Beginsangod/Painter/pkg/math"
)

// demoSeed keeps the demo point cloud identical between runs.
const demoSeed = 7

// Demo fills v with a grid, a point cloud, a lit mesh inside a bounding box,
// a helix, coordinate arrows and a height-field surface.
func Demo(v *viewport.Viewport) error {
	reg := v.Registry()

	grid := items.NewGrid(reg, 5, 0.5, [3]float32{0.6, 0.6, 0.6})
	grid.SetName("grid")
	grid.SetDepth(-1)

	cloud := items.NewScatter(reg, demoCloud(500), nil, 4)
	cloud.SetName("cloud")
	cloud.SetSelectable(true, false)
	cloud.MoveTo(-2.5, 0, 0)

	sun := lighting.NewPointLight(math.Vec3{X: 3, Y: 3, Z: 5})
	pos, indices := octahedron()
	gem := items.NewMesh(reg, pos, nil, [][3]float32{{0.9, 0.5, 0.2}}, indices, sun)
	gem.SetName("gem")
	gem.SetSelectable(true, false)

	bounds := items.NewBox(reg, math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}, items.White)
	bounds.SetName("bounds")
	if err := gem.AddChild(bounds.Item); err != nil {
		return err
	}
	gem.MoveTo(2.5, 0, 0)

	helix := items.NewLinePlot(reg, demoHelix(200), nil, items.LineStrip)
	helix.SetName("helix")
	helix.SetSelectable(true, false)
	helix.MoveTo(0, 2.5, 0)

	axes, err := items.NewArrowPlot(reg,
		[][3]float32{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		[][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][3]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	if err != nil {
		return err
	}
	axes.SetName("axes")
	axes.SetWidth(2)

	terrain, err := items.NewSurfacePlot(reg, demoTerrain(24), 4, [][3]float32{{0.3, 0.6, 0.4}})
	if err != nil {
		return err
	}
	terrain.SetName("terrain")
	terrain.SetSelectable(true, false)
	terrain.SetOpacity(0.6)
	terrain.MoveTo(0, -2.5, -1)

	return v.AddItems(grid.Item, cloud.Item, gem.Item, helix.Item, axes.Item, terrain.Item)
}

func demoTerrain(n int) [][]float32 {
	zmap := make([][]float32, n)
	for i := range zmap {
		zmap[i] = make([]float32, n)
		for j := range zmap[i] {
			x, y := float64(j)/float64(n-1)*2*gomath.Pi, float64(i)/float64(n-1)*2*gomath.Pi
			zmap[i][j] = float32(gomath.Sin(x) * gomath.Cos(y) * 2)
		}
	}
	return zmap
}

func demoCloud(n int) [][3]float32 {
	rng := rand.New(rand.NewPCG(demoSeed, demoSeed))
	pos := make([][3]float32, n)
	for i := range pos {
		pos[i] = [3]float32{
			float32(rng.NormFloat64()) * 0.5,
			float32(rng.NormFloat64()) * 0.5,
			float32(rng.NormFloat64()) * 0.5,
		}
	}
	return pos
}

func demoHelix(n int) [][3]float32 {
	pos := make([][3]float32, n)
	for i := range pos {
		t := float64(i) / float64(n-1) * 4 * gomath.Pi
		pos[i] = [3]float32{float32(gomath.Cos(t)), float32(t / 8), float32(gomath.Sin(t))}
	}
	return pos
}

func octahedron() ([][3]float32, []uint32) {
	pos := [][3]float32{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	indices := []uint32{
		0, 2, 4, 2, 1, 4, 1, 3, 4, 3, 0, 4,
		2, 0, 5, 1, 2, 5, 3, 1, 5, 0, 3, 5,
	}
	return pos, indices
}

// LoadScene restores a snapshot file written by viewport.WriteSnapshot.
func LoadScene(v *viewport.Viewport, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()

	records, err := viewport.ReadSnapshot(f)
	if err != nil {
		return err
	}
	if _, err := v.Restore(records); err != nil {
		return fmt.Errorf("restoring %s: %w", path, err)
	}
	return nil
}

// ReplaceScene loads path into v and then destroys the items v held before.
// A failed load leaves the current scene untouched.
func ReplaceScene(v *viewport.Viewport, path string) error {
	prev := v.Items()
	if err := LoadScene(v, path); err != nil {
		return err
	}
	for _, it := range prev {
		if err := v.DestroyItem(it); err != nil {
			return err
		}
	}
	return nil
}

// SaveScene writes a snapshot of v to path.
func SaveScene(v *viewport.Viewport, path string) error {
	records, err := v.Snapshot()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scene: %w", err)
	}
	if err := viewport.WriteSnapshot(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteScreenshot paints a frame and encodes it as BMP.
func WriteScreenshot(v *viewport.Viewport, w io.Writer) error {
	img, err := v.ReadImage()
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}
