package app

import (
	"github.com/Beginsangod/Painter/internal/config"
	"github.com/Beginsangod/Painter/internal/viewport"
)

// Options maps the configuration onto viewport options for a window of
// width x height logical pixels.
func Options(cfg *config.Config, width, height int, ratio float32) (viewport.Options, error) {
	mod, err := config.ParseModifier(cfg.Input.AddModifier)
	if err != nil {
		return viewport.Options{}, err
	}

	opts := viewport.DefaultOptions()
	opts.Width, opts.Height = width, height
	opts.PixelRatio = ratio
	opts.Background = cfg.Viewport.Background
	opts.PickRatio = cfg.Viewport.PickRatio
	opts.Camera = cfg.CameraParams()
	opts.OrbitSpeed = cfg.Input.OrbitSpeed
	opts.PanSpeed = cfg.Input.PanSpeed
	opts.ZoomSpeed = cfg.Input.ZoomSpeed
	opts.AddModifier = mod
	return opts, nil
}
