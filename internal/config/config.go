// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/Beginsangod/Painter/internal/engine/camera"
	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Camera   CameraConfig   `yaml:"camera"`
	Input    InputConfig    `yaml:"input"`
	Logging  LoggingConfig  `yaml:"logging"`
	Scene    SceneConfig    `yaml:"scene"`
}

// ViewportConfig holds window and rendering settings.
type ViewportConfig struct {
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	Fullscreen  bool       `yaml:"fullscreen"`
	VSync       bool       `yaml:"vsync"`
	Background  [4]float32 `yaml:"background"`
	Samples     int        `yaml:"samples"`      // MSAA samples, 0 disables
	PickRatio   int        `yaml:"pick_ratio"`   // pick target downscale
	StencilBits int        `yaml:"stencil_bits"` // selection outline
}

// CameraConfig holds the initial camera.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Roll        float32    `yaml:"roll"`
	FOV         float32    `yaml:"fov"`
	MinDistance float32    `yaml:"min_distance"`
}

// InputConfig holds mouse sensitivities.
type InputConfig struct {
	OrbitSpeed float32 `yaml:"orbit_speed"`
	PanSpeed   float32 `yaml:"pan_speed"`
	ZoomSpeed  float32 `yaml:"zoom_speed"`
	// AddModifier is the key that makes a rubber band add to the selection:
	// ctrl, shift or alt.
	AddModifier string `yaml:"add_modifier"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SceneConfig points at a snapshot loaded at start-up.
type SceneConfig struct {
	Path string `yaml:"path"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:       1280,
			Height:      720,
			Fullscreen:  false,
			VSync:       true,
			Background:  [4]float32{0.2, 0.3, 0.3, 1},
			Samples:     4,
			PickRatio:   2,
			StencilBits: 8,
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 0, 10},
			FOV:         45,
			MinDistance: 0.1,
		},
		Input: InputConfig{
			OrbitSpeed:  1,
			PanSpeed:    1,
			ZoomSpeed:   1,
			AddModifier: "ctrl",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ParseModifier maps a modifier key name to its input bit.
func ParseModifier(name string) (input.Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ctrl", "control":
		return input.ModCtrl, nil
	case "shift":
		return input.ModShift, nil
	case "alt":
		return input.ModAlt, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// Validate rejects settings the viewer cannot start with.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport size %dx%d must be positive", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov %v out of range (0, 180)", c.Camera.FOV)
	}
	if c.Viewport.Samples < 0 {
		return fmt.Errorf("negative sample count %d", c.Viewport.Samples)
	}
	if _, err := ParseModifier(c.Input.AddModifier); err != nil {
		return err
	}
	return nil
}

// CameraParams returns the initial camera.
func (c *Config) CameraParams() camera.Params {
	p := c.Camera.Position
	return camera.Params{
		Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
		Pitch:    c.Camera.Pitch,
		Yaw:      c.Camera.Yaw,
		Roll:     c.Camera.Roll,
		FOV:      c.Camera.FOV,
	}
}
