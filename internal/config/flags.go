package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWidth     = flag.Int("width", 0, "Window width")
	flagHeight    = flag.Int("height", 0, "Window height")
	flagFOV       = flag.Float64("fov", 0, "Vertical field of view in degrees")
	flagSamples   = flag.Int("samples", -1, "MSAA samples, 0 disables")
	flagPickRatio = flag.Int("pick-ratio", 0, "Pick target downscale ratio")
	flagScene     = flag.String("scene", "", "Scene snapshot to load")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Viewport.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewport.Height = *flagHeight
	}
	if *flagFOV > 0 {
		cfg.Camera.FOV = float32(*flagFOV)
	}
	if *flagSamples >= 0 {
		cfg.Viewport.Samples = *flagSamples
	}
	if *flagPickRatio > 0 {
		cfg.Viewport.PickRatio = *flagPickRatio
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
}
