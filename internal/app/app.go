// Package app runs the viewer: it opens the window, hosts a viewport on the
// OpenGL device and pumps SDL events into it.
package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/config"
	"github.com/Beginsangod/Painter/internal/engine/gpu/glgpu"
	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/internal/engine/input/sdlinput"
	"github.com/Beginsangod/Painter/internal/engine/window"
	"github.com/Beginsangod/Painter/internal/logger"
	"github.com/Beginsangod/Painter/internal/viewport"
)

const (
	keyEscape     = '\x1b'
	keyOpen       = 'o'
	keySave       = 's'
	keyScreenshot = 'p'
)

// fileRequest is a path picked in a native dialog, applied on the render
// thread.
type fileRequest struct {
	path string
	save bool
}

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool
	window  *window.Window
	view    *viewport.Viewport
	input   *input.Input
	files   chan fileRequest
	log     *zap.Logger
}

// New opens the window and builds the start-up scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		input: input.New(),
		files: make(chan fileRequest, 1),
		log:   logger.Named("app"),
	}
	a.log.Info("initializing viewer",
		zap.Int("width", cfg.Viewport.Width),
		zap.Int("height", cfg.Viewport.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:       "Painter",
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		Fullscreen:  cfg.Viewport.Fullscreen,
		VSync:       cfg.Viewport.VSync,
		Samples:     cfg.Viewport.Samples,
		StencilBits: cfg.Viewport.StencilBits,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device needs the context created above
	dev, err := glgpu.New()
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create GL device: %w", err)
	}

	w, h := a.window.GetSize()
	opts, err := Options(cfg, w, h, a.window.PixelRatio())
	if err != nil {
		a.window.Close()
		return nil, err
	}
	a.view = viewport.New(dev, opts)
	a.view.Camera().MinDistance = cfg.Camera.MinDistance

	if cfg.Scene.Path != "" {
		err = LoadScene(a.view, cfg.Scene.Path)
	} else {
		err = Demo(a.view)
	}
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building scene: %w", err)
	}

	a.log.Info("viewer initialized", zap.Int("items", len(a.view.Items())))
	return a, nil
}

// Run pumps events and paints until the window closes or escape is pressed.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting render loop")

	for a.running {
		if sdlinput.Poll(a.input) {
			a.running = false
			break
		}

		for _, e := range a.input.Events() {
			switch {
			case e.Type == input.EventKeyDown && e.Key == keyEscape:
				a.running = false
			case e.Type == input.EventKeyDown && e.Mods.Has(input.ModCtrl) && e.Key == keyOpen:
				a.chooseFile(false)
			case e.Type == input.EventKeyDown && e.Mods.Has(input.ModCtrl) && e.Key == keySave:
				a.chooseFile(true)
			case e.Type == input.EventKeyDown && e.Key == keyScreenshot:
				a.screenshot()
			case e.Type == input.EventWindowResize:
				a.view.Resize(e.Width, e.Height, a.window.PixelRatio())
			default:
				a.view.HandleEvent(e)
			}
		}
		if !a.running {
			break
		}

		select {
		case req := <-a.files:
			a.applyFile(req)
		default:
		}

		if !a.view.NeedsPaint() {
			time.Sleep(time.Millisecond)
			continue
		}
		if err := a.view.Paint(); err != nil {
			return fmt.Errorf("paint: %w", err)
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close releases the scene while the context is still current, then the
// window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.view != nil && a.window.IsCurrent() {
		a.view.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// chooseFile shows a native dialog off the render thread; the result is
// applied by the loop.
func (a *App) chooseFile(save bool) {
	go func() {
		b := dialog.File().
			Filter("Scene snapshots", "json").
			Filter("All Files", "*")
		var (
			path string
			err  error
		)
		if save {
			path, err = b.Title("Save scene").Save()
		} else {
			path, err = b.Title("Open scene").Load()
		}
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case a.files <- fileRequest{path: path, save: save}:
		default:
			a.log.Warn("dropping file request, one is pending", zap.String("path", path))
		}
	}()
}

func (a *App) applyFile(req fileRequest) {
	if req.save {
		if err := SaveScene(a.view, req.path); err != nil {
			a.log.Error("saving scene failed", zap.String("path", req.path), zap.Error(err))
			return
		}
		a.log.Info("scene saved", zap.String("path", req.path))
		return
	}

	if err := ReplaceScene(a.view, req.path); err != nil {
		a.log.Error("loading scene failed", zap.String("path", req.path), zap.Error(err))
		return
	}
	a.log.Info("scene loaded", zap.String("path", req.path), zap.Int("items", len(a.view.Items())))
}

// screenshot writes the current frame next to the working directory.
func (a *App) screenshot() {
	path := fmt.Sprintf("painter_%s.bmp", time.Now().Format("2006-01-02_15-04-05"))
	f, err := os.Create(path)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	defer f.Close()
	if err := WriteScreenshot(a.view, f); err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}
