// Package viewer implements the model viewer application: window,
// renderer, scene, and the frame loop.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/torchfall/lumen3d/internal/config"
	"github.com/torchfall/lumen3d/internal/engine/camera"
	"github.com/torchfall/lumen3d/internal/engine/loader"
	"github.com/torchfall/lumen3d/internal/engine/mesh"
	"github.com/torchfall/lumen3d/internal/engine/render"
	"github.com/torchfall/lumen3d/internal/engine/renderer"
	"github.com/torchfall/lumen3d/internal/engine/scene"
	"github.com/torchfall/lumen3d/internal/engine/window"
	"github.com/torchfall/lumen3d/internal/logger"
	"github.com/torchfall/lumen3d/pkg/geom"
)

const (
	dragSensitivity = 0.008
	zoomStep        = 0.5
)

// Viewer is the application instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	camera   *camera.OrbitCamera

	scene  *scene.Scene
	model  *scene.Model
	meshes []*mesh.Mesh

	wireframe bool
	spin      float32 // accumulated yaw, radians
}

// New creates the viewer: window and GL context first, then renderer,
// then the model and scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{cfg: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Lumen3D Viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	if err := v.loadScene(); err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, err
	}

	aspect := float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)
	v.camera = camera.New(aspect)
	v.frameCamera()

	if cfg.Rendering.Wireframe {
		v.setWireframe(true)
	}

	logger.Info("viewer initialized")
	return v, nil
}

func (v *Viewer) loadScene() error {
	if v.cfg.Model.Path != "" {
		model, meshes, err := loader.LoadModel(v.cfg.Model.Path)
		if err != nil {
			return fmt.Errorf("loading model: %w", err)
		}
		v.model = model
		v.meshes = meshes
	} else {
		logger.Info("no model configured, showing built-in cube")
		v.model, v.meshes = builtinCube()
	}

	// Wireframe data is cheap and the W key can ask for it any frame.
	for _, m := range v.meshes {
		m.GenerateWireframe()
		if err := v.renderer.Upload(m); err != nil {
			return fmt.Errorf("uploading mesh %q: %w", m.Name(), err)
		}
	}

	v.scene = scene.New()
	v.scene.Root.AddChild(v.model.Root)
	v.scene.Update()
	v.scene.SyncBounds()
	return nil
}

// frameCamera points the orbit camera at the model's combined bounds.
func (v *Viewer) frameCamera() {
	box := geom.EmptyBox3()
	for _, mn := range v.model.Meshes {
		b := mn.Bounds()
		if b.IsEmpty() {
			continue
		}
		box.ExpandByPoint(b.Min)
		box.ExpandByPoint(b.Max)
	}
	if box.IsEmpty() {
		return
	}
	v.camera.Frame(box.Center(), box.Size().Len()/2)
}

func (v *Viewer) setWireframe(on bool) {
	v.wireframe = on
	style := render.StyleNormal
	if on {
		style = render.StyleWireframe
	}
	for _, mn := range v.model.Meshes {
		mn.SetStyle(style)
	}
	logger.Debug("render style changed", zap.Stringer("style", style))
}

// Run starts the frame loop and blocks until quit.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		ev := v.window.Poll()
		if ev.Quit {
			v.running = false
			break
		}
		if ev.Resized {
			v.renderer.Resize(ev.Width, ev.Height)
			v.camera.Aspect = float32(ev.Width) / float32(ev.Height)
		}
		if ev.DragX != 0 || ev.DragY != 0 {
			v.camera.Rotate(-ev.DragX*dragSensitivity, -ev.DragY*dragSensitivity)
		}
		if ev.Wheel != 0 {
			v.camera.Zoom(-ev.Wheel * zoomStep)
		}
		if ev.ToggleWire {
			v.setWireframe(!v.wireframe)
		}

		v.update(dt)

		if err := v.renderFrame(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		frameCount++
		if time.Since(fpsTimer) >= 5*time.Second {
			logger.Debug("fps", zap.Float64("avg", float64(frameCount)/time.Since(fpsTimer).Seconds()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	logger.Info("frame loop ended")
	return nil
}

func (v *Viewer) update(dt float32) {
	if v.cfg.Rendering.SpinDegPerSec != 0 {
		v.spin += mgl32.DegToRad(float32(v.cfg.Rendering.SpinDegPerSec)) * dt
		v.model.Root.Base().Rotation = mgl32.QuatRotate(v.spin, mgl32.Vec3{0, 1, 0})
	}

	v.scene.Update()
	v.scene.SyncBounds()
}

func (v *Viewer) renderFrame() error {
	v.renderer.Begin()
	v.renderer.SetCamera(v.camera.ViewMatrix(), v.camera.ProjectionMatrix())

	if err := v.scene.Dispatch(); err != nil {
		return err
	}

	v.renderer.End()
	v.window.SwapBuffers()
	return nil
}

// Close shuts down the renderer and window.
func (v *Viewer) Close() {
	logger.Info("shutting down viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
