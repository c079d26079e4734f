// Package viewer runs the interactive loop: it owns the window, the GL
// renderer and the scene, and turns input into scene operations.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/config"
	"github.com/Faultbox/reconview/internal/editor"
	"github.com/Faultbox/reconview/internal/engine/camera"
	"github.com/Faultbox/reconview/internal/engine/input"
	"github.com/Faultbox/reconview/internal/engine/picking"
	"github.com/Faultbox/reconview/internal/engine/renderer"
	"github.com/Faultbox/reconview/internal/engine/window"
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/logger"
	"github.com/Faultbox/reconview/internal/scene"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/pkg/geom"
)

// idleTimeout bounds how long the loop sleeps without events.
const idleTimeout = 500 * time.Millisecond

// Viewer is the main viewer instance.
type Viewer struct {
	config    *config.Config
	running   bool
	dirty     bool
	window    *window.Window
	renderer  *renderer.Renderer
	input     *input.Input
	navigator *camera.Navigator
	scene     *scene.Scene
	log       *zap.Logger

	imageOpacity float32
}

// New opens the window and creates the renderer and the scene.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config:       cfg,
		log:          logger.Named("viewer"),
		imageOpacity: 1,
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:  "reconview",
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := v.window.GetDrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:    w,
		Height:   h,
		MinViews: cfg.Picking.MinViews,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	opts, err := scene.OptionsFromConfig(cfg)
	if err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to map scene options: %w", err)
	}

	v.input = input.New(v.window)
	v.navigator = camera.NewNavigator(camera.CamerasFunc(func() *geometry.Snapshot {
		return v.scene.Geometry()
	}), cfg.Window.FOV)
	v.scene = scene.New(opts, v.renderer, v.navigator, v.window, nil)

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Open loads a scene manifest.
func (v *Viewer) Open(path string) error {
	if err := v.scene.Open(path); err != nil {
		return err
	}
	v.window.SetTitle("reconview - " + filepath.Base(path))
	v.dirty = true
	return nil
}

// Run starts the event loop and returns when the window is closed.
func (v *Viewer) Run() error {
	v.running = true
	v.dirty = true
	v.log.Info("starting event loop")

	for v.running {
		if v.input.Wait(int(idleTimeout / time.Millisecond)) {
			v.running = false
			break
		}
		for _, ev := range v.input.Events() {
			v.handle(ev)
		}
		if v.scene.TransferImages() > 0 {
			v.dirty = true
		}
		if v.dirty {
			v.render()
			v.window.SwapBuffers()
			v.dirty = false
		}
	}
	return nil
}

// Close stops the scene worker and releases the GPU and the window.
func (v *Viewer) Close() error {
	v.log.Info("closing viewer")

	var err error
	if v.scene != nil {
		err = multierr.Append(err, v.scene.Close())
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	return err
}

func (v *Viewer) render() {
	w, h := v.window.GetSize()
	view := renderer.View{
		View:         v.navigator.ViewMatrix(),
		Projection:   v.navigator.ProjectionMatrix(aspect(w, h)),
		Camera:       -1,
		ImageOpacity: v.imageOpacity,
	}
	if cam, ok := v.navigator.CameraView(); ok {
		view.Camera = cam
	}
	v.renderer.Draw(view)
}

func aspect(w, h int) float32 {
	if h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}

func (v *Viewer) handle(ev input.Event) {
	switch ev.Type {
	case input.EventWake, input.EventExpose:
		v.dirty = true

	case input.EventWindowResize:
		w, h := v.window.GetDrawableSize()
		v.renderer.Resize(w, h)
		v.dirty = true

	case input.EventMouseDown, input.EventMouseUp:
		if ev.Button != sdl.BUTTON_LEFT {
			return
		}
		action := picking.ButtonRelease
		if ev.Type == input.EventMouseDown {
			action = picking.ButtonPress
		}
		v.scene.OnCastRay(v.rayAt(ev.MouseX, ev.MouseY), action, ev.Mods, time.Now())

	case input.EventMouseMove:
		if !v.navigator.IsArcball() {
			return
		}
		switch {
		case input.ButtonHeld(ev.Buttons, sdl.BUTTON_LEFT):
			v.navigator.Orbit.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			v.dirty = true
		case input.ButtonHeld(ev.Buttons, sdl.BUTTON_RIGHT), input.ButtonHeld(ev.Buttons, sdl.BUTTON_MIDDLE):
			v.navigator.Orbit.HandlePan(float32(ev.DeltaX), float32(ev.DeltaY))
			v.dirty = true
		}

	case input.EventMouseWheel:
		if v.navigator.IsArcball() {
			v.navigator.Orbit.HandleZoom(ev.Wheel)
			v.dirty = true
		}

	case input.EventKeyDown:
		v.handleKey(ev.Key, ev.Mods)
	}
}

func (v *Viewer) rayAt(x, y int) geom.Ray {
	w, h := v.window.GetSize()
	viewProj := v.navigator.ProjectionMatrix(aspect(w, h)).Mul(v.navigator.ViewMatrix())
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), viewProj.Inverse())
}

func (v *Viewer) handleKey(key sdl.Keycode, mods picking.Mods) {
	ed := v.scene.Editor()
	switch key {
	case sdl.K_DELETE, sdl.K_BACKSPACE:
		ed.Delete()
	case sdl.K_b:
		ed.ToggleSceneBox()
	case sdl.K_r:
		kind := editor.ROIOriented
		if mods.Shift {
			kind = editor.ROIAxisAligned
		}
		ed.FitROI(kind)
	case sdl.K_i:
		ed.InvertRegion()
	case sdl.K_v:
		v.selectPointsByCamera()
	case sdl.K_c:
		if mods.Shift {
			res := ed.CropToVisibility()
			v.log.Info("crop to visibility", zap.Stringer("status", res.Status), zap.Ints("cameras", res.Cameras))
		} else {
			ed.CropToBounds()
		}
	case sdl.K_1:
		v.renderer.Layers.Faces = !v.renderer.Layers.Faces
		v.syncVisibility()
	case sdl.K_2:
		v.renderer.Layers.Points = !v.renderer.Layers.Points
		v.syncVisibility()
	case sdl.K_3:
		v.renderer.Layers.Cameras = !v.renderer.Layers.Cameras
		v.syncVisibility()
	case sdl.K_o:
		v.imageOpacity = 1.5 - v.imageOpacity
		v.dirty = true
	case sdl.K_ESCAPE:
		v.escape()
	}
}

// syncVisibility makes picking ignore the layers that are not drawn.
func (v *Viewer) syncVisibility() {
	l := v.renderer.Layers
	v.scene.SetVisibility(l.Faces, l.Points, l.Cameras)
	v.dirty = true
}

// selectPointsByCamera marks the points of the picked camera, or of the
// camera looked through.
func (v *Viewer) selectPointsByCamera() {
	cam := -1
	if p := v.scene.Selection().Pick; p.Kind == selection.KindCamera {
		cam = p.Index
	} else if c, ok := v.navigator.CameraView(); ok {
		cam = c
	}
	if cam >= 0 {
		v.scene.Editor().SelectPointsByCamera(cam)
	}
}

// escape leaves camera view, else clears the selection, else quits.
func (v *Viewer) escape() {
	if _, ok := v.navigator.CameraView(); ok {
		if err := v.scene.OnSetCameraViewMode(-1); err != nil {
			v.log.Warn("leaving camera view", zap.Error(err))
		}
		return
	}
	sel := v.scene.Selection()
	if sel.Pick.IsSet() || !sel.Region.IsEmpty() {
		sel.ClearPick()
		v.scene.Editor().ClearRegion()
		return
	}
	v.running = false
}
