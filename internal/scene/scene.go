// Package scene ties the viewer together. It owns the geometry, the
// selection, the spatial indices, the per-camera image slots and the
// background job pipeline, and routes input to them.
//
// Methods prefixed with On, plus Open, TransferImages and the editor, run
// on the interactive goroutine. LoadImage and RebuildIndex run on the
// worker goroutine.
package scene

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/editor"
	"github.com/Faultbox/reconview/internal/engine/picking"
	"github.com/Faultbox/reconview/internal/frontend"
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/imagedec"
	"github.com/Faultbox/reconview/internal/imageslot"
	"github.com/Faultbox/reconview/internal/imagewatch"
	"github.com/Faultbox/reconview/internal/jobs"
	"github.com/Faultbox/reconview/internal/logger"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/internal/spatial"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// ErrNotOpen is returned by operations that need an open scene.
var ErrNotOpen = errors.New("scene: no scene open")

// Decoder decodes camera images.
type Decoder interface {
	Decode(path string, maxResolution int) (*image.RGBA, error)
}

// images is the per-camera image state of one opened scene.
type images struct {
	slots []imageslot.Slot
	paths []string
}

// Scene is the root of the viewer.
type Scene struct {
	opts      Options
	renderer  frontend.Renderer
	navigator frontend.Navigator
	waker     frontend.Waker
	decoder   Decoder
	log       *zap.Logger

	store    *geometry.Store
	sel      *selection.State
	indices  *spatial.IndexSet
	pipeline *jobs.Pipeline
	editor   *editor.Editor
	clicks   *picking.ClickTracker

	images   atomic.Pointer[images]
	textures map[int]bool
	watcher  *imagewatch.Watcher
	path     string
}

// New creates a scene and starts its worker. decoder may be nil for the
// default image decoder.
func New(opts Options, renderer frontend.Renderer, navigator frontend.Navigator, waker frontend.Waker, decoder Decoder) *Scene {
	if decoder == nil {
		decoder = imagedec.New()
	}
	s := &Scene{
		opts:      opts,
		renderer:  renderer,
		navigator: navigator,
		waker:     waker,
		decoder:   decoder,
		log:       logger.Named("scene"),
		store:     geometry.NewStore(),
		sel:       selection.New(),
		indices:   &spatial.IndexSet{},
		clicks:    &picking.ClickTracker{Click: opts.ClickTimeout, DoubleClick: opts.DoubleClickTimeout},
		textures:  make(map[int]bool),
	}
	s.pipeline = jobs.NewPipeline(s, waker)
	s.editor = editor.New(s.store, s.sel, s.indices, s.pipeline, renderer, waker, opts.Editor)
	s.pipeline.Start()
	return s
}

// Editor returns the geometry editor.
func (s *Scene) Editor() *editor.Editor { return s.editor }

// Selection returns the current selection.
func (s *Scene) Selection() *selection.State { return s.sel }

// Geometry returns the current geometry snapshot.
func (s *Scene) Geometry() *geometry.Snapshot { return s.store.Load() }

// Indices returns the spatial index set.
func (s *Scene) Indices() *spatial.IndexSet { return s.indices }

// IsOpen reports whether a scene is loaded.
func (s *Scene) IsOpen() bool { return s.path != "" }

// Open loads the manifest at path and replaces the current scene.
func (s *Scene) Open(path string) error {
	m, err := LoadManifest(path)
	if err != nil {
		return err
	}
	snap, err := m.Snapshot()
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := s.closeWatcher(); err != nil {
		s.log.Warn("closing image watcher", zap.Error(err))
	}
	for cam := range s.textures {
		s.renderer.ReleaseImage(cam)
	}
	clear(s.textures)

	s.sel.Clear()
	s.editor.ClearROI()
	snap = s.store.Publish(snap)
	s.indices.Release()

	imgs := &images{slots: make([]imageslot.Slot, len(snap.Cameras)), paths: make([]string, len(snap.Cameras))}
	watched := make(map[int]string)
	for i, c := range snap.Cameras {
		imgs.paths[i] = c.ImagePath
		watched[i] = c.ImagePath
	}
	s.images.Store(imgs)
	s.path = path

	if err := s.pipeline.Enqueue(jobs.RebuildIndex{}); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if s.opts.WatchImages {
		if s.watcher, err = imagewatch.New(watched, s.waker); err != nil {
			s.log.Warn("image watching disabled", zap.Error(err))
		}
	}

	s.renderer.UploadRenderData(snap)
	s.renderer.UploadSelection(s.sel.Snapshot())
	s.navigator.Fit(s.bounds(m, snap))
	s.waker.Wake()

	s.log.Info("scene opened",
		zap.String("path", path),
		zap.Int("cameras", len(snap.Cameras)),
		zap.Int("points", snap.Points.Len()),
		zap.Int("faces", len(snap.Mesh.Faces)))
	return nil
}

// bounds picks the box to frame: the scene box, else the well observed
// points, else the mesh, else the camera centers with some room around.
func (s *Scene) bounds(m *Manifest, snap *geometry.Snapshot) geom.AABB {
	if b := m.SceneBox(); !b.IsEmpty() {
		return b
	}
	if b := snap.PointBounds(s.opts.Picking.MinViews); !b.IsEmpty() {
		return b
	}
	if b := snap.MeshBounds(); !b.IsEmpty() {
		return b
	}
	return snap.CameraBounds().Enlarge(0.5)
}

// ViewerIndex maps the position of a camera in the scene file to its
// index among the shown cameras, or -1 when that camera is not shown.
func (s *Scene) ViewerIndex(source int) int {
	return viewerIndex(s.store.Load().Cameras, source)
}

// SetVisibility selects which kinds of element can be picked. Hidden
// elements neither get picked nor block the elements behind them.
func (s *Scene) SetVisibility(faces, points, cameras bool) {
	s.opts.Picking.ShowFaces = faces
	s.opts.Picking.ShowPoints = points
	s.opts.Picking.ShowCameras = cameras
}

// OnCastRay handles a mouse button transition with the cursor ray. A click
// with Shift held also toggles the picked point or face in the region.
func (s *Scene) OnCastRay(ray geom.Ray, action picking.ButtonAction, mods picking.Mods, now time.Time) {
	if action == picking.ButtonPress {
		s.clicks.Press(now)
		return
	}
	if !s.clicks.Release(now) {
		return
	}

	hit, found := picking.Pick(ray, s.indices.Load(), s.store.Load(), s.opts.Picking)
	out := s.clicks.Resolve(s.sel.Pick, hit, found, mods, now)
	s.log.Debug("click", zap.Stringer("action", out.Action), zap.Stringer("kind", hit.Kind), zap.Int("index", hit.Index))

	switch out.Action {
	case picking.ActionSelect:
		s.sel.SetPick(out.Pick)
		if mods.Shift {
			s.toggleRegion(out.Pick)
		}
	case picking.ActionClear:
		s.sel.ClearPick()
	case picking.ActionFocus:
		s.CenterOn(out.Point)
		return
	case picking.ActionCameraView:
		if err := s.OnSetCameraViewMode(out.Camera); err != nil {
			s.log.Warn("camera view", zap.Error(err))
		}
		return
	case picking.ActionNeighbor:
		s.sel.NeighborCamera = out.Camera
	default:
		return
	}
	s.renderer.UploadSelection(s.sel.Snapshot())
	s.waker.Wake()
}

// toggleRegion adds a picked point or face to the region, or removes it
// when already marked.
func (s *Scene) toggleRegion(p selection.Pick) {
	r := &s.sel.Region
	switch p.Kind {
	case selection.KindPoint:
		if r.HasPoint(p.Index) {
			r.RemovePoints(p.Index)
		} else {
			r.AddPoints(p.Index)
		}
	case selection.KindFace:
		if r.HasFace(p.Index) {
			r.RemoveFaces(p.Index)
		} else {
			r.AddFaces(p.Index)
		}
	}
}

// CenterOn moves the orbit target to p. It does nothing while looking
// through a camera.
func (s *Scene) CenterOn(p math.Vec3) {
	if !s.navigator.IsArcball() {
		return
	}
	s.navigator.CenterOn(p)
	s.waker.Wake()
}

// OnSetCameraViewMode looks through camera cam, or returns to orbit mode
// when cam is negative. The camera image is queued for loading unless it
// is already loading or uploaded.
func (s *Scene) OnSetCameraViewMode(cam int) error {
	if cam < 0 {
		s.navigator.ExitCameraView()
		s.waker.Wake()
		return nil
	}
	imgs := s.images.Load()
	if imgs == nil {
		return ErrNotOpen
	}
	if cam >= len(imgs.slots) {
		return fmt.Errorf("camera %d of %d", cam, len(imgs.slots))
	}

	s.navigator.EnterCameraView(cam)
	s.requestImage(imgs, cam)
	s.waker.Wake()
	return nil
}

func (s *Scene) requestImage(imgs *images, cam int) {
	if s.textures[cam] || imgs.slots[cam].State() != imageslot.Empty {
		return
	}
	if err := s.pipeline.Enqueue(jobs.LoadImage{ItemIndex: cam, MaxResolution: s.opts.MaxResolution}); err != nil {
		s.log.Warn("image load not queued", zap.Int("camera", cam), zap.Error(err))
	}
}

// TransferImages uploads every decoded image waiting in a slot and drops
// the textures of images changed on disk. It is called once per frame and
// returns the number of images uploaded.
func (s *Scene) TransferImages() int {
	imgs := s.images.Load()
	if imgs == nil {
		return 0
	}
	n := 0
	for i := range imgs.slots {
		if img := imgs.slots[i].Take(); img != nil {
			s.renderer.UploadImage(i, img)
			s.textures[i] = true
			n++
		}
	}

	if s.watcher == nil {
		return n
	}
	viewing, inView := s.navigator.CameraView()
	for _, cam := range s.watcher.Drain() {
		if cam >= len(imgs.slots) {
			continue
		}
		if s.textures[cam] {
			s.renderer.ReleaseImage(cam)
			delete(s.textures, cam)
		}
		if inView && viewing == cam {
			s.requestImage(imgs, cam)
		}
	}
	return n
}

// HasTexture reports whether the image of camera cam is uploaded.
func (s *Scene) HasTexture(cam int) bool {
	return s.textures[cam]
}

// LoadImage decodes a camera image into its slot. It runs on the worker.
func (s *Scene) LoadImage(job jobs.LoadImage) error {
	imgs := s.images.Load()
	if imgs == nil || job.ItemIndex < 0 || job.ItemIndex >= len(imgs.slots) {
		return fmt.Errorf("load image %d: %w", job.ItemIndex, ErrNotOpen)
	}
	slot := &imgs.slots[job.ItemIndex]
	if !slot.Claim() {
		return nil
	}
	img, err := s.decoder.Decode(imgs.paths[job.ItemIndex], job.MaxResolution)
	if err != nil {
		slot.Abandon()
		return fmt.Errorf("load image %d: %w", job.ItemIndex, err)
	}
	slot.Fulfill(img)
	return nil
}

// RebuildIndex builds the spatial indices from the current geometry and
// installs them unless the geometry changed meanwhile. It runs on the
// worker.
func (s *Scene) RebuildIndex() error {
	snap := s.store.Load()
	start := time.Now()
	ix := spatial.Build(snap, s.opts.Index)
	if !s.indices.InstallIf(ix, s.store.Generation) {
		s.log.Debug("stale index dropped", zap.Uint64("generation", snap.Generation))
		return nil
	}
	s.log.Info("index rebuilt",
		zap.Uint64("generation", snap.Generation),
		zap.Int("faces", ix.Mesh.Len()),
		zap.Int("points", ix.Points.Len()),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Close stops the worker after the queued jobs and releases the watcher.
func (s *Scene) Close() error {
	return multierr.Combine(
		s.pipeline.Close(),
		s.closeWatcher(),
	)
}

func (s *Scene) closeWatcher() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
