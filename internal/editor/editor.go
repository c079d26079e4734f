// Package editor applies selection-driven edits to the scene geometry.
//
// Every edit that changes element indices follows the same protocol: the
// selection is cleared, the next geometry snapshot is published, the
// installed spatial indices are released, an index rebuild is queued and
// the new render data is uploaded.
package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/frontend"
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/jobs"
	"github.com/Faultbox/reconview/internal/logger"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/internal/spatial"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Enqueuer accepts background jobs.
type Enqueuer interface {
	Enqueue(job jobs.Job) error
}

// Options tune the edits.
type Options struct {
	// ROIMargin grows fitted boxes by this fraction of their largest extent.
	ROIMargin float32
	// CropMinPoints is how many selected points a camera must see to be
	// kept by CropToVisibility.
	CropMinPoints int
	// OBBIterations is the rotation search resolution of oriented fits.
	OBBIterations int
	// MinViews filters the points used for the scene box.
	MinViews int
}

// DefaultOptions returns the standard editing settings.
func DefaultOptions() Options {
	return Options{
		ROIMargin:     0.03,
		CropMinPoints: 20,
		OBBIterations: geom.DefaultFitIterations,
		MinViews:      2,
	}
}

// Editor owns the region of interest and performs edits. All methods run
// on the interactive goroutine.
type Editor struct {
	store    *geometry.Store
	sel      *selection.State
	indices  *spatial.IndexSet
	queue    Enqueuer
	renderer frontend.Renderer
	waker    frontend.Waker
	opts     Options
	log      *zap.Logger

	roi geom.OBB
}

// New creates an editor over the given scene parts.
func New(store *geometry.Store, sel *selection.State, indices *spatial.IndexSet, queue Enqueuer,
	renderer frontend.Renderer, waker frontend.Waker, opts Options) *Editor {
	return &Editor{
		store:    store,
		sel:      sel,
		indices:  indices,
		queue:    queue,
		renderer: renderer,
		waker:    waker,
		opts:     opts,
		log:      logger.Named("editor"),
	}
}

// ROI returns the region of interest; it is empty when unset.
func (e *Editor) ROI() geom.OBB {
	return e.roi
}

// SetROI replaces the region of interest.
func (e *Editor) SetROI(box geom.OBB) {
	e.roi = box
	e.renderer.UploadBounds(box)
	e.waker.Wake()
}

// ClearROI forgets the region of interest.
func (e *Editor) ClearROI() {
	e.SetROI(geom.OBB{})
}

// Delete removes the points and faces of the region. It returns false when
// the region is empty.
func (e *Editor) Delete() bool {
	if e.sel.Region.IsEmpty() {
		return false
	}
	points := e.sel.Region.PointIndices()
	faces := e.sel.Region.FaceIndices()

	next := e.store.Load().RemovePoints(points).RemoveFaces(faces)
	e.commit(next)
	e.log.Info("region deleted", zap.Int("points", len(points)), zap.Int("faces", len(faces)))
	return true
}

// CropToBounds removes everything outside the region of interest. It
// returns false when there is no region of interest or nothing lies
// outside it.
func (e *Editor) CropToBounds() bool {
	if e.roi.IsEmpty() {
		return false
	}
	snap := e.store.Load()
	points := snap.PointsOutside(e.roi)
	faces := snap.FacesOutside(e.roi)
	if len(points) == 0 && len(faces) == 0 {
		return false
	}
	e.commit(snap.RemovePoints(points).RemoveFaces(faces))
	e.log.Info("cropped to bounds", zap.Int("points", len(points)), zap.Int("faces", len(faces)))
	return true
}

// commit publishes next and runs the invalidate and rebuild protocol.
func (e *Editor) commit(next *geometry.Snapshot) {
	e.sel.Clear()
	next = e.store.Publish(next)
	e.indices.Release()
	if err := e.queue.Enqueue(jobs.RebuildIndex{}); err != nil {
		e.log.Warn("index rebuild not queued", zap.Error(err))
	}
	e.renderer.UploadRenderData(next)
	e.renderer.UploadSelection(e.sel.Snapshot())
	e.waker.Wake()
}

// InvertRegion swaps marked and unmarked points and faces.
func (e *Editor) InvertRegion() {
	snap := e.store.Load()
	e.sel.Region.Invert(snap.Points.Len(), len(snap.Mesh.Faces))
	e.selectionChanged()
}

// ClearRegion unmarks everything.
func (e *Editor) ClearRegion() {
	e.sel.Region.Clear()
	e.selectionChanged()
}

// SelectPointsByCamera marks the points seen by camera cam. Calling it
// again for the same camera unmarks them.
func (e *Editor) SelectPointsByCamera(cam int) bool {
	snap := e.store.Load()
	if cam < 0 || cam >= len(snap.Cameras) {
		return false
	}
	if e.sel.Region.Camera == cam {
		e.sel.Region.Clear()
		e.selectionChanged()
		return true
	}
	e.sel.Region.Clear()
	e.sel.Region.AddPoints(snap.PointsSeenBy(cam)...)
	e.sel.Region.Camera = cam
	e.selectionChanged()
	return true
}

func (e *Editor) selectionChanged() {
	e.renderer.UploadSelection(e.sel.Snapshot())
	e.waker.Wake()
}

// regionPositions collects the marked points and the corners of the marked
// faces.
func (e *Editor) regionPositions(snap *geometry.Snapshot) []math.Vec3 {
	var out []math.Vec3
	for _, i := range e.sel.Region.PointIndices() {
		if i < snap.Points.Len() {
			out = append(out, snap.Points.Points[i])
		}
	}
	for _, i := range e.sel.Region.FaceIndices() {
		if i < len(snap.Mesh.Faces) {
			tri := snap.Mesh.Triangle(i)
			out = append(out, tri[:]...)
		}
	}
	return out
}
