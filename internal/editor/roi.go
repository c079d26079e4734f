package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/pkg/geom"
)

// ROIKind selects the shape fitted by FitROI.
type ROIKind int

const (
	ROIAxisAligned ROIKind = iota
	ROIOriented
)

func (k ROIKind) String() string {
	if k == ROIOriented {
		return "oriented"
	}
	return "axis-aligned"
}

// FitROI sets the region of interest to a box around the marked points and
// faces, grown by the ROI margin. It returns false when nothing is marked.
func (e *Editor) FitROI(kind ROIKind) bool {
	pts := e.regionPositions(e.store.Load())
	if len(pts) == 0 {
		return false
	}

	var box geom.OBB
	switch kind {
	case ROIOriented:
		box = geom.FitOBB(pts, e.opts.OBBIterations)
	default:
		box = geom.OBBFromAABB(geom.AABBFromPoints(pts))
	}
	box = box.Enlarge(box.Size().MaxComponent() * e.opts.ROIMargin)

	e.log.Debug("roi fitted", zap.Stringer("kind", kind), zap.Int("points", len(pts)), zap.Float32("volume", box.Volume()))
	e.SetROI(box)
	return true
}

// ToggleSceneBox clears the region of interest when one is set. Otherwise
// it sets it to the bounds of the mesh, or of the points seen by enough
// cameras when there is no mesh.
func (e *Editor) ToggleSceneBox() bool {
	if !e.roi.IsEmpty() {
		e.ClearROI()
		return true
	}
	snap := e.store.Load()
	var bounds geom.AABB
	if len(snap.Mesh.Faces) > 0 {
		bounds = snap.MeshBounds()
	} else {
		bounds = snap.PointBounds(e.opts.MinViews)
	}
	if bounds.IsEmpty() {
		return false
	}
	box := geom.OBBFromAABB(bounds)
	e.SetROI(box.Enlarge(box.Size().MaxComponent() * e.opts.ROIMargin))
	return true
}
