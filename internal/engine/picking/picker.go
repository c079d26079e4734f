package picking

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/logger"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/internal/spatial"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Options select what can be hit.
type Options struct {
	ShowFaces   bool
	ShowPoints  bool
	ShowCameras bool
	// MinViews filters points seen by fewer cameras. It is clamped to
	// [1, number of cameras].
	MinViews int
	// PointConeDeg and CameraConeDeg are the half-angles, in degrees, of
	// the cones used to hit points and camera centers.
	PointConeDeg  float32
	CameraConeDeg float32
}

// DefaultOptions shows everything with 0.5 degree cones and points seen by
// at least two cameras.
func DefaultOptions() Options {
	return Options{
		ShowFaces:     true,
		ShowPoints:    true,
		ShowCameras:   true,
		MinViews:      2,
		PointConeDeg:  0.5,
		CameraConeDeg: 0.5,
	}
}

// Hit is the nearest element under the ray. See selection.Pick for the
// layout of Points.
type Hit struct {
	Kind     selection.Kind
	Index    int
	Distance float32
	Points   [4]math.Vec3
}

// Pick returns the nearest element hit by ray. Faces are tried first, then
// points, then cameras; a later candidate wins only when strictly closer.
// Indices built from another geometry generation than snap are not used.
func Pick(ray geom.Ray, ix *spatial.Indices, snap *geometry.Snapshot, opts Options) (Hit, bool) {
	var (
		best  Hit
		found bool
	)

	if ix != nil && snap != nil && ix.Generation != snap.Generation {
		logger.Named("picker").Debug("stale index ignored",
			zap.Uint64("index", ix.Generation),
			zap.Uint64("geometry", snap.Generation))
		ix = nil
	}

	if opts.ShowFaces && ix != nil && ix.Mesh.Len() > 0 {
		if h, ok := ix.Mesh.IntersectRay(ray); ok {
			tri := ix.Mesh.Mesh().Triangle(h.Index)
			best = Hit{
				Kind:     selection.KindFace,
				Index:    h.Index,
				Distance: h.Distance,
				Points:   [4]math.Vec3{tri[0], tri[1], tri[2], ray.At(h.Distance)},
			}
			found = true
		}
	}

	var cameras []geometry.Camera
	if snap != nil {
		cameras = snap.Cameras
	}

	if opts.ShowPoints && ix != nil && ix.Points.Len() > 0 {
		minViews := min(max(opts.MinViews, 1), max(len(cameras), 1))
		cone := geom.NewCone(ray, geom.DegToRad(opts.PointConeDeg))
		if h, ok := ix.Points.IntersectCone(cone, minViews); ok && (!found || h.Distance < best.Distance) {
			p := ix.Points.Cloud().Points[h.Index]
			best = Hit{Kind: selection.KindPoint, Index: h.Index, Distance: h.Distance, Points: [4]math.Vec3{p, {}, {}, p}}
			found = true
		}
	}

	if opts.ShowCameras {
		cone := geom.NewCone(ray, geom.DegToRad(opts.CameraConeDeg))
		for i, cam := range cameras {
			if !cam.Valid {
				continue
			}
			d, ok := cone.Classify(cam.C)
			if ok && (!found || d < best.Distance) {
				best = Hit{Kind: selection.KindCamera, Index: i, Distance: d, Points: [4]math.Vec3{cam.C, {}, {}, cam.C}}
				found = true
			}
		}
	}
	return best, found
}
