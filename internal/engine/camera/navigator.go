package camera

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/logger"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Cameras gives access to the poses of the reconstructed cameras.
type Cameras interface {
	Geometry() *geometry.Snapshot
}

// CamerasFunc adapts a function to Cameras.
type CamerasFunc func() *geometry.Snapshot

// Geometry calls f.
func (f CamerasFunc) Geometry() *geometry.Snapshot { return f() }

// Navigator switches between the orbit camera and looking through a
// reconstructed camera.
type Navigator struct {
	Orbit *OrbitCamera
	// FOV is the vertical field of view of the orbit mode, in radians.
	FOV float32

	cameras Cameras
	viewing int
	inView  bool
	near    float32
	far     float32
	log     *zap.Logger
}

// NewNavigator creates a navigator in orbit mode. fovDeg is the vertical
// field of view in degrees.
func NewNavigator(cameras Cameras, fovDeg float32) *Navigator {
	return &Navigator{
		Orbit:   NewOrbitCamera(),
		FOV:     geom.DegToRad(fovDeg),
		cameras: cameras,
		near:    0.01,
		far:     1000,
		log:     logger.Named("camera"),
	}
}

// Fit frames bounds in orbit mode and sets the clip planes to match.
func (n *Navigator) Fit(bounds geom.AABB) {
	if bounds.IsEmpty() {
		return
	}
	n.Orbit.FitToBounds(bounds, n.FOV)
	radius := max(bounds.Radius(), 1e-3)
	n.near = radius * 1e-3
	n.far = radius * 200
	n.log.Debug("view fitted", zap.Float32("radius", radius))
}

// CenterOn moves the orbit target to p and zooms in a little.
func (n *Navigator) CenterOn(p math.Vec3) {
	n.Orbit.Center = p
	n.Orbit.Distance = max(n.Orbit.Distance*0.75, n.Orbit.MinDistance)
}

// IsArcball reports whether the orbit mode is active.
func (n *Navigator) IsArcball() bool { return !n.inView }

// EnterCameraView looks through camera cam.
func (n *Navigator) EnterCameraView(cam int) {
	n.viewing, n.inView = cam, true
	n.log.Debug("camera view", zap.Int("camera", cam))
}

// ExitCameraView returns to orbit mode.
func (n *Navigator) ExitCameraView() { n.inView = false }

// CameraView returns the camera looked through, if any.
func (n *Navigator) CameraView() (int, bool) { return n.viewing, n.inView }

// pose returns the camera looked through, if it still exists.
func (n *Navigator) pose() (geometry.Camera, bool) {
	if !n.inView || n.cameras == nil {
		return geometry.Camera{}, false
	}
	cams := n.cameras.Geometry().Cameras
	if n.viewing < 0 || n.viewing >= len(cams) || !cams[n.viewing].Valid {
		return geometry.Camera{}, false
	}
	return cams[n.viewing], true
}

// ViewMatrix returns the current view matrix.
func (n *Navigator) ViewMatrix() math.Mat4 {
	if cam, ok := n.pose(); ok {
		return CameraViewMatrix(cam)
	}
	return n.Orbit.ViewMatrix()
}

// ProjectionMatrix returns the current projection for a viewport with the
// given aspect ratio. In camera view the field of view follows the camera
// intrinsics.
func (n *Navigator) ProjectionMatrix(aspect float32) math.Mat4 {
	fov := n.FOV
	if cam, ok := n.pose(); ok && cam.K[1] > 0 && cam.Height > 0 {
		fov = 2 * math32.Atan(float32(cam.Height)/(2*cam.K[1]))
	}
	return math.Perspective(fov, aspect, n.near, n.far)
}

// Position returns the eye position.
func (n *Navigator) Position() math.Vec3 {
	if cam, ok := n.pose(); ok {
		return cam.C
	}
	return n.Orbit.Position()
}

// CameraViewMatrix returns the view matrix of a reconstructed camera. Its
// rotation maps world to camera axes with x right, y down and z forward,
// so y and z are flipped for OpenGL.
func CameraViewMatrix(cam geometry.Camera) math.Mat4 {
	m := math.Identity()
	flip := [3]float32{1, -1, -1}
	for r := range 3 {
		row := cam.R.Row(r).Scale(flip[r])
		m[r] = row.X
		m[4+r] = row.Y
		m[8+r] = row.Z
		m[12+r] = -row.Dot(cam.C)
	}
	return m
}
