// Package frontend declares what the scene needs from the display side:
// GPU uploads, redraw requests and view navigation.
package frontend

import (
	"image"

	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Renderer receives data to draw. Calls are fire and forget and happen on
// the interactive goroutine.
type Renderer interface {
	UploadSelection(sel selection.Snapshot)
	UploadBounds(box geom.OBB)
	UploadRenderData(snap *geometry.Snapshot)
	UploadImage(camera int, img *image.RGBA)
	ReleaseImage(camera int)
}

// Waker requests a redraw. It may be called from any goroutine.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// Navigator moves the viewpoint.
type Navigator interface {
	// Fit frames bounds in view.
	Fit(bounds geom.AABB)
	// CenterOn moves the orbit target to p.
	CenterOn(p math.Vec3)
	// IsArcball reports whether the free orbit mode is active.
	IsArcball() bool
	// EnterCameraView looks through camera.
	EnterCameraView(camera int)
	// ExitCameraView returns to orbit mode.
	ExitCameraView()
	// CameraView returns the camera looked through, if any.
	CameraView() (int, bool)
}

// NopRenderer discards everything. It serves headless runs.
type NopRenderer struct{}

func (NopRenderer) UploadSelection(selection.Snapshot)  {}
func (NopRenderer) UploadBounds(geom.OBB)               {}
func (NopRenderer) UploadRenderData(*geometry.Snapshot) {}
func (NopRenderer) UploadImage(int, *image.RGBA)        {}
func (NopRenderer) ReleaseImage(int)                    {}
