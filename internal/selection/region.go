package selection

import (
	"maps"
	"slices"
)

// Region is a set of point and face indices marked for editing. The zero
// value is an empty region with Camera 0; use NewRegion for one with no
// camera.
type Region struct {
	points map[int]struct{}
	faces  map[int]struct{}
	// Camera is the camera whose points were selected, or NoCamera.
	Camera int
}

// NewRegion returns an empty region.
func NewRegion() Region {
	return Region{
		points: make(map[int]struct{}),
		faces:  make(map[int]struct{}),
		Camera: NoCamera,
	}
}

// AddPoints marks points.
func (r *Region) AddPoints(indices ...int) {
	if r.points == nil {
		r.points = make(map[int]struct{}, len(indices))
	}
	for _, i := range indices {
		r.points[i] = struct{}{}
	}
}

// RemovePoints unmarks points.
func (r *Region) RemovePoints(indices ...int) {
	for _, i := range indices {
		delete(r.points, i)
	}
}

// AddFaces marks faces.
func (r *Region) AddFaces(indices ...int) {
	if r.faces == nil {
		r.faces = make(map[int]struct{}, len(indices))
	}
	for _, i := range indices {
		r.faces[i] = struct{}{}
	}
}

// RemoveFaces unmarks faces.
func (r *Region) RemoveFaces(indices ...int) {
	for _, i := range indices {
		delete(r.faces, i)
	}
}

// HasPoint reports whether point i is marked.
func (r *Region) HasPoint(i int) bool {
	_, ok := r.points[i]
	return ok
}

// HasFace reports whether face i is marked.
func (r *Region) HasFace(i int) bool {
	_, ok := r.faces[i]
	return ok
}

// Clear unmarks everything.
func (r *Region) Clear() {
	clear(r.points)
	clear(r.faces)
	r.Camera = NoCamera
}

// Invert marks exactly the points and faces that were not marked, given
// the current element counts.
func (r *Region) Invert(numPoints, numFaces int) {
	r.points = invert(r.points, numPoints)
	r.faces = invert(r.faces, numFaces)
	r.Camera = NoCamera
}

func invert(set map[int]struct{}, n int) map[int]struct{} {
	out := make(map[int]struct{}, max(n-len(set), 0))
	for i := 0; i < n; i++ {
		if _, ok := set[i]; !ok {
			out[i] = struct{}{}
		}
	}
	return out
}

// IsEmpty reports whether nothing is marked.
func (r *Region) IsEmpty() bool {
	return len(r.points) == 0 && len(r.faces) == 0
}

// NumPoints returns the number of marked points.
func (r *Region) NumPoints() int { return len(r.points) }

// NumFaces returns the number of marked faces.
func (r *Region) NumFaces() int { return len(r.faces) }

// PointIndices returns the marked points in ascending order.
func (r *Region) PointIndices() []int {
	return slices.Sorted(maps.Keys(r.points))
}

// FaceIndices returns the marked faces in ascending order.
func (r *Region) FaceIndices() []int {
	return slices.Sorted(maps.Keys(r.faces))
}
