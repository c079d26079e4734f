// Package geometry holds the reconstruction scene data: cameras, the sparse
// or dense point cloud with per-point visibility, and the triangle mesh.
//
// A Snapshot is immutable once published to a Store. Edits build a new
// Snapshot and publish it, which bumps the generation counter. Readers on
// other goroutines keep using the snapshot they loaded.
package geometry

import (
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Face is a triangle given by three vertex indices.
type Face [3]uint32

// PointCloud is a set of 3D points. Views[i] lists the indices of the
// cameras that observe point i; it is either nil or parallel to Points.
type PointCloud struct {
	Points []math.Vec3
	Views  [][]uint32
}

// Len returns the number of points.
func (pc PointCloud) Len() int { return len(pc.Points) }

// ViewCount returns how many cameras observe point i. Points without
// visibility information count as seen once.
func (pc PointCloud) ViewCount(i int) int {
	if pc.Views == nil {
		return 1
	}
	return len(pc.Views[i])
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices []math.Vec3
	Faces    []Face
}

// Triangle returns the corner positions of face i.
func (m Mesh) Triangle(i int) [3]math.Vec3 {
	f := m.Faces[i]
	return [3]math.Vec3{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Camera is a calibrated view. R rotates world into camera space and C is
// the optical center in world space.
type Camera struct {
	Name      string
	ImagePath string
	Width     int
	Height    int
	K         [4]float32 // fx, fy, cx, cy in pixels
	R         math.Mat3
	C         math.Vec3
	Valid     bool
	// SourceIndex is the position of the camera's image in the scene file.
	SourceIndex int
}

// Direction returns the optical axis in world space.
func (c Camera) Direction() math.Vec3 {
	return c.R.Row(2)
}

// Snapshot is one consistent version of the scene geometry.
type Snapshot struct {
	Generation uint64
	Points     PointCloud
	Mesh       Mesh
	Cameras    []Camera
}

// IsEmpty reports whether there is nothing to show.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.Points.Points) == 0 && len(s.Mesh.Faces) == 0 && len(s.Cameras) == 0)
}

// PointBounds returns the bounds of the points seen by at least minViews
// cameras.
func (s *Snapshot) PointBounds(minViews int) geom.AABB {
	b := geom.EmptyAABB()
	for i, p := range s.Points.Points {
		if s.Points.ViewCount(i) >= minViews {
			b.Insert(p)
		}
	}
	return b
}

// MeshBounds returns the bounds of the vertices referenced by faces.
func (s *Snapshot) MeshBounds() geom.AABB {
	b := geom.EmptyAABB()
	for _, f := range s.Mesh.Faces {
		for _, v := range f {
			b.Insert(s.Mesh.Vertices[v])
		}
	}
	return b
}

// CameraBounds returns the bounds of the valid camera centers.
func (s *Snapshot) CameraBounds() geom.AABB {
	b := geom.EmptyAABB()
	for _, c := range s.Cameras {
		if c.Valid {
			b.Insert(c.C)
		}
	}
	return b
}
