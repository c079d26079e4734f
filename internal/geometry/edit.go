package geometry

import (
	"slices"

	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// RemovePoints returns a copy of s without the listed points. Indices out
// of range are ignored. The mesh and cameras are shared with s.
func (s *Snapshot) RemovePoints(indices []int) *Snapshot {
	next := s.shallowCopy()
	drop, n := mark(len(s.Points.Points), indices)
	if n == 0 {
		return next
	}

	kept := len(s.Points.Points) - n
	next.Points = PointCloud{Points: make([]math.Vec3, 0, kept)}
	if s.Points.Views != nil {
		next.Points.Views = make([][]uint32, 0, kept)
	}
	for i, p := range s.Points.Points {
		if drop[i] {
			continue
		}
		next.Points.Points = append(next.Points.Points, p)
		if s.Points.Views != nil {
			next.Points.Views = append(next.Points.Views, s.Points.Views[i])
		}
	}
	return next
}

// RemoveFaces returns a copy of s without the listed faces. Vertices no
// longer referenced by any face are dropped and the remaining faces are
// renumbered.
func (s *Snapshot) RemoveFaces(indices []int) *Snapshot {
	next := s.shallowCopy()
	drop, n := mark(len(s.Mesh.Faces), indices)
	if n == 0 {
		return next
	}

	used := make([]bool, len(s.Mesh.Vertices))
	for i, f := range s.Mesh.Faces {
		if drop[i] {
			continue
		}
		used[f[0]], used[f[1]], used[f[2]] = true, true, true
	}

	remap := make([]uint32, len(s.Mesh.Vertices))
	var vertices []math.Vec3
	for i, v := range s.Mesh.Vertices {
		if used[i] {
			remap[i] = uint32(len(vertices))
			vertices = append(vertices, v)
		}
	}

	faces := make([]Face, 0, len(s.Mesh.Faces)-n)
	for i, f := range s.Mesh.Faces {
		if drop[i] {
			continue
		}
		faces = append(faces, Face{remap[f[0]], remap[f[1]], remap[f[2]]})
	}
	next.Mesh = Mesh{Vertices: vertices, Faces: faces}
	return next
}

// PointsOutside lists the points not contained in box.
func (s *Snapshot) PointsOutside(box geom.OBB) []int {
	var out []int
	for i, p := range s.Points.Points {
		if !box.Contains(p) {
			out = append(out, i)
		}
	}
	return out
}

// FacesOutside lists the faces with at least one vertex outside box.
func (s *Snapshot) FacesOutside(box geom.OBB) []int {
	var out []int
	for i, f := range s.Mesh.Faces {
		if !box.Contains(s.Mesh.Vertices[f[0]]) ||
			!box.Contains(s.Mesh.Vertices[f[1]]) ||
			!box.Contains(s.Mesh.Vertices[f[2]]) {
			out = append(out, i)
		}
	}
	return out
}

// PointsSeenBy lists the points observed by camera cam, in index order.
func (s *Snapshot) PointsSeenBy(cam int) []int {
	var out []int
	for i, views := range s.Points.Views {
		if slices.Contains(views, uint32(cam)) {
			out = append(out, i)
		}
	}
	return out
}

func (s *Snapshot) shallowCopy() *Snapshot {
	next := *s
	return &next
}

// mark flags the valid indices in a bitmap of size n and returns how many
// distinct entries were flagged.
func mark(n int, indices []int) ([]bool, int) {
	if len(indices) == 0 {
		return nil, 0
	}
	flags := make([]bool, n)
	count := 0
	for _, i := range indices {
		if i < 0 || i >= n || flags[i] {
			continue
		}
		flags[i] = true
		count++
	}
	return flags, count
}

// KeepCameras returns a copy of s in which only the listed cameras stay
// valid. Camera indices are unchanged, so per-camera state keyed by index
// stays meaningful. Views of the hidden cameras are dropped from the
// points, so view counts only include the cameras still shown.
func (s *Snapshot) KeepCameras(keep []int) *Snapshot {
	next := s.shallowCopy()
	flags, _ := mark(len(s.Cameras), keep)
	next.Cameras = make([]Camera, len(s.Cameras))
	for i, c := range s.Cameras {
		c.Valid = c.Valid && flags != nil && flags[i]
		next.Cameras[i] = c
	}

	if s.Points.Views != nil {
		hidden := func(v uint32) bool {
			return int(v) < len(next.Cameras) && !next.Cameras[v].Valid
		}
		next.Points = PointCloud{Points: s.Points.Points, Views: make([][]uint32, len(s.Points.Views))}
		for i, views := range s.Points.Views {
			next.Points.Views[i] = slices.DeleteFunc(slices.Clone(views), hidden)
		}
	}
	return next
}
