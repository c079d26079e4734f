// Package spatial provides the octree indices used for ray picking: one
// over mesh faces and one over points.
package spatial

import (
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Hit is the nearest item found by an index query.
type Hit struct {
	Index    int
	Distance float32
}

// better reports whether (t, idx) beats the current best. Equal distances
// go to the lower index so results do not depend on traversal order.
func better(best Hit, found bool, t float32, idx int) bool {
	if !found {
		return true
	}
	return t < best.Distance || (t == best.Distance && idx < best.Index)
}

// MeshIndex indexes the faces of one mesh.
type MeshIndex struct {
	tree *octree
	mesh geometry.Mesh
}

// NewMeshIndex builds the face index of mesh.
func NewMeshIndex(mesh geometry.Mesh, split SplitFunc) *MeshIndex {
	src := itemSource{
		count: len(mesh.Faces),
		center: func(i int) math.Vec3 {
			tri := mesh.Triangle(i)
			return tri[0].Add(tri[1]).Add(tri[2]).Scale(1.0 / 3)
		},
		bounds: func(i int) geom.AABB {
			tri := mesh.Triangle(i)
			return geom.AABBFromPoints(tri[:])
		},
	}
	return &MeshIndex{tree: buildOctree(src, split), mesh: mesh}
}

// Len returns the number of indexed faces.
func (m *MeshIndex) Len() int {
	if m == nil {
		return 0
	}
	return len(m.mesh.Faces)
}

// IntersectRay returns the nearest face hit by ray.
func (m *MeshIndex) IntersectRay(ray geom.Ray) (Hit, bool) {
	var best Hit
	found := false
	if m.Len() == 0 {
		return best, false
	}
	m.tree.walk(
		func(b geom.AABB) bool {
			t, ok := ray.IntersectAABB(b)
			return ok && (!found || t <= best.Distance)
		},
		func(items []int32) {
			for _, it := range items {
				tri := m.mesh.Triangle(int(it))
				t, ok := ray.IntersectTriangle(tri[0], tri[1], tri[2])
				if ok && better(best, found, t, int(it)) {
					best, found = Hit{Index: int(it), Distance: t}, true
				}
			}
		},
	)
	return best, found
}

// Mesh returns the indexed mesh.
func (m *MeshIndex) Mesh() geometry.Mesh {
	return m.mesh
}

// PointIndex indexes the points of one cloud.
type PointIndex struct {
	tree  *octree
	cloud geometry.PointCloud
}

// NewPointIndex builds the index of cloud.
func NewPointIndex(cloud geometry.PointCloud, split SplitFunc) *PointIndex {
	src := itemSource{
		count:  len(cloud.Points),
		center: func(i int) math.Vec3 { return cloud.Points[i] },
		bounds: func(i int) geom.AABB {
			p := cloud.Points[i]
			return geom.AABB{Min: p, Max: p}
		},
	}
	return &PointIndex{tree: buildOctree(src, split), cloud: cloud}
}

// Len returns the number of indexed points.
func (p *PointIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.cloud.Points)
}

// IntersectCone returns the point inside cone nearest to its apex among
// the points seen by at least minViews cameras. Distance is measured along
// the cone axis.
func (p *PointIndex) IntersectCone(cone geom.Cone, minViews int) (Hit, bool) {
	var best Hit
	found := false
	if p.Len() == 0 {
		return best, false
	}
	p.tree.walk(
		func(b geom.AABB) bool {
			tNear, ok := cone.IntersectsSphere(b.Center(), b.Radius())
			return ok && (!found || tNear <= best.Distance)
		},
		func(items []int32) {
			for _, it := range items {
				i := int(it)
				if p.cloud.ViewCount(i) < minViews {
					continue
				}
				t, ok := cone.Classify(p.cloud.Points[i])
				if ok && better(best, found, t, i) {
					best, found = Hit{Index: i, Distance: t}, true
				}
			}
		},
	)
	return best, found
}

// Cloud returns the indexed point cloud.
func (p *PointIndex) Cloud() geometry.PointCloud {
	return p.cloud
}
