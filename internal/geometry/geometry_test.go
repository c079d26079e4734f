package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

func twoQuads() *Snapshot {
	// Two unit quads side by side sharing the edge x=1.
	return &Snapshot{
		Mesh: Mesh{
			Vertices: []math.Vec3{
				math.V3(0, 0, 0), math.V3(1, 0, 0), math.V3(1, 1, 0), math.V3(0, 1, 0),
				math.V3(2, 0, 0), math.V3(2, 1, 0),
			},
			Faces: []Face{{0, 1, 2}, {0, 2, 3}, {1, 4, 5}, {1, 5, 2}},
		},
		Points: PointCloud{
			Points: []math.Vec3{math.V3(0, 0, 1), math.V3(1, 0, 1), math.V3(2, 0, 1)},
			Views:  [][]uint32{{0, 1}, {1}, {0, 1, 2}},
		},
	}
}

func TestRemovePoints(t *testing.T) {
	s := twoQuads()
	next := s.RemovePoints([]int{1, 1, 7, -1})

	require.Len(t, next.Points.Points, 2)
	assert.Equal(t, math.V3(0, 0, 1), next.Points.Points[0])
	assert.Equal(t, math.V3(2, 0, 1), next.Points.Points[1])
	assert.Equal(t, [][]uint32{{0, 1}, {0, 1, 2}}, next.Points.Views)
	assert.Len(t, s.Points.Points, 3, "source snapshot untouched")
	assert.Equal(t, s.Mesh.Faces, next.Mesh.Faces)
}

func TestRemovePointsNothing(t *testing.T) {
	s := twoQuads()
	next := s.RemovePoints(nil)
	assert.NotSame(t, s, next)
	assert.Equal(t, s.Points, next.Points)
}

func TestRemoveFacesCompactsVertices(t *testing.T) {
	s := twoQuads()
	next := s.RemoveFaces([]int{0, 1})

	// Vertices 0 and 3 are no longer referenced.
	require.Len(t, next.Mesh.Vertices, 4)
	require.Len(t, next.Mesh.Faces, 2)
	for i := range next.Mesh.Faces {
		tri := next.Mesh.Triangle(i)
		for _, v := range tri {
			assert.GreaterOrEqual(t, v.X, float32(1))
		}
	}
	assert.Equal(t, s.Mesh.Triangle(2), next.Mesh.Triangle(0))
	assert.Equal(t, s.Mesh.Triangle(3), next.Mesh.Triangle(1))
	assert.Len(t, s.Mesh.Vertices, 6, "source snapshot untouched")
}

func TestOutsideQueries(t *testing.T) {
	s := twoQuads()
	box := geom.OBBFromAABB(geom.AABB{Min: math.V3(-0.5, -0.5, -0.5), Max: math.V3(1.5, 1.5, 1.5)})

	assert.Equal(t, []int{2}, s.PointsOutside(box))
	assert.Equal(t, []int{2, 3}, s.FacesOutside(box))
}

func TestPointsSeenBy(t *testing.T) {
	s := twoQuads()
	assert.Equal(t, []int{0, 2}, s.PointsSeenBy(0))
	assert.Equal(t, []int{0, 1, 2}, s.PointsSeenBy(1))
	assert.Nil(t, s.PointsSeenBy(5))
}

func TestBounds(t *testing.T) {
	s := twoQuads()
	s.Cameras = []Camera{{C: math.V3(5, 5, 5), Valid: true}, {C: math.V3(-9, 0, 0)}}

	pb := s.PointBounds(2)
	assert.Equal(t, math.V3(0, 0, 1), pb.Min)
	assert.Equal(t, math.V3(2, 0, 1), pb.Max)

	mb := s.MeshBounds()
	assert.Equal(t, math.V3(2, 1, 0), mb.Max)

	cb := s.CameraBounds()
	assert.Equal(t, math.V3(5, 5, 5), cb.Min, "invalid camera ignored")
}

func TestStorePublishBumpsGeneration(t *testing.T) {
	store := NewStore()
	assert.Equal(t, uint64(0), store.Generation())
	assert.True(t, store.Load().IsEmpty())

	first := store.Publish(twoQuads())
	assert.Equal(t, uint64(1), first.Generation)

	second := store.Publish(first.RemovePoints([]int{0}))
	assert.Equal(t, uint64(2), second.Generation)
	assert.Equal(t, uint64(1), first.Generation, "published snapshot is not modified")
	assert.Same(t, second, store.Load())
}

func TestViewCountWithoutVisibility(t *testing.T) {
	pc := PointCloud{Points: []math.Vec3{{}}}
	assert.Equal(t, 1, pc.ViewCount(0))
}

func TestKeepCameras(t *testing.T) {
	s := &Snapshot{Cameras: []Camera{{Name: "a", Valid: true}, {Name: "b", Valid: true}, {Name: "c"}}}
	next := s.KeepCameras([]int{0, 2})

	require.Len(t, next.Cameras, 3)
	assert.True(t, next.Cameras[0].Valid)
	assert.False(t, next.Cameras[1].Valid)
	assert.False(t, next.Cameras[2].Valid, "an invalid camera is not revived")
	assert.True(t, s.Cameras[1].Valid, "source snapshot untouched")
}

func TestKeepCamerasDropsHiddenViews(t *testing.T) {
	s := &Snapshot{
		Cameras: []Camera{{Valid: true}, {Valid: true}, {Valid: true}},
		Points: PointCloud{
			Points: []math.Vec3{math.V3(0, 0, 0), math.V3(1, 0, 0)},
			Views:  [][]uint32{{0, 1, 2}, {1}},
		},
	}
	next := s.KeepCameras([]int{0, 2})

	assert.Equal(t, [][]uint32{{0, 2}, {}}, next.Points.Views)
	assert.Equal(t, 2, next.Points.ViewCount(0))
	assert.Equal(t, 0, next.Points.ViewCount(1))
	assert.Empty(t, next.PointsSeenBy(1))
	assert.Equal(t, 3, s.Points.ViewCount(0), "source snapshot untouched")
	assert.Equal(t, s.Points.Points, next.Points.Points)
}
