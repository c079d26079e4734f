package renderer

import (
	"github.com/Faultbox/reconview/internal/engine/debug"
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/pkg/math"
)

// Vertex layout shared by every buffer: position then a second vec3 that
// is a normal for faces and a color for points and lines.
const floatsPerVertex = 6

var (
	colorPoint    = math.V3(0.75, 0.75, 0.75)
	colorRegion   = math.V3(1, 0.35, 0.1)
	colorPicked   = math.V3(1, 0.9, 0.1)
	colorCamera   = math.V3(0.3, 0.6, 1)
	colorNeighbor = math.V3(0.1, 1, 0.8)
	colorBounds   = math.V3(0.2, 1, 0.2)
)

func appendVertex(dst []float32, p, attr math.Vec3) []float32 {
	return append(dst, p.X, p.Y, p.Z, attr.X, attr.Y, attr.Z)
}

// meshVertices expands the mesh to flat shaded triangles.
func meshVertices(mesh geometry.Mesh) []float32 {
	out := make([]float32, 0, len(mesh.Faces)*3*floatsPerVertex)
	for i := range mesh.Faces {
		tri := mesh.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		for _, p := range tri {
			out = appendVertex(out, p, n)
		}
	}
	return out
}

// highlightVertices returns the faces of the region plus the picked face,
// shaded with their highlight color in place of a normal.
func highlightVertices(mesh geometry.Mesh, sel selection.Snapshot) []float32 {
	var out []float32
	add := func(face int, color math.Vec3) {
		if face < 0 || face >= len(mesh.Faces) {
			return
		}
		for _, p := range mesh.Triangle(face) {
			out = appendVertex(out, p, color)
		}
	}
	for _, f := range sel.RegionFaces {
		add(f, colorRegion)
	}
	if sel.Kind == selection.KindFace {
		add(sel.Index, colorPicked)
	}
	return out
}

// pointVertices returns the points seen by at least minViews cameras,
// colored by selection state.
func pointVertices(cloud geometry.PointCloud, minViews int, sel selection.Snapshot) []float32 {
	region := make(map[int]bool, len(sel.RegionPoints))
	for _, i := range sel.RegionPoints {
		region[i] = true
	}
	out := make([]float32, 0, cloud.Len()*floatsPerVertex)
	for i, p := range cloud.Points {
		if cloud.ViewCount(i) < minViews {
			continue
		}
		color := colorPoint
		switch {
		case sel.Kind == selection.KindPoint && sel.Index == i:
			color = colorPicked
		case region[i]:
			color = colorRegion
		}
		out = appendVertex(out, p, color)
	}
	return out
}

// cameraVertices returns the frusta of the shown cameras as lines.
func cameraVertices(cameras []geometry.Camera, depth float32, sel selection.Snapshot) []float32 {
	out := make([]float32, 0, len(cameras)*debug.FrustumVertexCount*floatsPerVertex)
	for i, cam := range cameras {
		if !cam.Valid {
			continue
		}
		color := colorCamera
		switch {
		case sel.Kind == selection.KindCamera && sel.Index == i:
			color = colorPicked
		case sel.NeighborCamera == i:
			color = colorNeighbor
		case sel.RegionCamera == i:
			color = colorRegion
		}
		lines := debug.GenerateFrustumVertices(cam, depth)
		for j := 0; j < len(lines); j += 3 {
			out = appendVertex(out, math.V3(lines[j], lines[j+1], lines[j+2]), color)
		}
	}
	return out
}

// boundsVertices returns a box wireframe as colored lines.
func boundsVertices(lines []float32) []float32 {
	out := make([]float32, 0, len(lines)*2)
	for j := 0; j < len(lines); j += 3 {
		out = appendVertex(out, math.V3(lines[j], lines[j+1], lines[j+2]), colorBounds)
	}
	return out
}

// frustumDepth sizes camera frusta relative to the scene.
func frustumDepth(snap *geometry.Snapshot) float32 {
	b := snap.PointBounds(1)
	b.InsertBox(snap.MeshBounds())
	b.InsertBox(snap.CameraBounds())
	if b.IsEmpty() {
		return 1
	}
	return max(b.Radius()*0.03, 1e-3)
}
