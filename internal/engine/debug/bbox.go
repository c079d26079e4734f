// Package debug builds line geometry for overlays: region-of-interest
// boxes and camera frusta.
package debug

import (
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// FrustumVertexCount is the number of vertices for a camera frustum (8 edges × 2).
const FrustumVertexCount = 16

// GenerateOBBWireframeVertices creates line vertices for an oriented box,
// format: [x, y, z] per vertex. An empty box yields nil.
func GenerateOBBWireframeVertices(box geom.OBB) []float32 {
	if box.IsEmpty() {
		return nil
	}
	corners := box.Corners()
	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for i := range corners {
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				continue
			}
			a, b := corners[i], corners[i|1<<k]
			out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	return out
}

// GenerateFrustumVertices creates line vertices for the viewing pyramid of
// cam: four edges from the center to the image corners placed at depth,
// and the image outline.
func GenerateFrustumVertices(cam geometry.Camera, depth float32) []float32 {
	corners := FrustumCorners(cam, depth)
	out := make([]float32, 0, FrustumVertexCount*3)
	for i, c := range corners {
		next := corners[(i+1)%4]
		out = append(out,
			cam.C.X, cam.C.Y, cam.C.Z, c.X, c.Y, c.Z,
			c.X, c.Y, c.Z, next.X, next.Y, next.Z)
	}
	return out
}

// FrustumCorners returns the image corners of cam at depth along its
// optical axis, in the order top-left, top-right, bottom-right,
// bottom-left. A camera without intrinsics gets a 90 degree square view.
func FrustumCorners(cam geometry.Camera, depth float32) [4]math.Vec3 {
	fx, fy, cx, cy := cam.K[0], cam.K[1], cam.K[2], cam.K[3]
	w, h := float32(cam.Width), float32(cam.Height)
	if fx <= 0 || fy <= 0 || w <= 0 || h <= 0 {
		fx, fy, cx, cy, w, h = 1, 1, 1, 1, 2, 2
	}
	toWorld := cam.R.Transpose()
	var out [4]math.Vec3
	for i, px := range [4][2]float32{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		d := math.V3((px[0]-cx)/fx, (px[1]-cy)/fy, 1).Scale(depth)
		out[i] = cam.C.Add(toWorld.MulVec3(d))
	}
	return out
}
