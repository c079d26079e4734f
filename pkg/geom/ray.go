// Package geom provides the geometric primitives used for picking and
// region-of-interest fitting: rays, cones, axis-aligned and oriented boxes.
package geom

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/reconview/pkg/math"
)

// triangleEpsilon rejects rays nearly parallel to a triangle's plane.
const triangleEpsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Project returns the distance along the ray of the point closest to p.
func (r Ray) Project(p math.Vec3) float32 {
	return p.Sub(r.Origin).Dot(r.Direction)
}

// DistanceSqToPoint returns the squared distance from p to the ray line.
func (r Ray) DistanceSqToPoint(p math.Vec3) float32 {
	v := p.Sub(r.Origin)
	t := v.Dot(r.Direction)
	d := v.LengthSq() - t*t
	if d < 0 {
		return 0
	}
	return d
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns 0.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Get(axis)
		d := r.Direction.Get(axis)
		lo, hi := box.Min.Get(axis), box.Max.Get(axis)
		if d == 0 {
			// Parallel to the slab: must already be inside it
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// IntersectTriangle intersects the ray with triangle (a, b, c), both sides
// counting as hits. Returns the distance along the ray.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if math32.Abs(det) < triangleEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = edge2.Dot(qvec) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}
