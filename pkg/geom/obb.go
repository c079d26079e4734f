package geom

import (
	gomath "math"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"

	"github.com/Faultbox/reconview/pkg/math"
)

// DefaultFitIterations is the number of rotation steps tried around each
// principal axis when minimizing the box volume.
const DefaultFitIterations = 32

// OBB is an oriented bounding box. The zero value is empty.
type OBB struct {
	Center math.Vec3
	Axes   [3]math.Vec3 // orthonormal, right-handed
	Half   math.Vec3    // half extents along Axes
}

// OBBFromAABB returns the oriented box equal to an axis-aligned one.
func OBBFromAABB(b AABB) OBB {
	if b.IsEmpty() {
		return OBB{}
	}
	return OBB{
		Center: b.Center(),
		Axes:   [3]math.Vec3{{X: 1}, {Y: 1}, {Z: 1}},
		Half:   b.Size().Scale(0.5),
	}
}

// IsEmpty reports whether the box was never set.
func (o OBB) IsEmpty() bool {
	return o.Axes[0] == (math.Vec3{})
}

// Size returns the full extent along each box axis.
func (o OBB) Size() math.Vec3 {
	return o.Half.Scale(2)
}

// Volume returns the box volume.
func (o OBB) Volume() float32 {
	s := o.Size()
	return s.X * s.Y * s.Z
}

// Enlarge returns the box grown by margin on every side.
func (o OBB) Enlarge(margin float32) OBB {
	if o.IsEmpty() {
		return o
	}
	o.Half = o.Half.Add(math.Vec3{X: margin, Y: margin, Z: margin})
	return o
}

// Contains reports whether p is inside the box (borders included).
func (o OBB) Contains(p math.Vec3) bool {
	if o.IsEmpty() {
		return false
	}
	d := p.Sub(o.Center)
	for i := 0; i < 3; i++ {
		if math32.Abs(d.Dot(o.Axes[i])) > o.Half.Get(i) {
			return false
		}
	}
	return true
}

// Corners returns the 8 box corners. Corner i uses +Half on axis k when
// bit k of i is set.
func (o OBB) Corners() [8]math.Vec3 {
	var c [8]math.Vec3
	for i := range c {
		p := o.Center
		for k := 0; k < 3; k++ {
			h := o.Half.Get(k)
			if i&(1<<k) == 0 {
				h = -h
			}
			p = p.Add(o.Axes[k].Scale(h))
		}
		c[i] = p
	}
	return c
}

// AABB returns the axis-aligned box enclosing the oriented box.
func (o OBB) AABB() AABB {
	b := EmptyAABB()
	if o.IsEmpty() {
		return b
	}
	for _, p := range o.Corners() {
		b.Insert(p)
	}
	return b
}

// FitOBB fits a small-volume oriented box to points. The principal axes of
// the point covariance seed the box, then rotations around each axis are
// searched in iterations steps over a quarter turn, keeping the smallest
// volume found.
func FitOBB(points []math.Vec3, iterations int) OBB {
	if len(points) == 0 {
		return OBB{}
	}
	axes, ok := principalAxes(points)
	if !ok {
		return OBBFromAABB(AABBFromPoints(points))
	}
	best := boxAlong(points, axes)
	if iterations < 1 {
		return best
	}

	for k := 0; k < 3; k++ {
		pivot := best.Axes[k]
		a, b := best.Axes[(k+1)%3], best.Axes[(k+2)%3]
		for s := 1; s < iterations; s++ {
			angle := float32(s) * (gomath.Pi / 2) / float32(iterations)
			sin, cos := math32.Sincos(angle)
			var cand [3]math.Vec3
			cand[k] = pivot
			cand[(k+1)%3] = a.Scale(cos).Add(b.Scale(sin))
			cand[(k+2)%3] = b.Scale(cos).Sub(a.Scale(sin))
			if box := boxAlong(points, cand); box.Volume() < best.Volume() {
				best = box
			}
		}
	}
	return best
}

// principalAxes returns the eigenvectors of the covariance of points as a
// right-handed basis, largest variance first.
func principalAxes(points []math.Vec3) ([3]math.Vec3, bool) {
	var mean [3]float64
	for _, p := range points {
		mean[0] += float64(p.X)
		mean[1] += float64(p.Y)
		mean[2] += float64(p.Z)
	}
	n := float64(len(points))
	for i := range mean {
		mean[i] /= n
	}

	cov := make([]float64, 9)
	for _, p := range points {
		d := [3]float64{float64(p.X) - mean[0], float64(p.Y) - mean[1], float64(p.Z) - mean[2]}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				cov[r*3+c] += d[r] * d[c]
			}
		}
	}
	for i := range cov {
		cov[i] /= n
	}

	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(3, cov), true) {
		return [3]math.Vec3{}, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come in ascending order; take columns from the last.
	var axes [3]math.Vec3
	for i := 0; i < 3; i++ {
		col := 2 - i
		axes[i] = math.Vec3{
			X: float32(vecs.At(0, col)),
			Y: float32(vecs.At(1, col)),
			Z: float32(vecs.At(2, col)),
		}.Normalize()
	}
	axes[2] = axes[0].Cross(axes[1]).Normalize()
	if axes[0] == (math.Vec3{}) || axes[2] == (math.Vec3{}) {
		return [3]math.Vec3{}, false
	}
	return axes, true
}

// boxAlong returns the tight box of points for the given axes.
func boxAlong(points []math.Vec3, axes [3]math.Vec3) OBB {
	inf := float32(gomath.Inf(1))
	lo := [3]float32{inf, inf, inf}
	hi := [3]float32{-inf, -inf, -inf}
	for _, p := range points {
		for k := 0; k < 3; k++ {
			d := p.Dot(axes[k])
			lo[k] = min(lo[k], d)
			hi[k] = max(hi[k], d)
		}
	}
	var center math.Vec3
	var half [3]float32
	for k := 0; k < 3; k++ {
		center = center.Add(axes[k].Scale((lo[k] + hi[k]) / 2))
		half[k] = (hi[k] - lo[k]) / 2
	}
	return OBB{
		Center: center,
		Axes:   axes,
		Half:   math.Vec3{X: half[0], Y: half[1], Z: half[2]},
	}
}
