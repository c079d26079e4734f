package geom

import (
	gomath "math"

	"github.com/Faultbox/reconview/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns a box that contains nothing; inserting a point makes
// it the box of that point.
func EmptyAABB() AABB {
	inf := float32(gomath.Inf(1))
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// AABBFromPoints returns the bounding box of points.
func AABBFromPoints(points []math.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b.Insert(p)
	}
	return b
}

// IsEmpty returns true if max < min on any axis.
func (b AABB) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Insert grows the box to contain p.
func (b *AABB) Insert(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// InsertBox grows the box to contain other.
func (b *AABB) InsertBox(other AABB) {
	if other.IsEmpty() {
		return
	}
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// Center returns the box center.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent on each axis.
func (b AABB) Size() math.Vec3 {
	if b.IsEmpty() {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Radius returns half the diagonal length.
func (b AABB) Radius() float32 {
	return b.Size().Length() * 0.5
}

// Enlarge returns the box grown by margin on every side.
func (b AABB) Enlarge(margin float32) AABB {
	m := math.Vec3{X: margin, Y: margin, Z: margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Contains reports whether p is inside the box (borders included).
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
