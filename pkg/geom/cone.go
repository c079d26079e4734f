package geom

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/reconview/pkg/math"
)

// Cone is an infinite circular cone with its apex at the ray origin.
type Cone struct {
	Ray Ray
	tan float32
}

// NewCone creates a cone around ray with the given half-angle in radians.
func NewCone(ray Ray, halfAngle float32) Cone {
	return Cone{Ray: ray, tan: math32.Tan(halfAngle)}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * gomath.Pi / 180
}

// Classify reports whether p lies inside the cone, in front of the apex,
// and returns its distance along the cone axis.
func (c Cone) Classify(p math.Vec3) (dist float32, inside bool) {
	v := p.Sub(c.Ray.Origin)
	t := v.Dot(c.Ray.Direction)
	if t <= 0 {
		return 0, false
	}
	perpSq := v.LengthSq() - t*t
	if perpSq < 0 {
		perpSq = 0
	}
	r := t * c.tan
	return t, perpSq <= r*r
}

// IntersectsSphere is a conservative test: it never rejects a sphere that
// holds a point inside the cone. tNear is a lower bound of the axial
// distance of any such point.
func (c Cone) IntersectsSphere(center math.Vec3, radius float32) (tNear float32, ok bool) {
	v := center.Sub(c.Ray.Origin)
	t := v.Dot(c.Ray.Direction)
	if t+radius <= 0 {
		return 0, false
	}
	perpSq := v.LengthSq() - t*t
	if perpSq < 0 {
		perpSq = 0
	}
	allowance := (t+radius)*c.tan + radius
	if perpSq > allowance*allowance {
		return 0, false
	}
	return max(t-radius, 0), true
}
