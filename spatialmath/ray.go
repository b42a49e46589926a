package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Ray is a half line with an origin and a unit direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewRay returns a ray through origin with the given direction, normalized.
func NewRay(origin, direction r3.Vector) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point t units along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns the point where the ray crosses the plane defined by
// a point and a normal. The second return is false when the ray is parallel
// to the plane or the plane is behind the origin.
func (r Ray) IntersectPlane(planePoint, planeNormal r3.Vector) (r3.Vector, bool) {
	denom := r.Direction.Dot(planeNormal)
	if math.Abs(denom) < 1e-9 {
		return r3.Vector{}, false
	}
	t := planePoint.Sub(r.Origin).Dot(planeNormal) / denom
	if t < 0 {
		return r3.Vector{}, false
	}
	return r.At(t), true
}

// IntersectTriangle returns the distance along the ray at which it crosses
// the given triangle, using the Möller-Trumbore test. Backfaces count as
// hits. The second return is false on a miss.
func (r Ray) IntersectTriangle(p0, p1, p2 r3.Vector) (float64, bool) {
	const eps = 1e-12
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	h := r.Direction.Cross(e2)
	a := e1.Dot(h)
	if math.Abs(a) < eps {
		return 0, false
	}
	f := 1.0 / a
	s := r.Origin.Sub(p0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := f * e2.Dot(q)
	if t < eps {
		return 0, false
	}
	return t, true
}

// DistanceToSegment returns the closest distance between the ray and the
// segment [a, b], along with the distance along the ray to the closest
// approach.
func (r Ray) DistanceToSegment(a, b r3.Vector) (dist, along float64) {
	u := r.Direction
	v := b.Sub(a)
	w := r.Origin.Sub(a)

	uu := u.Dot(u)
	uv := u.Dot(v)
	vv := v.Dot(v)
	uw := u.Dot(w)
	vw := v.Dot(w)

	denom := uu*vv - uv*uv
	var s, t float64
	if denom < 1e-12 {
		// parallel; clamp to segment start
		s = 0
		if uu > 1e-12 {
			s = -uw / uu
		}
	} else {
		s = (uv*vw - vv*uw) / denom
		t = (uu*vw - uv*uw) / denom
	}
	if s < 0 {
		s = 0
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	// re-solve s for the clamped t
	if uu > 1e-12 {
		s = (v.Mul(t).Sub(w)).Dot(u) / uu
		if s < 0 {
			s = 0
		}
	}
	p := r.At(s)
	q := a.Add(v.Mul(t))
	return p.Sub(q).Norm(), s
}
