package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// MinHalfExtent is the smallest half extent an OrientedBox may have on any
// axis. Mutations clamp rather than error so interactive resizing cannot
// collapse the box.
const MinHalfExtent = 0.05

// Axis identifies one of the three local box axes.
type Axis int

// The three local axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Vector returns the unit vector of the axis.
func (a Axis) Vector() r3.Vector {
	switch a {
	case AxisX:
		return r3.Vector{X: 1}
	case AxisY:
		return r3.Vector{Y: 1}
	default:
		return r3.Vector{Z: 1}
	}
}

// Component returns the axis component of the vector.
func (a Axis) Component(v r3.Vector) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// SetComponent returns v with the axis component replaced.
func (a Axis) SetComponent(v r3.Vector, val float64) r3.Vector {
	switch a {
	case AxisX:
		v.X = val
	case AxisY:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Ordered list of box corner sign triples.
var boxCornerSigns = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// The four vertical edges of the box as (x, z) sign pairs, indexed the way
// the edge rotation handles are laid out.
var verticalEdgeSigns = [4][2]float64{
	{1, 1},
	{1, -1},
	{-1, 1},
	{-1, -1},
}

// OrientedBox is a rectangular volume with a center, per-axis half extents
// and a rotation. It is the trim box the manipulator mutates and the crop
// kernel classifies against.
type OrientedBox struct {
	Center      r3.Vector
	HalfExtents r3.Vector
	Rotation    *EulerAngles
}

// NewOrientedBox returns a box with the given center, half extents and
// rotation. Half extents are clamped to MinHalfExtent.
func NewOrientedBox(center, halfExtents r3.Vector, rotation *EulerAngles) *OrientedBox {
	if rotation == nil {
		rotation = NewZeroEulerAngles()
	}
	return &OrientedBox{
		Center:      center,
		HalfExtents: clampHalfExtents(halfExtents),
		Rotation:    rotation,
	}
}

func clampHalfExtents(h r3.Vector) r3.Vector {
	return r3.Vector{
		X: math.Max(h.X, MinHalfExtent),
		Y: math.Max(h.Y, MinHalfExtent),
		Z: math.Max(h.Z, MinHalfExtent),
	}
}

// SetHalfExtents replaces the half extents, clamped to MinHalfExtent.
func (ob *OrientedBox) SetHalfExtents(h r3.Vector) {
	ob.HalfExtents = clampHalfExtents(h)
}

// String returns a human readable description of the box.
func (ob *OrientedBox) String() string {
	return fmt.Sprintf("OrientedBox | Center: %.3f,%.3f,%.3f | Half: %.3f,%.3f,%.3f | Rot: %.3f,%.3f,%.3f",
		ob.Center.X, ob.Center.Y, ob.Center.Z,
		ob.HalfExtents.X, ob.HalfExtents.Y, ob.HalfExtents.Z,
		ob.Rotation.X, ob.Rotation.Y, ob.Rotation.Z)
}

// Clone returns a deep copy of the box.
func (ob *OrientedBox) Clone() *OrientedBox {
	return &OrientedBox{
		Center:      ob.Center,
		HalfExtents: ob.HalfExtents,
		Rotation:    ob.Rotation.Clone(),
	}
}

// AlmostEqual compares the box with another within epsilon on every field.
func (ob *OrientedBox) AlmostEqual(other *OrientedBox, epsilon float64) bool {
	return ob.Center.Sub(other.Center).Norm() < epsilon &&
		ob.HalfExtents.Sub(other.HalfExtents).Norm() < epsilon &&
		ob.Rotation.AlmostEqual(other.Rotation, epsilon)
}

// RotationMatrix returns the box rotation as a matrix.
func (ob *OrientedBox) RotationMatrix() *RotationMatrix {
	return ob.Rotation.RotationMatrix()
}

// LocalToWorld maps a point in box-local coordinates to world space.
func (ob *OrientedBox) LocalToWorld(p r3.Vector) r3.Vector {
	return ob.RotationMatrix().Apply(p).Add(ob.Center)
}

// WorldToLocal maps a world point into box-local coordinates.
func (ob *OrientedBox) WorldToLocal(p r3.Vector) r3.Vector {
	return ob.RotationMatrix().ApplyInverse(p.Sub(ob.Center))
}

// LocalAxis returns the world direction of the given local box axis.
func (ob *OrientedBox) LocalAxis(axis Axis) r3.Vector {
	return ob.RotationMatrix().Apply(axis.Vector())
}

// Corner returns the world position of the corner selected by the three
// signs, each ±1.
func (ob *OrientedBox) Corner(sx, sy, sz float64) r3.Vector {
	local := r3.Vector{
		X: sx * ob.HalfExtents.X,
		Y: sy * ob.HalfExtents.Y,
		Z: sz * ob.HalfExtents.Z,
	}
	return ob.LocalToWorld(local)
}

// Corners returns the eight world corners in the boxCornerSigns order.
func (ob *OrientedBox) Corners() []r3.Vector {
	corners := make([]r3.Vector, 0, 8)
	for _, s := range boxCornerSigns {
		corners = append(corners, ob.Corner(s.X, s.Y, s.Z))
	}
	return corners
}

// FaceCenter returns the world center of the face on the given axis and
// direction (±1).
func (ob *OrientedBox) FaceCenter(axis Axis, dir float64) r3.Vector {
	local := axis.SetComponent(r3.Vector{}, dir*axis.Component(ob.HalfExtents))
	return ob.LocalToWorld(local)
}

// VerticalEdgeSigns returns the (x, z) sign pair of the indexed vertical
// edge. Index order is (+x,+z), (+x,-z), (-x,+z), (-x,-z).
func VerticalEdgeSigns(index int) (sx, sz float64) {
	s := verticalEdgeSigns[index&3]
	return s[0], s[1]
}

// VerticalEdge returns the world endpoints of the indexed vertical edge,
// bottom then top.
func (ob *OrientedBox) VerticalEdge(index int) (r3.Vector, r3.Vector) {
	sx, sz := VerticalEdgeSigns(index)
	bottom := ob.LocalToWorld(r3.Vector{X: sx * ob.HalfExtents.X, Y: -ob.HalfExtents.Y, Z: sz * ob.HalfExtents.Z})
	top := ob.LocalToWorld(r3.Vector{X: sx * ob.HalfExtents.X, Y: ob.HalfExtents.Y, Z: sz * ob.HalfExtents.Z})
	return bottom, top
}

// ContainmentSlack returns, for a point already in box-local coordinates,
// the smallest distance from the point to a face plane along any axis.
// Non-negative means the point is inside the box.
func (ob *OrientedBox) ContainmentSlack(local r3.Vector) float64 {
	sx := ob.HalfExtents.X - math.Abs(local.X)
	sy := ob.HalfExtents.Y - math.Abs(local.Y)
	sz := ob.HalfExtents.Z - math.Abs(local.Z)
	return math.Min(sx, math.Min(sy, sz))
}

// Contains returns whether the world point lies inside or on the box.
func (ob *OrientedBox) Contains(p r3.Vector) bool {
	return ob.ContainmentSlack(ob.WorldToLocal(p)) >= 0
}

// FaceHit describes the face a ray entered an OrientedBox through.
type FaceHit struct {
	Point r3.Vector // world intersection point
	Axis  Axis
	Dir   float64 // ±1
}

// IntersectRay performs a slab test against the box in local space and, on a
// hit, reports the entry point and which face it lies on.
func (ob *OrientedBox) IntersectRay(ray Ray) (FaceHit, bool) {
	origin := ob.WorldToLocal(ray.Origin)
	dir := ob.RotationMatrix().ApplyInverse(ray.Direction)

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	entryAxis := AxisX
	exitAxis := AxisX
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		o := axis.Component(origin)
		d := axis.Component(dir)
		h := axis.Component(ob.HalfExtents)
		if math.Abs(d) < 1e-12 {
			if math.Abs(o) > h {
				return FaceHit{}, false
			}
			continue
		}
		t1 := (-h - o) / d
		t2 := (h - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
			entryAxis = axis
		}
		if t2 < tMax {
			tMax = t2
			exitAxis = axis
		}
	}
	if tMax < tMin || tMax < 0 {
		return FaceHit{}, false
	}
	t := tMin
	hitAxis := entryAxis
	if t < 0 {
		// origin is inside the box; report the exit face
		t = tMax
		hitAxis = exitAxis
	}
	local := origin.Add(dir.Mul(t))
	hitDir := 1.0
	if hitAxis.Component(local) < 0 {
		hitDir = -1
	}
	return FaceHit{
		Point: ob.LocalToWorld(local),
		Axis:  hitAxis,
		Dir:   hitDir,
	}, true
}
