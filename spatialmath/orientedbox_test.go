package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestHalfExtentClamping(t *testing.T) {
	ob := NewOrientedBox(r3.Vector{}, r3.Vector{X: 1, Y: 0.001, Z: -3}, nil)
	test.That(t, ob.HalfExtents.X, test.ShouldEqual, 1.0)
	test.That(t, ob.HalfExtents.Y, test.ShouldEqual, MinHalfExtent)
	test.That(t, ob.HalfExtents.Z, test.ShouldEqual, MinHalfExtent)

	ob.SetHalfExtents(r3.Vector{X: 0, Y: 2, Z: 0.06})
	test.That(t, ob.HalfExtents.X, test.ShouldEqual, MinHalfExtent)
	test.That(t, ob.HalfExtents.Y, test.ShouldEqual, 2.0)
	test.That(t, ob.HalfExtents.Z, test.ShouldEqual, 0.06)
}

func TestWorldLocalRoundTrip(t *testing.T) {
	ob := NewOrientedBox(
		r3.Vector{X: 1, Y: 2, Z: 3},
		r3.Vector{X: 1, Y: 1, Z: 1},
		NewEulerAngles(0.3, -0.7, 1.1),
	)
	for _, p := range []r3.Vector{{}, {X: 0.5}, {X: -2, Y: 4, Z: 1}, {X: 10, Y: -10, Z: 0.25}} {
		back := ob.LocalToWorld(ob.WorldToLocal(p))
		test.That(t, back.Sub(p).Norm(), test.ShouldBeLessThan, 1e-10)
	}
}

func TestCornersAndFaceCenters(t *testing.T) {
	ob := NewOrientedBox(r3.Vector{X: 1}, r3.Vector{X: 1, Y: 2, Z: 3}, nil)

	corners := ob.Corners()
	test.That(t, len(corners), test.ShouldEqual, 8)
	test.That(t, corners[0], test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 3})
	test.That(t, corners[7], test.ShouldResemble, r3.Vector{X: 0, Y: -2, Z: -3})

	test.That(t, ob.FaceCenter(AxisX, 1), test.ShouldResemble, r3.Vector{X: 2})
	test.That(t, ob.FaceCenter(AxisY, -1), test.ShouldResemble, r3.Vector{X: 1, Y: -2})
	test.That(t, ob.FaceCenter(AxisZ, 1), test.ShouldResemble, r3.Vector{X: 1, Z: 3})
}

func TestRotatedCorner(t *testing.T) {
	// 90 degrees about Y sends local +X to world -Z
	ob := NewOrientedBox(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, NewEulerAngles(0, math.Pi/2, 0))
	fc := ob.FaceCenter(AxisX, 1)
	test.That(t, fc.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, fc.Z, test.ShouldAlmostEqual, -1, 1e-12)
}

func TestContainmentSlack(t *testing.T) {
	ob := NewOrientedBox(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, nil)

	cases := []struct {
		point  r3.Vector
		inside bool
		slack  float64
	}{
		{r3.Vector{}, true, 1},
		{r3.Vector{X: 1}, true, 0},
		{r3.Vector{X: 0.98, Y: 0.5}, true, 0.02},
		{r3.Vector{X: 1.01}, false, -0.01},
		{r3.Vector{X: -3, Y: -3, Z: -3}, false, -2},
	}
	for _, c := range cases {
		test.That(t, ob.Contains(c.point), test.ShouldEqual, c.inside)
		test.That(t, ob.ContainmentSlack(c.point), test.ShouldAlmostEqual, c.slack, 1e-12)
	}
}

func TestIntersectRay(t *testing.T) {
	ob := NewOrientedBox(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1}, nil)

	hit, ok := ob.IntersectRay(NewRay(r3.Vector{X: 5, Y: 0.25, Z: 0.25}, r3.Vector{X: -1}))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Axis, test.ShouldEqual, AxisX)
	test.That(t, hit.Dir, test.ShouldEqual, 1.0)
	test.That(t, hit.Point.X, test.ShouldAlmostEqual, 1, 1e-12)

	hit, ok = ob.IntersectRay(NewRay(r3.Vector{X: 0.25, Y: -4, Z: 0}, r3.Vector{Y: 1}))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Axis, test.ShouldEqual, AxisY)
	test.That(t, hit.Dir, test.ShouldEqual, -1.0)

	_, ok = ob.IntersectRay(NewRay(r3.Vector{X: 5, Y: 5, Z: 5}, r3.Vector{X: 1}))
	test.That(t, ok, test.ShouldBeFalse)

	// origin inside reports the exit face
	hit, ok = ob.IntersectRay(NewRay(r3.Vector{}, r3.Vector{Z: 1}))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, hit.Axis, test.ShouldEqual, AxisZ)
	test.That(t, hit.Dir, test.ShouldEqual, 1.0)
}

func TestVerticalEdges(t *testing.T) {
	ob := NewOrientedBox(r3.Vector{}, r3.Vector{X: 2, Y: 1, Z: 3}, nil)
	bottom, top := ob.VerticalEdge(0)
	test.That(t, bottom, test.ShouldResemble, r3.Vector{X: 2, Y: -1, Z: 3})
	test.That(t, top, test.ShouldResemble, r3.Vector{X: 2, Y: 1, Z: 3})

	sx, sz := VerticalEdgeSigns(3)
	test.That(t, sx, test.ShouldEqual, -1.0)
	test.That(t, sz, test.ShouldEqual, -1.0)
}
