package gizmo

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/cloudtrim/trimbox/camera"
	"github.com/cloudtrim/trimbox/spatialmath"
)

func unitBox() *spatialmath.OrientedBox {
	return spatialmath.NewOrientedBox(
		r3.Vector{},
		r3.Vector{X: 1, Y: 1, Z: 1},
		spatialmath.NewZeroEulerAngles(),
	)
}

func testCamera() *camera.Pinhole {
	return camera.NewPinhole(r3.Vector{Z: 10}, r3.Vector{}, math.Pi/3, 1)
}

func TestResizeFace(t *testing.T) {
	e := NewEngine(DefaultConfig())
	box := unitBox()

	out := e.ResizeFace(box, spatialmath.AxisX, 1, 0.5)
	test.That(t, out.HalfExtents.X, test.ShouldEqual, 1.25)
	test.That(t, out.HalfExtents.Y, test.ShouldEqual, 1.0)
	test.That(t, out.HalfExtents.Z, test.ShouldEqual, 1.0)
	test.That(t, out.Center.X, test.ShouldEqual, 0.25)

	// the opposite face must not move
	test.That(t, out.Center.X-out.HalfExtents.X, test.ShouldEqual, -1.0)

	// the anchor is untouched
	test.That(t, box.HalfExtents.X, test.ShouldEqual, 1.0)
	test.That(t, box.Center.X, test.ShouldEqual, 0.0)
}

func TestResizeFaceClamp(t *testing.T) {
	e := NewEngine(DefaultConfig())
	out := e.ResizeFace(unitBox(), spatialmath.AxisY, -1, -10)
	test.That(t, out.HalfExtents.Y, test.ShouldEqual, spatialmath.MinHalfExtent)
}

func TestResizeFacePreservesRotation(t *testing.T) {
	e := NewEngine(DefaultConfig())
	box := spatialmath.NewOrientedBox(
		r3.Vector{X: 1},
		r3.Vector{X: 1, Y: 1, Z: 1},
		spatialmath.NewEulerAngles(0.3, 0.7, -0.2),
	)
	out := e.ResizeFace(box, spatialmath.AxisZ, 1, 0.4)
	test.That(t, out.Rotation.X, test.ShouldEqual, 0.3)
	test.That(t, out.Rotation.Y, test.ShouldEqual, 0.7)
	test.That(t, out.Rotation.Z, test.ShouldEqual, -0.2)
}

func TestResizeCorner(t *testing.T) {
	e := NewEngine(DefaultConfig())
	out := e.ResizeCorner(unitBox(), 1, 1, 1, r3.Vector{X: -1, Y: -1, Z: -1})

	test.That(t, out.HalfExtents.X, test.ShouldEqual, 0.5)
	test.That(t, out.HalfExtents.Y, test.ShouldEqual, 0.5)
	test.That(t, out.HalfExtents.Z, test.ShouldEqual, 0.5)
	test.That(t, out.Center.X, test.ShouldEqual, -0.5)
	test.That(t, out.Center.Y, test.ShouldEqual, -0.5)
	test.That(t, out.Center.Z, test.ShouldEqual, -0.5)

	// the diagonal corner stays put
	anchorBefore := unitBox().Corner(-1, -1, -1)
	anchorAfter := out.Corner(-1, -1, -1)
	test.That(t, anchorAfter.Sub(anchorBefore).Norm(), test.ShouldBeLessThan, 1e-12)
}

func TestResizeCornerRotatedAnchor(t *testing.T) {
	e := NewEngine(DefaultConfig())
	box := spatialmath.NewOrientedBox(
		r3.Vector{X: 2, Y: -1, Z: 0.5},
		r3.Vector{X: 1, Y: 0.8, Z: 1.2},
		spatialmath.NewEulerAngles(0, math.Pi/5, 0),
	)
	before := box.Corner(1, -1, 1)
	out := e.ResizeCorner(box, -1, 1, -1, r3.Vector{X: 0.3, Y: -0.2, Z: 0.4})
	after := out.Corner(1, -1, 1)
	test.That(t, after.Sub(before).Norm(), test.ShouldBeLessThan, 1e-9)
	test.That(t, out.Rotation.AlmostEqual(box.Rotation, 1e-12), test.ShouldBeTrue)
}

func TestRotateYLeavesOtherAngles(t *testing.T) {
	e := NewEngine(DefaultConfig())
	box := spatialmath.NewOrientedBox(
		r3.Vector{},
		r3.Vector{X: 1, Y: 1, Z: 1},
		spatialmath.NewEulerAngles(0.1, 0.2, 0.3),
	)
	out := e.RotateY(box, 0.5)
	test.That(t, out.Rotation.X, test.ShouldEqual, 0.1)
	test.That(t, out.Rotation.Y, test.ShouldEqual, 0.7)
	test.That(t, out.Rotation.Z, test.ShouldEqual, 0.3)
	test.That(t, out.HalfExtents, test.ShouldResemble, box.HalfExtents)
}

func TestTranslateAxisParallel(t *testing.T) {
	e := NewEngine(DefaultConfig())
	box := spatialmath.NewOrientedBox(
		r3.Vector{},
		r3.Vector{X: 1, Y: 1, Z: 1},
		spatialmath.NewEulerAngles(0.4, -0.9, 0.2),
	)
	out := e.TranslateAxis(box, spatialmath.AxisX, r3.Vector{X: 1.3, Y: -0.4, Z: 2.2})

	disp := out.Center.Sub(box.Center)
	axisDir := box.LocalAxis(spatialmath.AxisX)
	test.That(t, disp.Cross(axisDir).Norm(), test.ShouldBeLessThan, 1e-9)
}

func TestDragEdge(t *testing.T) {
	e := NewEngine(DefaultConfig())
	out := e.DragEdge(unitBox(), (math.Pi/4)/0.8)
	test.That(t, out.Rotation.Y, test.ShouldAlmostEqual, math.Pi/4, 1e-12)
	test.That(t, out.Rotation.X, test.ShouldEqual, 0.0)
	test.That(t, out.Rotation.Z, test.ShouldEqual, 0.0)
}

func TestDragFaceProjectsOntoAxis(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	cam := testCamera()
	box := unitBox()

	// a horizontal NDC delta that maps to a +0.5 world displacement
	scale := camera.ViewPlaneScale(cam, box.Center)
	dx := 0.5 / (cfg.Sensitivity.Face * scale)

	out := e.DragFace(box, spatialmath.AxisX, 1, dx, 0, cam)
	test.That(t, out.HalfExtents.X, test.ShouldAlmostEqual, 1.25, 1e-9)
	test.That(t, out.Center.X, test.ShouldAlmostEqual, 0.25, 1e-9)

	// vertical motion is perpendicular to the x arrow and does nothing
	same := e.DragFace(box, spatialmath.AxisX, 1, 0, 0.4, cam)
	test.That(t, same.AlmostEqual(box, 1e-12), test.ShouldBeTrue)
}

func TestDragCornerDepthRedirect(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	cam := testCamera()
	box := unitBox()

	// with the primary modifier, vertical motion rides the camera forward
	// axis, which points along -z here
	out := e.DragCorner(box, 1, 1, 1, 0, 0.02, cam, true)
	test.That(t, out.HalfExtents.X, test.ShouldEqual, 1.0)
	test.That(t, out.HalfExtents.Y, test.ShouldEqual, 1.0)
	test.That(t, out.HalfExtents.Z, test.ShouldBeLessThan, 1.0)
}

func TestDragTranslate(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)
	cam := testCamera()
	box := unitBox()

	scale := camera.ViewPlaneScale(cam, box.Center)
	dx := 1.0 / (cfg.Sensitivity.Translate * scale)
	out := e.DragTranslate(box, dx, 0, cam)
	test.That(t, out.Center.X, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, out.Center.Y, test.ShouldAlmostEqual, 0.0, 1e-9)
	test.That(t, out.HalfExtents, test.ShouldResemble, box.HalfExtents)
	test.That(t, out.Rotation.AlmostEqual(box.Rotation, 1e-12), test.ShouldBeTrue)
}
