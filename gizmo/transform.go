package gizmo

import (
	"github.com/golang/geo/r3"

	"github.com/cloudtrim/trimbox/camera"
	"github.com/cloudtrim/trimbox/spatialmath"
	"github.com/cloudtrim/trimbox/utils"
)

// baseRotateScalar converts attenuated NDC deltas to radians for edge drags.
const baseRotateScalar = 0.2

// Engine turns pointer deltas into new box states. Every operation takes the
// box captured at drag start and the cumulative delta since then, and returns
// a fresh box; the anchor is never mutated. Applying cumulative deltas to the
// anchor instead of chaining per-move increments keeps drags exact and makes
// cancellation a matter of dropping the result.
type Engine struct {
	cfg Config
}

// NewEngine returns a transform engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// ResizeFace moves one face of the anchor box along its own axis by the given
// world distance, positive outward. The opposite face stays fixed, so the
// center shifts by half the size change. Extents clamp at the minimum rather
// than inverting.
func (e *Engine) ResizeFace(anchor *spatialmath.OrientedBox, axis spatialmath.Axis, dir, along float64) *spatialmath.OrientedBox {
	out := anchor.Clone()
	outward := anchor.LocalAxis(axis).Mul(dir)

	h := axis.Component(anchor.HalfExtents)
	newH := h + along/2
	if newH < spatialmath.MinHalfExtent {
		newH = spatialmath.MinHalfExtent
	}
	out.SetHalfExtents(axis.SetComponent(anchor.HalfExtents, newH))
	out.Center = anchor.Center.Add(outward.Mul(newH - h))
	return out
}

// ResizeCorner moves one corner of the anchor box by the given world
// displacement, holding the diagonally opposite corner fixed. The delta is
// decomposed in box-local axes so the resize respects the box orientation;
// rotation is untouched.
func (e *Engine) ResizeCorner(anchor *spatialmath.OrientedBox, sx, sy, sz float64, world r3.Vector) *spatialmath.OrientedBox {
	out := anchor.Clone()
	local := anchor.RotationMatrix().ApplyInverse(world)

	signs := [3]float64{sx, sy, sz}
	axes := [3]spatialmath.Axis{spatialmath.AxisX, spatialmath.AxisY, spatialmath.AxisZ}
	newHalf := anchor.HalfExtents
	center := anchor.Center
	for i, axis := range axes {
		h := axis.Component(anchor.HalfExtents)
		newH := h + signs[i]*axis.Component(local)/2
		if newH < spatialmath.MinHalfExtent {
			newH = spatialmath.MinHalfExtent
		}
		newHalf = axis.SetComponent(newHalf, newH)
		center = center.Add(anchor.LocalAxis(axis).Mul(signs[i] * (newH - h)))
	}
	out.SetHalfExtents(newHalf)
	out.Center = center
	return out
}

// RotateY yaws the anchor box about its own vertical axis. The yaw lands
// directly on the Y Euler angle so repeated drags accumulate on a single
// component and the other two stay bit-identical to the anchor. The result is
// wrapped into (-π, π] so long drags cannot grow the angle without bound.
func (e *Engine) RotateY(anchor *spatialmath.OrientedBox, radians float64) *spatialmath.OrientedBox {
	out := anchor.Clone()
	out.Rotation.Y = utils.CycleAngle(anchor.Rotation.Y + radians)
	return out
}

// Translate moves the anchor box by a world displacement.
func (e *Engine) Translate(anchor *spatialmath.OrientedBox, world r3.Vector) *spatialmath.OrientedBox {
	out := anchor.Clone()
	out.Center = anchor.Center.Add(world)
	return out
}

// TranslateAxis moves the anchor box by the component of a world displacement
// along one of its local axes.
func (e *Engine) TranslateAxis(anchor *spatialmath.OrientedBox, axis spatialmath.Axis, world r3.Vector) *spatialmath.OrientedBox {
	axisDir := anchor.LocalAxis(axis)
	return e.Translate(anchor, axisDir.Mul(world.Dot(axisDir)))
}

// DragFace resolves a face drag from cumulative NDC deltas. The view-plane
// displacement is projected onto the face's outward axis, so screen motion
// perpendicular to the arrow does nothing.
func (e *Engine) DragFace(anchor *spatialmath.OrientedBox, axis spatialmath.Axis, dir, dx, dy float64, cam camera.Camera) *spatialmath.OrientedBox {
	s := e.cfg.Sensitivity.Face
	view := camera.ViewPlaneDelta(cam, anchor.Center, dx*s, dy*s)
	outward := anchor.LocalAxis(axis).Mul(dir)
	return e.ResizeFace(anchor, axis, dir, view.Dot(outward))
}

// DragCorner resolves a corner drag from cumulative NDC deltas. With depth
// set, vertical screen motion is redirected along the camera's forward axis
// so the otherwise unreachable depth dimension can be resized.
func (e *Engine) DragCorner(anchor *spatialmath.OrientedBox, sx, sy, sz, dx, dy float64, cam camera.Camera, depth bool) *spatialmath.OrientedBox {
	s := e.cfg.Sensitivity.Corner
	var world r3.Vector
	if depth {
		world = cam.Forward().Mul(dy * s * camera.ViewPlaneScale(cam, anchor.Center))
	} else {
		world = camera.ViewPlaneDelta(cam, anchor.Center, dx*s, dy*s)
	}
	return e.ResizeCorner(anchor, sx, sy, sz, world)
}

// DragEdge resolves an edge ring drag: horizontal NDC motion yaws the box.
func (e *Engine) DragEdge(anchor *spatialmath.OrientedBox, dx float64) *spatialmath.OrientedBox {
	return e.RotateY(anchor, dx*e.cfg.Sensitivity.Edge*baseRotateScalar)
}

// DragTranslate resolves a free translate in the camera's view plane.
func (e *Engine) DragTranslate(anchor *spatialmath.OrientedBox, dx, dy float64, cam camera.Camera) *spatialmath.OrientedBox {
	s := e.cfg.Sensitivity.Translate
	return e.Translate(anchor, camera.ViewPlaneDelta(cam, anchor.Center, dx*s, dy*s))
}

// DragTranslateAxis resolves a translate constrained to one box-local axis.
func (e *Engine) DragTranslateAxis(anchor *spatialmath.OrientedBox, axis spatialmath.Axis, dx, dy float64, cam camera.Camera) *spatialmath.OrientedBox {
	s := e.cfg.Sensitivity.Translate
	view := camera.ViewPlaneDelta(cam, anchor.Center, dx*s, dy*s)
	return e.TranslateAxis(anchor, axis, view)
}
