package gizmo

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cloudtrim/trimbox/camera"
	"github.com/cloudtrim/trimbox/spatialmath"
)

// Fixed yaw of each edge ring so the quarter sweep points into the box, by
// edge index.
var edgeRingYaw = [4]float64{math.Pi / 2, 0, math.Pi, -math.Pi / 2}

// UpdateTransforms re-derives every handle's world transform from the box
// and camera. Handle transforms are a pure function of those two; nothing
// here is stateful, so the registry can never go stale with respect to the
// box.
func (r *Registry) UpdateTransforms(box *spatialmath.OrientedBox, cam camera.Camera) {
	distScale := cam.Position().Sub(box.Center).Norm() / r.cfg.HandleReferenceDistance

	for _, h := range r.handles {
		switch h.Kind {
		case KindCorner:
			r.placeCorner(h, box, distScale)
		case KindFace:
			r.placeFaceArrow(h, box, cam, distScale)
		case KindEdge:
			r.placeEdgeRing(h, box, distScale)
		case KindAxis:
			r.placeAxisArrow(h, box, distScale)
		}
	}
}

func (r *Registry) placeCorner(h *Handle, box *spatialmath.OrientedBox, distScale float64) {
	pos := box.Corner(h.SX, h.SY, h.SZ)
	for _, obj := range h.objects() {
		obj.Position = pos
		obj.Rotation = box.Rotation.Clone()
		obj.Scale = distScale
	}
}

func (r *Registry) placeFaceArrow(h *Handle, box *spatialmath.OrientedBox, cam camera.Camera, distScale float64) {
	offset := r.cfg.ArrowOffset - r.cfg.PivotCompensation
	dist := h.Axis.Component(box.HalfExtents) + offset
	axisDir := box.LocalAxis(h.Axis).Mul(h.Dir)
	pos := box.Center.Add(axisDir.Mul(dist))

	h.Mesh.Position = pos
	h.Mesh.Rotation = r.faceArrowRotation(h, box, cam)
	h.Mesh.Scale = distScale
}

// faceArrowRotation orients an arrow so it points outward along its face
// axis and spins about that axis to face the camera. The arrow model points
// +Y with its base at the origin, so a quarter-turn base offset puts the
// head outward for the X and Z axes.
func (r *Registry) faceArrowRotation(h *Handle, box *spatialmath.OrientedBox, cam camera.Camera) *spatialmath.EulerAngles {
	var base *spatialmath.EulerAngles
	billboardAxis := h.Axis
	switch h.Axis {
	case spatialmath.AxisX:
		base = spatialmath.NewEulerAngles(0, 0, -h.Dir*math.Pi/2)
	case spatialmath.AxisY:
		var flip float64
		if h.Dir < 0 {
			flip = math.Pi
		}
		base = spatialmath.NewEulerAngles(flip, 0, 0)
	default:
		base = spatialmath.NewEulerAngles(h.Dir*math.Pi/2, 0, 0)
		billboardAxis = r.cfg.BillboardAxis()
	}

	spin := spatialmath.NewZeroEulerAngles()
	if angle, ok := billboardAngle(box, billboardAxis, cam.Position()); ok {
		spin = axisEuler(billboardAxis, angle)
	}
	return spatialmath.ComposeEuler(box.Rotation, spatialmath.ComposeEuler(spin, base))
}

// axisEuler returns a rotation of angle about a single principal axis.
func axisEuler(axis spatialmath.Axis, angle float64) *spatialmath.EulerAngles {
	switch axis {
	case spatialmath.AxisX:
		return spatialmath.NewEulerAngles(angle, 0, 0)
	case spatialmath.AxisY:
		return spatialmath.NewEulerAngles(0, angle, 0)
	default:
		return spatialmath.NewEulerAngles(0, 0, angle)
	}
}

// billboardAngle returns the spin about the given box-local axis that turns
// a reference direction toward the camera.
func billboardAngle(box *spatialmath.OrientedBox, axis spatialmath.Axis, camPos r3.Vector) (float64, bool) {
	toCam := box.WorldToLocal(camPos)
	// project onto the plane perpendicular to the axis
	toCam = axis.SetComponent(toCam, 0)
	if toCam.Norm() < 1e-9 {
		return 0, false
	}
	toCam = toCam.Normalize()
	switch axis {
	case spatialmath.AxisX:
		return math.Atan2(toCam.Y, toCam.Z), true
	case spatialmath.AxisY:
		return math.Atan2(toCam.X, toCam.Z), true
	default:
		return math.Atan2(toCam.Y, toCam.X), true
	}
}

func (r *Registry) placeEdgeRing(h *Handle, box *spatialmath.OrientedBox, distScale float64) {
	sx, sz := spatialmath.VerticalEdgeSigns(h.Index)
	pos := box.LocalToWorld(r3.Vector{X: sx * box.HalfExtents.X, Z: sz * box.HalfExtents.Z})

	yaw := spatialmath.NewEulerAngles(0, edgeRingYaw[h.Index], 0)
	for _, obj := range h.objects() {
		obj.Position = pos
		obj.Rotation = spatialmath.ComposeEuler(box.Rotation, yaw)
		obj.Scale = distScale
	}
}

func (r *Registry) placeAxisArrow(h *Handle, box *spatialmath.OrientedBox, distScale float64) {
	pos := r.followAnchor(box).Add(r3.Vector{Y: box.HalfExtents.Y + axisArrowLift})

	var base *spatialmath.EulerAngles
	switch h.Axis {
	case spatialmath.AxisX:
		base = spatialmath.NewEulerAngles(0, 0, -math.Pi/2)
	case spatialmath.AxisY:
		base = spatialmath.NewZeroEulerAngles()
	default:
		base = spatialmath.NewEulerAngles(math.Pi/2, 0, 0)
	}

	h.Mesh.Position = pos
	h.Mesh.Rotation = spatialmath.ComposeEuler(box.Rotation, base)
	h.Mesh.Scale = distScale
}
