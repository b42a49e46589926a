// Package spatialmath defines the spatial mathematical operations needed to
// manipulate an oriented trim box over a point cloud: Euler rotations,
// rotation matrices, rays, and axis-aligned and oriented boxes.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/cloudtrim/trimbox/utils"
)

// EulerAngles are three rotations in radians about the X, Y and Z axes,
// applied intrinsically in XYZ order.
type EulerAngles struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewZeroEulerAngles returns an EulerAngles with no rotation.
func NewZeroEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// NewEulerAngles returns an EulerAngles with the given rotations in radians.
func NewEulerAngles(x, y, z float64) *EulerAngles {
	return &EulerAngles{X: x, Y: y, Z: z}
}

// Quaternion returns the quaternion representation of the rotation.
func (ea *EulerAngles) Quaternion() quat.Number {
	cx, sx := math.Cos(ea.X/2), math.Sin(ea.X/2)
	cy, sy := math.Cos(ea.Y/2), math.Sin(ea.Y/2)
	cz, sz := math.Cos(ea.Z/2), math.Sin(ea.Z/2)

	qx := quat.Number{Real: cx, Imag: sx}
	qy := quat.Number{Real: cy, Jmag: sy}
	qz := quat.Number{Real: cz, Kmag: sz}
	return quat.Mul(quat.Mul(qx, qy), qz)
}

// RotationMatrix returns the rotation matrix representation of the rotation.
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(ea.Quaternion())
}

// Clone returns a copy of the angles.
func (ea *EulerAngles) Clone() *EulerAngles {
	return &EulerAngles{X: ea.X, Y: ea.Y, Z: ea.Z}
}

// AlmostEqual returns whether the two rotations are within epsilon of each
// other on every axis.
func (ea *EulerAngles) AlmostEqual(other *EulerAngles, epsilon float64) bool {
	return utils.Float64AlmostEqual(ea.X, other.X, epsilon) &&
		utils.Float64AlmostEqual(ea.Y, other.Y, epsilon) &&
		utils.Float64AlmostEqual(ea.Z, other.Z, epsilon)
}
