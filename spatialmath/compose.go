package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/cloudtrim/trimbox/utils"
)

// RotationMatrixToEuler extracts intrinsic XYZ Euler angles from a rotation
// matrix.
func RotationMatrixToEuler(rm *RotationMatrix) *EulerAngles {
	// R = Rx * Ry * Rz, so R[0][2] = sin(y)
	sy := utils.Clamp(rm.mat[2], -1, 1)
	y := math.Asin(sy)
	var x, z float64
	if math.Abs(sy) < 0.9999999 {
		x = math.Atan2(-rm.mat[5], rm.mat[8])
		z = math.Atan2(-rm.mat[1], rm.mat[0])
	} else {
		// gimbal lock: fold the lost degree of freedom into x
		x = math.Atan2(rm.mat[7], rm.mat[4])
		z = 0
	}
	return &EulerAngles{X: x, Y: y, Z: z}
}

// ComposeEuler returns the rotation equivalent to applying inner first and
// outer second.
func ComposeEuler(outer, inner *EulerAngles) *EulerAngles {
	q := quat.Mul(outer.Quaternion(), inner.Quaternion())
	return RotationMatrixToEuler(QuatToRotationMatrix(q))
}
