package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestRotationMatrixRows(t *testing.T) {
	rm := NewZeroEulerAngles().RotationMatrix()
	test.That(t, rm.Row(0), test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, rm.Row(1), test.ShouldResemble, r3.Vector{Y: 1})
	test.That(t, rm.Row(2), test.ShouldResemble, r3.Vector{Z: 1})
}

func TestSingleAxisRotations(t *testing.T) {
	cases := []struct {
		name     string
		angles   *EulerAngles
		in, want r3.Vector
	}{
		{"yaw 90 about y", NewEulerAngles(0, math.Pi/2, 0), r3.Vector{X: 1}, r3.Vector{Z: -1}},
		{"roll 90 about x", NewEulerAngles(math.Pi/2, 0, 0), r3.Vector{Y: 1}, r3.Vector{Z: 1}},
		{"90 about z", NewEulerAngles(0, 0, math.Pi/2), r3.Vector{X: 1}, r3.Vector{Y: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.angles.RotationMatrix().Apply(c.in)
			test.That(t, got.Sub(c.want).Norm(), test.ShouldBeLessThan, 1e-12)
		})
	}
}

func TestIntrinsicXYZOrder(t *testing.T) {
	// intrinsic XYZ equals applying Rz first, then Ry, then Rx in the
	// world frame: R = Rx * Ry * Rz
	ea := NewEulerAngles(0.4, 0.9, -1.3)
	rx := NewEulerAngles(ea.X, 0, 0).RotationMatrix()
	ry := NewEulerAngles(0, ea.Y, 0).RotationMatrix()
	rz := NewEulerAngles(0, 0, ea.Z).RotationMatrix()

	v := r3.Vector{X: 0.3, Y: -0.8, Z: 1.5}
	composed := rx.Apply(ry.Apply(rz.Apply(v)))
	direct := ea.RotationMatrix().Apply(v)
	test.That(t, composed.Sub(direct).Norm(), test.ShouldBeLessThan, 1e-12)
}

func TestApplyInverse(t *testing.T) {
	rm := NewEulerAngles(0.2, 0.5, -0.9).RotationMatrix()
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, rm.ApplyInverse(rm.Apply(v)).Sub(v).Norm(), test.ShouldBeLessThan, 1e-12)
	test.That(t, rm.Transpose().Apply(v).Sub(rm.ApplyInverse(v)).Norm(), test.ShouldBeLessThan, 1e-12)
}
