// Package camera defines the camera contract the manipulator consumes and a
// pinhole reference implementation.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/cloudtrim/trimbox/spatialmath"
)

// Camera provides the pose, projection and basis the manipulator needs to
// map between NDC and world space. Implementations wrap whatever rendering
// camera the host uses.
type Camera interface {
	// Position returns the camera position in world space.
	Position() r3.Vector

	// Right, Up and Forward return the camera basis in world space.
	Right() r3.Vector
	Up() r3.Vector
	Forward() r3.Vector

	// FOV returns the vertical field of view in radians.
	FOV() float64

	// Aspect returns the viewport width over height.
	Aspect() float64

	// Project maps a world point to NDC in [-1, 1]^2. The second return
	// is false when the point is behind the camera.
	Project(world r3.Vector) (mgl64.Vec2, bool)

	// RayThrough returns the world-space ray through the given NDC
	// coordinates.
	RayThrough(mx, my float64) spatialmath.Ray
}

// ViewPlaneScale returns the world length covered by a unit NDC delta at the
// depth of the given anchor: 2 * tan(fov/2) * distance.
func ViewPlaneScale(cam Camera, anchor r3.Vector) float64 {
	dist := anchor.Sub(cam.Position()).Norm()
	return 2 * math.Tan(cam.FOV()/2) * dist
}

// ViewPlaneDelta maps an NDC delta to a world displacement in the camera's
// view plane at the depth of the anchor. Horizontal deltas are corrected by
// the aspect ratio so a square on screen is a square in world space.
func ViewPlaneDelta(cam Camera, anchor r3.Vector, dx, dy float64) r3.Vector {
	scale := ViewPlaneScale(cam, anchor)
	return cam.Right().Mul(dx * scale * cam.Aspect()).Add(cam.Up().Mul(dy * scale))
}
