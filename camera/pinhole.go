package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/cloudtrim/trimbox/spatialmath"
)

// Pinhole is a perspective camera defined by a position, a look-at target
// and a vertical field of view.
type Pinhole struct {
	position r3.Vector
	target   r3.Vector
	worldUp  r3.Vector
	fov      float64
	aspect   float64
	near     float64
	far      float64
}

// NewPinhole returns a pinhole camera looking from position at target with
// the given vertical FOV in radians and aspect ratio.
func NewPinhole(position, target r3.Vector, fov, aspect float64) *Pinhole {
	return &Pinhole{
		position: position,
		target:   target,
		worldUp:  r3.Vector{Y: 1},
		fov:      fov,
		aspect:   aspect,
		near:     0.01,
		far:      10000,
	}
}

// MoveTo repositions the camera, keeping the target.
func (p *Pinhole) MoveTo(position r3.Vector) {
	p.position = position
}

// LookAt retargets the camera.
func (p *Pinhole) LookAt(target r3.Vector) {
	p.target = target
}

// Position returns the camera position.
func (p *Pinhole) Position() r3.Vector {
	return p.position
}

// Target returns the look-at target.
func (p *Pinhole) Target() r3.Vector {
	return p.target
}

// Forward returns the unit view direction.
func (p *Pinhole) Forward() r3.Vector {
	return p.target.Sub(p.position).Normalize()
}

// Right returns the unit right vector of the camera basis. When the view
// direction is parallel to the world up axis the cross product degenerates;
// world X serves as the right vector there.
func (p *Pinhole) Right() r3.Vector {
	right := p.Forward().Cross(p.worldUp)
	if right.Norm2() < 1e-12 {
		return r3.Vector{X: 1}
	}
	return right.Normalize()
}

// Up returns the unit up vector of the camera basis.
func (p *Pinhole) Up() r3.Vector {
	return p.Right().Cross(p.Forward())
}

// FOV returns the vertical field of view in radians.
func (p *Pinhole) FOV() float64 {
	return p.fov
}

// Aspect returns the viewport aspect ratio.
func (p *Pinhole) Aspect() float64 {
	return p.aspect
}

func (p *Pinhole) viewProjection() mgl64.Mat4 {
	proj := mgl64.Perspective(p.fov, p.aspect, p.near, p.far)
	view := mgl64.LookAtV(
		mgl64.Vec3{p.position.X, p.position.Y, p.position.Z},
		mgl64.Vec3{p.target.X, p.target.Y, p.target.Z},
		mgl64.Vec3{p.worldUp.X, p.worldUp.Y, p.worldUp.Z},
	)
	return proj.Mul4(view)
}

// Project maps a world point to NDC.
func (p *Pinhole) Project(world r3.Vector) (mgl64.Vec2, bool) {
	clip := p.viewProjection().Mul4x1(mgl64.Vec4{world.X, world.Y, world.Z, 1})
	if clip.W() <= 0 {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()}, true
}

// RayThrough returns the world ray through the given NDC coordinates by
// unprojecting a point on the near plane.
func (p *Pinhole) RayThrough(mx, my float64) spatialmath.Ray {
	inv := p.viewProjection().Inv()
	nearPt := inv.Mul4x1(mgl64.Vec4{mx, my, -1, 1})
	farPt := inv.Mul4x1(mgl64.Vec4{mx, my, 1, 1})
	nearWorld := r3.Vector{
		X: nearPt.X() / nearPt.W(),
		Y: nearPt.Y() / nearPt.W(),
		Z: nearPt.Z() / nearPt.W(),
	}
	farWorld := r3.Vector{
		X: farPt.X() / farPt.W(),
		Y: farPt.Y() / farPt.W(),
		Z: farPt.Z() / farPt.W(),
	}
	return spatialmath.NewRay(p.position, farWorld.Sub(nearWorld))
}
