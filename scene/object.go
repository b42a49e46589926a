// Package scene defines the renderable-object abstraction the manipulator
// feeds to the host renderer, the sink and orbit-gate contracts, and the
// procedural gizmo geometry used until external handle models load.
package scene

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/cloudtrim/trimbox/spatialmath"
)

// Sink accepts renderable objects from the core. The host renderer
// implements it.
type Sink interface {
	Add(obj *Object)
	Remove(obj *Object)
}

// OrbitGate lets the core suspend the host's orbit controller while a drag
// is active.
type OrbitGate interface {
	Enable()
	Disable()
}

// NoHandle marks an object that does not resolve to a manipulator handle.
const NoHandle = -1

// Object is one renderable node: geometry plus a world transform and
// material-ish state. Handle meshes carry the integer id of their owning
// handle so ray hits resolve through a flat id lookup instead of a
// parent-chain walk.
type Object struct {
	Name     string
	Geometry *Geometry

	Position r3.Vector
	Rotation *spatialmath.EulerAngles
	Scale    float64

	Color       colorful.Color
	Opacity     float64
	DepthTest   bool
	RenderOrder int

	Visible bool
	// Pickable objects participate in ray hit tests even when invisible;
	// enlarged hit proxies are pickable and not visible.
	Pickable bool
	// Decoration objects (grid, sky sphere, axis visualizers) never
	// participate in hit tests.
	Decoration bool

	// HandleID is the arena index of the owning handle, or NoHandle.
	HandleID int

	// PointSize applies to point-kind geometry only.
	PointSize float64
}

// NewObject returns a visible, pickable object with identity transform.
func NewObject(name string, g *Geometry) *Object {
	return &Object{
		Name:      name,
		Geometry:  g,
		Rotation:  spatialmath.NewZeroEulerAngles(),
		Scale:     1,
		Color:     colorful.Color{R: 1, G: 1, B: 1},
		Opacity:   1,
		DepthTest: true,
		Visible:   true,
		Pickable:  true,
		HandleID:  NoHandle,
	}
}

// transform applies the object's scale, rotation and position to a local
// vertex.
func (o *Object) transform(v r3.Vector) r3.Vector {
	rm := o.Rotation.RotationMatrix()
	return rm.Apply(v.Mul(o.Scale)).Add(o.Position)
}

// WorldVertex returns the i-th geometry vertex in world space.
func (o *Object) WorldVertex(i int) r3.Vector {
	return o.transform(o.Geometry.Vertices[i])
}

// IntersectRay returns the closest distance along the ray at which it hits
// the object's triangles, or, for segment geometry, comes within the given
// line threshold of a segment. The second return is false on a miss.
func (o *Object) IntersectRay(ray spatialmath.Ray, lineThreshold float64) (float64, bool) {
	if o.Geometry == nil {
		return 0, false
	}
	best := math.Inf(1)
	for _, tri := range o.Geometry.Triangles {
		p0 := o.WorldVertex(tri[0])
		p1 := o.WorldVertex(tri[1])
		p2 := o.WorldVertex(tri[2])
		if t, ok := ray.IntersectTriangle(p0, p1, p2); ok && t < best {
			best = t
		}
	}
	for _, seg := range o.Geometry.Segments {
		a := o.WorldVertex(seg[0])
		b := o.WorldVertex(seg[1])
		if dist, along := ray.DistanceToSegment(a, b); dist <= lineThreshold && along < best {
			best = along
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
