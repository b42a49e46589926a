// Package gizmo implements the trim-box manipulator: the handle catalogue,
// ray hit testing, the interaction state machine, and the transform engine
// that maps screen-space drags onto box mutations.
package gizmo

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

// Kind discriminates the handle variants.
type Kind int

// The four handle kinds. Face arrows resize one face against its opposite,
// edge rings rotate the box about its up axis, corner cubes resize against
// the diagonal corner, and axis arrows translate along one world axis.
const (
	KindFace Kind = iota
	KindEdge
	KindCorner
	KindAxis
)

func (k Kind) String() string {
	return [...]string{"face", "edge", "corner", "axis"}[k]
}

// Handle is one interactive widget of the gizmo. The Kind tag selects which
// metadata fields are meaningful. Handles live in the registry arena and are
// addressed by ID; their scene objects carry that id for hit resolution.
type Handle struct {
	ID   int
	Kind Kind

	// Face and Axis handles.
	Axis spatialmath.Axis
	// Face handles: +1 or -1.
	Dir float64

	// Edge handles: 0..3 over the four vertical edges.
	Index int

	// Corner handles: ±1 per axis.
	SX, SY, SZ float64

	// Mesh is the visible representation. Proxy, when set, is an
	// invisible enlarged hit target sharing the mesh transform.
	Mesh  *scene.Object
	Proxy *scene.Object

	baseColor colorful.Color
}

func (h *Handle) String() string {
	switch h.Kind {
	case KindFace:
		sign := "+"
		if h.Dir < 0 {
			sign = "-"
		}
		return fmt.Sprintf("face(%s%s)", sign, h.Axis)
	case KindEdge:
		return fmt.Sprintf("edge(%d)", h.Index)
	case KindCorner:
		return fmt.Sprintf("corner(%+.0f,%+.0f,%+.0f)", h.SX, h.SY, h.SZ)
	default:
		return fmt.Sprintf("axis(%s)", h.Axis)
	}
}

// objects returns the handle's scene objects, proxy included.
func (h *Handle) objects() []*scene.Object {
	objs := []*scene.Object{h.Mesh}
	if h.Proxy != nil {
		objs = append(objs, h.Proxy)
	}
	return objs
}

// SetTint recolors the visible mesh, accented or restored to the base color.
func (h *Handle) SetTint(accented bool) {
	if accented {
		h.Mesh.Color = scene.ColorAccent
	} else {
		h.Mesh.Color = h.baseColor
	}
}

// FollowRef selects the handle the three axis translate arrows anchor to:
// either a vertical edge by index or a corner by its sign key.
type FollowRef struct {
	Kind Kind
	// Edge index when Kind == KindEdge.
	Index int
	// Corner signs when Kind == KindCorner.
	SX, SY, SZ float64
}

// DefaultFollowRef anchors the axis arrows to edge #3, the (-x,-z) vertical
// edge.
func DefaultFollowRef() FollowRef {
	return FollowRef{Kind: KindEdge, Index: 3}
}
