package gizmo

import (
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

// cornerSigns enumerates the eight corner handles.
var cornerSigns = [8][3]float64{
	{1, 1, 1},
	{1, 1, -1},
	{1, -1, 1},
	{1, -1, -1},
	{-1, 1, 1},
	{-1, 1, -1},
	{-1, -1, 1},
	{-1, -1, -1},
}

// faceDefs enumerates the six face handles.
var faceDefs = [6]struct {
	axis spatialmath.Axis
	dir  float64
}{
	{spatialmath.AxisX, 1},
	{spatialmath.AxisX, -1},
	{spatialmath.AxisY, 1},
	{spatialmath.AxisY, -1},
	{spatialmath.AxisZ, 1},
	{spatialmath.AxisZ, -1},
}

const (
	cornerCubeSize   = 0.12
	cornerProxySize  = 0.3
	edgeProxyScale   = 1.6
	axisArrowLift    = 0.5
	selectedFacePush = 0.01
)

// Registry is the arena of gizmo handles. Handle world transforms are
// derived from the box and camera each frame (see view.go); the registry
// itself stores only identity and scene objects.
type Registry struct {
	cfg     Config
	models  *scene.ModelRegistry
	handles []*Handle
	follow  FollowRef
}

// NewRegistry builds the full handle catalogue: 8 corners, 6 face arrows, 4
// edge rings and 3 axis translate arrows.
func NewRegistry(cfg Config, models *scene.ModelRegistry) *Registry {
	r := &Registry{cfg: cfg, models: models, follow: DefaultFollowRef()}

	for _, s := range cornerSigns {
		h := &Handle{
			Kind: KindCorner,
			SX:   s[0], SY: s[1], SZ: s[2],
			baseColor: scene.ColorHandle,
		}
		h.Mesh = scene.NewObject("corner", scene.NewCubeGeometry(cornerCubeSize))
		h.Proxy = scene.NewObject("corner-proxy", scene.NewCubeGeometry(cornerProxySize))
		h.Proxy.Visible = false
		r.add(h)
	}

	for _, fd := range faceDefs {
		h := &Handle{
			Kind:      KindFace,
			Axis:      fd.axis,
			Dir:       fd.dir,
			baseColor: scene.ColorHandle,
		}
		h.Mesh = scene.NewObject("face-arrow", models.Geometry(scene.ModelArrow))
		// face arrows start hidden; hover and selection reveal them
		h.Mesh.Visible = false
		h.Mesh.Pickable = false
		r.add(h)
	}

	for i := 0; i < 4; i++ {
		h := &Handle{
			Kind:      KindEdge,
			Index:     i,
			baseColor: scene.ColorHandle,
		}
		h.Mesh = scene.NewObject("edge-ring", models.Geometry(scene.ModelRing))
		h.Proxy = scene.NewObject("edge-ring-proxy",
			scene.NewQuarterRingGeometry(0.5, 0.04*edgeProxyScale, 12, 8))
		h.Proxy.Visible = false
		r.add(h)
	}

	for _, axis := range []spatialmath.Axis{spatialmath.AxisX, spatialmath.AxisY, spatialmath.AxisZ} {
		h := &Handle{
			Kind:      KindAxis,
			Axis:      axis,
			baseColor: axisColor(axis),
		}
		h.Mesh = scene.NewObject("axis-arrow", models.Geometry(scene.ModelArrow))
		r.add(h)
	}

	for _, h := range r.handles {
		h.Mesh.Color = h.baseColor
		h.Mesh.HandleID = h.ID
		if h.Proxy != nil {
			h.Proxy.HandleID = h.ID
		}
	}
	return r
}

func axisColor(axis spatialmath.Axis) colorful.Color {
	switch axis {
	case spatialmath.AxisX:
		return scene.ColorAxisX
	case spatialmath.AxisY:
		return scene.ColorAxisY
	default:
		return scene.ColorAxisZ
	}
}

func (r *Registry) add(h *Handle) {
	h.ID = len(r.handles)
	r.handles = append(r.handles, h)
}

// Handles returns the arena in id order.
func (r *Registry) Handles() []*Handle {
	return r.handles
}

// ByID resolves an arena id, or nil when out of range.
func (r *Registry) ByID(id int) *Handle {
	if id < 0 || id >= len(r.handles) {
		return nil
	}
	return r.handles[id]
}

// Face returns the face handle on the given axis and direction.
func (r *Registry) Face(axis spatialmath.Axis, dir float64) *Handle {
	for _, h := range r.handles {
		if h.Kind == KindFace && h.Axis == axis && h.Dir == dir {
			return h
		}
	}
	return nil
}

// Edge returns the indexed edge handle.
func (r *Registry) Edge(index int) *Handle {
	for _, h := range r.handles {
		if h.Kind == KindEdge && h.Index == index {
			return h
		}
	}
	return nil
}

// Corner returns the corner handle with the given signs.
func (r *Registry) Corner(sx, sy, sz float64) *Handle {
	for _, h := range r.handles {
		if h.Kind == KindCorner && h.SX == sx && h.SY == sy && h.SZ == sz {
			return h
		}
	}
	return nil
}

// AxisArrow returns the translate arrow for the given axis.
func (r *Registry) AxisArrow(axis spatialmath.Axis) *Handle {
	for _, h := range r.handles {
		if h.Kind == KindAxis && h.Axis == axis {
			return h
		}
	}
	return nil
}

// FollowRef returns the current axis-arrow anchor.
func (r *Registry) FollowRef() FollowRef {
	return r.follow
}

// SetFollowRef repoints the axis translate arrows at a different edge or
// corner handle. The gizmo layout changes dramatically between the two, so
// both remain supported.
func (r *Registry) SetFollowRef(ref FollowRef) error {
	switch ref.Kind {
	case KindEdge:
		if ref.Index < 0 || ref.Index > 3 {
			return errors.Errorf("edge index %d out of range", ref.Index)
		}
	case KindCorner:
		if r.Corner(ref.SX, ref.SY, ref.SZ) == nil {
			return errors.Errorf("no corner handle with signs (%v,%v,%v)", ref.SX, ref.SY, ref.SZ)
		}
	default:
		return errors.Errorf("axis arrows can only follow an edge or corner handle, got %s", ref.Kind)
	}
	r.follow = ref
	return nil
}

// followAnchor returns the world position the axis arrows hang from.
func (r *Registry) followAnchor(box *spatialmath.OrientedBox) r3.Vector {
	switch r.follow.Kind {
	case KindCorner:
		return box.Corner(r.follow.SX, r.follow.SY, r.follow.SZ)
	default:
		sx, sz := spatialmath.VerticalEdgeSigns(r.follow.Index)
		return box.LocalToWorld(r3.Vector{
			X: sx * box.HalfExtents.X,
			Z: sz * box.HalfExtents.Z,
		})
	}
}
