package gizmo

import (
	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

// Hit is the result of resolving a pointer ray against the gizmo. A handle
// pick wins over a bare face pick; Surface distinguishes the two. On a
// surface hit, Handle is the registry's face handle for the struck face and
// Face carries the intersection detail.
type Hit struct {
	Handle   *Handle
	Face     spatialmath.FaceHit
	Distance float64
	Surface  bool
}

// IsHandle reports whether the hit landed on a handle mesh rather than a
// bare box face.
func (h Hit) IsHandle() bool {
	return h.Handle != nil && !h.Surface
}

// HitTest resolves a pointer ray in two passes. Handles come first so a
// corner cube sitting on a face can always be grabbed; only when no handle is
// under the pointer does the box surface itself answer.
func (r *Registry) HitTest(ray spatialmath.Ray, box *spatialmath.OrientedBox) (Hit, bool) {
	if hit, ok := r.hitHandles(ray); ok {
		return hit, true
	}
	return r.hitSurface(ray, box)
}

func (r *Registry) hitSurface(ray spatialmath.Ray, box *spatialmath.OrientedBox) (Hit, bool) {
	face, ok := box.IntersectRay(ray)
	if !ok {
		return Hit{}, false
	}
	return Hit{
		Handle:   r.Face(face.Axis, face.Dir),
		Face:     face,
		Distance: face.Point.Sub(ray.Origin).Norm(),
		Surface:  true,
	}, true
}

func (r *Registry) hitHandles(ray spatialmath.Ray) (Hit, bool) {
	var best Hit
	found := false
	for _, h := range r.handles {
		for _, obj := range h.objects() {
			if !obj.Pickable || obj.Decoration {
				continue
			}
			dist, ok := obj.IntersectRay(ray, r.cfg.LineThreshold)
			if !ok {
				continue
			}
			if !found || dist < best.Distance {
				target := r.ByID(obj.HandleID)
				if target == nil {
					continue
				}
				best = Hit{Handle: target, Distance: dist}
				found = true
			}
		}
	}
	return best, found
}

// HitTestScene is the variant used when handle meshes live in an external
// scene graph: any pickable object carrying a handle id resolves back through
// the arena.
func (r *Registry) HitTestScene(ray spatialmath.Ray, objs []*scene.Object, box *spatialmath.OrientedBox) (Hit, bool) {
	var best Hit
	found := false
	for _, obj := range objs {
		if !obj.Pickable || obj.Decoration || obj.HandleID == scene.NoHandle {
			continue
		}
		dist, ok := obj.IntersectRay(ray, r.cfg.LineThreshold)
		if !ok {
			continue
		}
		if !found || dist < best.Distance {
			target := r.ByID(obj.HandleID)
			if target == nil {
				continue
			}
			best = Hit{Handle: target, Distance: dist}
			found = true
		}
	}
	if found {
		return best, true
	}
	return r.hitSurface(ray, box)
}
