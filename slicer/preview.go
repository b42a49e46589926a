package slicer

import (
	"github.com/golang/geo/r3"

	"github.com/cloudtrim/trimbox/crop"
	"github.com/cloudtrim/trimbox/pointcloud"
	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

const (
	basePointSize     = 1.0
	boundaryPointSize = 2.0

	previewRenderOrder = 90
)

// previewObjects are the three renderables of one classification tick. Any
// of them may be nil when its index set is empty.
type previewObjects struct {
	inside   *scene.Object
	boundary *scene.Object
	outside  *scene.Object
}

func (p *previewObjects) all() []*scene.Object {
	var objs []*scene.Object
	for _, obj := range []*scene.Object{p.inside, p.boundary, p.outside} {
		if obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs
}

// classifyLocked runs the crop kernel against the given box and replaces the
// preview objects. It runs on every box mutation and must observe only the
// post-mutation box. Old objects are removed from the sink before their
// replacements are added.
func (s *Slicer) classifyLocked(box *spatialmath.OrientedBox) {
	if s.active == nil {
		return
	}
	part, err := crop.Classify(s.active, box, s.tau)
	if err != nil {
		s.logger.Errorw("classification failed", "error", err)
		return
	}

	s.disposePreviewLocked()
	if s.baseObj != nil {
		s.baseObj.Visible = false
	}

	if len(part.Inside) > 0 {
		s.preview.inside = newCloudObject("preview-inside", s.active, part.Inside)
	}
	if len(part.Boundary) > 0 {
		obj := newCloudObject("preview-boundary", s.active, part.Boundary)
		obj.Geometry.VertexColors = nil
		obj.Color = scene.ColorBoundary
		obj.PointSize = boundaryPointSize
		obj.DepthTest = false
		obj.RenderOrder = previewRenderOrder
		s.preview.boundary = obj
	}
	if len(part.Outside) > 0 {
		obj := newCloudObject("preview-outside", s.active, part.Outside)
		obj.Opacity = s.outsideOpacity
		obj.Visible = s.outsideVisible
		s.preview.outside = obj
	}
	for _, obj := range s.preview.all() {
		s.sink.Add(obj)
	}
}

func (s *Slicer) disposePreviewLocked() {
	for _, obj := range s.preview.all() {
		s.sink.Remove(obj)
	}
	s.preview = previewObjects{}
}

// buildOverlayLocked renders the cut silhouette after a commit: the boundary
// subset of the reduced cloud in white, floating above everything.
func (s *Slicer) buildOverlayLocked(res *crop.Result) {
	s.removeOverlayLocked()
	if len(res.Boundary) == 0 {
		return
	}
	obj := newCloudObject("boundary-overlay", res.Cloud, res.Boundary)
	obj.Geometry.VertexColors = nil
	obj.Color = scene.ColorBoundary
	obj.PointSize = boundaryPointSize
	obj.DepthTest = false
	obj.RenderOrder = previewRenderOrder
	s.overlay = obj
	s.sink.Add(obj)
}

func (s *Slicer) removeOverlayLocked() {
	if s.overlay == nil {
		return
	}
	s.sink.Remove(s.overlay)
	s.overlay = nil
}

// newCloudObject builds a point renderable over a subset of a cloud,
// carrying the cloud's colors and display rotation. A nil index slice takes
// every point.
func newCloudObject(name string, pc *pointcloud.PointCloud, indices []int) *scene.Object {
	size := pc.Size()
	if indices != nil {
		size = len(indices)
	}
	points := make([]r3.Vector, 0, size)
	var colors []float64
	if pc.HasColor() {
		colors = make([]float64, 0, 3*size)
	}
	appendPoint := func(i int) {
		points = append(points, pc.At(i))
		if colors != nil {
			r, g, b := pc.ColorAt(i)
			colors = append(colors, r, g, b)
		}
	}
	if indices == nil {
		for i := 0; i < size; i++ {
			appendPoint(i)
		}
	} else {
		for _, i := range indices {
			appendPoint(i)
		}
	}

	obj := scene.NewObject(name, scene.NewColoredPointsGeometry(points, colors))
	obj.Rotation = pc.Rotation().Clone()
	obj.PointSize = basePointSize
	obj.Pickable = false
	obj.Decoration = true
	return obj
}
