package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// Geometry is an indexed set of vertices with optional triangle and segment
// topology. Geometry with neither is rendered as points.
type Geometry struct {
	Vertices  []r3.Vector
	Triangles [][3]int
	Segments  [][2]int

	// VertexColors, when set, is a flat RGB buffer paralleling Vertices.
	// Per-vertex colors override the owning object's color; point-cloud
	// previews use them to keep the cloud's native coloring.
	VertexColors []float64
}

// NewCubeGeometry returns a cube of the given edge length centered on the
// origin.
func NewCubeGeometry(size float64) *Geometry {
	h := size / 2
	g := &Geometry{
		Vertices: []r3.Vector{
			{X: h, Y: h, Z: h},
			{X: h, Y: h, Z: -h},
			{X: h, Y: -h, Z: h},
			{X: h, Y: -h, Z: -h},
			{X: -h, Y: h, Z: h},
			{X: -h, Y: h, Z: -h},
			{X: -h, Y: -h, Z: h},
			{X: -h, Y: -h, Z: -h},
		},
	}
	g.Triangles = [][3]int{
		{0, 1, 3}, {0, 3, 2},
		{4, 6, 7}, {4, 7, 5},
		{0, 4, 5}, {0, 5, 1},
		{2, 3, 7}, {2, 7, 6},
		{0, 2, 6}, {0, 6, 4},
		{1, 5, 7}, {1, 7, 3},
	}
	return g
}

// NewBoxGeometry returns a box with the given half extents centered on the
// origin, sharing the cube topology.
func NewBoxGeometry(halfExtents r3.Vector) *Geometry {
	g := NewCubeGeometry(2)
	for i, v := range g.Vertices {
		g.Vertices[i] = r3.Vector{X: v.X * halfExtents.X, Y: v.Y * halfExtents.Y, Z: v.Z * halfExtents.Z}
	}
	return g
}

// NewWireBoxGeometry returns the 12 edges of a box with the given half
// extents as segment geometry.
func NewWireBoxGeometry(halfExtents r3.Vector) *Geometry {
	g := NewBoxGeometry(halfExtents)
	g.Triangles = nil
	g.Segments = [][2]int{
		{0, 1}, {0, 2}, {0, 4},
		{1, 3}, {1, 5},
		{2, 3}, {2, 6},
		{3, 7},
		{4, 5}, {4, 6},
		{5, 7},
		{6, 7},
	}
	return g
}

// NewArrowGeometry returns a +Y pointing arrow: a cylindrical shaft with a
// cone head, base at the origin. This is the procedural fallback used until
// an external arrow model loads.
func NewArrowGeometry(shaftLen, shaftRadius, headLen, headRadius float64, segments int) *Geometry {
	if segments < 3 {
		segments = 12
	}
	g := &Geometry{}

	// shaft rings at y=0 and y=shaftLen, head ring at y=shaftLen, tip
	baseRing := make([]int, segments)
	topRing := make([]int, segments)
	headRing := make([]int, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		c, s := math.Cos(a), math.Sin(a)
		baseRing[i] = len(g.Vertices)
		g.Vertices = append(g.Vertices, r3.Vector{X: shaftRadius * c, Z: shaftRadius * s})
		topRing[i] = len(g.Vertices)
		g.Vertices = append(g.Vertices, r3.Vector{X: shaftRadius * c, Y: shaftLen, Z: shaftRadius * s})
		headRing[i] = len(g.Vertices)
		g.Vertices = append(g.Vertices, r3.Vector{X: headRadius * c, Y: shaftLen, Z: headRadius * s})
	}
	tip := len(g.Vertices)
	g.Vertices = append(g.Vertices, r3.Vector{Y: shaftLen + headLen})
	base := len(g.Vertices)
	g.Vertices = append(g.Vertices, r3.Vector{})

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		// shaft wall
		g.Triangles = append(g.Triangles,
			[3]int{baseRing[i], topRing[i], topRing[j]},
			[3]int{baseRing[i], topRing[j], baseRing[j]})
		// head underside and cone
		g.Triangles = append(g.Triangles,
			[3]int{topRing[i], headRing[i], headRing[j]},
			[3]int{topRing[i], headRing[j], topRing[j]},
			[3]int{headRing[i], tip, headRing[j]})
		// shaft base cap
		g.Triangles = append(g.Triangles, [3]int{base, baseRing[i], baseRing[j]})
	}
	return g
}

// NewQuarterRingGeometry returns a quarter torus in the XZ plane sweeping
// from +X toward +Z, centered on the origin. This is the procedural fallback
// for the edge rotation handles.
func NewQuarterRingGeometry(radius, tubeRadius float64, arcSegments, tubeSegments int) *Geometry {
	if arcSegments < 2 {
		arcSegments = 8
	}
	if tubeSegments < 3 {
		tubeSegments = 6
	}
	g := &Geometry{}
	ring := make([][]int, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		arc := (math.Pi / 2) * float64(i) / float64(arcSegments)
		centerOfTube := r3.Vector{X: radius * math.Cos(arc), Z: radius * math.Sin(arc)}
		outward := centerOfTube.Normalize()
		ring[i] = make([]int, tubeSegments)
		for j := 0; j < tubeSegments; j++ {
			t := 2 * math.Pi * float64(j) / float64(tubeSegments)
			offset := outward.Mul(tubeRadius * math.Cos(t)).Add(r3.Vector{Y: tubeRadius * math.Sin(t)})
			ring[i][j] = len(g.Vertices)
			g.Vertices = append(g.Vertices, centerOfTube.Add(offset))
		}
	}
	for i := 0; i < arcSegments; i++ {
		for j := 0; j < tubeSegments; j++ {
			k := (j + 1) % tubeSegments
			g.Triangles = append(g.Triangles,
				[3]int{ring[i][j], ring[i+1][j], ring[i+1][k]},
				[3]int{ring[i][j], ring[i+1][k], ring[i][k]})
		}
	}
	return g
}

// NewQuadGeometry returns a two-triangle quad in the XY plane centered on
// the origin.
func NewQuadGeometry(width, height float64) *Geometry {
	w, h := width/2, height/2
	return &Geometry{
		Vertices: []r3.Vector{
			{X: -w, Y: -h},
			{X: w, Y: -h},
			{X: w, Y: h},
			{X: -w, Y: h},
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// NewSegmentsGeometry returns line geometry over the given world endpoint
// pairs.
func NewSegmentsGeometry(pairs [][2]r3.Vector) *Geometry {
	g := &Geometry{}
	for _, p := range pairs {
		i := len(g.Vertices)
		g.Vertices = append(g.Vertices, p[0], p[1])
		g.Segments = append(g.Segments, [2]int{i, i + 1})
	}
	return g
}

// NewPointsGeometry returns point geometry over the given vertices.
func NewPointsGeometry(points []r3.Vector) *Geometry {
	return &Geometry{Vertices: points}
}

// NewColoredPointsGeometry returns point geometry carrying a parallel RGB
// buffer. colors may be nil for an uncolored cloud.
func NewColoredPointsGeometry(points []r3.Vector, colors []float64) *Geometry {
	return &Geometry{Vertices: points, VertexColors: colors}
}
