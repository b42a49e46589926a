// Package pointcloud defines the dense, immutable point cloud the trim-box
// slicer operates on.
//
// Positions and colors are flat parallel buffers of length 3N. A display
// rotation is kept beside the buffers; it is applied when mapping local
// cloud points into world space and never mutates the buffers themselves.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/cloudtrim/trimbox/spatialmath"
)

// ErrMalformedBuffer is returned when a buffer length is not a multiple of
// three or the color buffer does not parallel the position buffer.
var ErrMalformedBuffer = errors.New("buffer length must be a positive multiple of 3")

// PointCloud is an immutable set of 3D positions with optional per-point RGB
// colors and a display rotation.
type PointCloud struct {
	positions []float64
	colors    []float64
	rotation  *spatialmath.EulerAngles
	bounds    *spatialmath.AxisAlignedBox
}

// New returns a cloud over the given position buffer (length 3N) and
// optional color buffer (length 3N, components in [0, 1], or nil).
// The buffers are not copied; callers must not mutate them afterwards.
func New(positions, colors []float64) (*PointCloud, error) {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return nil, errors.Wrapf(ErrMalformedBuffer, "positions length %d", len(positions))
	}
	if colors != nil && len(colors) != len(positions) {
		return nil, errors.Wrapf(ErrMalformedBuffer, "colors length %d does not match positions length %d",
			len(colors), len(positions))
	}
	bounds := spatialmath.NewEmptyAxisAlignedBox()
	for i := 0; i < len(positions); i += 3 {
		x, y, z := positions[i], positions[i+1], positions[i+2]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) {
			continue
		}
		bounds.Merge(r3.Vector{X: x, Y: y, Z: z})
	}
	return &PointCloud{
		positions: positions,
		colors:    colors,
		rotation:  spatialmath.NewZeroEulerAngles(),
		bounds:    bounds,
	}, nil
}

// Size returns the number of points in the cloud.
func (pc *PointCloud) Size() int {
	return len(pc.positions) / 3
}

// HasColor returns whether the cloud carries a color buffer.
func (pc *PointCloud) HasColor() bool {
	return pc.colors != nil
}

// At returns the i-th point in cloud-local space.
func (pc *PointCloud) At(i int) r3.Vector {
	return r3.Vector{X: pc.positions[3*i], Y: pc.positions[3*i+1], Z: pc.positions[3*i+2]}
}

// ColorAt returns the RGB components of the i-th point. The zero color is
// returned for uncolored clouds.
func (pc *PointCloud) ColorAt(i int) (r, g, b float64) {
	if pc.colors == nil {
		return 0, 0, 0
	}
	return pc.colors[3*i], pc.colors[3*i+1], pc.colors[3*i+2]
}

// Positions returns the backing position buffer. It must be treated as
// read-only.
func (pc *PointCloud) Positions() []float64 {
	return pc.positions
}

// Colors returns the backing color buffer, or nil. It must be treated as
// read-only.
func (pc *PointCloud) Colors() []float64 {
	return pc.colors
}

// Rotation returns the display rotation applied when mapping cloud points
// into world space.
func (pc *PointCloud) Rotation() *spatialmath.EulerAngles {
	return pc.rotation
}

// SetRotation replaces the display rotation. The point buffers are never
// rotated in place.
func (pc *PointCloud) SetRotation(rotation *spatialmath.EulerAngles) {
	if rotation == nil {
		rotation = spatialmath.NewZeroEulerAngles()
	}
	pc.rotation = rotation
}

// Bounds returns the axis-aligned bounds of the cloud in cloud-local space.
// NaN coordinates are excluded.
func (pc *PointCloud) Bounds() *spatialmath.AxisAlignedBox {
	return pc.bounds
}

// WorldBounds returns the axis-aligned bounds of the cloud in world space,
// with the display rotation applied to every point. NaN coordinates are
// excluded.
func (pc *PointCloud) WorldBounds() *spatialmath.AxisAlignedBox {
	if *pc.rotation == (spatialmath.EulerAngles{}) {
		return pc.bounds
	}
	rot := pc.rotation.RotationMatrix()
	bounds := spatialmath.NewEmptyAxisAlignedBox()
	for i := 0; i < len(pc.positions); i += 3 {
		x, y, z := pc.positions[i], pc.positions[i+1], pc.positions[i+2]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) {
			continue
		}
		bounds.Merge(rot.Apply(r3.Vector{X: x, Y: y, Z: z}))
	}
	return bounds
}

// Iterate calls fn for each point in cloud-local space until fn returns
// false.
func (pc *PointCloud) Iterate(fn func(i int, p r3.Vector) bool) {
	for i := 0; i < pc.Size(); i++ {
		if !fn(i, pc.At(i)) {
			return
		}
	}
}

// Subset returns a new cloud containing only the points at the given
// indices, colors carried over in parallel. The new cloud inherits the
// display rotation of the source.
func (pc *PointCloud) Subset(indices []int) (*PointCloud, error) {
	if len(indices) == 0 {
		return nil, errors.New("cannot build a cloud from zero points")
	}
	positions := make([]float64, 0, 3*len(indices))
	var colors []float64
	if pc.colors != nil {
		colors = make([]float64, 0, 3*len(indices))
	}
	for _, i := range indices {
		positions = append(positions, pc.positions[3*i], pc.positions[3*i+1], pc.positions[3*i+2])
		if colors != nil {
			colors = append(colors, pc.colors[3*i], pc.colors[3*i+1], pc.colors[3*i+2])
		}
	}
	sub, err := New(positions, colors)
	if err != nil {
		return nil, err
	}
	sub.SetRotation(pc.rotation.Clone())
	return sub, nil
}
