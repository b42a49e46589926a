package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// AxisAlignedBox is an axis-aligned bounding box kept as a min/max corner
// pair.
type AxisAlignedBox struct {
	Min r3.Vector
	Max r3.Vector
}

// NewEmptyAxisAlignedBox returns a box that contains nothing; merging any
// point into it yields a box containing exactly that point.
func NewEmptyAxisAlignedBox() *AxisAlignedBox {
	return &AxisAlignedBox{
		Min: r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
}

// IsEmpty returns whether any point has been merged into the box.
func (ab *AxisAlignedBox) IsEmpty() bool {
	return ab.Min.X > ab.Max.X
}

// Merge grows the box to contain the given point.
func (ab *AxisAlignedBox) Merge(p r3.Vector) {
	ab.Min.X = math.Min(ab.Min.X, p.X)
	ab.Min.Y = math.Min(ab.Min.Y, p.Y)
	ab.Min.Z = math.Min(ab.Min.Z, p.Z)
	ab.Max.X = math.Max(ab.Max.X, p.X)
	ab.Max.Y = math.Max(ab.Max.Y, p.Y)
	ab.Max.Z = math.Max(ab.Max.Z, p.Z)
}

// Center returns the box center.
func (ab *AxisAlignedBox) Center() r3.Vector {
	return ab.Min.Add(ab.Max).Mul(0.5)
}

// HalfExtents returns half the box size on each axis.
func (ab *AxisAlignedBox) HalfExtents() r3.Vector {
	return ab.Max.Sub(ab.Min).Mul(0.5)
}

// Inflated returns a copy of the box grown by the given fraction of its size
// on each axis, e.g. 0.05 grows each side by 5%.
func (ab *AxisAlignedBox) Inflated(fraction r3.Vector) *AxisAlignedBox {
	h := ab.HalfExtents()
	grow := r3.Vector{X: h.X * fraction.X, Y: h.Y * fraction.Y, Z: h.Z * fraction.Z}
	return &AxisAlignedBox{
		Min: ab.Min.Sub(grow),
		Max: ab.Max.Add(grow),
	}
}
