package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"

	"github.com/cloudtrim/trimbox/spatialmath"
)

// RobustBounds returns percentile-clipped bounds of the cloud in cloud-local
// space, discarding the fraction of extreme values given by trim on each end
// of every axis (e.g. trim = 0.01 keeps the 1st through 99th percentile).
// Scanner clouds often carry a handful of stray far points; framing and
// full-range presets built on these bounds are not thrown off by them.
func RobustBounds(pc *PointCloud, trim float64) (*spatialmath.AxisAlignedBox, error) {
	if trim <= 0 {
		b := pc.Bounds()
		return &spatialmath.AxisAlignedBox{Min: b.Min, Max: b.Max}, nil
	}

	n := pc.Size()
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	zs := make([]float64, 0, n)
	pc.Iterate(func(_ int, p r3.Vector) bool {
		if !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			zs = append(zs, p.Z)
		}
		return true
	})

	lo := trim * 100
	hi := 100 - lo
	bounds := spatialmath.NewEmptyAxisAlignedBox()
	for _, axis := range []struct {
		vals []float64
		set  func(lo, hi float64)
	}{
		{xs, func(l, h float64) { bounds.Min.X, bounds.Max.X = l, h }},
		{ys, func(l, h float64) { bounds.Min.Y, bounds.Max.Y = l, h }},
		{zs, func(l, h float64) { bounds.Min.Z, bounds.Max.Z = l, h }},
	} {
		low, err := stats.Percentile(axis.vals, lo)
		if err != nil {
			return nil, err
		}
		high, err := stats.Percentile(axis.vals, hi)
		if err != nil {
			return nil, err
		}
		axis.set(low, high)
	}
	return bounds, nil
}
