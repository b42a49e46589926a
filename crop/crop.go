// Package crop partitions a point cloud against an oriented trim box and
// materializes the cropped cloud on commit.
//
// Classification happens in box-local space: each cloud point is taken
// through the display rotation into world space, then through the inverse
// box transform. The transform engine and renderer never see these local
// coordinates.
package crop

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/cloudtrim/trimbox/pointcloud"
	"github.com/cloudtrim/trimbox/spatialmath"
)

// ErrEmptySelection is returned by Commit when no point of the cloud lies
// inside the trim box.
var ErrEmptySelection = errors.New("no points inside the trim box")

// DefaultBoundaryThreshold is the box-local slack below which an inside
// point counts as boundary.
const DefaultBoundaryThreshold = 0.05

// Partition holds three disjoint index sets over a source cloud. Boundary
// points are inside the box; Inside holds only the non-boundary remainder.
type Partition struct {
	Inside   []int
	Boundary []int
	Outside  []int
}

// Classify partitions every point of the cloud against the box. A point is
// inside when all box-local coordinates are within the half extents, and
// boundary when additionally its smallest slack is at most tau. Points with
// NaN coordinates classify as outside. The classification is strictly
// per-point; calling Classify twice with unchanged inputs yields identical
// index sets.
func Classify(pc *pointcloud.PointCloud, box *spatialmath.OrientedBox, tau float64) (*Partition, error) {
	positions := pc.Positions()
	if len(positions) == 0 || len(positions)%3 != 0 {
		return nil, errors.Wrapf(pointcloud.ErrMalformedBuffer, "positions length %d", len(positions))
	}

	displayRot := pc.Rotation().RotationMatrix()
	part := &Partition{}
	for i := 0; i < len(positions); i += 3 {
		idx := i / 3
		x, y, z := positions[i], positions[i+1], positions[i+2]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) {
			part.Outside = append(part.Outside, idx)
			continue
		}
		world := displayRot.Apply(r3.Vector{X: x, Y: y, Z: z})
		slack := box.ContainmentSlack(box.WorldToLocal(world))
		switch {
		case slack < 0:
			part.Outside = append(part.Outside, idx)
		case slack <= tau:
			part.Boundary = append(part.Boundary, idx)
		default:
			part.Inside = append(part.Inside, idx)
		}
	}
	return part, nil
}

// Result is the output of a successful Commit.
type Result struct {
	// Cloud contains only the points inside the trim box (boundary
	// included) with colors carried over. It inherits the pre-commit
	// display rotation.
	Cloud *pointcloud.PointCloud
	// Boundary indexes into Cloud, marking the points whose slack was at
	// most the boundary threshold. The cut-silhouette overlay is built
	// from these.
	Boundary []int
}

// Commit snapshots the box, classifies the cloud against it, and returns the
// reduced cloud. The source cloud is left untouched so callers can restore
// it. Commit fails with ErrEmptySelection when nothing is inside; the cloud
// and box are then unmodified.
func Commit(pc *pointcloud.PointCloud, box *spatialmath.OrientedBox, tau float64) (*Result, error) {
	part, err := Classify(pc, box.Clone(), tau)
	if err != nil {
		return nil, err
	}
	kept := make([]int, 0, len(part.Inside)+len(part.Boundary))
	kept = append(kept, part.Inside...)
	kept = append(kept, part.Boundary...)
	if len(kept) == 0 {
		return nil, ErrEmptySelection
	}
	sort.Ints(kept)

	reduced, err := pc.Subset(kept)
	if err != nil {
		return nil, err
	}

	// Re-derive boundary membership as indices into the reduced cloud.
	boundarySet := make(map[int]struct{}, len(part.Boundary))
	for _, i := range part.Boundary {
		boundarySet[i] = struct{}{}
	}
	boundary := make([]int, 0, len(part.Boundary))
	for reducedIdx, srcIdx := range kept {
		if _, ok := boundarySet[srcIdx]; ok {
			boundary = append(boundary, reducedIdx)
		}
	}
	return &Result{Cloud: reduced, Boundary: boundary}, nil
}
