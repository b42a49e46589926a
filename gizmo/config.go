package gizmo

import (
	"time"

	"github.com/pkg/errors"

	"github.com/cloudtrim/trimbox/spatialmath"
)

// Sensitivity attenuates raw NDC deltas per drag kind before they are
// projected into world space.
type Sensitivity struct {
	Face      float64 `json:"face"`
	Edge      float64 `json:"edge"`
	Corner    float64 `json:"corner"`
	Translate float64 `json:"translate"`
}

// Config is the serializable manipulator configuration.
type Config struct {
	// ArrowOffset is how far outward from a box face its arrow sits.
	ArrowOffset float64 `json:"arrow_offset"`
	// PivotCompensation shifts the arrow back by the model's internal
	// pivot offset so the arrow base lands on the face regardless of how
	// the model was authored.
	PivotCompensation float64 `json:"pivot_compensation"`
	// BoundaryThreshold is the box-local slack below which an inside
	// point renders as boundary.
	BoundaryThreshold float64 `json:"boundary_threshold"`
	// LongPressMs is the dwell that promotes a face press into a free
	// translate.
	LongPressMs int `json:"long_press_ms"`
	// Sensitivity holds the per-kind drag multipliers.
	Sensitivity Sensitivity `json:"sensitivity"`
	// HandleReferenceDistance is the camera distance at which handles
	// render at their authored size.
	HandleReferenceDistance float64 `json:"handle_reference_distance"`
	// ZArrowBillboardAxis is the rotation axis ("x", "y" or "z") used to
	// face the Z arrows toward the camera.
	ZArrowBillboardAxis string `json:"z_arrow_billboard_axis"`
	// LineThreshold is the pick distance for segment geometry.
	LineThreshold float64 `json:"line_threshold"`
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		ArrowOffset:             0.25,
		PivotCompensation:       0.0,
		BoundaryThreshold:       0.05,
		LongPressMs:             200,
		Sensitivity:             Sensitivity{Face: 3, Edge: 4, Corner: 3, Translate: 2},
		HandleReferenceDistance: 10,
		ZArrowBillboardAxis:     "y",
		LineThreshold:           0.05,
	}
}

// Validate checks ranges and fills zero values with defaults.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.ArrowOffset == 0 {
		c.ArrowOffset = def.ArrowOffset
	}
	if c.BoundaryThreshold == 0 {
		c.BoundaryThreshold = def.BoundaryThreshold
	}
	if c.BoundaryThreshold < 0.001 || c.BoundaryThreshold > 0.2 {
		return errors.Errorf("boundary threshold %f outside [0.001, 0.2]", c.BoundaryThreshold)
	}
	if c.LongPressMs == 0 {
		c.LongPressMs = def.LongPressMs
	}
	if c.LongPressMs < 0 {
		return errors.Errorf("long press duration must be positive, got %d", c.LongPressMs)
	}
	if c.Sensitivity == (Sensitivity{}) {
		c.Sensitivity = def.Sensitivity
	}
	if c.HandleReferenceDistance == 0 {
		c.HandleReferenceDistance = def.HandleReferenceDistance
	}
	if c.HandleReferenceDistance < 0 {
		return errors.New("handle reference distance must be positive")
	}
	switch c.ZArrowBillboardAxis {
	case "":
		c.ZArrowBillboardAxis = def.ZArrowBillboardAxis
	case "x", "y", "z":
	default:
		return errors.Errorf("unrecognized z arrow billboard axis %q", c.ZArrowBillboardAxis)
	}
	if c.LineThreshold == 0 {
		c.LineThreshold = def.LineThreshold
	}
	return nil
}

// LongPressDuration returns the long-press dwell as a duration.
func (c *Config) LongPressDuration() time.Duration {
	return time.Duration(c.LongPressMs) * time.Millisecond
}

// BillboardAxis returns the configured Z arrow billboard axis.
func (c *Config) BillboardAxis() spatialmath.Axis {
	switch c.ZArrowBillboardAxis {
	case "x":
		return spatialmath.AxisX
	case "z":
		return spatialmath.AxisZ
	default:
		return spatialmath.AxisY
	}
}
