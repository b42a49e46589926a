package gizmo

import "github.com/cloudtrim/trimbox/spatialmath"

// State is the manipulator's interaction mode.
type State int

// Interaction states. FaceArmed is a press on the bare box surface with the
// long-press deadline pending; it resolves into a face selection on release
// or a free translate if the pointer dwells.
const (
	StateIdle State = iota
	StateHovering
	StateFaceArmed
	StateDragging
	StateCancelling
)

func (s State) String() string {
	return [...]string{"idle", "hovering", "face-armed", "dragging", "cancelling"}[s]
}

// dragState is the live drag context: the handle being dragged, the box
// snapshot captured at drag start, and the pointer origin. Deltas are always
// measured from the origin and applied to the snapshot, never chained.
type dragState struct {
	handle *Handle
	anchor *spatialmath.OrientedBox
	startX float64
	startY float64
	// free marks a long-press free translate, which drags the box itself
	// rather than any handle.
	free bool
}
