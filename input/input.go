// Package input normalizes host pointer events for the manipulator: NDC
// coordinates, button and modifier state, and the long-press timer.
package input

import "time"

// EventKind discriminates pointer events.
type EventKind int

// The pointer event kinds the manipulator reacts to. Leave and Cancel (loss
// of pointer capture, window blur) both route into the manipulator's
// tear-down path.
const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerLeave
	PointerCancel
)

func (k EventKind) String() string {
	return [...]string{"down", "move", "up", "leave", "cancel"}[k]
}

// Button identifies which pointer button an event refers to.
type Button int

// Pointer buttons.
const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Modifiers is the modifier-key state captured with an event. Primary is
// Command on macOS and Ctrl elsewhere.
type Modifiers struct {
	Shift   bool
	Primary bool
	Alt     bool
}

// PointerEvent is one normalized pointer event. X and Y are NDC coordinates
// in [-1, 1] with +Y up. Timestamp is monotonic.
type PointerEvent struct {
	Kind      EventKind
	X, Y      float64
	Button    Button
	Mods      Modifiers
	Timestamp time.Duration
}

// Handler consumes normalized pointer events.
type Handler interface {
	HandlePointerEvent(ev PointerEvent)
}

// Source emits pointer events to a single subscribed handler. Host adapters
// (browser canvas, native window) implement this.
type Source interface {
	Subscribe(h Handler)
	Unsubscribe()
}
